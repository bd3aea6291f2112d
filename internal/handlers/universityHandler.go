package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/cache"
	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
	"learnhub/internal/utility/log"
)

type universityCourseInput struct {
	Slug            string             `json:"slug"`
	Title           string             `json:"title" validate:"notblank"`
	University      string             `json:"university" validate:"notblank"`
	Level           string             `json:"level"`
	Mode            string             `json:"mode"`
	Duration        string             `json:"duration"`
	Fees            float64            `json:"fees" validate:"gte=0"`
	Description     string             `json:"description"`
	Eligibility     []string           `json:"eligibility"`
	Highlights      []string           `json:"highlights"`
	CareerProspects []string           `json:"careerProspects"`
	SEO             models.SEO         `json:"seo"`
	Contact         models.ContactInfo `json:"contact"`
	Published       bool               `json:"published"`
}

// normalize derives the slug from the title when it is omitted.
func (in *universityCourseInput) normalize() error {
	if strings.TrimSpace(in.Slug) == "" {
		in.Slug = in.Title
	}
	in.Slug = utility.Slugify(in.Slug)
	if err := utility.Validate(in); err != nil {
		return err
	}
	if in.Slug == "" {
		return utility.NewValidationError("slug", "slug must contain letters or digits")
	}
	return nil
}

func universityKey(slug string) string {
	return cache.Key("universityCourses", slug)
}

func (h *Handler) GetUniversityCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := bson.M{}
	for _, field := range []string{"level", "mode", "university"} {
		if v := q.Get(field); v != "" {
			filter[field] = v
		}
	}
	if v := q.Get("published"); v != "" {
		published, err := cast.ToBoolE(v)
		if err != nil {
			response.RespondError(w, r, utility.BadRequest("published must be a boolean"))
			return
		}
		filter["published"] = published
	}

	pageIndex, pageSize := pagination(r)
	repo := h.Collections.UniversityCourses
	total, err := repo.Count(r.Context(), filter)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	courses, err := repo.Find(r.Context(), filter, store.FindOptions{
		Skip:   pageIndex * pageSize,
		Limit:  pageSize,
		Newest: true,
	})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, page{Items: courses, Total: total, PageIndex: pageIndex, PageSize: pageSize})
}

func (h *Handler) GetUniversityCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	key := universityKey(slug)

	var course models.UniversityCourse
	found, err := h.Cache.Get(ctx, key, &course)
	if err != nil {
		log.CtxError(ctx, "cache get %s: %v", key, err)
	}
	if found {
		response.RespondSuccess(w, &course)
		return
	}

	doc, err := h.Collections.UniversityCourses.FindOne(ctx, bson.M{"slug": slug})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = h.Cache.Set(ctx, key, doc); err != nil {
		log.CtxError(ctx, "cache set %s: %v", key, err)
	}
	response.RespondSuccess(w, doc)
}

func (h *Handler) slugTaken(ctx context.Context, slug string) error {
	n, err := h.Collections.UniversityCourses.Count(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if n > 0 {
		return utility.BadRequest("slug %q already exists", slug)
	}
	return nil
}

func (h *Handler) CreateUniversityCourse(w http.ResponseWriter, r *http.Request) {
	var in universityCourseInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err := in.normalize(); err != nil {
		response.RespondError(w, r, err)
		return
	}
	ctx := r.Context()
	if err := h.slugTaken(ctx, in.Slug); err != nil {
		response.RespondError(w, r, err)
		return
	}

	course := &models.UniversityCourse{}
	if err := copier.Copy(course, &in); err != nil {
		response.RespondError(w, r, errors.Wrap(err, "copy university course"))
		return
	}
	course.Init(h.now())
	if err := h.Collections.UniversityCourses.Insert(ctx, course); err != nil {
		if errors.Cause(err) == store.ErrDuplicate {
			err = utility.BadRequest("slug %q already exists", in.Slug)
		}
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, course)
}

func (h *Handler) UpdateUniversityCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	repo := h.Collections.UniversityCourses

	course, err := repo.FindOne(ctx, bson.M{"slug": slug})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in universityCourseInput
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Slug) == "" {
		in.Slug = course.Slug
	}
	if err = in.normalize(); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if in.Slug != course.Slug {
		if err = h.slugTaken(ctx, in.Slug); err != nil {
			response.RespondError(w, r, err)
			return
		}
	}

	base := course.Base
	if err = copier.Copy(course, &in); err != nil {
		response.RespondError(w, r, errors.Wrap(err, "copy university course"))
		return
	}
	course.Base = base
	course.Touch(h.now())
	if err = repo.Replace(ctx, course.ID, course); err != nil {
		if errors.Cause(err) == store.ErrDuplicate {
			err = utility.BadRequest("slug %q already exists", in.Slug)
		}
		response.RespondError(w, r, err)
		return
	}
	h.forgetUniversityCourse(ctx, slug, course.Slug)
	response.RespondSuccess(w, course)
}

func (h *Handler) DeleteUniversityCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	repo := h.Collections.UniversityCourses

	course, err := repo.FindOne(ctx, bson.M{"slug": slug})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = repo.Delete(ctx, course.ID); err != nil {
		response.RespondError(w, r, err)
		return
	}
	h.forgetUniversityCourse(ctx, slug)
	response.RespondSuccess(w, map[string]string{"slug": slug})
}

func (h *Handler) forgetUniversityCourse(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, universityKey(s))
	}
	if err := h.Cache.Delete(ctx, keys...); err != nil {
		log.CtxError(ctx, "cache delete %v: %v", keys, err)
	}
}
