package handlers

import (
	"context"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

type document interface {
	Meta() *models.Base
}

// resource serves list/get/create/update/delete for a flat collection. C is
// the create payload and U the update payload; both are copied onto T by
// field name.
type resource[T any, C any, U any] struct {
	h    *Handler
	repo store.Repository[T]

	// query parameters matched exactly against string and boolean fields
	filters []string
	flags   []string
	// field listed in ascending order; newest first when empty
	sort string

	prepare func(doc *T)
	created func(ctx context.Context, doc *T)
}

func meta[T any](doc *T) *models.Base {
	return any(doc).(document).Meta()
}

func (rs *resource[T, C, U]) filter(r *http.Request) (bson.M, error) {
	q := r.URL.Query()
	filter := bson.M{}
	for _, field := range rs.filters {
		if v := q.Get(field); v != "" {
			filter[field] = v
		}
	}
	for _, field := range rs.flags {
		if v := q.Get(field); v != "" {
			b, err := cast.ToBoolE(v)
			if err != nil {
				return nil, utility.BadRequest("%s must be a boolean", field)
			}
			filter[field] = b
		}
	}
	return filter, nil
}

func (rs *resource[T, C, U]) list(w http.ResponseWriter, r *http.Request) {
	filter, err := rs.filter(r)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	pageIndex, pageSize := pagination(r)
	total, err := rs.repo.Count(r.Context(), filter)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	docs, err := rs.repo.Find(r.Context(), filter, store.FindOptions{
		Skip:   pageIndex * pageSize,
		Limit:  pageSize,
		Newest: rs.sort == "",
		SortBy: rs.sort,
	})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, page{Items: docs, Total: total, PageIndex: pageIndex, PageSize: pageSize})
}

func (rs *resource[T, C, U]) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	doc, err := rs.repo.Get(r.Context(), id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, doc)
}

func (rs *resource[T, C, U]) create(w http.ResponseWriter, r *http.Request) {
	var in C
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	doc := new(T)
	if err := copier.Copy(doc, &in); err != nil {
		response.RespondError(w, r, errors.Wrap(err, "copy input"))
		return
	}
	if rs.prepare != nil {
		rs.prepare(doc)
	}
	meta(doc).Init(rs.h.now())
	if err := rs.repo.Insert(r.Context(), doc); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if rs.created != nil {
		rs.created(r.Context(), doc)
	}
	response.RespondCreated(w, doc)
}

func (rs *resource[T, C, U]) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in U
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	doc, err := rs.repo.Get(r.Context(), id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	base := *meta(doc)
	if err = copier.Copy(doc, &in); err != nil {
		response.RespondError(w, r, errors.Wrap(err, "copy input"))
		return
	}
	m := meta(doc)
	*m = base
	m.Touch(rs.h.now())
	if err = rs.repo.Replace(r.Context(), id, doc); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, doc)
}

func (rs *resource[T, C, U]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = rs.repo.Delete(r.Context(), id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]string{"id": id.Hex()})
}
