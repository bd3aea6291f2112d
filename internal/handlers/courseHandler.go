package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"learnhub/internal/catalog"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

func (h *Handler) GetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	course, err := h.catalog.GetCourse(r.Context(), id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, course)
}

// CreateCourse accepts either a multipart form with the tree in the
// "subjects" field or a plain JSON body.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewCourse
	var err error
	if isMultipart(r) {
		err = h.courseFromForm(r, &in)
	} else {
		err = response.DecodeJSON(r, &in)
	}
	if err != nil {
		response.RespondError(w, r, err)
		return
	}

	course, err := h.catalog.CreateCourse(r.Context(), in)
	if err != nil {
		h.discardUpload(r.Context(), in.PreviewImage)
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, course)
}

func (h *Handler) courseFromForm(r *http.Request, in *catalog.NewCourse) error {
	if err := parseMultipart(r); err != nil {
		return err
	}
	in.Title = r.FormValue("title")
	in.Description = r.FormValue("description")
	if price := strings.TrimSpace(r.FormValue("price")); price != "" {
		p, err := cast.ToFloat64E(price)
		if err != nil {
			return utility.NewValidationError("price", "price must be a number")
		}
		in.Price = p
	}
	if subjects := r.FormValue("subjects"); subjects != "" {
		if err := json.Unmarshal([]byte(subjects), &in.Subjects); err != nil {
			return utility.NewValidationError("subjects", "subjects must be a JSON array")
		}
	}
	// nothing is uploaded for a tree that would be rejected
	if err := in.Check(); err != nil {
		return err
	}

	url, err := h.saveUpload(r, "previewImage")
	if err != nil {
		return err
	}
	if url != "" {
		in.PreviewImage = url
	}
	return nil
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = h.catalog.DeleteCourse(r.Context(), id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]string{"id": id.Hex()})
}
