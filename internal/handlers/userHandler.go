package handlers

import (
	"net/http"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

type signUpInput struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in signUpInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	in.Email = normalizeEmail(in.Email)
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	ctx := r.Context()
	users := h.Collections.Users
	count, err := users.Count(ctx, bson.M{"email": in.Email})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if count > 0 {
		response.RespondStatus(w, http.StatusConflict, "email is already registered")
		return
	}

	hash, err := HashPassword(in.Password, h.BcryptCost)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	user := &models.User{Name: in.Name, Email: in.Email, Phone: in.Phone, PasswordHash: hash}
	user.Init(h.now())
	if err = users.Insert(ctx, user); err != nil {
		if errors.Cause(err) == store.ErrDuplicate {
			response.RespondStatus(w, http.StatusConflict, "email is already registered")
			return
		}
		response.RespondError(w, r, err)
		return
	}

	resp, err := h.issue(user.ID, user.Email, user.Name, models.RoleUser, user)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	in.Email = normalizeEmail(in.Email)
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	user, err := h.Collections.Users.FindOne(r.Context(), bson.M{"email": in.Email})
	if err != nil {
		if errors.Cause(err) == store.ErrNotFound {
			err = errBadCredentials
		}
		response.RespondError(w, r, err)
		return
	}
	if !VerifyPassword(user.PasswordHash, in.Password) {
		response.RespondError(w, r, errBadCredentials)
		return
	}

	resp, err := h.issue(user.ID, user.Email, user.Name, models.RoleUser, user)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, resp)
}
