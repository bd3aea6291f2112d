package handlers

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
	"learnhub/internal/utility/log"
)

type newAdminInput struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

func (h *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Collections.Admins.Find(r.Context(), nil)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, admins)
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var in newAdminInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	admin, err := h.createAdmin(r.Context(), in)
	if err != nil {
		if errors.Cause(err) == store.ErrDuplicate {
			response.RespondStatus(w, http.StatusConflict, "admin already exists!")
			return
		}
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, admin)
}

func (h *Handler) createAdmin(ctx context.Context, in newAdminInput) (*models.Admin, error) {
	count, err := h.Collections.Admins.Count(ctx, bson.M{"email": in.Email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrDuplicate
	}
	hash, err := HashPassword(in.Password, h.BcryptCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Name: in.Name, Email: in.Email, Role: in.Role, PasswordHash: hash}
	admin.Init(h.now())
	if err = h.Collections.Admins.Insert(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
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

	admin, err := h.Collections.Admins.FindOne(r.Context(), bson.M{"email": in.Email})
	if err != nil {
		if errors.Cause(err) == store.ErrNotFound {
			err = errBadCredentials
		}
		response.RespondError(w, r, err)
		return
	}
	if !VerifyPassword(admin.PasswordHash, in.Password) {
		response.RespondError(w, r, errBadCredentials)
		return
	}

	resp, err := h.issue(admin.ID, admin.Email, admin.Name, admin.Role, admin)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, resp)
}

// BootstrapAdmin creates the first superadmin when no admin exists yet.
func (h *Handler) BootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	count, err := h.Collections.Admins.Count(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "count admins")
	}
	if count > 0 {
		return nil
	}
	in := newAdminInput{Name: "Super Admin", Email: normalizeEmail(email), Password: password, Role: models.RoleSuperAdmin}
	if err = utility.Validate(&in); err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}
	if _, err = h.createAdmin(ctx, in); err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}
	log.Info("created bootstrap superadmin %s", in.Email)
	return nil
}
