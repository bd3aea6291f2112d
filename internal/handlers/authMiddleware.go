package handlers

import (
	"net/http"

	"github.com/pkg/errors"

	"learnhub/internal/models"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

// Authentication requires a valid bearer token and stores its session in
// the request context.
func (h *Handler) Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := utility.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			response.RespondError(w, r, errors.Wrap(utility.ErrUnauthorized, "missing bearer token"))
			return
		}
		session, err := h.Tokens.ValidateToken(token)
		if err != nil {
			response.RespondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(utility.WithSession(r.Context(), session)))
	})
}

// OptionalAuthentication attaches a session when a valid token is sent and
// lets anonymous requests through otherwise.
func (h *Handler) OptionalAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := utility.BearerToken(r.Header.Get("Authorization")); ok {
			if session, err := h.Tokens.ValidateToken(token); err == nil {
				r = r.WithContext(utility.WithSession(r.Context(), session))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utility.SessionFrom(r.Context())
			if !ok {
				response.RespondError(w, r, utility.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.RespondError(w, r, utility.ErrForbidden)
		})
	}
}

// AdminOnly must run after Authentication.
var AdminOnly = requireRole(models.RoleAdmin, models.RoleSuperAdmin)

var SuperAdminOnly = requireRole(models.RoleSuperAdmin)
