package handlers

import (
	"net/http"

	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

// VerifyToken echoes the session of a valid token.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	session, ok := utility.SessionFrom(r.Context())
	if !ok {
		response.RespondError(w, r, utility.ErrUnauthorized)
		return
	}
	response.RespondSuccess(w, map[string]string{
		"uid":   session.UID,
		"email": session.Email,
		"name":  session.Name,
		"role":  session.Role,
	})
}
