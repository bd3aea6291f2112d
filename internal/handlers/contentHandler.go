package handlers

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

type privacyPolicyInput struct {
	Content       string     `json:"content" validate:"notblank"`
	EffectiveDate *time.Time `json:"effectiveDate"`
}

func (h *Handler) GetPrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Collections.PrivacyPolicies.FindOne(r.Context(), nil)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, policy)
}

// UpdatePrivacyPolicy upserts the singleton policy and bumps its version.
func (h *Handler) UpdatePrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	var in privacyPolicyInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	ctx := r.Context()
	repo := h.Collections.PrivacyPolicies
	now := h.now()
	effective := now.UTC()
	if in.EffectiveDate != nil {
		effective = in.EffectiveDate.UTC()
	}

	policy, err := repo.FindOne(ctx, nil)
	switch {
	case errors.Cause(err) == store.ErrNotFound:
		policy = &models.PrivacyPolicy{Content: in.Content, Version: 1, EffectiveDate: effective}
		policy.Init(now)
		if err = repo.Insert(ctx, policy); err != nil {
			response.RespondError(w, r, err)
			return
		}
		response.RespondCreated(w, policy)
		return
	case err != nil:
		response.RespondError(w, r, err)
		return
	}

	policy.Content = in.Content
	policy.Version++
	policy.EffectiveDate = effective
	policy.Touch(now)
	if err = repo.Replace(ctx, policy.ID, policy); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, policy)
}
