package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/tds"
	response "learnhub/internal/utility/http"
)

// ownedID resolves the caller and the {id} path parameter.
func ownedID(r *http.Request) (owner, id primitive.ObjectID, err error) {
	if _, owner, err = sessionOwner(r.Context()); err != nil {
		return
	}
	id, err = idParam(r, "id")
	return
}

func (h *Handler) GetSimulations(w http.ResponseWriter, r *http.Request) {
	_, owner, err := sessionOwner(r.Context())
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	sims, err := h.tds.List(r.Context(), owner)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, sims)
}

func (h *Handler) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	_, owner, err := sessionOwner(r.Context())
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in tds.SimulationInput
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	sim, err := h.tds.Create(r.Context(), owner, in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, sim)
}

func (h *Handler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	h.withSimulation(w, r, h.tds.Get)
}

func (h *Handler) UpdateSimulation(w http.ResponseWriter, r *http.Request) {
	var in tds.SimulationInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	h.withSimulation(w, r, func(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
		return h.tds.Update(ctx, owner, id, in)
	})
}

func (h *Handler) DeleteSimulation(w http.ResponseWriter, r *http.Request) {
	owner, id, err := ownedID(r)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = h.tds.Delete(r.Context(), owner, id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]string{"id": id.Hex()})
}

func (h *Handler) UpdateSimulationProgress(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := response.DecodeJSON(r, &raw); err != nil {
		response.RespondError(w, r, err)
		return
	}
	patch, err := tds.DecodeProgress(raw)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	h.withSimulation(w, r, func(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
		return h.tds.UpdateProgress(ctx, owner, id, patch)
	})
}

type fieldCheck struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) ValidateSimulationField(w http.ResponseWriter, r *http.Request) {
	owner, id, err := ownedID(r)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in fieldCheck
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if _, err = h.tds.Get(r.Context(), owner, id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	valid, message, err := tds.ValidateField(in.Field, in.Value)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]interface{}{"valid": valid, "message": message})
}

func (h *Handler) GenerateCertificate(w http.ResponseWriter, r *http.Request) {
	h.withSimulation(w, r, h.tds.GenerateCertificate)
}

func (h *Handler) GenerateChallan(w http.ResponseWriter, r *http.Request) {
	h.withSimulation(w, r, h.tds.GenerateChallan)
}

func (h *Handler) PayChallan(w http.ResponseWriter, r *http.Request) {
	h.withSimulation(w, r, h.tds.PayChallan)
}

func (h *Handler) withSimulation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error)) {
	owner, id, err := ownedID(r)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	sim, err := fn(r.Context(), owner, id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, sim)
}
