package handlers

import (
	"net/http"

	"learnhub/internal/catalog"
	response "learnhub/internal/utility/http"
)

func (h *Handler) GetTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.catalog.ListTopics(r.Context())
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, topics)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	topic, err := h.catalog.GetTopic(r.Context(), id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, topic)
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var in catalog.TopicInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	topic, err := h.catalog.CreateTopic(r.Context(), in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, topic)
}

func (h *Handler) GetChapterTopics(w http.ResponseWriter, r *http.Request) {
	chapterID, err := idParam(r, "chapterId")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	topics, err := h.catalog.ListChapterTopics(r.Context(), chapterID)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, topics)
}

func (h *Handler) CreateChapterTopic(w http.ResponseWriter, r *http.Request) {
	chapterID, err := idParam(r, "chapterId")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in catalog.TopicInput
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	topic, err := h.catalog.CreateChapterTopic(r.Context(), chapterID, in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in catalog.TopicUpdate
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	topic, err := h.catalog.UpdateTopic(r.Context(), id, in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, topic)
}

func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = h.catalog.DeleteTopic(r.Context(), id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]string{"id": id.Hex()})
}
