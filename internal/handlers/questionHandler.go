package handlers

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"learnhub/internal/catalog"
	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewQuiz
	if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.CreateQuiz(r.Context(), in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, quiz)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.GetQuiz(r.Context(), id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, quiz)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in catalog.QuizUpdate
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.UpdateQuiz(r.Context(), id, in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = h.catalog.DeleteQuiz(r.Context(), id); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, map[string]string{"id": id.Hex()})
}

func (h *Handler) GetTopicQuiz(w http.ResponseWriter, r *http.Request) {
	topicID, err := idParam(r, "topicId")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.QuizByTopic(r.Context(), topicID)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, quiz)
}

func (h *Handler) UpsertTopicQuiz(w http.ResponseWriter, r *http.Request) {
	topicID, err := idParam(r, "topicId")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in catalog.QuizUpdate
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.UpsertTopicQuiz(r.Context(), topicID, in)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, quiz)
}

// GetRandomQuestions serves a shuffled sample of the topic's quiz.
func (h *Handler) GetRandomQuestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("topicId")
	if raw == "" {
		response.RespondError(w, r, utility.BadRequest("topicId is required"))
		return
	}
	topicID, err := store.ParseID(raw)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	questions, err := h.catalog.RandomQuestions(r.Context(), topicID)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, questions)
}

// ImportQuizCSV replaces the topic's quiz questions with the rows of the
// uploaded "questionCsvFile". Each row is: question, answer index, options...
func (h *Handler) ImportQuizCSV(w http.ResponseWriter, r *http.Request) {
	topicID, err := idParam(r, "topicId")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = parseMultipart(r); err != nil {
		response.RespondError(w, r, err)
		return
	}
	file, _, err := r.FormFile("questionCsvFile")
	if err != nil {
		response.RespondError(w, r, utility.BadRequest("questionCsvFile is required"))
		return
	}
	defer file.Close()

	questions, err := parseQuestionsCSV(file)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	quiz, err := h.catalog.UpsertTopicQuiz(r.Context(), topicID, catalog.QuizUpdate{
		Title:     r.FormValue("title"),
		Questions: questions,
	})
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, quiz)
}

func parseQuestionsCSV(src io.Reader) ([]models.Question, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, utility.BadRequest("failed to parse the CSV file: %v", err)
	}

	questions := make([]models.Question, 0, len(records))
	for i, record := range records {
		if len(record) < 4 {
			return nil, utility.BadRequest("row %d: expected question, answer and at least two options", i+1)
		}
		answer, err := cast.ToIntE(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, utility.BadRequest("row %d: answer must be an option index", i+1)
		}
		questions = append(questions, models.Question{
			Text:    record[0],
			Answer:  answer,
			Options: record[2:],
		})
	}
	return questions, nil
}
