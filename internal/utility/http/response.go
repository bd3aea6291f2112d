package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"learnhub/internal/store"
	"learnhub/internal/utility"
	"learnhub/internal/utility/log"
)

// Debug exposes server error messages to clients.
var Debug bool

type jsonResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondSuccess(w http.ResponseWriter, data interface{}) {
	sendJSONResponse(w, http.StatusOK, &jsonResponse{Success: true, Data: data})
}

func RespondCreated(w http.ResponseWriter, data interface{}) {
	sendJSONResponse(w, http.StatusCreated, &jsonResponse{Success: true, Data: data})
}

// RespondStatus sends an error envelope with an explicit status.
func RespondStatus(w http.ResponseWriter, code int, message string) {
	sendJSONResponse(w, code, &jsonResponse{Success: false, Error: message})
}

// RespondError classifies err and sends the matching error envelope. Server
// errors are logged and reported.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	code, resp := Classify(err)
	if code >= http.StatusInternalServerError {
		log.Report(r.Context(), err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	sendJSONResponse(w, code, resp)
}

// Classify maps an error to its status code and response body.
func Classify(err error) (int, *jsonResponse) {
	resp := &jsonResponse{Success: false}

	var httpErr *utility.HTTPError
	var verr *utility.ValidationError
	var verrs validator.ValidationErrors

	switch cause := errors.Cause(err); {
	case errors.As(err, &verr):
		resp.Error = verr.Error()
		resp.Fields = verr.Fields
		return http.StatusBadRequest, resp
	case errors.As(err, &verrs):
		resp.Error = "validation failed"
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Error()
		}
		return http.StatusBadRequest, resp
	case errors.As(err, &httpErr):
		resp.Error = httpErr.Message
		return httpErr.Status, resp
	case cause == store.ErrNotFound:
		resp.Error = err.Error()
		return http.StatusNotFound, resp
	case cause == store.ErrInvalidID:
		resp.Error = err.Error()
		return http.StatusBadRequest, resp
	case cause == store.ErrDuplicate:
		resp.Error = "already exists"
		return http.StatusBadRequest, resp
	case cause == utility.ErrUnauthorized:
		resp.Error = "unauthorized"
		return http.StatusUnauthorized, resp
	case cause == utility.ErrForbidden:
		resp.Error = "forbidden"
		return http.StatusForbidden, resp
	}

	resp.Error = "internal server error"
	if Debug {
		resp.Error = err.Error()
	}
	return http.StatusInternalServerError, resp
}

func sendJSONResponse(w http.ResponseWriter, code int, response *jsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

// DecodeJSON reads a JSON body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return utility.BadRequest("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utility.BadRequest("malformed JSON body: %v", err)
	}
	return nil
}
