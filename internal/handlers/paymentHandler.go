package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
)

// transactionInput is an offline payment claim. Multipart requests carry it
// as JSON in the "data" field next to an optional "screenshot" file.
type transactionInput struct {
	Name     string  `json:"name" validate:"notblank"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"omitempty,phone"`
	CourseID string  `json:"courseId" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	UTR      string  `json:"utr" validate:"required,utr"`
}

type verifyInput struct {
	Status  string `json:"status" validate:"required,oneof=approved rejected"`
	Remarks string `json:"remarks"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionInput
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			response.RespondError(w, r, err)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &in); err != nil {
			response.RespondError(w, r, utility.BadRequest("data must be a JSON object"))
			return
		}
	} else if err := response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	in.UTR = strings.ToUpper(strings.TrimSpace(in.UTR))
	if err := utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	ctx := r.Context()
	courseID, err := store.ParseID(in.CourseID)
	if err != nil {
		response.RespondError(w, r, utility.NewValidationError("courseId", "courseId must be a valid id"))
		return
	}
	if _, err = h.Collections.Courses.Get(ctx, courseID); err != nil {
		if errors.Cause(err) == store.ErrNotFound {
			err = utility.BadRequest("course %s does not exist", in.CourseID)
		}
		response.RespondError(w, r, err)
		return
	}

	screenshot, err := h.saveUpload(r, "screenshot")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}

	tx := &models.Transaction{
		Name:       in.Name,
		Email:      normalizeEmail(in.Email),
		Phone:      in.Phone,
		CourseID:   courseID,
		Amount:     in.Amount,
		UTR:        in.UTR,
		Screenshot: screenshot,
		Status:     models.TransactionPending,
	}
	if session, ok := utility.SessionFrom(ctx); ok {
		if uid, err := primitive.ObjectIDFromHex(session.UID); err == nil {
			tx.UserID = &uid
		}
	}
	tx.Init(h.now())
	if err = h.Collections.Transactions.Insert(ctx, tx); err != nil {
		h.discardUpload(ctx, screenshot)
		response.RespondError(w, r, err)
		return
	}
	response.RespondCreated(w, tx)
}

// VerifyTransaction settles a pending transaction. Settled transactions
// cannot change again.
func (h *Handler) VerifyTransaction(w http.ResponseWriter, r *http.Request) {
	session, ok := utility.SessionFrom(r.Context())
	if !ok {
		response.RespondError(w, r, utility.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	var in verifyInput
	if err = response.DecodeJSON(r, &in); err != nil {
		response.RespondError(w, r, err)
		return
	}
	if err = utility.Validate(&in); err != nil {
		response.RespondError(w, r, err)
		return
	}

	ctx := r.Context()
	tx, err := h.Collections.Transactions.Get(ctx, id)
	if err != nil {
		response.RespondError(w, r, err)
		return
	}
	if tx.Status != models.TransactionPending {
		response.RespondError(w, r, utility.BadRequest("transaction is already %s", tx.Status))
		return
	}

	now := h.now().UTC()
	tx.Status = in.Status
	tx.Remarks = in.Remarks
	tx.VerifiedBy = session.Email
	tx.VerifiedAt = &now
	tx.Touch(now)
	if err = h.Collections.Transactions.Replace(ctx, id, tx); err != nil {
		response.RespondError(w, r, err)
		return
	}
	response.RespondSuccess(w, tx)
}
