package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"learnhub/internal/utility"
)

// HashPassword hashes a plain password with the given bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", utility.NewValidationError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(bytes), nil
}

// VerifyPassword reports whether providedPassword matches the stored hash.
func VerifyPassword(hashedPassword, providedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)) == nil
}

var errBadCredentials = utility.NewHTTPError(http.StatusUnauthorized, "invalid email or password")

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (h *Handler) issue(id primitive.ObjectID, email, name, role string, user interface{}) (*authResponse, error) {
	token, err := h.Tokens.GenerateToken(utility.Session{UID: id.Hex(), Email: email, Name: name, Role: role})
	if err != nil {
		return nil, err
	}
	return &authResponse{Token: token, User: user}, nil
}

// sessionOwner returns the caller's id, the owner key for per-user documents.
func sessionOwner(ctx context.Context) (*utility.Session, primitive.ObjectID, error) {
	session, ok := utility.SessionFrom(ctx)
	if !ok {
		return nil, primitive.NilObjectID, utility.ErrUnauthorized
	}
	id, err := primitive.ObjectIDFromHex(session.UID)
	if err != nil {
		return nil, primitive.NilObjectID, errors.Wrap(utility.ErrUnauthorized, "malformed session id")
	}
	return session, id, nil
}
