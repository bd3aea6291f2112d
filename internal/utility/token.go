package utility

import (
	"context"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// SignedDetails are the claims carried by every session token.
type SignedDetails struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// Session is the authenticated caller, built once by the auth middleware.
type Session struct {
	UID   string
	Email string
	Name  string
	Role  string
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken signs an HS256 token for the given session.
func (m *TokenManager) GenerateToken(s Session) (string, error) {
	now := m.now()
	claims := &SignedDetails{
		UID:   s.UID,
		Email: s.Email,
		Name:  s.Name,
		Role:  s.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	return token, errors.Wrap(err, "sign token")
}

// ValidateToken parses signedToken and returns the session it carries.
func (m *TokenManager) ValidateToken(signedToken string) (*Session, error) {
	token, err := jwt.ParseWithClaims(signedToken, &SignedDetails{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrUnauthorized, err.Error())
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, errors.Wrap(ErrUnauthorized, "invalid token")
	}
	return &Session{UID: claims.UID, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header
// value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || strings.ToLower(header[:len(prefix)]) != prefix {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by WithSession.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
