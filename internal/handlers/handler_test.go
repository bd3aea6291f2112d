package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"learnhub/internal/cache"
	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
)

type testEnv struct {
	t       *testing.T
	h       *Handler
	router  http.Handler
	c       *store.Collections
	mailer  *utility.RecordingMailer
	cache   *cache.Memory
	tokens  *utility.TokenManager
	uploads string

	adminToken string
	userToken  string
	userID     primitive.ObjectID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		t:       t,
		c:       store.NewMemoryCollections(),
		mailer:  &utility.RecordingMailer{},
		cache:   cache.NewMemory(),
		tokens:  utility.NewTokenManager("test-secret", time.Hour),
		uploads: t.TempDir(),
	}
	e.h = New(Deps{
		Collections:    e.c,
		Tokens:         e.tokens,
		Uploader:       utility.LocalUploader{Dir: e.uploads, PublicBase: "/uploads"},
		Mailer:         e.mailer,
		Cache:          e.cache,
		NotifyTo:       "admissions@example.com",
		UploadDir:      e.uploads,
		AllowedOrigins: []string{"*"},
		BcryptCost:     bcrypt.MinCost,
	})
	e.router = e.h.Routes()

	e.adminToken = e.token(primitive.NewObjectID(), "admin@example.com", models.RoleAdmin)
	e.userID = primitive.NewObjectID()
	e.userToken = e.token(e.userID, "student@example.com", models.RoleUser)
	return e
}

func (e *testEnv) token(id primitive.ObjectID, email, role string) string {
	e.t.Helper()
	token, err := e.tokens.GenerateToken(utility.Session{UID: id.Hex(), Email: email, Name: "Test", Role: role})
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// do sends body as JSON unless it is nil.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.serve(req, token)
}

type formFileSpec struct {
	field, name string
	content     []byte
}

func (e *testEnv) multipart(method, path string, fields map[string]string, files []formFileSpec, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(e.t, err)
		_, err = fw.Write(f.content)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(req, token)
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if dst != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	e.h.Ping = func(_ context.Context) error { return errors.New("no primary") }
	rec = e.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database unavailable", decode(t, rec, nil).Error)
}

func TestAuthenticationRequired(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodGet, "/tds-simulations", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode(t, rec, nil).Success)

	rec = e.do(http.MethodGet, "/tds-simulations", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := utility.NewTokenManager("other-secret", time.Hour)
	forged, err := other.GenerateToken(utility.Session{UID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin})
	require.NoError(t, err)
	rec = e.do(http.MethodPost, "/courses", map[string]string{"title": "x"}, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/courses", map[string]string{"title": "x"}, e.userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodGet, "/leads", nil, e.userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/courses", nil)
	req.Header.Set("Origin", "https://learn.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := e.serve(req, "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
