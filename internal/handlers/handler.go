package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"learnhub/internal/cache"
	"learnhub/internal/catalog"
	"learnhub/internal/store"
	"learnhub/internal/tds"
	"learnhub/internal/utility"
	response "learnhub/internal/utility/http"
	"learnhub/internal/utility/log"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Collections *store.Collections
	Tokens      *utility.TokenManager
	Uploader    utility.Uploader
	Mailer      utility.EmailService
	Cache       cache.Cache

	// NotifyTo receives lead and contact notifications. Empty disables them.
	NotifyTo string
	// UploadDir is served under /uploads when set.
	UploadDir      string
	AllowedOrigins []string
	Ping           func(ctx context.Context) error
	BcryptCost     int
}

type Handler struct {
	Deps
	catalog *catalog.Service
	tds     *tds.Service
	now     func() time.Time
}

func New(d Deps) *Handler {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Mailer == nil {
		d.Mailer = utility.ConsoleMailer{}
	}
	if d.BcryptCost == 0 {
		d.BcryptCost = bcrypt.DefaultCost
	}
	if d.Ping == nil {
		d.Ping = func(context.Context) error { return nil }
	}
	return &Handler{
		Deps:    d,
		catalog: catalog.NewService(d.Collections),
		tds:     tds.NewService(d.Collections.TDSSimulations),
		now:     time.Now,
	}
}

// Routes builds the application router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/health", h.Health)

	if h.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	// Account routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
	})
	r.Route("/admins", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)
		r.With(h.Authentication).Post("/verify", h.VerifyToken)
		r.With(h.Authentication, AdminOnly).Get("/", h.GetAdmins)
		r.With(h.Authentication, SuperAdminOnly).Post("/", h.CreateAdmin)
	})

	// Course content
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.GetCourses)
		r.Get("/{id}", h.GetCourse)
		r.With(h.Authentication, AdminOnly).Post("/", h.CreateCourse)
		r.With(h.Authentication, AdminOnly).Delete("/{id}", h.DeleteCourse)
	})
	r.Route("/topics", func(r chi.Router) {
		r.Get("/", h.GetTopics)
		r.Get("/{id}", h.GetTopic)
		r.Get("/chapter/{chapterId}", h.GetChapterTopics)
		r.Group(func(r chi.Router) {
			r.Use(h.Authentication, AdminOnly)
			r.Post("/", h.CreateTopic)
			r.Post("/chapter/{chapterId}", h.CreateChapterTopic)
			r.Put("/{id}", h.UpdateTopic)
			r.Delete("/{id}", h.DeleteTopic)
		})
	})
	r.Route("/quiz", func(r chi.Router) {
		r.Get("/random", h.GetRandomQuestions)
		r.Get("/topic/{topicId}", h.GetTopicQuiz)
		r.Get("/{id}", h.GetQuiz)
		r.Group(func(r chi.Router) {
			r.Use(h.Authentication, AdminOnly)
			r.Post("/", h.CreateQuiz)
			r.Post("/topic/{topicId}", h.UpsertTopicQuiz)
			r.Post("/topic/{topicId}/csv", h.ImportQuizCSV)
			r.Put("/{id}", h.UpdateQuiz)
			r.Delete("/{id}", h.DeleteQuiz)
		})
	})

	// TDS practice
	r.Route("/tds-simulations", func(r chi.Router) {
		r.Use(h.Authentication)
		r.Get("/", h.GetSimulations)
		r.Post("/", h.CreateSimulation)
		r.Get("/{id}", h.GetSimulation)
		r.Put("/{id}", h.UpdateSimulation)
		r.Delete("/{id}", h.DeleteSimulation)
		r.Patch("/{id}/progress", h.UpdateSimulationProgress)
		r.Post("/{id}/validate", h.ValidateSimulationField)
		r.Post("/{id}/generate-certificate", h.GenerateCertificate)
		r.Post("/{id}/generate-challan", h.GenerateChallan)
		r.Post("/{id}/pay-challan", h.PayChallan)
	})

	r.Route("/university-courses", func(r chi.Router) {
		r.Get("/", h.GetUniversityCourses)
		r.Get("/{slug}", h.GetUniversityCourse)
		r.Group(func(r chi.Router) {
			r.Use(h.Authentication, AdminOnly)
			r.Post("/", h.CreateUniversityCourse)
			r.Put("/{slug}", h.UpdateUniversityCourse)
			r.Delete("/{slug}", h.DeleteUniversityCourse)
		})
	})

	h.mountResources(r)

	r.With(h.Authentication, AdminOnly).Get("/admin/stats", h.GetStatistics)

	return r
}

func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return store.ParseID(chi.URLParam(r, name))
}

// pagination reads pageIndex/pageSize, defaulting to the first page of 10.
func pagination(r *http.Request) (pageIndex, pageSize int64) {
	q := r.URL.Query()
	pageIndex = cast.ToInt64(q.Get("pageIndex"))
	pageSize = cast.ToInt64(q.Get("pageSize"))
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageIndex, pageSize
}

type page struct {
	Items     interface{} `json:"items"`
	Total     int64       `json:"total"`
	PageIndex int64       `json:"pageIndex"`
	PageSize  int64       `json:"pageSize"`
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(utility.MaxUploadSize); err != nil {
		return utility.BadRequest("unable to parse form: %v", err)
	}
	return nil
}

func formFile(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// saveUpload stores the named file when present and returns its URL.
func (h *Handler) saveUpload(r *http.Request, field string) (string, error) {
	fh := formFile(r, field)
	if fh == nil {
		return "", nil
	}
	if h.Uploader == nil {
		return "", utility.BadRequest("file uploads are not configured")
	}
	return h.Uploader.Save(r.Context(), field, fh)
}

// discardUpload removes a file saved for a request that then failed.
func (h *Handler) discardUpload(ctx context.Context, url string) {
	if url == "" || h.Uploader == nil {
		return
	}
	if err := h.Uploader.Remove(ctx, url); err != nil {
		log.CtxError(ctx, "discard upload %s: %v", url, err)
	}
}

// notify emails the configured admin address. Failures are only logged.
func (h *Handler) notify(ctx context.Context, subject, body string) {
	if h.NotifyTo == "" {
		return
	}
	err := h.Mailer.Send(ctx, utility.EmailMessage{To: []string{h.NotifyTo}, Subject: subject, Text: body})
	if err != nil {
		log.CtxError(ctx, "notify %q: %v", subject, err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Ping(r.Context()); err != nil {
		log.CtxError(r.Context(), "health: %v", err)
		response.RespondStatus(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.RespondSuccess(w, map[string]string{"status": "ok"})
}
