package http

import (
	"net/http"

	"glasscrm/internal/auth"
	"glasscrm/internal/config"
	"glasscrm/internal/crm"
	"glasscrm/internal/http/handler"
	mw "glasscrm/internal/http/middleware"
	"glasscrm/internal/outreach"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, svc *crm.Service, repo *outreach.Repo) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	jh := &handler.JobHandler{Svc: svc, Repo: repo}
	lh := &handler.LeadHandler{Svc: svc}
	rh := &handler.ReportHandler{Repo: repo}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", jh.Create)
			r.Get("/", jh.List)
			r.Post("/{id}/stage", jh.AdvanceStage)
			r.Get("/{id}/tasks", jh.Tasks)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", lh.Create)
			r.Get("/", lh.List)
		})
		r.Post("/calls", lh.RecordCall)

		r.Get("/report/followups", rh.Followups)
	})

	return r
}
