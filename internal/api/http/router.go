package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-comments/internal/auth/middleware"
	"github.com/mind-engage/mindengage-comments/internal/export"
	"github.com/mind-engage/mindengage-comments/internal/rbac"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
)

// Deps is everything the HTTP surface needs. Auth, BankStore and Events are
// optional; the admin endpoints are only mounted when they are set.
type Deps struct {
	Reports   *report.Service
	Sessions  session.Store
	BankStore BankWriter
	Events    EventLister
	Auth      *auth.AuthService
	Admin     auth.Admin
	ServeUI   bool
	Log       *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Mount registers all routes on r.
func Mount(r chi.Router, d Deps) {
	if d.ServeUI {
		r.Get("/", d.FormPageHandler())
		r.Post("/", d.FormSubmitHandler())
		r.Get("/report.docx", d.DownloadHandler(export.FormatDOCX))
		r.Get("/report.txt", d.DownloadHandler(export.FormatText))
		r.Post("/reset", d.ResetHandler())
	}

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/banks", ListBanksHandler(d.Reports))
		ar.Get("/banks/{grade}", GetBankHandler(d.Reports))
		ar.Post("/comments", PreviewHandler(d.Reports))

		ar.Post("/sessions", CreateSessionHandler(d.Sessions))
		ar.Route("/sessions/{id}", func(sr chi.Router) {
			sr.Get("/", GetSessionHandler(d.Sessions))
			sr.Delete("/", DeleteSessionHandler(d.Sessions))
			sr.Post("/comments", AddCommentHandler(d.Reports, d.Sessions))
			sr.Get("/export", ExportSessionHandler(d.Reports, d.Sessions))
			if d.Auth != nil && d.Events != nil {
				sr.With(auth.JWTMiddleware(d.Auth), rbac.Require(rbac.PermEventView)).
					Get("/events", ListEventsHandler(d.Events))
			}
		})

		if d.Auth != nil && d.BankStore != nil {
			ar.Group(func(pr chi.Router) {
				pr.Use(auth.JWTMiddleware(d.Auth))
				pr.With(rbac.Require(rbac.PermBankWrite)).
					Put("/banks/{grade}", PutBankHandler(d.BankStore))
				pr.With(rbac.Require(rbac.PermBankWrite)).
					Delete("/banks/{grade}", DeleteBankHandler(d.BankStore))
			})
		}
	})

	if d.Auth != nil {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Admin))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

// NewRouter returns a chi router with request logging and all routes mounted.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(d.logger()))
	Mount(r, d)
	return r
}
