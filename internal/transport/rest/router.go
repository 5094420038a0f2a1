package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/rosterly/roster-management/internal/auth"
	"github.com/rosterly/roster-management/internal/dashboard"
	"github.com/rosterly/roster-management/internal/roster"
	"github.com/rosterly/roster-management/internal/session"
	"github.com/rosterly/roster-management/internal/staff"
	"github.com/rosterly/roster-management/internal/transport/middleware"
	"github.com/rosterly/roster-management/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sessions *session.Manager, authHandler *auth.Handler, staffHandler *staff.Handler, rosterHandler *roster.Handler, dashboardHandler *dashboard.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Operational endpoints, no login required.
	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Login itself is the only page outside the auth gate.
	router.Get("/login", authHandler.LoginPage)
	router.Post("/login", authHandler.Login)

	// Token issuance for programmatic clients; the duty endpoints below
	// accept either the session cookie or the bearer token.
	router.Post("/api/auth/token", authHandler.APIToken)

	// Everything else requires a signed-in manager.
	router.Group(func(pr chi.Router) {
		pr.Use(sessions.RequireLogin("/login"))

		pr.Get("/", dashboardHandler.Page)
		pr.Get("/logout", authHandler.Logout)
		pr.Get("/change_password", authHandler.ChangePasswordPage)
		pr.Post("/change_password", authHandler.ChangePassword)

		pr.Route("/employees", func(er chi.Router) {
			er.Get("/", staffHandler.List)
			er.Get("/add", staffHandler.AddPage)
			er.Post("/add", staffHandler.Add)
			er.Get("/edit/{id}", staffHandler.EditPage)
			er.Post("/edit/{id}", staffHandler.Edit)
			er.Get("/delete/{id}", staffHandler.Delete)
		})

		pr.Route("/rosters", func(rr chi.Router) {
			rr.Get("/", rosterHandler.Page)
			rr.Post("/", rosterHandler.Save)
			rr.Get("/load/{roster_id}", rosterHandler.Load)
			rr.Get("/export/{roster_id}", rosterHandler.Export)
			rr.Post("/email/{roster_id}", rosterHandler.Email)
			rr.Get("/download/{filename}", rosterHandler.Download)
			rr.Get("/view/{filename}", rosterHandler.View)
		})
	})

	// JSON duty lookups for API clients authenticated by bearer token.
	router.Group(func(ar chi.Router) {
		ar.Use(authHandler.APIAuthMiddleware)
		ar.Get("/api/rosters/{roster_id}", rosterHandler.Load)
	})
}
