package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mbruno/notekeep-website/internal/api/handlers"
	"github.com/mbruno/notekeep-website/internal/api/middleware"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/repository"
	"github.com/mbruno/notekeep-website/internal/service"
)

func NewRouter(services *service.Services, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(services.Settings, cfg.RateLimitWindow, cfg.RateLimitMaxRequests)

	// Global middleware; the limiter runs first so rejected requests are
	// never charged any further work.
	r.Use(limiter.Handler)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Session(services.Session, cfg.SessionCookieName))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.NotFound(handlers.NotFound(cfg.IsProduction()))

	authHandler := handlers.NewAuthHandler(services.Auth, services.Session, services.OAuth, cfg)
	userHandler := handlers.NewUserHandler(services.Auth, cfg)
	adminHandler := handlers.NewAdminHandler(services.Auth, repos.Settings, services.Settings, cfg)
	noteHandler := handlers.NewResourceHandler(services.Notes, handlers.AllResourceRoutes(), cfg.IsProduction())
	noteSummaryHandler := handlers.NewNoteSummaryHandler(services.NoteSummary, cfg.IsProduction())

	// User settings are created once per user and never bulk-deleted.
	userSettingsRoutes := handlers.AllResourceRoutes()
	userSettingsRoutes.DeleteAll = false
	userSettingsHandler := handlers.NewResourceHandler(services.UserSettings, userSettingsRoutes, cfg.IsProduction())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Get("/callback/{provider}", authHandler.OAuthCallback)
			r.Get("/{provider}", authHandler.OAuthRedirect)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			// The static /summary route must sit on the same subrouter as
			// /{id} so it wins the match.
			noteRouter := noteHandler.Router()
			noteRouter.Get("/summary", noteSummaryHandler.Summarize)
			r.Mount("/notes", noteRouter)
			r.Mount("/settings", userSettingsHandler.Router())

			r.Route("/user", func(r chi.Router) {
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/global-settings", adminHandler.GetGlobalSettings)
			r.Put("/global-settings", adminHandler.UpdateGlobalSettings)
		})
	})

	return r
}
