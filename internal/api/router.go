package api

import (
	"net/http"

	"github.com/arko/letter-drive/internal/api/handlers"
	"github.com/arko/letter-drive/internal/api/middleware"
	"github.com/arko/letter-drive/internal/config"
	"github.com/arko/letter-drive/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.ClientURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>Letter Drive server is running.</h1>"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	letterHandler := handlers.NewLetterHandler(services.Letter, services.Sync)

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/google", authHandler.GoogleLogin)
		r.Get("/google/callback", authHandler.GoogleCallback)
		r.Get("/logout", authHandler.Logout)
		r.Get("/current-user", authHandler.CurrentUser)
	})

	r.Route("/api/letters", func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth))
		r.Post("/", letterHandler.Create)
		r.Get("/", letterHandler.List)
		r.Get("/{id}", letterHandler.Get)
		r.Put("/{id}", letterHandler.Update)
		r.Post("/{id}/save-to-drive", letterHandler.SaveToDrive)
		r.Delete("/{id}", letterHandler.Delete)
	})

	return r
}
