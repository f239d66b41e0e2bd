package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"signup-gateway/internal/container"
	"signup-gateway/internal/middleware"
	"signup-gateway/pkg/errors"
)

// NewRouter configures and returns the HTTP router
func NewRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()

	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.AllowedOrigins, log))
	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := NewHealthHandler(c)
	configHandler := NewConfigHandler(c)
	authHandler := NewAuthHandler(c)
	ssoHandler := NewSSOHandler(c)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/google", authHandler.Google)
			r.Post("/microsoft", authHandler.Microsoft)
			r.Get("/microsoft/login-url", authHandler.MicrosoftLoginURL)
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
		})

		ssoHandler.RegisterRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, r, "", errors.NewNotFoundError("Endpoint not found"), log)
	})

	log.Info("Router configured successfully")
	return r
}
