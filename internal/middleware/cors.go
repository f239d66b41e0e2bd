package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"signup-gateway/pkg/logger"
)

// CORS allows the static sign-in pages to call the API from the
// configured origins.
func CORS(allowedOrigins []string, logger *logger.Logger) func(http.Handler) http.Handler {
	logger.WithField("allowed_origins", allowedOrigins).Debug("CORS configured")

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
}
