package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"task-board-backend/pkg/config"
)

// CORS builds the CORS middleware from config.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}

	// Credentials cannot be combined with a wildcard origin.
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		options.AllowCredentials = false
	}
	return cors.Handler(options)
}
