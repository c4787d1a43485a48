package middleware

import (
	"net/http"

	"pbm-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS wrapper from the configured allowed origins
// (the registration form is served from a separate frontend).
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler
}
