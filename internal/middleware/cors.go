// Package middleware wraps the score API with CORS, per-client rate limiting
// and request logging.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/tomz197/bugstroids/internal/config"
)

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

type CORSMiddleware struct {
	*cors.Cors
}

// NewCORS lets browser pages on the allowed origins call the score API.
func NewCORS(cfg config.CORSConfig, logger *slog.Logger) *CORSMiddleware {
	logger = logger.With("component", "cors")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: corsMethods,
		AllowedHeaders: []string{"Content-Type", "Accept"},
		Debug:          cfg.Debug,
	})

	logger.Info("CORS middleware configured",
		"allowed_origins", cfg.AllowedOrigins,
		"allowed_methods", corsMethods,
		"debug_mode", cfg.Debug,
	)

	return &CORSMiddleware{c}
}

func (c *CORSMiddleware) Middleware(h http.Handler) http.Handler {
	return c.Cors.Handler(h)
}
