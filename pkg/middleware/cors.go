package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors libera as origens configuradas em CORS_ALLOWED_ORIGINS. "*" libera qualquer origem.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	options := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         86400, // Cache do CORS por 24 horas
	}

	if allowAll {
		options.AllowedOrigins = []string{"*"}
	} else {
		options.AllowedOrigins = allowedOrigins
		options.AllowCredentials = true
	}

	return cors.New(options).Handler
}
