package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
)

// CORS returns middleware that answers preflight requests and sets the
// Access-Control-* headers for the configured origins. The tracing headers
// are exposed so browser clients can correlate their calls.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID, headerCorrelationID},
		ExposedHeaders: []string{headerRequestID, headerCorrelationID},
		MaxAge:         cfg.MaxAge,
	})
	return c.Handler
}
