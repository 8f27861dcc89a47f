package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Cors allows the SPA origins to call the API with credentials (sid cookie).
func Cors(allowOrigins ...string) mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-Id", "X-Trace-Id", "Content-Disposition"},
		MaxAge:         600,
	})
	return c.Handler
}
