package middlewares

import (
	"net/http"

	"github.com/gorilla/handlers"
)

var (
	corsAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-Id"}
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
)

// CorsMiddleware answers preflight requests and tags responses for the given
// origins. An empty list allows any origin.
func CorsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	opts := []handlers.CORSOption{
		handlers.AllowedHeaders(corsAllowedHeaders),
		handlers.AllowedMethods(corsAllowedMethods),
		handlers.AllowedOrigins(origins),
	}
	if !(len(origins) == 1 && origins[0] == "*") {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}
