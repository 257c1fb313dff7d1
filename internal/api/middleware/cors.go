package middleware

import (
	"net/http"
	"strings"
)

const (
	publicMethods = "GET, OPTIONS"
	adminMethods  = "GET, POST, PUT, DELETE, OPTIONS"
)

// isAllowedOrigin checks if an origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware adds CORS headers. Public routes only advertise GET; admin
// routes also allow writes and the Authorization header.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	wildcard := allowedOrigins[0] == "*"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" && isAllowedOrigin(origin, allowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if strings.HasPrefix(r.URL.Path, "/api/admin/") {
				w.Header().Set("Access-Control-Allow-Methods", adminMethods)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			} else {
				w.Header().Set("Access-Control-Allow-Methods", publicMethods)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
