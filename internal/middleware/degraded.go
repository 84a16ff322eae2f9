package middleware

import (
	"net/http"
)

// Unavailable returns a middleware that answers every request with 503 and
// the given guidance. It guards routes whose backing store is not configured.
func Unavailable(guidance string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusServiceUnavailable, map[string]string{
				"error": guidance,
				"code":  "STORE_NOT_CONFIGURED",
			})
		})
	}
}
