package chi

import (
	"crypto/subtle"
	"net/http"
)

// AdminKeyMiddleware protects the admin endpoints. The key comes from the
// X-Admin-Key header or the adminKey query parameter (the admin UI uses
// the latter). An unconfigured server key rejects everything.
func AdminKeyMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				writeError(w, http.StatusForbidden, CodeForbidden, "admin access is not configured")
				return
			}

			key := r.Header.Get("X-Admin-Key")
			if key == "" {
				key = r.URL.Query().Get("adminKey")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				writeError(w, http.StatusForbidden, CodeForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
