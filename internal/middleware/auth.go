package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"edumood/internal/config"
)

// AuthMiddleware guards the reporting API with a bearer token. When no
// dashboard token is configured, the API is open. The camera and viewer
// endpoints stay unguarded: the media path must never stall on auth.
func AuthMiddleware(next http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.DashboardToken == "" || r.URL.Path == "/api/view" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.DashboardToken)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
