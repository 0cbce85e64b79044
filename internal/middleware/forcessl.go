package middleware

import (
	"net/http"
	"strings"
)

// ForceSSL redirects plain HTTP requests to their HTTPS equivalent. Requests
// arriving through a TLS-terminating proxy are recognized by the
// X-Forwarded-Proto header and pass through.
func ForceSSL() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
				target := "https://" + r.Host + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusPermanentRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
