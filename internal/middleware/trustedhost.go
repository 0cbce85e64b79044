package middleware

import (
	"net"
	"net/http"
	"strings"
)

// TrustedHost rejects requests whose Host header matches none of the allowed
// patterns. A pattern is either "*", an exact hostname, or a "*.domain"
// wildcard covering its subdomains.
func TrustedHost(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(requestHost(r), allowed) {
				http.Error(w, "Invalid host header", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.Host); err == nil {
		return host
	}
	return r.Host
}

func hostAllowed(host string, patterns []string) bool {
	host = strings.ToLower(host)

	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		if pattern == "*" || pattern == host {
			return true
		}
		if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(host, pattern[1:]) {
			return true
		}
	}

	return false
}
