package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// CORSConfig holds the cross-origin policy applied by CORS. An empty policy
// allows nothing, which leaves responses without CORS headers entirely.
type CORSConfig struct {
	// AllowOrigins lists origins allowed to make cross-origin requests.
	// "*" allows any origin.
	AllowOrigins []string

	// AllowOriginRegex, when set, admits any origin matching the pattern
	// in addition to AllowOrigins.
	AllowOriginRegex *regexp.Regexp

	// AllowMethods lists HTTP methods advertised on preflight responses.
	AllowMethods []string

	// AllowHeaders lists request headers advertised on preflight responses.
	AllowHeaders []string

	// AllowCredentials permits cookies and authorization headers. The
	// allowed origin is then echoed back instead of "*".
	AllowCredentials bool

	// ExposeHeaders lists response headers readable by browser scripts.
	ExposeHeaders []string

	// MaxAge is how long, in seconds, browsers may cache preflight results.
	MaxAge int
}

// CORS answers preflight requests and decorates responses with the
// Access-Control headers derived from config. Requests without an Origin
// header pass through untouched.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !config.originAllowed(origin) {
				next.ServeHTTP(w, r)
				return
			}

			headers := w.Header()
			switch {
			case config.AllowCredentials:
				headers.Set("Access-Control-Allow-Origin", origin)
				headers.Set("Access-Control-Allow-Credentials", "true")
			case contains(config.AllowOrigins, "*"):
				headers.Set("Access-Control-Allow-Origin", "*")
			default:
				headers.Set("Access-Control-Allow-Origin", origin)
			}
			if headers.Get("Access-Control-Allow-Origin") != "*" {
				headers.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if len(config.AllowMethods) > 0 {
					headers.Set("Access-Control-Allow-Methods", strings.Join(config.AllowMethods, ", "))
				}
				if len(config.AllowHeaders) > 0 {
					headers.Set("Access-Control-Allow-Headers", strings.Join(config.AllowHeaders, ", "))
				}
				if config.MaxAge > 0 {
					headers.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(config.ExposeHeaders) > 0 {
				headers.Set("Access-Control-Expose-Headers", strings.Join(config.ExposeHeaders, ", "))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (c CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return c.AllowOriginRegex != nil && c.AllowOriginRegex.MatchString(origin)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
