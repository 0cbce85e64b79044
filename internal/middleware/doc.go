// Package middleware provides the HTTP middleware chain of the server:
// access logging with metrics emission, trusted host filtering, HTTPS
// enforcement, and CORS.
package middleware
