// Package handler implements the HTTP handlers of the server: the page
// tree under pages/, the root and favicon redirects, liveness, and the
// debug configuration dump.
package handler
