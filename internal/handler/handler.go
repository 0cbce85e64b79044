package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves the content routes. Pages live as HTML files under a pages
// directory; URL hyphens map to underscores on disk, so /about-us.html is
// served from pages/about_us.html.
type Handler struct {
	logger         *slog.Logger
	pagesDir       string
	environment    string
	debug          bool
	allowUnderline bool
	dump           fmt.Stringer
}

// New creates a Handler serving pages from pagesDir. The dump Stringer
// renders the configuration snapshot for the debug endpoint and may be nil
// when debug is false.
func New(logger *slog.Logger, pagesDir, environment string, debug, allowUnderline bool, dump fmt.Stringer) *Handler {
	return &Handler{
		logger:         logger,
		pagesDir:       pagesDir,
		environment:    environment,
		debug:          debug,
		allowUnderline: allowUnderline,
		dump:           dump,
	}
}

// Root redirects the bare root to the index page and hands everything else
// to the page tree.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/index.html", http.StatusMovedPermanently)
		return
	}

	h.servePage(w, r)
}

// Favicon redirects the conventional location to the static tree.
func (h *Handler) Favicon(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/favicon.ico", http.StatusFound)
}

// Health reports liveness together with the active environment.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "ok",
		"environment": h.environment,
	})
}

// ConfigDump renders the resolved configuration snapshot. It exists only in
// debug mode and answers 404 otherwise.
func (h *Handler) ConfigDump(w http.ResponseWriter, r *http.Request) {
	if !h.debug || h.dump == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, h.dump.String())
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if !strings.HasSuffix(name, ".html") {
		http.NotFound(w, r)
		return
	}
	name = strings.TrimSuffix(name, ".html")

	// Search engines treat hyphens as word separators, underscores as
	// joiners. Underscored URLs redirect to their hyphenated form unless
	// explicitly allowed.
	if !h.allowUnderline && strings.Contains(name, "_") {
		http.Redirect(w, r, "/"+strings.ReplaceAll(name, "_", "-")+".html", http.StatusMovedPermanently)
		return
	}

	name = strings.Trim(name, ".")
	if name == "" || strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}

	page := filepath.Join(h.pagesDir, filepath.FromSlash(strings.ReplaceAll(name, "-", "_"))+".html")
	f, err := os.Open(page)
	if err != nil {
		h.logger.Debug("Page not found", slog.String("path", r.URL.Path), slog.String("file", page))
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.logger.Debug("Page not found", slog.String("path", r.URL.Path), slog.String("file", page))
		http.NotFound(w, r)
		return
	}

	// ServeFile would redirect any path ending in /index.html back to ./
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
