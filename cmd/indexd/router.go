package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/indexhq/indexd/config"
	"github.com/indexhq/indexd/internal/handler"
	"github.com/indexhq/indexd/internal/metrics"
	"github.com/indexhq/indexd/internal/middleware"
)

func setupRouter(log *slog.Logger, pages *handler.Handler, collector *metrics.Collector, settings *config.Settings, staticDir string) (http.Handler, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pages.Root)
	mux.HandleFunc("/favicon.ico", pages.Favicon)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	mux.HandleFunc("/healthz", pages.Health)
	mux.HandleFunc("/metrics", collector.Handler(settings.Env))
	mux.HandleFunc("/-/config", pages.ConfigDump)

	cors, err := corsConfig(settings)
	if err != nil {
		return nil, err
	}

	var chain http.Handler = mux
	chain = middleware.CORS(cors)(chain)
	chain = middleware.TrustedHost(settings.AllowedHosts)(chain)
	if settings.ForceSSL {
		chain = middleware.ForceSSL()(chain)
	}
	chain = middleware.AccessLog(log, collector)(chain)

	return chain, nil
}

func corsConfig(settings *config.Settings) (middleware.CORSConfig, error) {
	cors := middleware.CORSConfig{
		AllowOrigins:     settings.CORSAllowOrigins,
		AllowMethods:     settings.CORSAllowMethods,
		AllowHeaders:     settings.CORSAllowHeaders,
		AllowCredentials: settings.CORSAllowCredentials,
		ExposeHeaders:    settings.CORSExposeHeaders,
		MaxAge:           settings.CORSMaxAge,
	}

	if settings.CORSAllowOriginRegex != "" {
		re, err := regexp.Compile(settings.CORSAllowOriginRegex)
		if err != nil {
			return middleware.CORSConfig{}, fmt.Errorf("compile cors_allow_origin_regex: %w", err)
		}
		cors.AllowOriginRegex = re
	}

	return cors, nil
}
