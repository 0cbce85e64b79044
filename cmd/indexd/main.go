package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/indexhq/indexd/config"
	"github.com/indexhq/indexd/internal/handler"
	"github.com/indexhq/indexd/internal/httpserver"
	"github.com/indexhq/indexd/internal/metrics"
	"github.com/indexhq/indexd/internal/watcher"
	"github.com/indexhq/indexd/pkg/logger"
)

var version = "dev"

func main() {
	app := kingpin.New("indexd", "Configuration-driven page server")
	dir := app.Flag("dir", "Directory holding the configuration and content").Default(".").String()
	dumpConfig := app.Flag("dump-config", "Print the resolved configuration and exit").Bool()
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*dir, slog.Default())
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	if *dumpConfig {
		fmt.Println(cfg)
		return
	}

	settings, err := cfg.Settings()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(settings.LogLevel, settings.Debug, settings.Env)

	pagesDir := filepath.Join(cfg.Dir(), "pages")
	staticDir := filepath.Join(cfg.Dir(), "statics")
	for _, d := range []string{pagesDir, staticDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			log.Error("Failed to create content directory",
				slog.String("dir", d),
				slog.Any("err", err))
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(1000, log)
	collector.Start(ctx)

	pages := handler.New(log, pagesDir, settings.Env, settings.Debug, settings.AllowUnderline, cfg)

	router, err := setupRouter(log, pages, collector, settings, staticDir)
	if err != nil {
		log.Error("Failed to assemble router", slog.Any("err", err))
		os.Exit(1)
	}

	if settings.Hotreload {
		w, err := watcher.New(cfg.Dir(), append(config.Candidates(), ".env"), log, func(name string) {
			log.Warn("Configuration changed on disk, restart to apply",
				slog.String("file", name))
		})
		if err != nil {
			log.Warn("Configuration watcher unavailable", slog.Any("err", err))
		} else {
			w.Start(ctx)
			defer w.Close()
		}
	}

	srv, err := httpserver.New(settings.Host, settings.Port, router)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Server listening",
		slog.String("addr", srv.Addr()),
		slog.String("environment", settings.Env),
		slog.String("source", cfg.Source()))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
