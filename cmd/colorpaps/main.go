// Command colorpaps serves the interactive art-presentation site: the
// generation API backed by the Python composition scripts, the artwork
// catalog, and the websocket reveal stream.
//
// Usage:
//
//	colorpaps -config colorpaps.yaml
//	colorpaps -listen :8090 -scripts /srv/colorpaps
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/colorpaps/internal/config"
	"github.com/hazyhaar/colorpaps/internal/generator"
	"github.com/hazyhaar/colorpaps/internal/server"
	"github.com/hazyhaar/colorpaps/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to colorpaps.yaml config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	scriptsDir := flag.String("scripts", "", "directory holding the generate_*.py scripts (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *listen, *scriptsDir); err != nil {
		logger.Error("colorpaps: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, listen, scriptsDir string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if scriptsDir != "" {
		cfg.Generator.ScriptsDir = scriptsDir
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.DB.Close()
	logger.Info("store opened", "path", cfg.DBPath)

	if cfg.Retention.EventsDays > 0 {
		if err := st.Cleanup(ctx, cfg.Retention.EventsDays); err != nil {
			logger.Warn("event cleanup failed", "error", err)
		}
	}

	runner := generator.NewRunner(cfg.Generator.Python, cfg.Generator.ScriptsDir,
		cfg.Generator.Timeout, logger)

	srv := server.New(logger, st, runner, cfg)
	router := chi.NewRouter()
	srv.RegisterHTTP(router)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("colorpaps listening",
			"addr", cfg.Listen,
			"scripts_dir", cfg.Generator.ScriptsDir,
			"canvas", fmt.Sprintf("%dx%d", cfg.Reveal.CanvasWidth, cfg.Reveal.CanvasHeight))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
