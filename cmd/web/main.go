package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stylemart/internal/api"
	"stylemart/internal/backend"
	"stylemart/internal/catalog"
	"stylemart/internal/config"
	"stylemart/internal/httpclient"
	"stylemart/internal/imagesearch"
	"stylemart/internal/stylist"
)

//go:embed static/*
var staticFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("catalog load failed", "err", err)
		os.Exit(1)
	}

	images := imagesearch.New(imagesearch.Options{
		APIKey:     cfg.PexelsAPIKey,
		BaseURL:    cfg.PexelsBaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	svc, err := stylist.New(stylist.Options{
		Generator:   backend.New(cfg, httpClient, logger),
		Catalog:     cat,
		Images:      images,
		Logger:      logger,
		ChatTimeout: cfg.ChatTimeout,
	})
	if err != nil {
		logger.Error("stylist init failed", "err", err)
		os.Exit(1)
	}

	if cfg.GeminiAPIKey == "" && cfg.GenAIProvider == config.ProviderGemini {
		logger.Warn("GEMINI_API_KEY is not set; generative endpoints will return 500")
	}
	if !images.Configured() {
		logger.Warn("PEXELS_API_KEY is not set; image lookups will return 500")
	}

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	srv := &http.Server{
		Addr: cfg.WebAddr,
		Handler: api.NewRouter(api.Options{
			Stylist:        svc,
			Catalog:        cat,
			Images:         images,
			Logger:         logger,
			Static:         staticSub,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("web started", "addr", cfg.WebAddr, "provider", cfg.GenAIProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("web stopped")
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}
