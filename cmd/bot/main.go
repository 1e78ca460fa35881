package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stylemart/internal/backend"
	"stylemart/internal/catalog"
	"stylemart/internal/config"
	"stylemart/internal/handlers"
	"stylemart/internal/httpclient"
	"stylemart/internal/imagesearch"
	"stylemart/internal/session"
	"stylemart/internal/speech"
	"stylemart/internal/stylist"
	"stylemart/internal/telegram"
)

const sessionIdleTTL = 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("catalog load failed", "err", err)
		os.Exit(1)
	}

	gen := backend.New(cfg, httpClient, logger)

	var images stylist.ImageResolver
	if cfg.PexelsAPIKey != "" {
		images = imagesearch.New(imagesearch.Options{
			APIKey:     cfg.PexelsAPIKey,
			BaseURL:    cfg.PexelsBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	}

	svc, err := stylist.New(stylist.Options{
		Generator:   gen,
		Catalog:     cat,
		Images:      images,
		Logger:      logger,
		ChatTimeout: cfg.ChatTimeout,
	})
	if err != nil {
		logger.Error("stylist init failed", "err", err)
		os.Exit(1)
	}

	transcriber, err := speech.New(speech.Options{
		Generator:     gen,
		MaxConcurrent: cfg.SpeechMaxConcurrent,
		Language:      cfg.SpeechLanguage,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("speech init failed", "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Options{
		MaxMessages: cfg.MaxHistoryMessages,
	})

	handler := handlers.New(handlers.Options{
		Messenger:   tg,
		Stylist:     svc,
		Catalog:     cat,
		Sessions:    sessions,
		Transcriber: transcriber,
		Images:      images,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, sessions, logger)

	logger.Info("bot started", "username", tg.Username(), "provider", cfg.GenAIProvider)

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func pruneSessions(ctx context.Context, sessions *session.Store, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(sessionIdleTTL); n > 0 {
				logger.Info("pruned idle sessions", "count", n)
			}
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
