// Package api exposes the stylist operations, the image proxy and the
// read-only catalog as a JSON HTTP API.
package api

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stylemart/internal/catalog"
	"stylemart/internal/stylist"
)

const maxBodyBytes = 25 << 20

// ImageResolver maps a hint to a photo URL. Configuration and input errors
// are returned; upstream trouble is expected to be absorbed into a
// placeholder URL.
type ImageResolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

type Options struct {
	Stylist *stylist.Service
	Catalog *catalog.Catalog
	Images  ImageResolver
	Logger  *slog.Logger
	// Static, when set, is served for every path outside /api.
	Static         fs.FS
	RequestTimeout time.Duration
}

type Handler struct {
	stylist *stylist.Service
	catalog *catalog.Catalog
	images  ImageResolver
	logger  *slog.Logger
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Handler{
		stylist: opts.Stylist,
		catalog: opts.Catalog,
		images:  opts.Images,
		logger:  logger,
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.NotFound(notFound)
		r.MethodNotAllowed(methodNotAllowed)

		r.Post("/chat", h.handleChat)
		r.Post("/style-advisor", h.handleStyleAdvisor)
		r.Post("/smart-stylist", h.handleSmartStylist)
		r.Post("/recommendations", h.handleRecommendations)
		r.Post("/restock", h.handleRestock)
		r.Get("/test-gemini", h.handleProbe)
		r.Get("/pexels", h.handlePexels)

		r.Get("/products", h.handleProducts)
		r.Get("/products/{productID}", h.handleProduct)
		r.Get("/deals", h.handleDeals)
		r.Get("/moods", h.handleMoods)
		r.Get("/moods/{mood}", h.handleMood)
		r.Get("/inspired", h.handleInspired)
		r.Get("/categories", h.handleCategories)
		r.Get("/low-stock", h.handleLowStock)
	})

	if opts.Static != nil {
		r.Handle("/*", http.FileServer(http.FS(opts.Static)))
	}

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"dur_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
