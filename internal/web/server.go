// Package web provides the HTTP server and handlers for the standards table.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/config"
	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/dataset"
	mw "github.com/JonMunkholm/StandardsTable/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// pageTitle is shown in the browser tab and the navigation bar.
const pageTitle = "Standards Explorer"

// Server is the HTTP server for the standards table.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	// fingerprint identifies the loaded dataset; it is the ETag of
	// read-only API responses.
	fingerprint string

	limiter       *rateLimiter
	exportLimiter *rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),

		fingerprint: dataset.Fingerprint(service.Dataset()),
	}
	if cfg.Rate.Enabled {
		s.limiter = newRateLimiter(cfg.Rate.RequestsPerMinute, time.Minute)
		s.exportLimiter = newRateLimiter(cfg.Rate.ExportLimit, time.Minute)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.limiter != nil {
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)

	// Pages
	s.router.Get("/", s.handlePage)

	// Per-page view events
	s.router.Route("/views/{viewID}", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/facet", s.handleFacet)
		r.Post("/selection", s.handleSelection)
		r.With(s.exportLimit).Post("/export", s.handleViewExport)
		r.Post("/theme", s.handleTheme)
		r.Get("/records/{recordID}", s.handleRecord)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Group(func(r chi.Router) {
			r.Use(s.conditionalGet)
			r.Get("/records", s.handleAPIRecords)
			r.Get("/records/{recordID}", s.handleAPIRecord)
			r.Get("/facets", s.handleAPIFacets)
		})
		r.With(s.exportLimit).Post("/export", s.handleAPIExport)
	})
}

// exportLimit applies the stricter export rate limit when enabled.
func (s *Server) exportLimit(next http.Handler) http.Handler {
	if s.exportLimiter == nil {
		return next
	}
	return s.exportLimiter.middleware(next)
}

// conditionalGet tags responses with the dataset fingerprint and answers 304
// when the client already holds it. The dataset never changes while the
// process runs, so one tag covers every URL.
func (s *Server) conditionalGet(next http.Handler) http.Handler {
	etag := `"` + s.fingerprint + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match != "" && (match == etag || match == "*") {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// StartBackground runs the server's periodic jobs until ctx is cancelled.
func (s *Server) StartBackground(ctx context.Context) {
	go s.service.Views().StartSweeper(ctx, s.cfg.View.SweepInterval)
	if s.limiter != nil {
		go s.limiter.cleanup(ctx)
	}
	if s.exportLimiter != nil {
		go s.exportLimiter.cleanup(ctx)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Scripts only from /static; the palette is an inline <style>.
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
