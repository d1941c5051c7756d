// Package httpserver wires the site's handlers onto one HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/render"
	handlers "git.home.luguber.info/inful/insightsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/insightsite/internal/server/middleware"
)

// Server serves the site, the JSON API and the operational endpoints.
type Server struct {
	deps         Dependencies
	httpServer   *http.Server
	listener     net.Listener
	errorAdapter *derrors.HTTPErrorAdapter
	logger       *slog.Logger
	highlightCSS []byte

	// Handler modules
	monitoringHandlers *handlers.MonitoringHandlers
	apiHandlers        *handlers.APIHandlers
	pageHandlers       *handlers.PageHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs the server wiring. Nothing listens until Start.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil || deps.Catalog == nil || deps.Renderer == nil || deps.Mailer == nil {
		return nil, derrors.InternalError("httpserver: config, catalog, renderer and mailer are required").Build()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	css, err := render.HighlightCSS(deps.Config.Render.HighlightStyle)
	if err != nil {
		return nil, derrors.RenderError("failed to build highlight stylesheet").WithCause(err).Build()
	}

	pages, err := handlers.NewPageHandlers(deps.Config.Site, deps.Catalog, deps.Renderer, deps.Mailer, deps.Config.Server.MediaDir, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		deps:               deps,
		errorAdapter:       derrors.NewHTTPErrorAdapter(logger),
		logger:             logger,
		highlightCSS:       css,
		monitoringHandlers: handlers.NewMonitoringHandlers(time.Now()),
		apiHandlers:        handlers.NewAPIHandlers(deps.Catalog, deps.Renderer, deps.Status, logger),
		pageHandlers:       pages,
	}
	s.mchain = smw.Chain(logger, s.errorAdapter, deps.Recorder)
	return s, nil
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.pageHandlers.HandleHome)
	mux.HandleFunc("GET /insights", s.pageHandlers.HandleInsights)
	mux.HandleFunc("GET /insights/{slug}", s.pageHandlers.HandleInsight)
	mux.HandleFunc("GET /about", s.pageHandlers.HandleAbout)
	mux.HandleFunc("GET /collaborate", s.pageHandlers.HandleCollaborate)
	mux.HandleFunc("POST /collaborate", s.pageHandlers.HandleContactSubmit)
	mux.HandleFunc("POST /newsletter", s.pageHandlers.HandleNewsletterSubmit)
	mux.HandleFunc("GET /assets/highlight.css", s.handleHighlightCSS)

	// JSON API
	mux.HandleFunc("GET /api/insights", s.apiHandlers.HandleInsights)
	mux.HandleFunc("GET /api/insights/{slug}", s.apiHandlers.HandleInsight)
	mux.HandleFunc("GET /api/tags", s.apiHandlers.HandleTags)
	mux.HandleFunc("GET /api/tags/{tag}", s.apiHandlers.HandleTag)
	mux.HandleFunc("GET /api/views/{view}", s.apiHandlers.HandleView)
	mux.HandleFunc("GET /api/status", s.apiHandlers.HandleStatus)

	// Operations
	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /health", s.monitoringHandlers.HandleHealthCheck)
	if s.deps.PrometheusHandler != nil {
		mux.Handle("GET /metrics", s.deps.PrometheusHandler)
	}

	// Media directory files, then the not-found page
	mux.HandleFunc("/", s.pageHandlers.HandleFallback)

	return s.mchain(mux)
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.highlightCSS)
}

// Start binds the configured address and serves in the background. Binding
// happens synchronously so an address in use fails fast.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.deps.Config.Server
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("http startup failed: %w", err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * cfg.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()

	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
