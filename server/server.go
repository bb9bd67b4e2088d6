package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/session"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/workspace.go -pkg mocks -skip-ensure -fmt goimports . Workspace
//go:generate moq -out mocks/runs.go -pkg mocks -skip-ensure -fmt goimports . RunLister

//go:embed templates
var templatesFS embed.FS

// page templates, each rendered with the base layout
var pageNames = []string{"index.html"}

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	workspace Workspace
	runs      RunLister
	version   string
	debug     bool

	templates     *template.Template
	pageTemplates map[string]*template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Workspace is the single analysis workspace driven by the UI
type Workspace interface {
	Submit(appURL string) session.State
	Snapshot() session.State
	Wait(ctx context.Context) session.State
	SelectTab(tab domain.Tab) error
	Reset() session.State
	MarkCopied(tab domain.Tab) (string, error)
	Copied(tab domain.Tab) bool
}

// RunLister provides the run journal, nil when the journal is disabled
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetPollWait() time.Duration
}

// New initializes a new server instance
func New(cfg ConfigProvider, ws Workspace, runs RunLister, version string, debug bool) (*Server, error) {
	s := &Server{
		config:    cfg,
		workspace: ws,
		runs:      runs,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// loadTemplates parses shared components once and every page together with the base layout
func (s *Server) loadTemplates() error {
	funcs := template.FuncMap{"markdown": renderMarkdown}

	components, err := template.New("components").Funcs(funcs).ParseFS(templatesFS, "templates/components/*.html")
	if err != nil {
		return fmt.Errorf("parse components: %w", err)
	}
	s.templates = components

	s.pageTemplates = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		base, err := components.Clone()
		if err != nil {
			return fmt.Errorf("clone components for %s: %w", name, err)
		}
		page, err := base.ParseFS(templatesFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", name, err)
		}
		s.pageTemplates[name] = page
	}
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("appscope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64KB, forms carry a single URL
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// UI routes
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("POST /analyze", s.analyzeHandler)
	s.router.HandleFunc("GET /result", s.resultHandler)
	s.router.HandleFunc("GET /tab/{tab}", s.tabHandler)
	s.router.HandleFunc("POST /copy/{tab}", s.copyHandler)
	s.router.HandleFunc("GET /copy/{tab}", s.copyStateHandler)
	s.router.HandleFunc("POST /reset", s.resetHandler)

	static, err := fs.Sub(templatesFS, "templates/static")
	if err == nil {
		s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /state", s.stateHandler)
		r.HandleFunc("GET /runs", s.runsHandler)
	})
}
