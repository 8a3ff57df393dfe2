// Package web hosts the public clinic website.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
	contactsvc "github.com/uslusolutions/clinicweb/internal/services/web/contact"
	webapp "github.com/uslusolutions/clinicweb/internal/services/web/app"
	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	consentmodule "github.com/uslusolutions/clinicweb/internal/services/web/modules/consent"
	contactmodule "github.com/uslusolutions/clinicweb/internal/services/web/modules/contact"
	"github.com/uslusolutions/clinicweb/internal/services/web/modules/pages"
	"github.com/uslusolutions/clinicweb/internal/services/web/modules/seo"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/observability"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
	webstatic "github.com/uslusolutions/clinicweb/internal/services/web/static"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string
	Content  module.ContentReader
	Renderer *pagerender.Renderer
	Contact  *contactsvc.Service
	// Warm optionally refreshes cached CMS data on WarmSchedule.
	Warm         Warmer
	WarmSchedule string
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr     string
	httpServer   *http.Server
	warm         Warmer
	warmSchedule string
}

// NewHandler builds the root handler: health, static assets and every
// feature module behind the shared middleware chain.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("page renderer is required")
	}
	modules := []module.Module{
		pages.New(cfg.Content, cfg.Renderer),
		seo.New(cfg.Content, cfg.Renderer.SiteURL, cfg.Renderer.Scheme),
		consentmodule.New(cfg.Renderer),
		contactmodule.New(cfg.Contact),
	}
	h, err := webapp.Composer{}.Compose(webapp.ComposeInput{
		Modules: modules,
		Scheme:  cfg.Renderer.Scheme,
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	rootMux.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth)
	rootMux.Handle("/", h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.SecurityHeaders(),
		observability.RequestLogger(log.Default()),
	), nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteText(w, http.StatusOK, "", "ok")
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		warm:         cfg.Warm,
		warmSchedule: strings.TrimSpace(cfg.WarmSchedule),
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	if s.warm != nil && s.warmSchedule != "" {
		stop, err := ScheduleWarm(ctx, s.warmSchedule, s.warm)
		if err != nil {
			return err
		}
		defer stop()
	}

	log.Printf("web: listening addr=%s", s.httpAddr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
