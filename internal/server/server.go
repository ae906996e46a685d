// Package server implements the spiderweb preview HTTP API.
//
// The server renders webs and animation frames on demand through the same
// [pipeline.Runner] the CLI uses, and hosts a [scene.Scene] that clients can
// populate and animate object by object.
//
// # Routes
//
//	GET    /healthz                  liveness check
//	GET    /web.{format}             render a web from query parameters
//	GET    /frame.{format}           render one animation frame at ?t=
//	GET    /scene                    list scene objects
//	POST   /scene                    add an object
//	GET    /scene/{id}               describe an object
//	PUT    /scene/{id}               regenerate or move an object
//	DELETE /scene/{id}               remove an object
//	GET    /scene/{id}/web.{format}  render an object in world space
//	POST   /scene/{id}/animate       attach a behavior
//	POST   /scene/{id}/step          advance the attached animation
//	POST   /scene/{id}/cancel        cancel the attached animation
//
// Errors are returned as JSON with an HTTP status derived from the error
// code: invalid input maps to 400, unknown objects to 404.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spiderweb/pkg/observability"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/scene"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// DefaultAddr is the default listen address.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Runner renders webs. Nil uses an uncached runner.
	Runner *pipeline.Runner
	// Scene hosts objects. Nil starts with an empty scene.
	Scene *scene.Scene
	// Defaults seeds the options of every render request; query
	// parameters override individual fields.
	Defaults pipeline.Options
	Logger   *log.Logger
}

// Server serves the preview API.
type Server struct {
	runner   *pipeline.Runner
	scene    *scene.Scene
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		scene:    cfg.Scene,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.scene == nil {
		s.scene = scene.New()
	}
	if s.defaults.Web == (web.Params{}) {
		s.defaults.Web = web.DefaultParams()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/web.{format}", s.handleWeb)
	r.Get("/frame.{format}", s.handleFrame)

	r.Route("/scene", func(r chi.Router) {
		r.Get("/", s.handleListObjects)
		r.Post("/", s.handleAddObject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetObject)
			r.Put("/", s.handleUpdateObject)
			r.Delete("/", s.handleRemoveObject)
			r.Get("/web.{format}", s.handleObjectWeb)
			r.Post("/animate", s.handleAnimate)
			r.Post("/step", s.handleStep)
			r.Post("/cancel", s.handleCancel)
		})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Scene returns the hosted scene.
func (s *Server) Scene() *scene.Scene { return s.scene }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
