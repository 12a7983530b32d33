package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/haguru/yelpcamp/internal/interfaces"
)

var (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 30 * time.Second
	IdleTimeout  = 30 * time.Second

	AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	AllowedHeaders = []string{"Content-Type", "Authorization"}
)

type Server struct {
	Port   string
	Host   string
	server *http.Server
	router chi.Router
	Logger interfaces.Logger
}

// NewServer creates a new Server instance with the specified host and port.
// Cross-origin requests are accepted from corsOrigin only, with credentials.
func NewServer(host, port, corsOrigin string, logger interfaces.Logger) interfaces.Server {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   AllowedMethods,
		AllowedHeaders:   AllowedHeaders,
		AllowCredentials: true,
	}))

	server := &http.Server{
		Addr:         host + ":" + port,
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return &Server{
		Host:   host,
		Port:   port,
		server: server,
		router: router,
		Logger: logger,
	}
}

// Use appends middlewares to the router. It must be called before AddRoute.
func (s *Server) Use(middlewares ...func(http.Handler) http.Handler) {
	s.router.Use(middlewares...)
}

// AddRoute registers handler for method and route, wrapped in middlewares.
func (s *Server) AddRoute(method, route string, handler func(w http.ResponseWriter, r *http.Request), middlewares ...func(http.Handler) http.Handler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for %s %s", method, route)
	}
	s.router.With(middlewares...).Method(method, route, http.HandlerFunc(handler))
	s.Logger.Info("Route added", "method", method, "route", route)
	return nil
}

// Handler exposes the root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetHandler replaces the root handler, e.g. to wrap the router.
func (s *Server) SetHandler(h http.Handler) {
	s.server.Handler = h
}

// ListenAndServe starts the HTTP server and listens for incoming requests.
// It returns nil once Shutdown has been called.
func (s *Server) ListenAndServe() error {
	s.Logger.Info("Starting server", "host", s.Host, "port", s.Port)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error("Failed to start server", "error", err)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
