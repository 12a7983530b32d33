package interfaces

import (
	"context"
	"net/http"
)

// Server interface defines the methods for a server implementation.
type Server interface {
	AddRoute(method, route string, handler func(w http.ResponseWriter, r *http.Request), middlewares ...func(http.Handler) http.Handler) error
	Use(middlewares ...func(http.Handler) http.Handler)
	Handler() http.Handler
	SetHandler(h http.Handler)
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}
