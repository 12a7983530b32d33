package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haguru/yelpcamp/internal/auth"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"

	MsgAuthRequired = "You must be signed in"
)

// SessionResolver looks up a live session by cookie value.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*models.Session, error)
}

// Authenticator identifies the caller from a bearer token or the session cookie.
type Authenticator struct {
	secret     string
	cookieName string
	sessions   SessionResolver
	logger     interfaces.Logger
}

func NewAuthenticator(secret, cookieName string, sessions SessionResolver, logger interfaces.Logger) *Authenticator {
	return &Authenticator{
		secret:     secret,
		cookieName: cookieName,
		sessions:   sessions,
		logger:     logger,
	}
}

// OptionalAuth stores the caller's user id in the context when one can be
// established and passes anonymous requests through unchanged.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := a.identify(r); userID != "" {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth is OptionalAuth that answers 401 for anonymous requests.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return a.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   MsgAuthRequired,
				"message": MsgAuthRequired,
			})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Authenticator) identify(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			claims, err := auth.VerifyToken(strings.TrimSpace(parts[1]), a.secret)
			if err == nil {
				return claims.UserID
			}
			a.logger.Debug("Rejected bearer token", "error", err)
		}
	}

	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	session, err := a.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		a.logger.Debug("Rejected session cookie", "error", err)
		return ""
	}
	return session.UserID
}

// GetUserID extracts the user ID from context.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
