package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
)

// SessionManager issues and resolves server-side sessions. A resolved session
// is written back only when it was last touched more than touchAfter ago.
type SessionManager struct {
	repo       interfaces.SessionRepository
	maxAge     time.Duration
	touchAfter time.Duration
	now        func() time.Time
}

func NewSessionManager(repo interfaces.SessionRepository, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{
		repo:       repo,
		maxAge:     cfg.MaxAge,
		touchAfter: cfg.TouchAfter,
		now:        time.Now,
	}
}

// MaxAge is the lifetime of a fresh or refreshed session.
func (m *SessionManager) MaxAge() time.Duration {
	return m.maxAge
}

// Create starts a session for userID.
func (m *SessionManager) Create(ctx context.Context, userID string) (*models.Session, error) {
	now := m.now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.maxAge),
		TouchedAt: now,
	}
	if err := m.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// Resolve returns the live session with the given id, or models.ErrNotFound.
func (m *SessionManager) Resolve(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("empty session id: %w", models.ErrNotFound)
	}

	session, err := m.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	if session.Expired(now) {
		if err := m.repo.DeleteSession(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to drop expired session: %w", err)
		}
		return nil, fmt.Errorf("session %s expired: %w", id, models.ErrNotFound)
	}

	if now.Sub(session.TouchedAt) >= m.touchAfter {
		session.TouchedAt = now
		session.ExpiresAt = now.Add(m.maxAge)
		if err := m.repo.UpdateSession(ctx, *session); err != nil {
			return nil, fmt.Errorf("failed to touch session: %w", err)
		}
	}
	return session, nil
}

// Destroy ends a session. Unknown ids are ignored.
func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.repo.DeleteSession(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
