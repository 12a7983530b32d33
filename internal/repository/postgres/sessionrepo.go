package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"
	pgClient "github.com/haguru/yelpcamp/pkg/databases/postgres"
)

// PostgresSessionRepository stores sessions in PostgreSQL.
// Expired rows are purged whenever a new session is created.
type PostgresSessionRepository struct {
	dbClient interfaces.DBClient
	now      func() time.Time
}

// NewPostgresSessionRepository creates a session repository backed by PostgreSQL.
func NewPostgresSessionRepository(dbClient interfaces.DBClient) (interfaces.SessionRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresSessionRepository{dbClient: dbClient, now: time.Now}, nil
}

func (r *PostgresSessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	expired := map[string]interface{}{
		"expires_at": map[string]interface{}{pgClient.OpLessThan: r.now().UTC()},
	}
	if _, err := r.dbClient.DeleteMany(ctx, constants.SessionsCollection, expired); err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}

	doc := map[string]interface{}{
		"id":         session.ID,
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt.UTC(),
		"touched_at": session.TouchedAt.UTC(),
	}
	if _, err := r.dbClient.InsertOne(ctx, constants.SessionsCollection, doc); err != nil {
		return fmt.Errorf("failed to create session in PostgreSQL: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var row sessionRow
	if err := r.dbClient.FindOne(ctx, constants.SessionsCollection, map[string]interface{}{"id": id}, &row); err != nil {
		return nil, notFound(err, "session", id)
	}
	session := row.toModel()
	return &session, nil
}

func (r *PostgresSessionRepository) UpdateSession(ctx context.Context, session models.Session) error {
	update := map[string]interface{}{
		"expires_at": session.ExpiresAt.UTC(),
		"touched_at": session.TouchedAt.UTC(),
	}
	matched, err := r.dbClient.UpdateOne(ctx, constants.SessionsCollection, map[string]interface{}{"id": session.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update session in PostgreSQL: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("session %s: %w", session.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.dbClient.DeleteOne(ctx, constants.SessionsCollection, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete session from PostgreSQL: %w", err)
	}
	return nil
}

// EnsureIndices applies the schema migrations.
func (r *PostgresSessionRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.SessionsCollection, nil)
}
