package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"
)

const uniqueViolation = "23505"

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to PostgreSQL via DBClient.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	doc := map[string]interface{}{
		"username":        user.Username,
		"email":           user.Email,
		"hashed_password": user.HashedPassword,
	}
	// The client's InsertOne will generate the ID if not present

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("username '%s': %w", user.Username, models.ErrDuplicateUser)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL via DBClient.
// A missing user yields nil without an error.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if len(username) == 0 || len(username) > constants.MaxLengthUsername {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", constants.MaxLengthUsername)
	}

	var row userRow
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, map[string]interface{}{"username": username}, &row)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	user := row.toModel()
	return &user, nil
}

// GetUsersByIDs loads the users with the given ids; unknown ids are skipped.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var rows []userRow
	if err := r.dbClient.FindMany(ctx, constants.UsersCollection, map[string]interface{}{"id": ids}, &rows); err != nil {
		return nil, fmt.Errorf("failed to get users from PostgreSQL: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

// EnsureIndices applies the schema migrations, which create the users table and its unique username index.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, nil)
}
