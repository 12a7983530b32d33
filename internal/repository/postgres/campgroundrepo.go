package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"
)

// PostgresCampgroundRepository implements CampgroundRepository for PostgreSQL databases.
type PostgresCampgroundRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresCampgroundRepository creates a campground repository backed by PostgreSQL.
func NewPostgresCampgroundRepository(dbClient interfaces.DBClient) (interfaces.CampgroundRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresCampgroundRepository{dbClient: dbClient}, nil
}

func (r *PostgresCampgroundRepository) ListCampgrounds(ctx context.Context) ([]models.Campground, error) {
	var rows []campgroundRow
	if err := r.dbClient.FindMany(ctx, constants.CampgroundsCollection, map[string]interface{}{}, &rows); err != nil {
		return nil, fmt.Errorf("failed to list campgrounds from PostgreSQL: %w", err)
	}

	campgrounds := make([]models.Campground, 0, len(rows))
	for i := range rows {
		campground, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		campgrounds = append(campgrounds, campground)
	}
	return campgrounds, nil
}

func (r *PostgresCampgroundRepository) GetCampground(ctx context.Context, id string) (*models.Campground, error) {
	var row campgroundRow
	if err := r.dbClient.FindOne(ctx, constants.CampgroundsCollection, map[string]interface{}{"id": id}, &row); err != nil {
		return nil, notFound(err, "campground", id)
	}

	campground, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &campground, nil
}

func (r *PostgresCampgroundRepository) AddCampground(ctx context.Context, campground models.Campground) (string, error) {
	doc, err := campgroundColumns(campground)
	if err != nil {
		return "", err
	}
	doc["author"] = campground.Author

	insertedID, err := r.dbClient.InsertOne(ctx, constants.CampgroundsCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add campground to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

func (r *PostgresCampgroundRepository) UpdateCampground(ctx context.Context, campground models.Campground) error {
	update, err := campgroundColumns(campground)
	if err != nil {
		return err
	}

	matched, err := r.dbClient.UpdateOne(ctx, constants.CampgroundsCollection, map[string]interface{}{"id": campground.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update campground in PostgreSQL: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("campground %s: %w", campground.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresCampgroundRepository) DeleteCampground(ctx context.Context, id string) error {
	deleted, err := r.dbClient.DeleteOne(ctx, constants.CampgroundsCollection, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete campground from PostgreSQL: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("campground %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// EnsureIndices applies the schema migrations.
func (r *PostgresCampgroundRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.CampgroundsCollection, nil)
}

// notFound maps a missing row to models.ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, interfaces.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s from PostgreSQL: %w", kind, err)
}
