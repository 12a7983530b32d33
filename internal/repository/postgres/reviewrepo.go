package postgres

import (
	"context"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"
)

// PostgresReviewRepository implements ReviewRepository for PostgreSQL databases.
type PostgresReviewRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresReviewRepository creates a review repository backed by PostgreSQL.
func NewPostgresReviewRepository(dbClient interfaces.DBClient) (interfaces.ReviewRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresReviewRepository{dbClient: dbClient}, nil
}

func (r *PostgresReviewRepository) AddReview(ctx context.Context, review models.Review) (string, error) {
	doc := map[string]interface{}{
		"body":       review.Body,
		"rating":     review.Rating,
		"author":     review.Author,
		"campground": review.Campground,
	}
	insertedID, err := r.dbClient.InsertOne(ctx, constants.ReviewsCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add review to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

func (r *PostgresReviewRepository) GetReview(ctx context.Context, id string) (*models.Review, error) {
	var row reviewRow
	if err := r.dbClient.FindOne(ctx, constants.ReviewsCollection, map[string]interface{}{"id": id}, &row); err != nil {
		return nil, notFound(err, "review", id)
	}
	review := row.toModel()
	return &review, nil
}

// GetReviewsByIDs loads the reviews with the given ids, in the order of ids.
func (r *PostgresReviewRepository) GetReviewsByIDs(ctx context.Context, ids []string) ([]models.Review, error) {
	if len(ids) == 0 {
		return []models.Review{}, nil
	}

	var rows []reviewRow
	if err := r.dbClient.FindMany(ctx, constants.ReviewsCollection, map[string]interface{}{"id": ids}, &rows); err != nil {
		return nil, fmt.Errorf("failed to get reviews from PostgreSQL: %w", err)
	}

	byID := make(map[string]models.Review, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toModel()
	}
	reviews := make([]models.Review, 0, len(rows))
	for _, id := range ids {
		if review, ok := byID[id]; ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (r *PostgresReviewRepository) DeleteReview(ctx context.Context, id string) error {
	deleted, err := r.dbClient.DeleteOne(ctx, constants.ReviewsCollection, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review from PostgreSQL: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("review %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteReviews removes every listed review with a single statement.
func (r *PostgresReviewRepository) DeleteReviews(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := r.dbClient.DeleteMany(ctx, constants.ReviewsCollection, map[string]interface{}{"id": ids})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews from PostgreSQL: %w", err)
	}
	return deleted, nil
}

// EnsureIndices applies the schema migrations.
func (r *PostgresReviewRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.ReviewsCollection, nil)
}
