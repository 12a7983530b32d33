package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

// MongoReviewRepository implements ReviewRepository using the generic DBClient.
type MongoReviewRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoReviewRepository creates a review repository backed by MongoDB.
func NewMongoReviewRepository(dbClient interfaces.DBClient) (interfaces.ReviewRepository, error) {
	if err := checkClient(dbClient); err != nil {
		return nil, err
	}
	return &MongoReviewRepository{dbClient: dbClient}, nil
}

// AddReview inserts a review and returns its new id.
func (r *MongoReviewRepository) AddReview(ctx context.Context, review models.Review) (string, error) {
	author, err := optionalObjectID(review.Author)
	if err != nil {
		return "", err
	}
	campground, err := optionalObjectID(review.Campground)
	if err != nil {
		return "", err
	}

	doc := reviewDocument{
		ID:         primitive.NewObjectID(),
		Body:       review.Body,
		Rating:     review.Rating,
		Author:     author,
		Campground: campground,
	}
	insertedID, err := r.dbClient.InsertOne(ctx, constants.ReviewsCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add review to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetReview loads one review by id.
func (r *MongoReviewRepository) GetReview(ctx context.Context, id string) (*models.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc reviewDocument
	if err := r.dbClient.FindOne(ctx, constants.ReviewsCollection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, notFound(err, "review", id)
	}

	review := doc.toModel()
	return &review, nil
}

// GetReviewsByIDs loads the reviews with the given ids, in the order of ids.
// Ids without a stored review are skipped.
func (r *MongoReviewRepository) GetReviewsByIDs(ctx context.Context, ids []string) ([]models.Review, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []models.Review{}, nil
	}

	var docs []reviewDocument
	filter := bson.M{"_id": bson.M{"$in": oids}}
	if err := r.dbClient.FindMany(ctx, constants.ReviewsCollection, filter, &docs); err != nil {
		return nil, fmt.Errorf("failed to get reviews from MongoDB: %w", err)
	}

	byID := make(map[string]models.Review, len(docs))
	for i := range docs {
		review := docs[i].toModel()
		byID[review.ID] = review
	}
	reviews := make([]models.Review, 0, len(docs))
	for _, id := range ids {
		if review, ok := byID[id]; ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

// DeleteReview removes one review by id.
func (r *MongoReviewRepository) DeleteReview(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	deleted, err := r.dbClient.DeleteOne(ctx, constants.ReviewsCollection, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete review from MongoDB: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("review %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteReviews removes every listed review in one batch and reports how many were deleted.
func (r *MongoReviewRepository) DeleteReviews(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	deleted, err := r.dbClient.DeleteMany(ctx, constants.ReviewsCollection, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews from MongoDB: %w", err)
	}
	return deleted, nil
}

// EnsureIndices indexes reviews by campground.
func (r *MongoReviewRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.M{"campground": 1},
	}
	return r.dbClient.EnsureSchema(ctx, constants.ReviewsCollection, indexModel)
}

// notFound maps a missing document to models.ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, interfaces.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s from MongoDB: %w", kind, err)
}
