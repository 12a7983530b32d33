package mongo

import (
	"context"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

// MongoCampgroundRepository implements CampgroundRepository using the generic DBClient.
type MongoCampgroundRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoCampgroundRepository creates a campground repository backed by MongoDB.
func NewMongoCampgroundRepository(dbClient interfaces.DBClient) (interfaces.CampgroundRepository, error) {
	if err := checkClient(dbClient); err != nil {
		return nil, err
	}
	return &MongoCampgroundRepository{dbClient: dbClient}, nil
}

// ListCampgrounds returns every campground in insertion order.
func (r *MongoCampgroundRepository) ListCampgrounds(ctx context.Context) ([]models.Campground, error) {
	var docs []campgroundDocument
	if err := r.dbClient.FindMany(ctx, constants.CampgroundsCollection, bson.M{}, &docs); err != nil {
		return nil, fmt.Errorf("failed to list campgrounds from MongoDB: %w", err)
	}

	campgrounds := make([]models.Campground, 0, len(docs))
	for i := range docs {
		campgrounds = append(campgrounds, docs[i].toModel())
	}
	return campgrounds, nil
}

// GetCampground loads one campground by id.
func (r *MongoCampgroundRepository) GetCampground(ctx context.Context, id string) (*models.Campground, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc campgroundDocument
	if err := r.dbClient.FindOne(ctx, constants.CampgroundsCollection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, notFound(err, "campground", id)
	}

	campground := doc.toModel()
	return &campground, nil
}

// AddCampground inserts a campground and returns its new id.
func (r *MongoCampgroundRepository) AddCampground(ctx context.Context, campground models.Campground) (string, error) {
	doc, err := newCampgroundDocument(campground)
	if err != nil {
		return "", err
	}
	doc.ID = primitive.NewObjectID()

	insertedID, err := r.dbClient.InsertOne(ctx, constants.CampgroundsCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add campground to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// UpdateCampground overwrites the mutable fields of an existing campground.
func (r *MongoCampgroundRepository) UpdateCampground(ctx context.Context, campground models.Campground) error {
	oid, err := objectID(campground.ID)
	if err != nil {
		return err
	}
	doc, err := newCampgroundDocument(campground)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"location":    doc.Location,
		"geometry":    doc.Geometry,
		"price":       doc.Price,
		"description": doc.Description,
		"images":      doc.Images,
		"reviews":     doc.Reviews,
	}}

	matched, err := r.dbClient.UpdateOne(ctx, constants.CampgroundsCollection, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update campground in MongoDB: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("campground %s: %w", campground.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteCampground removes one campground by id.
func (r *MongoCampgroundRepository) DeleteCampground(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	deleted, err := r.dbClient.DeleteOne(ctx, constants.CampgroundsCollection, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete campground from MongoDB: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("campground %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// EnsureIndices indexes campgrounds by author.
func (r *MongoCampgroundRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.M{"author": 1},
	}
	return r.dbClient.EnsureSchema(ctx, constants.CampgroundsCollection, indexModel)
}
