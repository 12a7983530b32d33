package mongo

import (
	"context"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"

	"go.mongodb.org/mongo-driver/bson"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository stores sessions in MongoDB. Expired sessions are
// removed by a TTL index on expires_at.
type MongoSessionRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoSessionRepository creates a session repository backed by MongoDB.
func NewMongoSessionRepository(dbClient interfaces.DBClient) (interfaces.SessionRepository, error) {
	if err := checkClient(dbClient); err != nil {
		return nil, err
	}
	return &MongoSessionRepository{dbClient: dbClient}, nil
}

func (r *MongoSessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	doc := sessionDocument{
		ID:        session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		TouchedAt: session.TouchedAt,
	}
	if _, err := r.dbClient.InsertOne(ctx, constants.SessionsCollection, doc); err != nil {
		return fmt.Errorf("failed to create session in MongoDB: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var doc sessionDocument
	if err := r.dbClient.FindOne(ctx, constants.SessionsCollection, bson.M{"_id": id}, &doc); err != nil {
		return nil, notFound(err, "session", id)
	}
	session := doc.toModel()
	return &session, nil
}

func (r *MongoSessionRepository) UpdateSession(ctx context.Context, session models.Session) error {
	update := bson.M{"$set": bson.M{
		"expires_at": session.ExpiresAt,
		"touched_at": session.TouchedAt,
	}}
	matched, err := r.dbClient.UpdateOne(ctx, constants.SessionsCollection, bson.M{"_id": session.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update session in MongoDB: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("session %s: %w", session.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.dbClient.DeleteOne(ctx, constants.SessionsCollection, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session from MongoDB: %w", err)
	}
	return nil
}

// EnsureIndices creates the TTL index that expires sessions.
func (r *MongoSessionRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"expires_at": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	return r.dbClient.EnsureSchema(ctx, constants.SessionsCollection, indexModel)
}
