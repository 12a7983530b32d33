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

	mongoClient "github.com/haguru/yelpcamp/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository using the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance.
// It takes a concrete mongo.MongoDBClient.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if err := checkClient(dbClient); err != nil {
		return nil, err
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

func checkClient(dbClient interfaces.DBClient) error {
	if dbClient == nil {
		return fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return fmt.Errorf("dbClient must be a MongoDB client")
	}
	return nil
}

// AddUser saves a new user to MongoDB via DBClient.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	doc := userDocument{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("username '%s': %w", user.Username, models.ErrDuplicateUser)
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetUserByUsername retrieves a user from MongoDB via DBClient.
// A missing user yields nil without an error.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if len(username) == 0 || len(username) > constants.MaxLengthUsername {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", constants.MaxLengthUsername)
	}

	var doc userDocument
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, bson.M{"username": username}, &doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}

	user := doc.toModel()
	return &user, nil
}

// GetUsersByIDs loads the users with the given ids; unknown ids are skipped.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []models.User{}, nil
	}

	var docs []userDocument
	filter := bson.M{"_id": bson.M{"$in": oids}}
	if err := r.dbClient.FindMany(ctx, constants.UsersCollection, filter, &docs); err != nil {
		return nil, fmt.Errorf("failed to get users from MongoDB: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

// EnsureIndices creates unique indices for username in MongoDB.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}
