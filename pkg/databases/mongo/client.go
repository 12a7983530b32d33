package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// allowedOperators are the query and update operators the repositories use.
var allowedOperators = map[string]bool{
	"$set":      true,
	"$push":     true,
	"$pull":     true,
	"$addToSet": true,
	"$each":     true,
	"$in":       true,
	"$lt":       true,
}

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	transactions     bool
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
	logger           interfaces.Logger
}

// NewMongoDB returns a interface for db client and error if it occurs
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	if dbConfig == nil {
		return nil, fmt.Errorf("MongoDBClient: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("MongoDBClient: logger cannot be nil")
	}

	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		transactions:     dbConfig.Transactions,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
		logger:           logger,
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// The DSN should be in the format "mongodb://<host>:<port>/<database>"; the path names the active database.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	// Validate the DSN format
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %v", err)
	}

	// Set a timeout for the connection
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	clientOptions := options.Client().ApplyURI(dsn)

	// Set the server API options if provided
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	m.logger.Info("Connecting to MongoDB", "database", databaseName)
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Check if the connection is successful by pinging the server
	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %v", err)
	}
	m.logger.Info("Connected to MongoDB server successfully", "database", databaseName)
	if !m.transactions {
		m.logger.Warn("MongoDB transactions disabled, multi-document writes are not atomic", "database", databaseName)
	}

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
// It checks if the client is not nil before attempting to disconnect.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	m.logger.Info("Disconnecting from MongoDB")
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// WithTransaction runs fn inside a multi-document transaction when transactions are enabled.
// Standalone servers do not support transactions, so with the option off fn runs directly.
// A ctx that already carries a session joins the outer transaction.
func (m *MongoDBClient) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// InsertOne inserts a document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	m.logger.Debug("Inserting one", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	sanitizedDocument, err := m.sanitizeDocument(document)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %w", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// It decodes the result into the provided variable and returns ErrNoDocuments if no document is found.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	m.logger.Debug("Finding one", "collection", collectionName, "filter", filter)

	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	err = m.db.Collection(collectionName).FindOne(ctx, sanitizedFilter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("MongoDBClient: No document found in %s: %w", collectionName, interfaces.ErrNoDocuments)
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %w", collectionName, err)
	}

	return nil
}

// FindMany decodes every document matching the filter into results, a pointer to a slice.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document, results interfaces.Document) error {
	m.logger.Debug("Finding many", "collection", collectionName, "filter", filter)

	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cursor, err := m.db.Collection(collectionName).Find(ctx, sanitizedFilter)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Finding many in %s failed: %w", collectionName, err)
	}

	// All closes the cursor.
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to decode cursor: %w", err)
	}

	return nil
}

// UpdateOne modifies a single document in the specified collection using a filter and update document.
// Returns the count of matched documents and an error if the operation fails.
func (m *MongoDBClient) UpdateOne(ctx context.Context, collectionName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	m.logger.Debug("Updating one", "collection", collectionName, "filter", filter)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}
	sanitizedUpdate, err := m.sanitizeDocument(update)
	if err != nil {
		return 0, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.db.Collection(collectionName).UpdateOne(ctx, sanitizedFilter, sanitizedUpdate)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed updating one in %s: %w", collectionName, err)
	}

	return res.MatchedCount, nil
}

// DeleteOne removes a single document from the specified collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteOne(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("Deleting one", "collection", collectionName, "filter", filter)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.db.Collection(collectionName).DeleteOne(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed deleting one from %s: %w", collectionName, err)
	}

	return res.DeletedCount, nil
}

// DeleteMany removes multiple documents from a collection using a filter.
// An empty filter is rejected so a bad caller cannot wipe a collection.
func (m *MongoDBClient) DeleteMany(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("Deleting many", "collection", collectionName, "filter", filter)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}
	if filterMap, ok := sanitizedFilter.(bson.M); ok && len(filterMap) == 0 {
		return 0, fmt.Errorf("MongoDBClient: DeleteMany on %s requires a non-empty filter", collectionName)
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.db.Collection(collectionName).DeleteMany(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed Deleting many from %s: %w", collectionName, err)
	}

	return res.DeletedCount, nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// EnsureSchema creates the required index on the specified collection using the provided mongo.IndexModel.
// If the collection does not exist, it will be created automatically.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	// verify m.db is not nil
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateOne(ctx, model)
	return err
}

func (m *MongoDBClient) checkCollection(collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("MongoDBClient: Collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return nil
}

func (m *MongoDBClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(ctx, m.timeout)
	}
	return context.WithCancel(ctx)
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// sanitizeDocument guards map documents against NoSQL injection.
// Field names must be known and free of '$' and '.', operators must be on the allow list.
// Typed documents (structs) are encoded by the driver as they are.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) (interfaces.Document, error) {
	if document == nil {
		return bson.M{}, nil
	}

	docMap, ok := asMap(document)
	if !ok {
		return document, nil
	}

	return m.sanitizeFields(docMap, false)
}

func (m *MongoDBClient) sanitizeFields(docMap map[string]interface{}, inSet bool) (bson.M, error) {
	sanitized := bson.M{}
	for key, value := range docMap {
		if strings.HasPrefix(key, "$") {
			if !allowedOperators[key] {
				return nil, fmt.Errorf("MongoDBClient: Unsupported operator: %s", key)
			}
			nested, isMap := asMap(value)
			if !isMap {
				sanitized[key] = value
				continue
			}
			clean, err := m.sanitizeFields(nested, key == "$set")
			if err != nil {
				return nil, err
			}
			sanitized[key] = clean
			continue
		}

		// _id is immutable
		if inSet && key == IDFIELD {
			continue
		}

		if !m.isValidField(key) {
			m.logger.Warn("Skipping invalid or unsafe field name", "field", key)
			continue
		}

		// Operator expressions such as {"$in": [...]} are checked; embedded documents are kept.
		if nested, isMap := asMap(value); isMap && isOperatorExpression(nested) {
			clean, err := m.sanitizeFields(nested, false)
			if err != nil {
				return nil, err
			}
			value = clean
		}

		sanitized[key] = value
	}

	return sanitized, nil
}

func (m *MongoDBClient) isValidField(key string) bool {
	if key == "" || strings.ContainsAny(key, "$.") {
		return false
	}
	// no allow list configured means every plain field name is accepted
	if len(m.validFields) == 0 {
		return true
	}
	return m.validFields[key]
}

func isOperatorExpression(doc map[string]interface{}) bool {
	if len(doc) == 0 {
		return false
	}
	for key := range doc {
		if !strings.HasPrefix(key, "$") {
			return false
		}
	}
	return true
}

func asMap(document interfaces.Document) (map[string]interface{}, bool) {
	switch doc := document.(type) {
	case bson.M:
		return doc, true
	case map[string]interface{}:
		return doc, true
	default:
		return nil, false
	}
}
