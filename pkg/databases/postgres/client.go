package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/pkg/databases/postgres/migrations"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	// OpLessThan is the only comparison operator understood in filters besides equality.
	OpLessThan = "$lt"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type txKey struct{}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int           // MaxOpenConns is the maximum number of open connections to the database
	MaxIdleConns    int           // MaxIdleConns is the maximum number of idle connections to the database
	ConnMaxLifetime time.Duration // ConnMaxLifetime is the maximum amount of time a connection may be reused
	logger          interfaces.Logger

	migrateMu sync.Mutex
	migrated  bool
}

// NewPostgresDatabaseClient builds a client from the pool settings in cfg.
// Zero values fall back to the package defaults.
func NewPostgresDatabaseClient(cfg *config.PostgresConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("PostgresDatabaseClient: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("PostgresDatabaseClient: logger cannot be nil")
	}

	client := &PostgresDatabaseClient{
		MaxOpenConns:    cfg.Options.MaxOpenConns,
		MaxIdleConns:    cfg.Options.MaxIdleConns,
		ConnMaxLifetime: cfg.Options.ConnMaxLifetime,
		logger:          logger,
	}
	if client.MaxOpenConns <= 0 {
		client.MaxOpenConns = DefaultMaxOpenConns
	}
	if client.MaxIdleConns <= 0 {
		client.MaxIdleConns = DefaultMaxIdleConns
	}
	if client.ConnMaxLifetime <= 0 {
		client.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return client, nil
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("PostgresDatabaseClient: DSN is empty")
	}

	var err error
	p.db, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	p.logger.Info("Connecting to PostgreSQL")
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach PostgreSQL server: %w", err)
	}
	p.logger.Info("Connected to PostgreSQL server successfully")
	return nil
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	p.logger.Info("Disconnecting from PostgreSQL")
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// WithTransaction runs fn inside a transaction carried by ctx.
// Nested calls reuse the outer transaction.
func (p *PostgresDatabaseClient) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			p.logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// InsertOne inserts a single row into a PostgreSQL table.
// 'document' is expected to be a map[string]interface{}.
// It dynamically builds the INSERT query.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}
	conn, err := p.conn(ctx, tableName)
	if err != nil {
		return nil, err
	}

	// Generate UUID for 'id' if not present in the document
	if _, exists := docMap["id"]; !exists {
		docMap["id"] = uuid.New().String()
	}

	columns := sortedKeys(docMap)
	placeholders := make([]string, 0, len(columns))
	values := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if !identifierPattern.MatchString(col) {
			return nil, fmt.Errorf("invalid column name: %s", col)
		}
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		values = append(values, docMap[col])
	}

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated and not user input.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID string
	if err := conn.QueryRowContext(ctx, query, values...).Scan(&insertedID); err != nil {
		return nil, err
	}
	return insertedID, nil
}

// FindOne retrieves a single row from a PostgreSQL table.
// 'filter' is expected to be a map[string]interface{} for the WHERE clause.
// 'result' is a pointer to a struct whose `db` tags name the selected columns.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}
	conn, err := p.conn(ctx, tableName)
	if err != nil {
		return err
	}

	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	columns, fieldIndexes := structColumns(elem.Type())
	if len(columns) == 0 {
		return fmt.Errorf("result has no db tagged fields")
	}

	where, args, err := buildWhere(filterMap, 1)
	if err != nil {
		return err
	}

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated and not user input.
	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		where,
	) // #nosec G201

	err = conn.QueryRowContext(ctx, query, args...).Scan(fieldPointers(elem, fieldIndexes)...)
	if errors.Is(err, sql.ErrNoRows) {
		elem.Set(reflect.Zero(elem.Type()))
		return fmt.Errorf("%s: %w", tableName, interfaces.ErrNoDocuments)
	}
	return err
}

// FindMany retrieves every matching row into results, a pointer to a slice of structs.
// An empty filter selects the whole table.
func (p *PostgresDatabaseClient) FindMany(ctx context.Context, tableName string, filter interfaces.Document, results interfaces.Document) error {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindMany expects filter to be map[string]interface{}")
	}
	conn, err := p.conn(ctx, tableName)
	if err != nil {
		return err
	}

	sliceValue := reflect.ValueOf(results)
	if sliceValue.Kind() != reflect.Ptr || sliceValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("results must be a pointer to a slice")
	}
	itemType := sliceValue.Elem().Type().Elem()
	if itemType.Kind() != reflect.Struct {
		return fmt.Errorf("results must be a slice of structs")
	}
	columns, fieldIndexes := structColumns(itemType)
	if len(columns) == 0 {
		return fmt.Errorf("results have no db tagged fields")
	}

	where, args, err := buildWhere(filterMap, 1)
	if err != nil {
		return err
	}

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated and not user input.
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id",
		strings.Join(columns, ", "),
		tableName,
		where,
	) // #nosec G201

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			p.logger.Error("failed to close rows", "error", cerr)
		}
	}()

	out := reflect.MakeSlice(sliceValue.Elem().Type(), 0, 0)
	for rows.Next() {
		item := reflect.New(itemType).Elem()
		if err := rows.Scan(fieldPointers(item, fieldIndexes)...); err != nil {
			return err
		}
		out = reflect.Append(out, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	sliceValue.Elem().Set(out)
	return nil
}

// UpdateOne updates rows in a PostgreSQL table.
// 'filter' and 'update' are expected to be map[string]interface{}.
func (p *PostgresDatabaseClient) UpdateOne(ctx context.Context, tableName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL UpdateOne expects filter to be map[string]interface{}")
	}
	updateMap, ok := update.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL UpdateOne expects update to be map[string]interface{}")
	}
	if len(filterMap) == 0 || len(updateMap) == 0 {
		return 0, fmt.Errorf("PostgreSQL UpdateOne requires a non-empty filter and update")
	}
	conn, err := p.conn(ctx, tableName)
	if err != nil {
		return 0, err
	}

	setClauses := make([]string, 0, len(updateMap))
	values := make([]interface{}, 0, len(updateMap)+len(filterMap))
	for i, col := range sortedKeys(updateMap) {
		if !identifierPattern.MatchString(col) || col == "id" {
			return 0, fmt.Errorf("invalid update column: %s", col)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		values = append(values, updateMap[col])
	}

	where, args, err := buildWhere(filterMap, len(values)+1)
	if err != nil {
		return 0, err
	}
	values = append(values, args...)

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated and not user input.
	query := fmt.Sprintf("UPDATE %s SET %s%s",
		tableName,
		strings.Join(setClauses, ", "),
		where,
	) // #nosec G201

	return p.exec(ctx, conn, query, values)
}

// DeleteOne deletes the rows matching filter from a PostgreSQL table.
// 'filter' is expected to be a non-empty map[string]interface{}.
func (p *PostgresDatabaseClient) DeleteOne(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	return p.deleteWhere(ctx, tableName, filter)
}

// DeleteMany deletes multiple rows from a PostgreSQL table.
// An empty filter is rejected so a table is never wiped by accident.
func (p *PostgresDatabaseClient) DeleteMany(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	return p.deleteWhere(ctx, tableName, filter)
}

func (p *PostgresDatabaseClient) deleteWhere(ctx context.Context, tableName string, filter interfaces.Document) (int64, error) {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("PostgreSQL delete expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return 0, fmt.Errorf("PostgreSQL delete requires a non-empty filter")
	}
	conn, err := p.conn(ctx, tableName)
	if err != nil {
		return 0, err
	}

	where, args, err := buildWhere(filterMap, 1)
	if err != nil {
		return 0, err
	}

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated and not user input.
	query := fmt.Sprintf("DELETE FROM %s%s", tableName, where) // #nosec G201

	return p.exec(ctx, conn, query, args)
}

func (p *PostgresDatabaseClient) exec(ctx context.Context, conn queryer, query string, args []interface{}) (int64, error) {
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db.PingContext(ctx)
}

// EnsureSchema applies the embedded goose migrations. The tables for every
// collection are created together, so only the first call does any work.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, _ interfaces.Document) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}

	p.migrateMu.Lock()
	defer p.migrateMu.Unlock()
	if p.migrated {
		return nil
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	p.logger.Info("Applying PostgreSQL migrations", "table", tableName)
	if err := gooseUpContext(ctx, p.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	p.migrated = true
	return nil
}

// conn returns the transaction carried by ctx, or the pool.
func (p *PostgresDatabaseClient) conn(ctx context.Context, tableName string) (queryer, error) {
	if !identifierPattern.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name: %s", tableName)
	}
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx, nil
	}
	if p.db == nil {
		return nil, fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db, nil
}

// buildWhere renders filter as a WHERE clause with placeholders starting at
// firstParam. Slice values match any element; {"$lt": v} compares.
func buildWhere(filter map[string]interface{}, firstParam int) (string, []interface{}, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filter))
	args := make([]interface{}, 0, len(filter))
	param := firstParam
	for _, col := range sortedKeys(filter) {
		if !identifierPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid filter column: %s", col)
		}

		switch val := filter[col].(type) {
		case []string:
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, param))
			args = append(args, pq.Array(val))
		case map[string]interface{}:
			bound, ok := val[OpLessThan]
			if !ok || len(val) != 1 {
				return "", nil, fmt.Errorf("unsupported filter operator on %s", col)
			}
			clauses = append(clauses, fmt.Sprintf("%s < $%d", col, param))
			args = append(args, bound)
		default:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, param))
			args = append(args, val)
		}
		param++
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// structColumns lists the `db` tagged columns of t and their field indexes.
func structColumns(t reflect.Type) ([]string, []int) {
	columns := make([]string, 0, t.NumField())
	indexes := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, tag)
		indexes = append(indexes, i)
	}
	return columns, indexes
}

func fieldPointers(v reflect.Value, indexes []int) []interface{} {
	pointers := make([]interface{}, len(indexes))
	for i, idx := range indexes {
		pointers[i] = v.Field(idx).Addr().Interface()
	}
	return pointers
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
