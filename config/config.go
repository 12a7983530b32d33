package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	structValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"
	DOTENV_PATH = ".env"

	DatabaseTypeMongo    = "mongo"
	DatabaseTypePostgres = "postgres"
	DatabaseTypeMemory   = "memory"

	DefaultMaxBodyBytes int64 = 64 << 20
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName string          `yaml:"service_name" validate:"required"`
	LogLevel    string          `yaml:"loglevel" env:"LOG_LEVEL" validate:"required,loglevel"`
	Host        string          `yaml:"host" env:"HOST"`
	Port        string          `yaml:"port" env:"PORT" validate:"required"`
	Secret      string          `yaml:"secret" env:"SECRET" validate:"required"`
	CORSOrigin  string          `yaml:"cors_origin" env:"CORS_ORIGIN" validate:"required"`
	Session     SessionConfig   `yaml:"session"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Upload      UploadConfig    `yaml:"upload"`
	Database    Database        `yaml:"database"`
	Media       MediaConfig     `yaml:"media"`
	Geocoding   GeocodingConfig `yaml:"geocoding"`
}

// SessionConfig mirrors the cookie session settings; TouchAfter limits how often
// an unchanged session is written back to the store.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" validate:"required"`
	MaxAge     time.Duration `yaml:"max_age" validate:"required"`
	TouchAfter time.Duration `yaml:"touch_after"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// UploadConfig bounds multipart parsing. MaxMemory is held in memory before
// spooling to disk; MaxBodyBytes caps the whole request, 0 means DefaultMaxBodyBytes.
type UploadConfig struct {
	FieldName    string `yaml:"field_name" validate:"required"`
	MaxMemory    int64  `yaml:"max_memory" validate:"gt=0"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" env:"UPLOAD_MAX_BODY_BYTES" validate:"gte=0"`
}

// BodyLimit returns MaxBodyBytes or the default when unset.
func (u UploadConfig) BodyLimit() int64 {
	if u.MaxBodyBytes > 0 {
		return u.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

type Database struct {
	Type string `yaml:"type" env:"DATABASE_TYPE" validate:"required,oneof=mongo postgres memory"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn" env:"DATABASE_URI"`
	DatabaseName     string             `yaml:"database_name"`
	Timeout          time.Duration      `yaml:"timeout"`
	Transactions     bool               `yaml:"transactions"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
	ValidFields      []string           `yaml:"valid_fields"`
}

type PostgresConfig struct {
	DSN          string                `yaml:"dsn" env:"DATABASE_URI"`
	DatabaseName string                `yaml:"database_name"`
	Options      PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// MediaConfig points at the S3-compatible bucket holding uploaded images.
type MediaConfig struct {
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" validate:"required"`
	Region        string        `yaml:"region" env:"S3_REGION" validate:"required"`
	BaseEndpoint  string        `yaml:"base_endpoint" env:"S3_BASE_ENDPOINT"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL" validate:"required"`
	Folder        string        `yaml:"folder"`
	UsePathStyle  bool          `yaml:"use_path_style"`
	AccessKey     string        `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Timeout       time.Duration `yaml:"timeout"`
}

type GeocodingConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	AccessToken string        `yaml:"access_token" env:"MAPBOX_ACCESS_TOKEN" validate:"required"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Load reads the YAML file, overlays .env and process environment values and validates the result.
func Load(configPath string) (*ServiceConfig, error) {
	config, err := ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnvOverrides(config, DOTENV_PATH); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnvOverrides loads the optional dotenv file and then replaces every field
// carrying an env tag whose variable is set.
func ApplyEnvOverrides(config *ServiceConfig, dotenvPath string) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}

// Validate checks the struct tags plus the backend specific settings.
func Validate(config *ServiceConfig) error {
	validator := structValidator.New()
	if err := validator.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	if err := validator.Struct(config); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	switch config.Database.Type {
	case DatabaseTypeMongo:
		if config.Database.MongoDB.DSN == "" {
			return fmt.Errorf("validation error: database.mongodb_config.dsn is required")
		}
	case DatabaseTypePostgres:
		if config.Database.Postgres.DSN == "" {
			return fmt.Errorf("validation error: database.postgres_config.dsn is required")
		}
	}

	return nil
}

func validateLogLevel(fieldLevel structValidator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	return allowedLogLevels[strings.ToLower(fieldLevel.Field().String())]
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
