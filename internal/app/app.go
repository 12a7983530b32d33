package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/auth"
	"github.com/haguru/yelpcamp/internal/campgroundservice"
	"github.com/haguru/yelpcamp/internal/interfaces"
	internalMetrics "github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/middleware"
	"github.com/haguru/yelpcamp/internal/repository/memory"
	mongoRepo "github.com/haguru/yelpcamp/internal/repository/mongo"
	postgresRepo "github.com/haguru/yelpcamp/internal/repository/postgres"
	"github.com/haguru/yelpcamp/internal/routes"
	"github.com/haguru/yelpcamp/internal/server"
	"github.com/haguru/yelpcamp/internal/userservice"
	"github.com/haguru/yelpcamp/pkg/databases/mongo"
	"github.com/haguru/yelpcamp/pkg/databases/postgres"
	"github.com/haguru/yelpcamp/pkg/geocoding/mapbox"
	"github.com/haguru/yelpcamp/pkg/mediastore/s3"
	"github.com/haguru/yelpcamp/pkg/metrics"
	"github.com/haguru/yelpcamp/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var (
	StartupTimeout  = 30 * time.Second
	ShutdownTimeout = 15 * time.Second
)

// App represents the main application, containing server and configuration.
// It loads and validates the config file, wires the storage backend and
// registers every route.
type App struct {
	Server  interfaces.Server
	Config  *config.ServiceConfig
	Logger  interfaces.Logger
	Metrics interfaces.Metrics

	dbClient interfaces.DBClient
}

// repositories is the storage wiring for one database type.
type repositories struct {
	users       interfaces.UserRepository
	campgrounds interfaces.CampgroundRepository
	reviews     interfaces.ReviewRepository
	sessions    interfaces.SessionRepository
	transactor  interfaces.Transactor
	pinger      routes.Pinger
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	return newApp(cfg, logger)
}

func newApp(cfg *config.ServiceConfig, logger interfaces.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: newAppMetrics(cfg.ServiceName),
	}

	ctx, cancel := context.WithTimeout(context.Background(), StartupTimeout)
	defer cancel()

	repos, err := app.initializeRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	mediaStore, err := s3.NewStore(ctx, &cfg.Media, logger)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	geocoder, err := mapbox.NewClient(&cfg.Geocoding, logger)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}

	campgroundService, err := campgroundservice.NewCampgroundService(campgroundservice.Dependencies{
		Campgrounds: repos.campgrounds,
		Reviews:     repos.reviews,
		Users:       repos.users,
		Media:       mediaStore,
		Geocoder:    geocoder,
		Transactor:  repos.transactor,
		Logger:      logger,
		Metrics:     app.Metrics,
	})
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("failed to initialize campground service: %w", err)
	}

	sessions := auth.NewSessionManager(repos.sessions, cfg.Session)
	route := routes.NewRoute(routes.Dependencies{
		Metrics:           app.Metrics,
		Logger:            logger,
		UserService:       userservice.NewUserService(repos.users, logger),
		CampgroundService: campgroundService,
		Sessions:          sessions,
		Validator:         structValidator.New(),
		Pinger:            repos.pinger,
		Secret:            cfg.Secret,
		Session:           cfg.Session,
		Upload:            cfg.Upload,
	})

	app.Server = server.NewServer(cfg.Host, cfg.Port, cfg.CORSOrigin, logger)
	app.Server.Use(middleware.Recovery(logger), middleware.RequestLogger(logger, app.Metrics))

	metricsHandler := promhttp.HandlerFor(app.Metrics.GetRegistry(), promhttp.HandlerOpts{})
	if err := app.Server.AddRoute(http.MethodGet, routes.MetricsRouteAPI, metricsHandler.ServeHTTP); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("failed to add metrics route: %w", err)
	}

	authn := middleware.NewAuthenticator(cfg.Secret, cfg.Session.CookieName, sessions, logger)
	limiter := middleware.RateLimitMiddleware(newLimiter(cfg.RateLimit), app.Metrics)
	if err := route.Mount(app.Server, authn, limiter); err != nil {
		app.close(ctx)
		return nil, err
	}

	app.Server.SetHandler(otelhttp.NewHandler(app.Server.Handler(), cfg.ServiceName))

	return app, nil
}

// Run serves until the listener fails or SIGINT/SIGTERM arrives, then shuts
// the server down and closes the database.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serverErrCh:
		closeCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		app.close(closeCtx)
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.Logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err := app.Server.Shutdown(shutdownCtx)
	app.close(shutdownCtx)
	return err
}

func (app *App) close(ctx context.Context) {
	if app.dbClient == nil {
		return
	}
	if err := app.dbClient.Disconnect(ctx); err != nil {
		app.Logger.Error("Failed to disconnect database", "error", err)
	}
}

func newAppMetrics(serviceName string) interfaces.Metrics {
	appMetrics := metrics.NewMetrics(serviceName)
	internalMetrics.Register(appMetrics)
	return appMetrics
}

func newLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

func (app *App) initializeRepositories(ctx context.Context) (*repositories, error) {
	var (
		repos *repositories
		err   error
	)

	switch app.Config.Database.Type {
	case config.DatabaseTypeMongo:
		repos, err = app.initializeMongo(ctx)
	case config.DatabaseTypePostgres:
		repos, err = app.initializePostgres(ctx)
	case config.DatabaseTypeMemory:
		store := memory.NewStore()
		repos = &repositories{
			users:       memory.NewUserRepository(store),
			campgrounds: memory.NewCampgroundRepository(store),
			reviews:     memory.NewReviewRepository(store),
			sessions:    memory.NewSessionRepository(store),
			transactor:  store,
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	// Ensure indices for MongoDB or PostgreSQL
	for _, ensure := range []func(context.Context) error{
		repos.users.EnsureIndices,
		repos.campgrounds.EnsureIndices,
		repos.reviews.EnsureIndices,
		repos.sessions.EnsureIndices,
	} {
		if err := ensure(ctx); err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("failed to ensure indices: %w", err)
		}
	}

	app.Logger.Info("Storage ready", "type", app.Config.Database.Type)
	return repos, nil
}

func (app *App) initializeMongo(ctx context.Context) (*repositories, error) {
	dbClient, err := mongo.NewMongoDB(&app.Config.Database.MongoDB, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	if err := dbClient.Connect(ctx, app.Config.Database.MongoDB.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	app.dbClient = dbClient

	repos := &repositories{transactor: dbClient, pinger: dbClient}
	if repos.users, err = mongoRepo.NewMongoUserRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.campgrounds, err = mongoRepo.NewMongoCampgroundRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.reviews, err = mongoRepo.NewMongoReviewRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.sessions, err = mongoRepo.NewMongoSessionRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	return repos, nil
}

func (app *App) initializePostgres(ctx context.Context) (*repositories, error) {
	dbClient, err := postgres.NewPostgresDatabaseClient(&app.Config.Database.Postgres, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}
	if err := dbClient.Connect(ctx, app.Config.Database.Postgres.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	app.dbClient = dbClient

	repos := &repositories{transactor: dbClient, pinger: dbClient}
	if repos.users, err = postgresRepo.NewPostgresUserRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.campgrounds, err = postgresRepo.NewPostgresCampgroundRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.reviews, err = postgresRepo.NewPostgresReviewRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	if repos.sessions, err = postgresRepo.NewPostgresSessionRepository(dbClient); err != nil {
		return nil, app.abort(ctx, err)
	}
	return repos, nil
}

// abort disconnects a half-wired database and returns err for the caller.
func (app *App) abort(ctx context.Context, err error) error {
	app.close(ctx)
	return errors.Join(errors.New("failed to initialize repository"), err)
}
