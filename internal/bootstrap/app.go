package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cv-contacts/internal/batch"
	"cv-contacts/internal/contact"
	"cv-contacts/internal/exports"
	"cv-contacts/internal/queue"
	"cv-contacts/internal/scanner"
	"cv-contacts/internal/scans"
	"cv-contacts/internal/services/health"
	"cv-contacts/internal/shared/config"
	"cv-contacts/internal/shared/server"
	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/storage/db"
	"cv-contacts/internal/shared/storage/object"
	localstore "cv-contacts/internal/shared/storage/object/local"
	s3store "cv-contacts/internal/shared/storage/object/s3"
	"cv-contacts/internal/uploads"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Redis          *redis.Client
	Store          object.ObjectStore
	Queue          queue.Client
	Extractor      *contact.Extractor
	Health         *health.Service
	ScansRepo      scans.Repo
	ExportsRepo    exports.Repo
	ScansService   *scans.Service
	ExportsService *exports.Service
	Processor      *batch.Processor
	ScansHandler   *scans.Handler
	ExportsHandler *exports.Handler
	BatchHandler   *batch.Handler
	UploadsHandler *uploads.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Redis:     redisClient,
		Store:     store,
		Extractor: extractor,
		Health:    health.NewService(),
	}

	if cfg.SQSQueueURL != "" {
		client, err := queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		app.Queue = client
	}

	if cfg.UploadsBucket != "" {
		h, err := uploads.NewHandler(ctx, cfg.AWSRegion, cfg.UploadsBucket, cfg.UploadsPrefix)
		if err != nil {
			return nil, fmt.Errorf("uploads presign: %w", err)
		}
		app.UploadsHandler = h
	}

	buildServices(app)

	registrars := []server.RouteRegistrar{app.ScansHandler, app.ExportsHandler, app.BatchHandler}
	if app.UploadsHandler != nil {
		registrars = append(registrars, app.UploadsHandler)
	}
	app.Router = server.NewRouter(server.Deps{
		Config:     cfg,
		Health:     app.Health,
		Limiter:    middleware.NewRateLimiter(nil),
		Registrars: registrars,
	})

	return app, nil
}

// Close releases database and redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildExtractor(cfg config.Config) (*contact.Extractor, error) {
	if strings.TrimSpace(cfg.GazetteerFile) == "" {
		return contact.NewExtractor(nil), nil
	}
	g, err := contact.LoadGazetteerFile(cfg.GazetteerFile)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}
	log.Printf("bootstrap: loaded %d places from %s", len(g.Places()), cfg.GazetteerFile)
	return contact.NewExtractor(g), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory export ledger")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory export ledger: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.SessionStore != "redis" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable at %s; using in-memory sessions: %v", cfg.RedisAddr, err)
			return nil, nil
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ExportsRepo = &exports.PGRepo{DB: app.DB}
		app.Health.Register("db", app.DB.PingContext)
	} else {
		app.ExportsRepo = exports.NewMemoryRepo()
	}

	if app.Redis != nil {
		app.ScansRepo = scans.NewRedisRepo(app.Redis, app.Config.SessionTTL)
		app.Health.Register("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	} else {
		app.ScansRepo = scans.NewMemoryRepo(app.Config.SessionTTL)
	}

	app.ExportsService = exports.NewService(app.ExportsRepo)
	app.ScansService = &scans.Service{
		Repo:           app.ScansRepo,
		Scanner:        scanner.New(app.Extractor, scanner.SourceHTTP),
		Exports:        app.ExportsService,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}
	app.Processor = batch.NewProcessor(app.Store, scanner.New(app.Extractor, scanner.SourceBatch), app.ExportsService)

	app.ScansHandler = scans.NewHandler(app.ScansService)
	app.ExportsHandler = exports.NewHandler(app.ExportsService)
	app.BatchHandler = &batch.Handler{
		Queue:          app.Queue,
		Store:          app.Store,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}
}
