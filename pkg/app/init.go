package app

import (
	"context"
	"log"
	"log/slog"

	schema "go-evelink/migrations"
	"go-evelink/pkg/config"
	"go-evelink/pkg/database"
	"go-evelink/pkg/eveapi"
	"go-evelink/pkg/logging"
	"go-evelink/pkg/migrations"

	"github.com/joho/godotenv"
)

// AppContext holds the shared application dependencies
type AppContext struct {
	MongoDB          *database.MongoDB
	Redis            *database.Redis
	EveClient        *eveapi.Client
	TelemetryManager *logging.TelemetryManager
	ServiceName      string
	shutdownFuncs    []func(context.Context) error
}

// InitializeApp loads .env, sets up telemetry, connects the optional
// databases and builds the EVE API client. MongoDB and Redis are optional:
// when unreachable the field is nil and dependent features degrade.
func InitializeApp(ctx context.Context, serviceName string) (*AppContext, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	telemetryManager := logging.NewTelemetryManager(serviceName)
	if err := telemetryManager.Initialize(ctx); err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	}

	appCtx := &AppContext{
		TelemetryManager: telemetryManager,
		ServiceName:      serviceName,
	}

	if config.GetBoolEnv("MONGODB_ENABLED", true) {
		mongodb, err := database.NewMongoDB(ctx, serviceName)
		if err != nil {
			slog.Error("Failed to connect to MongoDB, alliance snapshots disabled", "error", err)
		} else {
			appCtx.MongoDB = mongodb
			appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, mongodb.Close)

			if config.GetBoolEnv("MONGODB_AUTO_MIGRATE", true) {
				if err := RunMigrations(ctx, mongodb); err != nil {
					slog.Error("Failed to apply migrations", "error", err)
				}
			}
		}
	}

	var opts []eveapi.Option
	if config.GetBoolEnv("REDIS_ENABLED", true) {
		redis, err := database.NewRedis(ctx)
		if err != nil {
			slog.Error("Failed to connect to Redis, using in-memory response cache", "error", err)
		} else {
			appCtx.Redis = redis
			appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, func(context.Context) error {
				return redis.Close()
			})
			opts = append(opts, eveapi.WithCacheManager(eveapi.NewRedisCacheManager(redis)))
		}
	}

	appCtx.EveClient = eveapi.NewClient(opts...)
	slog.Info("EVE API client initialized",
		"base_url", config.GetEveAPIBaseURL(),
		"cache_backend", appCtx.EveClient.CacheBackend())

	// telemetry last so shutdown logs still export
	appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, telemetryManager.Shutdown)

	return appCtx, nil
}

// Shutdown releases dependencies in the order they were acquired
func (a *AppContext) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application", "service", a.ServiceName)

	for _, shutdown := range a.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}

	return nil
}

// RunMigrations applies every pending schema migration
func RunMigrations(ctx context.Context, mongodb *database.MongoDB) error {
	runner := migrations.NewRunner(mongodb.Database)
	schema.RegisterAll(runner)

	ran, err := runner.Run(ctx)
	if ran > 0 {
		slog.Info("Applied migrations", "count", ran)
	}
	return err
}

// GetPort returns the port from environment or default
func GetPort(defaultPort string) string {
	return config.GetEnv("PORT", defaultPort)
}
