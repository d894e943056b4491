package main

import (
	"climblog/climbing-app/internal/config"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/repository/memory"
	"climblog/climbing-app/internal/repository/mongo"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const indexTimeout = time.Minute

// repositories is the storage backend the services run on.
type repositories struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	climbs   repository.ClimbRepository
	uploads  repository.UploadRepository
	close    func()
}

// loadConfig reads the config and builds the logger every command uses.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, fmt.Errorf("could not load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger, err = config.NewLogger(cfg.Log.Level)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openRepositories connects the configured database driver. For mongo it
// also makes sure the indexes exist, since the open-session rule depends on them.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on exit")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			sessions: store.Sessions(),
			climbs:   store.Climbs(),
			uploads:  store.Uploads(),
			close:    func() {},
		}, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.Name)
		logger.Info("database connection established", zap.String("database", cfg.Name))

		indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, err
		}

		return &repositories{
			users:    mongo.NewMongoUserRepository(db),
			sessions: mongo.NewMongoSessionRepository(db),
			climbs:   mongo.NewMongoClimbRepository(db),
			uploads:  mongo.NewMongoUploadRepository(db),
			close: func() {
				logger.Info("disconnecting MongoDB")
				if err := mongo.DisconnectDB(client); err != nil {
					logger.Error("failed to disconnect MongoDB", zap.Error(err))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
