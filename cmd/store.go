package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	config "project-board.com/project-board/internal/configs"
	repository "project-board.com/project-board/internal/repositories"
)

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.TaskStore, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		if cfg.DatabaseAutoMigrate {
			if err := repository.RunMigrations(cfg.DatabaseURL, repository.MigrateUp, logger); err != nil {
				return nil, err
			}
		}
		pool, err := config.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresTaskRepository(pool), nil

	case config.DriverBolt:
		store, err := repository.OpenBoltTaskRepository(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverSQLite:
		db, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repository.NewTaskRepository(db), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
}
