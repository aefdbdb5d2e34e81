package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/config"
	"github.com/BuzzLyutic/tasks-api/internal/database"
	"github.com/BuzzLyutic/tasks-api/internal/migrate"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
)

type store struct {
	repo  repo.TaskRepository
	close func()
}

func (s store) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStore выбирает реализацию репозитория по cfg.Storage.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Info("Using in-memory storage")
		return store{repo: repo.NewMemoryRepo()}, nil

	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := migrateOnce(ctx, cfg, log); err != nil {
				return store{}, err
			}
		}
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return store{}, err
		}
		log.Info("Successfully connected to the Database!")
		return store{repo: repo.NewTaskRepo(pool), close: pool.Close}, nil

	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return store{}, err
		}
		if cfg.AutoMigrate {
			if err := migrate.Up(ctx, db, migrate.SQLite, log); err != nil {
				db.Close()
				return store{}, err
			}
		}
		log.Info("Using sqlite storage", zap.String("path", cfg.SQLitePath))
		return store{repo: repo.NewSQLiteRepo(db), close: func() { db.Close() }}, nil
	}
	return store{}, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func migrateOnce(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	db, dialect, err := openSQL(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrate.Up(ctx, db, dialect, log)
}

// openSQL открывает database/sql соединение для goose.
func openSQL(ctx context.Context, cfg config.Config) (*sql.DB, migrate.Dialect, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := database.OpenPostgresDB(ctx, cfg.DatabaseURL)
		return db, migrate.Postgres, err
	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		return db, migrate.SQLite, err
	}
	return nil, "", fmt.Errorf("storage %q has no schema to migrate", cfg.Storage)
}
