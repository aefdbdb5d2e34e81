package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/config"
	"github.com/BuzzLyutic/tasks-api/internal/handler"
	"github.com/BuzzLyutic/tasks-api/internal/logger"
	"github.com/BuzzLyutic/tasks-api/internal/migrate"
	"github.com/BuzzLyutic/tasks-api/internal/seed"
	"github.com/BuzzLyutic/tasks-api/internal/service"
)

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks-api",
		Usage: "HTTP API for tasks with priority filtering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file (yaml/json/toml); env vars override it",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
		},
		DefaultCommand: "serve",
	}
}

// setup загружает конфигурацию и создает логгер, общие для всех команд.
func setup(cmd *cli.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server",
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := service.NewTaskService(st.repo)

	if err := seedOnStart(ctx, cfg, svc, log); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(svc, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server started", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped successfully")
	return nil
}

// seedOnStart засевает пустое хранилище из SEED_FILE.
func seedOnStart(ctx context.Context, cfg config.Config, svc *service.TaskService, log *zap.Logger) error {
	if cfg.SeedFile == "" {
		return nil
	}
	items, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		return err
	}
	_, err = seed.RunIfEmpty(ctx, svc, items, log)
	return err
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: migrateAction(migrate.Up),
			},
			{
				Name:   "down",
				Usage:  "Roll back the latest migration",
				Action: migrateAction(migrate.Down),
			},
			{
				Name:   "status",
				Usage:  "Show migration status",
				Action: migrateAction(migrate.Status),
			},
		},
		DefaultCommand: "status",
	}
}

type migrateFunc func(ctx context.Context, db *sql.DB, d migrate.Dialect, logger *zap.Logger) error

func migrateAction(fn migrateFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, dialect, err := openSQL(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		start := time.Now()
		if err := fn(ctx, db, dialect, log); err != nil {
			return err
		}
		version, err := migrate.Version(ctx, db, dialect)
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Int64("version", version), zap.Duration("took", time.Since(start)))
		return nil
	}
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Create tasks from a YAML file",
		ArgsUsage: "<file>",
		Action:    runSeed,
	}
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: %s <file>", cmd.FullName())
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Storage == config.StorageMemory {
		return errors.New("seeding the memory store from the CLI has no effect; set STORAGE to postgres or sqlite")
	}

	items, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := seed.Run(ctx, service.NewTaskService(st.repo), items, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "created %d tasks\n", n)
	return nil
}
