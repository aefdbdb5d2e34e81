// Package migrate накатывает встроенные миграции goose на PostgreSQL или SQLite.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/migrations"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// goose хранит диалект и FS в глобальном состоянии, поэтому вызовы сериализуются.
var mu sync.Mutex

func (d Dialect) gooseDialect() (string, error) {
	switch d {
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// Up применяет все еще не примененные миграции.
func Up(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger) error {
	return run(ctx, db, d, logger, "up", func(dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down откатывает последнюю примененную миграцию.
func Down(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger) error {
	return run(ctx, db, d, logger, "down", func(dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Status пишет в лог состояние каждой миграции.
func Status(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger) error {
	return run(ctx, db, d, logger, "status", func(dir string) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

// Version возвращает текущую версию схемы.
func Version(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := configure(d, zap.NewNop()); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

func run(ctx context.Context, db *sql.DB, d Dialect, logger *zap.Logger, command string, fn func(dir string) error) error {
	mu.Lock()
	defer mu.Unlock()

	log := logger.With(
		zap.String("correlation_id", uuid.NewString()),
		zap.String("component", "migrations"),
		zap.String("command", command),
		zap.String("dialect", string(d)),
	)

	if err := configure(d, log); err != nil {
		return err
	}

	start := time.Now()
	log.Info("Starting migration")
	if err := fn(string(d)); err != nil {
		log.Error("Migration failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return fmt.Errorf("goose %s: %w", command, err)
	}
	log.Info("Migration finished", zap.Duration("took", time.Since(start)))
	return nil
}

func configure(d Dialect, logger *zap.Logger) error {
	name, err := d.gooseDialect()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&zapGooseLogger{log: logger.Sugar()})
	if err := goose.SetDialect(name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// zapGooseLogger перенаправляет вывод goose в zap.
// Fatalf не вызывает os.Exit: ошибка и так вернется вызывающему.
type zapGooseLogger struct {
	log *zap.SugaredLogger
}

func (l *zapGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
