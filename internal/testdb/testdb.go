// Package testdb готовит для тестов PostgreSQL и SQLite с накатанными миграциями.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/database"
	"github.com/BuzzLyutic/tasks-api/internal/migrate"
)

// SetupPostgres поднимает PostgreSQL в testcontainers и накатывает миграции.
func SetupPostgres(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in -short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	sqlDB, err := database.OpenPostgresDB(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, migrate.Postgres, zap.NewNop()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	sqlDB.Close()

	pool, err := database.OpenPostgres(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// TruncateTables очищает таблицы задач и сбрасывает счетчик id
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE tasks, idempotency_keys RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SeedTasks создает задачи "Task 1".."Task N" с приоритетами 1..5 по кругу
func SeedTasks(t *testing.T, pool *pgxpool.Pool, count int) []int64 {
	t.Helper()
	ctx := context.Background()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO tasks (title, priority)
			VALUES ($1, $2)
			RETURNING id
		`, fmt.Sprintf("Task %d", i+1), (i%5)+1).Scan(&id)

		if err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
		ids = append(ids, id)
	}

	return ids
}

// SetupSQLite создает SQLite базу во временной директории теста и накатывает миграции.
func SetupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrate.Up(ctx, db, migrate.SQLite, zap.NewNop()); err != nil {
		t.Fatalf("Failed to migrate sqlite: %v", err)
	}
	return db
}
