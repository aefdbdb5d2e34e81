package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

// SQLiteRepo - хранилище поверх SQLite (modernc.org/sqlite, без cgo).
// created_at хранится текстом в RFC3339Nano.
type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *SQLiteRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, priority, label, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, title, description, priority, label, created_at
	`, t.Title, t.Description, t.Priority, t.Label, r.now().Format(time.RFC3339Nano))

	created, err := scanTask(row)
	if err != nil {
		return t, r.mapError(err)
	}
	return created, nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, priority, label, created_at
		FROM tasks
		WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *SQLiteRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, priority, label, created_at
		FROM tasks
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, label = ?
		WHERE id = ?
		RETURNING id, title, description, priority, label, created_at
	`, t.Title, t.Description, t.Priority, t.Label, t.ID)

	updated, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, r.mapError(err)
	}
	return updated, nil
}

func (r *SQLiteRepo) ListPriorities(ctx context.Context) ([]model.Priority, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM priority ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var priorities []model.Priority
	for rows.Next() {
		var p model.Priority
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		priorities = append(priorities, p)
	}
	return priorities, rows.Err()
}

func (r *SQLiteRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return r.mapError(err)
}

func (r *SQLiteRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE key = ?
	`, key).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrorNotFound
	}
	return id, err
}

func (r *SQLiteRepo) GetStats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{ByPriority: make(map[int]int)}

	rows, err := r.db.QueryContext(ctx, `SELECT priority, COUNT(*) FROM tasks GROUP BY priority`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var priority, count int
		if err := rows.Scan(&priority, &count); err != nil {
			return stats, err
		}
		stats.ByPriority[priority] = count
		stats.TotalTasks += count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t           model.Task
		description sql.NullString
		label       sql.NullString
		createdAt   string
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &t.Priority, &label, &createdAt); err != nil {
		return t, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if label.Valid {
		t.Label = &label.String
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return t, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func (r *SQLiteRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrorConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrorInvalidPriority
		}
	}
	return err
}
