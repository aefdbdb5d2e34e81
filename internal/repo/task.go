package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type TaskRepo struct { // Репозиторий поверх PostgreSQL
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, priority, label)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, priority, label, created_at
	`, t.Title, t.Description, t.Priority, t.Label).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Label, &t.CreatedAt,
	)
	return t, r.mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, priority, label, created_at
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Label, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
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
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Label, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update перезаписывает изменяемые поля; id и created_at не трогаются.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, label = $5
		WHERE id = $1
		RETURNING id, title, description, priority, label, created_at
	`, t.ID, t.Title, t.Description, t.Priority, t.Label).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Label, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, r.mapError(err)
}

func (r *TaskRepo) ListPriorities(ctx context.Context) ([]model.Priority, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM priority ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Priority, error) {
		var p model.Priority
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
}

func (r *TaskRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return err
}

func (r *TaskRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE key = $1
	`, key).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrorNotFound
	}
	return id, err
}

func (r *TaskRepo) GetStats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{ByPriority: make(map[int]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT priority, COUNT(*) FROM tasks GROUP BY priority
	`)
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

func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrorConflict
		case pgForeignKeyViolation:
			return ErrorInvalidPriority
		}
	}
	return err
}
