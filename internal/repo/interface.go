package repo

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

var (
	ErrorNotFound        = errors.New("not found")
	ErrorConflict        = errors.New("conflict")
	ErrorInvalidPriority = errors.New("unknown priority")
)

// TaskRepository определяет интерфейс хранилища задач.
// List возвращает все задачи в порядке создания, фильтрация делается выше (internal/filter).
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	ListPriorities(ctx context.Context) ([]model.Priority, error)
	SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error
	GetIdempotencyKey(ctx context.Context, key string) (int64, error)
	GetStats(ctx context.Context) (model.Stats, error)
}
