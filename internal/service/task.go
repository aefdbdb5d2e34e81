package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/BuzzLyutic/tasks-api/internal/filter"
	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

const (
	minTitleLength = 3
	minPriority    = 1
	maxPriority    = 5
)

type TaskService struct {
	repo  repo.TaskRepository
	idemp singleflight.Group
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, req model.TaskCreate, idempKey string) (model.Task, error) {
	t := req.Task()
	if err := s.validate(t); err != nil { // Валидация модели на корректность введенных данных
		return t, err
	}

	if idempKey == "" {
		return s.repo.Create(ctx, t)
	}

	// Одновременные запросы с одним ключом внутри процесса выполняются один раз.
	// Общая работа не зависит от отмены контекста того, кто ее запустил;
	// каждый вызывающий ждет только пока жив его собственный ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.idemp.DoChan(idempKey, func() (interface{}, error) {
		return s.createIdempotent(shared, t, idempKey)
	})

	select {
	case <-ctx.Done():
		return t, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return t, res.Err
		}
		return res.Val.(model.Task), nil
	}
}

func (s *TaskService) createIdempotent(ctx context.Context, t model.Task, idempKey string) (model.Task, error) {
	// Повторный запрос с тем же ключом возвращает уже созданную задачу
	if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
		return s.repo.Get(ctx, existingID)
	} else if !errors.Is(err, repo.ErrorNotFound) {
		return t, err
	}

	resource, err := s.repo.Create(ctx, t)
	if err != nil {
		return resource, err
	}

	if err := s.repo.SaveIdempotencyKey(ctx, idempKey, resource.ID); err != nil {
		return resource, err
	}

	// Ключ мог занять другой экземпляр сервиса: отдаем победившую задачу
	ownerID, err := s.repo.GetIdempotencyKey(ctx, idempKey)
	if err != nil {
		return resource, err
	}
	if ownerID != resource.ID {
		return s.repo.Get(ctx, ownerID)
	}
	return resource, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

// List берет снимок всех задач и фильтрует его в памяти.
func (s *TaskService) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(tasks, f), nil
}

// Update применяет частичное обновление: меняются только переданные поля.
func (s *TaskService) Update(ctx context.Context, id int64, upd model.TaskUpdate) (model.Task, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return existing, err
	}

	merged := upd.Apply(existing)
	if err := s.validate(merged); err != nil {
		return existing, err
	}
	if upd.Empty() {
		return existing, nil
	}
	return s.repo.Update(ctx, merged)
}

func (s *TaskService) ListPriorities(ctx context.Context) ([]model.Priority, error) {
	return s.repo.ListPriorities(ctx)
}

func (s *TaskService) GetStats(ctx context.Context) (model.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *TaskService) validate(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" || utf8.RuneCountInString(t.Title) < minTitleLength {
		return ErrValidation
	}
	if t.Priority < minPriority || t.Priority > maxPriority {
		return ErrValidation
	}
	return nil
}
