package repo

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

// MemoryRepo хранит задачи в памяти процесса: для локального запуска и тестов.
type MemoryRepo struct {
	mu         sync.RWMutex
	tasks      map[int64]model.Task
	idempKeys  map[string]int64
	priorities []model.Priority
	now        func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks:      make(map[int64]model.Task),
		idempKeys:  make(map[string]int64),
		priorities: slices.Clone(model.DefaultPriorities),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.knownPriority(t.Priority) {
		return t, ErrorInvalidPriority
	}

	// next_id = max(ids) + 1, первый id всегда 1
	var maxID int64
	for id := range r.tasks {
		maxID = max(maxID, id)
	}

	t.ID = maxID + 1
	t.CreatedAt = r.now()
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	return t, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(r.tasks))
	tasks := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, r.tasks[id])
	}
	return tasks, nil
}

func (r *MemoryRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[t.ID]
	if !ok {
		return t, ErrorNotFound
	}
	if !r.knownPriority(t.Priority) {
		return t, ErrorInvalidPriority
	}

	t.CreatedAt = stored.CreatedAt
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) ListPriorities(ctx context.Context) ([]model.Priority, error) {
	return slices.Clone(r.priorities), nil
}

func (r *MemoryRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// как ON CONFLICT DO NOTHING
	if _, ok := r.idempKeys[key]; !ok {
		r.idempKeys[key] = resourceID
	}
	return nil
}

func (r *MemoryRepo) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idempKeys[key]
	if !ok {
		return 0, ErrorNotFound
	}
	return id, nil
}

func (r *MemoryRepo) GetStats(ctx context.Context) (model.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := model.Stats{
		TotalTasks: len(r.tasks),
		ByPriority: make(map[int]int),
	}
	for _, t := range r.tasks {
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}

func (r *MemoryRepo) knownPriority(id int) bool {
	return slices.ContainsFunc(r.priorities, func(p model.Priority) bool { return p.ID == id })
}
