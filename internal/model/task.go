package model

import "time"

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    int       `json:"priority"`
	Label       *string   `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCreate - тело запроса на создание задачи
type TaskCreate struct {
	Title       string  `json:"title" yaml:"title" validate:"required,min=3"`
	Description *string `json:"description,omitempty" yaml:"description"`
	Priority    int     `json:"priority" yaml:"priority" validate:"required,min=1,max=5"`
	Label       *string `json:"label,omitempty" yaml:"label"`
}

func (c TaskCreate) Task() Task {
	return Task{
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Label:       c.Label,
	}
}

// TaskUpdate содержит только те поля, которые клиент явно передал.
// ID и CreatedAt сюда не входят и никогда не меняются.
type TaskUpdate struct {
	Title       Optional[string] `json:"title" validate:"omitempty,min=3"`
	Description Optional[string] `json:"description"`
	Priority    Optional[int]    `json:"priority" validate:"omitempty,min=1,max=5"`
	Label       Optional[string] `json:"label"`
}

// Apply возвращает копию existing, в которой переданные поля перезаписаны.
// null в description/label очищает поле; null в title/priority дает нулевое
// значение, которое затем отклоняет валидация.
func (u TaskUpdate) Apply(existing Task) Task {
	merged := existing
	if u.Title.Set {
		merged.Title = u.Title.Value
	}
	if u.Description.Set {
		merged.Description = u.Description.Ptr()
	}
	if u.Priority.Set {
		merged.Priority = u.Priority.Value
	}
	if u.Label.Set {
		merged.Label = u.Label.Ptr()
	}
	return merged
}

func (u TaskUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Priority.Set && !u.Label.Set
}

// TaskFilter - опциональные критерии выборки. nil означает "фильтр не задан".
type TaskFilter struct {
	MinPriority       *int
	Query             *string
	CookieMinPriority *int
}

type Priority struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DefaultPriorities совпадает со строками, которые вставляет миграция priority.
var DefaultPriorities = []Priority{
	{ID: 1, Name: "lowest"},
	{ID: 2, Name: "low"},
	{ID: 3, Name: "medium"},
	{ID: 4, Name: "high"},
	{ID: 5, Name: "highest"},
}

type Preference struct {
	MinPriority int `json:"min_priority" validate:"required,min=1,max=5"`
}

type Stats struct {
	TotalTasks int         `json:"total_tasks"`
	ByPriority map[int]int `json:"by_priority"`
}
