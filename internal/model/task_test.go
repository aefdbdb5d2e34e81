package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskUpdate_Apply(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := Task{
		ID:          1,
		Title:       "t",
		Description: strPtr("d"),
		Priority:    3,
		CreatedAt:   created,
	}

	tests := []struct {
		name   string
		update TaskUpdate
		want   Task
	}{
		{
			name:   "description only",
			update: TaskUpdate{Description: Some("updated")},
			want:   Task{ID: 1, Title: "t", Description: strPtr("updated"), Priority: 3, CreatedAt: created},
		},
		{
			name:   "title and priority",
			update: TaskUpdate{Title: Some("new title"), Priority: Some(5)},
			want:   Task{ID: 1, Title: "new title", Description: strPtr("d"), Priority: 5, CreatedAt: created},
		},
		{
			name:   "label is set",
			update: TaskUpdate{Label: Some("home")},
			want:   Task{ID: 1, Title: "t", Description: strPtr("d"), Priority: 3, Label: strPtr("home"), CreatedAt: created},
		},
		{
			name:   "null description clears it",
			update: TaskUpdate{Description: Null[string]()},
			want:   Task{ID: 1, Title: "t", Priority: 3, CreatedAt: created},
		},
		{
			name:   "null title and priority become zero values",
			update: TaskUpdate{Title: Null[string](), Priority: Null[int]()},
			want:   Task{ID: 1, Title: "", Description: strPtr("d"), Priority: 0, CreatedAt: created},
		},
		{
			name:   "empty update keeps everything",
			update: TaskUpdate{},
			want:   existing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.update.Apply(existing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskUpdate_ApplyDoesNotMutate(t *testing.T) {
	desc := "d"
	existing := Task{ID: 7, Title: "title", Description: &desc, Priority: 2}

	merged := TaskUpdate{Description: Some("changed"), Priority: Some(4)}.Apply(existing)

	assert.Equal(t, "d", *existing.Description)
	assert.Equal(t, 2, existing.Priority)
	assert.Equal(t, "changed", *merged.Description)
	assert.Equal(t, int64(7), merged.ID)
}

func TestTaskUpdate_Empty(t *testing.T) {
	assert.True(t, TaskUpdate{}.Empty())
	assert.False(t, TaskUpdate{Label: Some("x")}.Empty())
	assert.False(t, TaskUpdate{Label: Null[string]()}.Empty())
}

func TestTaskUpdate_UnmarshalJSON(t *testing.T) {
	var u TaskUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"label":"home","priority":2}`), &u))

	assert.False(t, u.Title.Set)
	assert.Equal(t, Null[string](), u.Description)
	assert.Equal(t, Some("home"), u.Label)
	assert.Equal(t, Some(2), u.Priority)

	label := "work"
	existing := Task{ID: 3, Title: "title", Description: strPtr("d"), Priority: 1, Label: &label}
	merged := u.Apply(existing)
	assert.Nil(t, merged.Description)
	require.NotNil(t, merged.Label)
	assert.Equal(t, "home", *merged.Label)
	assert.Equal(t, "work", label, "existing label must not be modified")
}

func TestTaskUpdate_UnmarshalJSON_TypeError(t *testing.T) {
	var u TaskUpdate
	err := json.Unmarshal([]byte(`{"priority":"high"}`), &u)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestTaskCreate_Task(t *testing.T) {
	c := TaskCreate{Title: "abc", Description: strPtr("desc"), Priority: 4, Label: strPtr("l")}
	task := c.Task()

	assert.Zero(t, task.ID)
	assert.Equal(t, "abc", task.Title)
	assert.Equal(t, "desc", *task.Description)
	assert.Equal(t, 4, task.Priority)
	assert.Equal(t, "l", *task.Label)
}
