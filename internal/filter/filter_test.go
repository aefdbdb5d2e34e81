package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

func intPtr(i int) *int        { return &i }
func strPtr(s string) *string { return &s }

func lower(s string) string { return strings.ToLower(s) }

func contains(title, q string) bool { return strings.Contains(lower(title), lower(q)) }

// fixture: "test title 1".."test title 3" with priorities 1..3
func fixture() []model.Task {
	tasks := make([]model.Task, 0, 3)
	for i := 1; i <= 3; i++ {
		tasks = append(tasks, model.Task{
			ID:       int64(i),
			Title:    fmt.Sprintf("test title %d", i),
			Priority: i,
		})
	}
	return tasks
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filter  model.TaskFilter
		wantIDs []int64
	}{
		{
			name:    "no filter returns everything",
			filter:  model.TaskFilter{},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "min priority",
			filter:  model.TaskFilter{MinPriority: intPtr(2)},
			wantIDs: []int64{2, 3},
		},
		{
			name:    "min priority and query",
			filter:  model.TaskFilter{MinPriority: intPtr(2), Query: strPtr("title 2")},
			wantIDs: []int64{2},
		},
		{
			name:    "cookie only",
			filter:  model.TaskFilter{CookieMinPriority: intPtr(3)},
			wantIDs: []int64{3},
		},
		{
			name:    "query parameter overrides cookie",
			filter:  model.TaskFilter{MinPriority: intPtr(2), CookieMinPriority: intPtr(3)},
			wantIDs: []int64{2, 3},
		},
		{
			name:    "lower explicit value still wins over higher cookie",
			filter:  model.TaskFilter{MinPriority: intPtr(1), CookieMinPriority: intPtr(3)},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "query is case insensitive",
			filter:  model.TaskFilter{Query: strPtr("TITLE 3")},
			wantIDs: []int64{3},
		},
		{
			name:    "query without match",
			filter:  model.TaskFilter{Query: strPtr("nothing")},
			wantIDs: []int64{},
		},
		{
			name:    "empty query is ignored",
			filter:  model.TaskFilter{Query: strPtr("")},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "threshold above every task",
			filter:  model.TaskFilter{MinPriority: intPtr(5)},
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixture(), tt.filter)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: 9, Title: "write report", Priority: 4},
		{ID: 2, Title: "Report bug", Priority: 5},
		{ID: 5, Title: "reporting", Priority: 1},
		{ID: 1, Title: "REPORT card", Priority: 3},
	}

	got := Apply(tasks, model.TaskFilter{MinPriority: intPtr(3), Query: strPtr("report")})

	assert.Equal(t, []int64{9, 2, 1}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := fixture()
	before := append([]model.Task(nil), tasks...)

	Apply(tasks, model.TaskFilter{MinPriority: intPtr(2), Query: strPtr("title")})

	assert.Equal(t, before, tasks)
}

func TestApply_Properties(t *testing.T) {
	titles := []string{"Buy milk", "buy bread", "Call mom", "MILKSHAKE", "clean", "milk run"}
	var tasks []model.Task
	for i, title := range titles {
		tasks = append(tasks, model.Task{ID: int64(i + 1), Title: title, Priority: i%5 + 1})
	}

	for p := 1; p <= 5; p++ {
		for _, q := range []string{"milk", "BUY", "xyz", "cl"} {
			f := model.TaskFilter{MinPriority: intPtr(p), Query: strPtr(q)}
			got := Apply(tasks, f)

			// no false positives
			for _, task := range got {
				assert.GreaterOrEqual(t, task.Priority, p)
				assert.Contains(t, lower(task.Title), lower(q))
			}

			// no false negatives
			want := 0
			for _, task := range tasks {
				if task.Priority >= p && contains(task.Title, q) {
					want++
				}
			}
			assert.Len(t, got, want, "p=%d q=%q", p, q)

			// idempotent
			assert.Equal(t, got, Apply(got, f), "p=%d q=%q", p, q)
		}
	}
}

func TestEffectiveMinPriority(t *testing.T) {
	assert.Nil(t, EffectiveMinPriority(model.TaskFilter{}))
	assert.Equal(t, 3, *EffectiveMinPriority(model.TaskFilter{CookieMinPriority: intPtr(3)}))
	assert.Equal(t, 2, *EffectiveMinPriority(model.TaskFilter{MinPriority: intPtr(2), CookieMinPriority: intPtr(3)}))
	assert.Equal(t, 4, *EffectiveMinPriority(model.TaskFilter{MinPriority: intPtr(4)}))
}
