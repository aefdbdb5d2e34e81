package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
	"github.com/BuzzLyutic/tasks-api/internal/service"
)

const sample = `
tasks:
  - title: buy milk
    priority: 2
  - title: write report
    description: quarterly numbers
    priority: 5
    label: work
`

func TestLoad(t *testing.T) {
	items, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "buy milk", items[0].Title)
	assert.Equal(t, 2, items[0].Priority)
	assert.Nil(t, items[0].Description)

	require.NotNil(t, items[1].Description)
	assert.Equal(t, "quarterly numbers", *items[1].Description)
	require.NotNil(t, items[1].Label)
	assert.Equal(t, "work", *items[1].Label)
}

func TestLoad_Empty(t *testing.T) {
	items, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(strings.NewReader("tasks:\n  - title: abc\n    priority: 1\n    owner: rick\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	items, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(repo.NewMemoryRepo())

	items, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	n, err := Run(ctx, svc, items, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tasks, err := svc.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, "write report", tasks[1].Title)
}

func TestRun_StopsOnInvalidTask(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(repo.NewMemoryRepo())

	items := []model.TaskCreate{
		{Title: "valid one", Priority: 1},
		{Title: "no", Priority: 1},
		{Title: "never created", Priority: 1},
	}

	n, err := Run(ctx, svc, items, zap.NewNop())
	require.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 1, n)

	tasks, err := svc.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestRunIfEmpty(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(repo.NewMemoryRepo())

	items, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	n, err := RunIfEmpty(ctx, svc, items, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a second run with the same file creates nothing
	n, err = RunIfEmpty(ctx, svc, items, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	tasks, err := svc.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
