// Package seed загружает начальный набор задач из YAML-файла.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/service"
)

type file struct {
	Tasks []model.TaskCreate `yaml:"tasks"`
}

// Load разбирает документ вида:
//
//	tasks:
//	  - title: buy milk
//	    priority: 2
func Load(r io.Reader) ([]model.TaskCreate, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return f.Tasks, nil
}

func LoadFile(path string) ([]model.TaskCreate, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Run создает задачи через сервис, чтобы к ним применялась та же валидация,
// что и к запросам API. Останавливается на первой ошибке.
func Run(ctx context.Context, svc *service.TaskService, items []model.TaskCreate, logger *zap.Logger) (int, error) {
	for i, item := range items {
		task, err := svc.Create(ctx, item, "")
		if err != nil {
			return i, fmt.Errorf("seed task #%d (%q): %w", i+1, item.Title, err)
		}
		logger.Debug("seeded task", zap.Int64("id", task.ID), zap.String("title", task.Title))
	}
	logger.Info("seed complete", zap.Int("tasks", len(items)))
	return len(items), nil
}

// RunIfEmpty засевает хранилище только если в нем еще нет задач,
// чтобы повторный запуск сервера с тем же файлом не плодил дубликаты.
func RunIfEmpty(ctx context.Context, svc *service.TaskService, items []model.TaskCreate, logger *zap.Logger) (int, error) {
	existing, err := svc.List(ctx, model.TaskFilter{})
	if err != nil {
		return 0, fmt.Errorf("check store before seeding: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already has tasks, seed skipped", zap.Int("tasks", len(existing)))
		return 0, nil
	}
	return Run(ctx, svc, items, logger)
}
