// Package filter отбирает задачи для запроса списка.
//
// Apply не меняет переданный срез и сохраняет порядок входа, поэтому его можно
// вызывать из любого числа горутин над одним снимком.
package filter

import (
	"strings"

	"github.com/BuzzLyutic/tasks-api/internal/model"
)

// EffectiveMinPriority определяет нижнюю границу приоритета для f.
// Явный MinPriority всегда важнее значения из cookie.
func EffectiveMinPriority(f model.TaskFilter) *int {
	if f.MinPriority != nil {
		return f.MinPriority
	}
	return f.CookieMinPriority
}

// Apply возвращает задачи, удовлетворяющие всем критериям f.
func Apply(tasks []model.Task, f model.TaskFilter) []model.Task {
	minPriority := EffectiveMinPriority(f)

	var query string
	if f.Query != nil {
		query = strings.ToLower(*f.Query)
	}

	result := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if minPriority != nil && t.Priority < *minPriority {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Title), query) {
			continue
		}
		result = append(result, t)
	}
	return result
}
