package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/service"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

// NewRouter собирает все маршруты API.
func NewRouter(svc *service.TaskService, logger *zap.Logger) http.Handler {
	tasks := NewTaskHandler(svc, logger)
	prefs := NewPreferenceHandler(logger)
	users := NewUserHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", tasks.Create)
			r.Get("/", tasks.List)
			r.Get("/{id}", tasks.Get)
			r.Patch("/{id}", tasks.Update)
		})

		r.Get("/priorities", tasks.Priorities)
		r.Get("/stats", tasks.Stats)
		r.Post("/preferences", prefs.Set)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.List)
			r.Get("/me", users.Me)
			r.Get("/{username}", users.Get)
		})
	})

	return r
}
