package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
	"github.com/BuzzLyutic/tasks-api/internal/service"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TaskCreate
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Debug("invalid create request", zap.Error(err))
		respondRequestError(w, r, err)
		return
	}

	idempKey := r.Header.Get("Idempotency-Key")
	task, err := h.service.Create(r.Context(), req, idempKey)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// List: GET /api/tasks?min_priority=N&q=text, плюс cookie min_priority.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTaskFilter(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}

	var req model.TaskUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) Priorities(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.service.ListPriorities(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, priorities)
}

func parseTaskFilter(r *http.Request) (model.TaskFilter, error) {
	var filter model.TaskFilter
	query := r.URL.Query()

	if query.Has("min_priority") {
		p, err := parsePriority("min_priority", query.Get("min_priority"))
		if err != nil {
			return filter, err
		}
		filter.MinPriority = p
	}

	if query.Has("q") {
		q := query.Get("q")
		if err := checkVar("q", q, "min=3"); err != nil {
			return filter, err
		}
		filter.Query = &q
	}

	cookie, err := r.Cookie(preferenceCookie)
	if err == nil {
		p, err := parsePriority("min_priority", cookie.Value)
		if err != nil {
			return filter, err
		}
		filter.CookieMinPriority = p
	}

	return filter, nil
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "task not found")
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	case errors.Is(err, repo.ErrorInvalidPriority):
		respond.Error(w, r, http.StatusUnprocessableEntity, "unknown priority")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusUnprocessableEntity, "validation error")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
