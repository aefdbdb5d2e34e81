package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

type User struct {
	Username string `json:"username"`
}

// UserHandler отдает статический список пользователей, без аутентификации.
type UserHandler struct {
	users   []User
	current User
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		users:   []User{{Username: "Rick"}, {Username: "Morty"}},
		current: User{Username: "fakecurrentuser"},
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.users)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.current)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, User{Username: chi.URLParam(r, "username")})
}
