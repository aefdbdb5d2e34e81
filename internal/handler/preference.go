package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

// Предпочтения живут только на клиенте, в cookie.
const preferenceCookie = "min_priority"

type PreferenceHandler struct {
	logger *zap.Logger
}

func NewPreferenceHandler(logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{logger: logger}
}

// Set: POST /api/preferences {"min_priority": N} -> 204 и Set-Cookie.
func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	var pref model.Preference
	if err := decodeJSON(r, &pref); err != nil {
		respondRequestError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     preferenceCookie,
		Value:    strconv.Itoa(pref.MinPriority),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Debug("preference stored", zap.Int("min_priority", pref.MinPriority))
	respond.NoContent(w)
}
