package respond

import (
	"encoding/json"
	"net/http"
)

// FieldError описывает одно нарушенное правило валидации.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type errorBody struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, errorBody{Error: message})
}

// ValidationError отвечает 422 со списком нарушенных правил.
func ValidationError(w http.ResponseWriter, r *http.Request, details []FieldError) {
	JSON(w, r, http.StatusUnprocessableEntity, errorBody{Error: "validation error", Details: details})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
