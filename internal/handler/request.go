package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/pkg/respond"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ответах используем имена полей из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(optionalValue, model.Optional[string]{}, model.Optional[int]{})
	v.RegisterStructValidation(rejectNullRequired, model.TaskUpdate{})
	return v
}

// optionalValue отдает валидатору значение Optional; отсутствие и null
// превращаются в nil, и правила с omitempty их пропускают.
func optionalValue(field reflect.Value) interface{} {
	switch o := field.Interface().(type) {
	case model.Optional[string]:
		if o.Present() {
			return o.Value
		}
	case model.Optional[int]:
		if o.Present() {
			return o.Value
		}
	}
	return nil
}

// title и priority нельзя обнулить через PATCH.
func rejectNullRequired(sl validator.StructLevel) {
	u := sl.Current().Interface().(model.TaskUpdate)
	if u.Title.Null {
		sl.ReportError(u.Title, "title", "Title", "required", "")
	}
	if u.Priority.Null {
		sl.ReportError(u.Priority, "priority", "Priority", "required", "")
	}
}

var errEmptyBody = errors.New("empty request body")

// paramError - невалидный параметр пути, query-строки или cookie.
type paramError struct {
	respond.FieldError
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Field, e.Rule, e.Param)
}

// decodeJSON декодирует тело запроса и проверяет его правилами из тегов validate.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.ContentLength == 0 {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return validate.Struct(v)
}

// checkVar проверяет одно значение и сообщает нарушение под именем field.
func checkVar(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &paramError{respond.FieldError{Field: field, Rule: verrs[0].Tag(), Param: verrs[0].Param()}}
	}
	return err
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &paramError{respond.FieldError{Field: "id", Rule: "int"}}
	}
	if err := checkVar("id", id, "min=1"); err != nil {
		return 0, err
	}
	return id, nil
}

// parsePriority разбирает значение приоритета 1..5 из строки.
func parsePriority(field, raw string) (*int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, &paramError{respond.FieldError{Field: field, Rule: "int"}}
	}
	if err := checkVar(field, v, "min=1,max=5"); err != nil {
		return nil, err
	}
	return &v, nil
}

// respondRequestError отвечает 400 на сломанный JSON и 422 на нарушение правил.
func respondRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs    validator.ValidationErrors
		typeErr  *json.UnmarshalTypeError
		paramErr *paramError
	)

	switch {
	case errors.Is(err, errEmptyBody):
		respond.Error(w, r, http.StatusBadRequest, errEmptyBody.Error())
	case errors.As(err, &verrs):
		details := make([]respond.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, respond.FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		respond.ValidationError(w, r, details)
	case errors.As(err, &typeErr):
		respond.ValidationError(w, r, []respond.FieldError{{Field: typeErr.Field, Rule: "type", Param: typeErr.Type.String()}})
	case errors.As(err, &paramErr):
		respond.ValidationError(w, r, []respond.FieldError{paramErr.FieldError})
	default:
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
	}
}
