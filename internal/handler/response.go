package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/service"
)

// MaxBodyBytes ограничивает размер тела запроса
const MaxBodyBytes = 10 << 20

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// RespondWithData отправляет успешный ответ в общем формате {success, message, data}
func RespondWithData(w http.ResponseWriter, r *http.Request, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, r, statusCode, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// decodeJSON читает тело запроса в dst. При ошибке ответ уже отправлен.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeBody(w, r, dst, false)
}

// decodeStrictJSON как decodeJSON, но лишние ключи отклоняются с 400
func decodeStrictJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			RespondWithError(w, r, http.StatusRequestEntityTooLarge, domain.CodeBadRequest, "request body too large")
		case errors.Is(err, io.EOF):
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "request body is required")
		default:
			if field, ok := unknownField(err); ok {
				HandleError(w, r, &domain.ValidationError{
					Code:    domain.CodeValidation,
					Message: service.MsgValidationFailed,
					Errors:  []domain.FieldError{{Field: field, Message: field + " is not allowed"}},
				})
				return false
			}
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// unknownField извлекает имя ключа из ошибки DisallowUnknownFields.
// encoding/json не экспортирует тип этой ошибки, поэтому разбираем текст.
func unknownField(err error) (string, bool) {
	rest, ok := strings.CutPrefix(err.Error(), "json: unknown field ")
	if !ok {
		return "", false
	}
	return strings.Trim(rest, `"`), true
}
