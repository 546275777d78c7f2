package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// ErrorResponse представляет тело ответа с ошибкой
type ErrorResponse struct {
	Success          bool                `json:"success"`
	Code             domain.ErrorCode    `json:"code"`
	Message          string              `json:"message"`
	Errors           []domain.FieldError `json:"errors,omitempty"`
	RegisteredEmails []string            `json:"registeredEmails,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code domain.ErrorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы.
// Детали ошибок хранилища клиенту не передаются, только в лог.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError

	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    verr.Code,
			Message: verr.Message,
			Errors:  verr.Errors,
		})
	case errors.As(err, &cerr):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorResponse{
			Code:             cerr.Code,
			Message:          cerr.Message,
			RegisteredEmails: cerr.RegisteredEmails,
		})
	case errors.Is(err, domain.ErrTeamNotFound):
		RespondWithError(w, r, http.StatusNotFound, domain.CodeNotFound, "Team not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeInvalidStatus, "Invalid status. Must be pending, approved, or rejected")
	case errors.Is(err, domain.ErrTeamExists), errors.Is(err, domain.ErrEmailRegistered), errors.Is(err, domain.ErrTeamIDExists):
		RespondWithError(w, r, http.StatusConflict, domain.MapErrorToCode(err), err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, domain.CodeUnauthorized, "unauthorized")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		RespondWithError(w, r, http.StatusInternalServerError, domain.CodeInternalError, "Internal server error")
	}
}

// NotFound отвечает на запросы к неизвестным маршрутам
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, http.StatusNotFound, domain.CodeNotFound, "API endpoint not found")
}

// MethodNotAllowed отвечает на запросы с неподдерживаемым методом
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, http.StatusMethodNotAllowed, domain.CodeBadRequest, "Method not allowed")
}
