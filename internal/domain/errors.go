package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки
var (
	// ErrTeamExists возвращается при попытке зарегистрировать уже занятое название команды
	ErrTeamExists = errors.New("team name already exists")

	// ErrEmailRegistered возвращается когда email участника уже встречается в другой команде
	ErrEmailRegistered = errors.New("member email already registered")

	// ErrTeamIDExists возвращается при коллизии сгенерированного идентификатора
	ErrTeamIDExists = errors.New("team id already exists")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrInvalidStatus возвращается при попытке установить неизвестный статус
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет машиночитаемый код ошибки API
type ErrorCode string

// Коды ошибок API
const (
	CodeValidation    ErrorCode = "VALIDATION_FAILED"
	CodeSizeMismatch  ErrorCode = "TEAM_SIZE_MISMATCH"
	CodeTeamExists    ErrorCode = "TEAM_EXISTS"
	CodeEmailExists   ErrorCode = "EMAIL_REGISTERED"
	CodeTeamIDExists  ErrorCode = "TEAM_ID_EXISTS"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeInvalidStatus ErrorCode = "INVALID_STATUS"
	CodeBadRequest    ErrorCode = "BAD_REQUEST"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeRateLimited   ErrorCode = "RATE_LIMITED"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// FieldError описывает нарушение правила для одного поля заявки
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError возвращается когда заявка не прошла проверку схемы или размера команды
type ValidationError struct {
	Code    ErrorCode
	Message string
	Errors  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %d field error(s)", e.Message, len(e.Errors))
}

// ConflictError возвращается при нарушении уникальности названия или email
type ConflictError struct {
	Code             ErrorCode
	Message          string
	RegisteredEmails []string
	Err              error
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Unwrap позволяет сравнивать ConflictError с ErrTeamExists / ErrEmailRegistered
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	var verr *ValidationError
	var cerr *ConflictError
	switch {
	case errors.As(err, &verr):
		return verr.Code
	case errors.As(err, &cerr):
		return cerr.Code
	case errors.Is(err, ErrTeamExists):
		return CodeTeamExists
	case errors.Is(err, ErrEmailRegistered):
		return CodeEmailExists
	case errors.Is(err, ErrTeamIDExists):
		return CodeTeamIDExists
	case errors.Is(err, ErrTeamNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	default:
		return CodeInternalError
	}
}
