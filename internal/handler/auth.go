package handler

import (
	"net/http"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	APIKey string `json:"apiKey"`
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.APIKey == "" {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "apiKey is required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.APIKey)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LoginResponse{Success: true, Token: token})
}
