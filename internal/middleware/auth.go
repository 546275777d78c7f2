package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// RoleKey ключ контекста для роли из токена
const RoleKey ContextKey = "role"

// unauthorized пишет ответ 401 в общем формате ошибок API
func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"code":    domain.CodeUnauthorized,
		"message": message,
	})
}

// AdminMiddleware создает middleware для проверки JWT токена администратора.
// Если аутентификация не настроена, запросы пропускаются без проверки.
func AdminMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, r, "invalid authorization header format")
				return
			}

			// Валидируем токен
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				unauthorized(w, r, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRoleFromContext извлекает роль из контекста
func GetRoleFromContext(ctx context.Context) string {
	role, ok := ctx.Value(RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}
