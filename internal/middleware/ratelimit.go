package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// RateLimitMessage возвращается клиенту при превышении лимита
const RateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimit ограничивает число запросов с одного IP в фиксированном окне.
// Запросы сверх лимита получают 429 без постановки в очередь.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, map[string]interface{}{
				"success": false,
				"code":    domain.CodeRateLimited,
				"message": RateLimitMessage,
			})
		}),
	)
}
