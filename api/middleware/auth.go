package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"timeline/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

func resolveViewer(c *gin.Context) (int64, bool) {
	// X-User-ID заголовок - для простых тестов
	userIDHeader := c.GetHeader("X-User-ID")
	if userIDHeader != "" {
		if userID, err := strconv.ParseInt(userIDHeader, 10, 64); err == nil {
			return userID, true
		}
		return 0, false
	}

	// Обычный путь: Authorization Bearer <token> через таблицу токенов
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if userID, err := userService.ResolveToken(c.Request.Context(), token); err == nil {
			return userID, true
		}
	}

	return 0, false
}

// AuthRequired - middleware для эндпоинтов, требующих авторизации
// (создание твита, лайк, подписка)
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveViewer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth - middleware для эндпоинтов, работающих и анонимно
// (чтение ленты). Если viewer не определился, запрос идет дальше без user_id.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveViewer(c); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
