package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/recruiter-backend/internal/dto"
	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// Context ключи для gin.Context.
const (
	ContextUserKey  = "currentUser"
	ContextTokenKey = "bearerToken"
)

// Authenticator проверяет bearer токен и возвращает аккаунт.
// Структурно валидный, но отозванный токен обязан быть отвергнут.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware проверяет заголовок Authorization.
// Принимается только каноничная форма "Bearer <token>".
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewEnvelope(nil, "", http.StatusUnauthorized, "требуется авторизация", true))
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		user, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewEnvelope(nil, "", http.StatusUnauthorized, "токен невалиден", true))
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, raw)
		c.Next()
	}
}
