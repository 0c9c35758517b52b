package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/recruiter-backend/internal/dto"
	"github.com/ignatzorin/recruiter-backend/internal/http/middleware"
	"github.com/ignatzorin/recruiter-backend/internal/models"
)

var errNoUserInContext = errors.New("пользователь не найден в контексте")

// currentUser извлекает аутентифицированный аккаунт из контекста.
func currentUser(c *gin.Context) (*models.User, error) {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, errNoUserInContext
	}

	user, ok := raw.(*models.User)
	if !ok {
		return nil, errNoUserInContext
	}

	return user, nil
}

// currentToken извлекает предъявленный bearer токен из контекста.
func currentToken(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextTokenKey)
	if !exists {
		return "", errNoUserInContext
	}

	token, ok := raw.(string)
	if !ok {
		return "", errNoUserInContext
	}

	return token, nil
}

// respond отправляет ответ в едином конверте.
func respond(c *gin.Context, data interface{}, token string, status int, message string, isError bool) {
	c.JSON(status, dto.NewEnvelope(data, token, status, message, isError))
}
