package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/recruiter-backend/internal/dto"
	"github.com/ignatzorin/recruiter-backend/internal/logger"
	"github.com/ignatzorin/recruiter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
)

// ErrorHandler переводит необработанные ошибки в единый конверт ответа.
// Детали внутренних ошибок наружу не утекают: клиент получает только
// сообщение; нарушение уникальности распознаётся как конфликт (409).
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		var appErr *apperror.AppError
		var pqErr *pq.Error

		switch {
		case errors.As(err.Err, &appErr):
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		case errors.As(err.Err, &pqErr) && pqErr.Code == "23505":
			statusCode = http.StatusConflict
			message = "аккаунт с таким email уже существует"
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode = http.StatusNotFound
			message = "пользователь не найден"
		case errors.Is(err.Err, repository.ErrJobNotFound):
			statusCode = http.StatusNotFound
			message = "вакансия не найдена"
		case errors.Is(err.Err, repository.ErrEmailTaken):
			statusCode = http.StatusConflict
			message = "аккаунт с таким email уже существует"
		}

		c.JSON(statusCode, dto.NewEnvelope(nil, "", statusCode, message, true))
	}
}
