package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/dto"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
	"github.com/ignatzorin/recruiter-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации, входа и выхода.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup обрабатывает POST /v1/user/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		CompanyName string `json:"companyName" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}

	// Исторический контракт фронтенда: невалидное тело — 404.
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, nil, "", http.StatusNotFound, "Body is invalid", true)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respond(c, nil, "", http.StatusConflict, "аккаунт с таким email уже существует", true)
			return
		}
		respond(c, nil, "", http.StatusNotFound, err.Error(), true)
		return
	}

	respond(c, dto.NewPublicUser(user), "", http.StatusOK, "User Created", false)
}

// Login обрабатывает POST /v1/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, nil, "", http.StatusNotFound, "Body is invalid", true)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			respond(c, nil, "", http.StatusNotFound, "No Such User Found", true)
		case errors.Is(err, service.ErrWrongPassword):
			respond(c, nil, "", http.StatusNotAcceptable, "Password or Email is incorrect", true)
		default:
			respond(c, nil, "", http.StatusInternalServerError, "Something went wrong. Please try again", true)
		}
		return
	}

	respond(c, dto.NewPublicUser(result.User), result.Token, http.StatusOK, "Logged in Successfully", false)
}

// GetUser обрабатывает GET /v1/user/:id.
func (h *AuthHandler) GetUser(c *gin.Context) {
	token, err := currentToken(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, nil, "", http.StatusNotFound, "Id is invalid", true)
		return
	}

	user, err := h.auth.GetByID(c.Request.Context(), id)
	if err != nil {
		respond(c, nil, "", http.StatusNotFound, "No Such User Found", true)
		return
	}

	respond(c, dto.NewPublicUser(user), token, http.StatusOK, "User Fetched Successfully", false)
}

// Logout обрабатывает POST /v1/user/logout.
// Отзывается ровно предъявленный токен; остальные сессии живут дальше.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	token, err := currentToken(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), user.ID, token); err != nil {
		c.Error(err)
		return
	}

	respond(c, nil, "", http.StatusOK, "Logged out successfully.", false)
}
