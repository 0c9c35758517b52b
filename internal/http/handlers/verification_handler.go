package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/recruiter-backend/internal/models"
	"github.com/ignatzorin/recruiter-backend/internal/service"
)

// VerificationHandler предоставляет HTTP слой для OTP верификации каналов.
type VerificationHandler struct {
	otp *service.OTPService
}

// NewVerificationHandler создаёт хэндлер.
func NewVerificationHandler(otp *service.OTPService) *VerificationHandler {
	return &VerificationHandler{otp: otp}
}

// SendEmailOTP обрабатывает POST /v1/user/send-email-otp.
func (h *VerificationHandler) SendEmailOTP(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	if err := h.otp.SendEmailCode(c.Request.Context(), user.ID); err != nil {
		respond(c, nil, "", http.StatusInternalServerError, "Failed to send OTP.", true)
		return
	}

	respond(c, nil, "", http.StatusOK, "OTP sent to email.", false)
}

// VerifyEmailOTP обрабатывает POST /v1/user/verify-email-otp.
func (h *VerificationHandler) VerifyEmailOTP(c *gin.Context) {
	h.verify(c, models.VerificationChannelEmail, "Email verified successfully.")
}

// SendPhoneOTP обрабатывает POST /v1/user/send-phone-otp.
func (h *VerificationHandler) SendPhoneOTP(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	if err := h.otp.SendPhoneCode(c.Request.Context(), user.ID); err != nil {
		respond(c, nil, "", http.StatusInternalServerError, "Failed to send OTP.", true)
		return
	}

	respond(c, nil, "", http.StatusOK, "OTP sent to Phone.", false)
}

// VerifyPhoneOTP обрабатывает POST /v1/user/verify-phone-otp.
func (h *VerificationHandler) VerifyPhoneOTP(c *gin.Context) {
	h.verify(c, models.VerificationChannelPhone, "Phone verified successfully.")
}

// verify — общий путь проверки кода для обоих каналов.
// Неуспех не различает "неверный" и "просроченный" код и не ломает
// ожидающий слот: верная попытка до истечения срока всё ещё пройдёт.
func (h *VerificationHandler) verify(c *gin.Context, channel, successMessage string) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, nil, "", http.StatusBadRequest, "Invalid or expired OTP.", true)
		return
	}

	ok, err := h.otp.Verify(c.Request.Context(), user.ID, channel, req.OTP)
	if err != nil {
		respond(c, nil, "", http.StatusInternalServerError, "OTP verification failed.", true)
		return
	}
	if !ok {
		respond(c, nil, "", http.StatusBadRequest, "Invalid or expired OTP.", true)
		return
	}

	respond(c, nil, "", http.StatusOK, successMessage, false)
}
