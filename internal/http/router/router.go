package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/recruiter-backend/internal/config"
	"github.com/ignatzorin/recruiter-backend/internal/http/handlers"
	"github.com/ignatzorin/recruiter-backend/internal/http/middleware"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	verificationHandler *handlers.VerificationHandler,
	jobHandler *handlers.JobHandler,
	healthHandler *handlers.HealthHandler,
	authenticator middleware.Authenticator,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/v1")

	// Перебор паролей и OTP кодов ограничиваем на транспортном уровне.
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	userGroup := v1.Group("/user")
	{
		userGroup.POST("/signup", authRateLimit, authHandler.Signup)
		userGroup.POST("/login", authRateLimit, authHandler.Login)
	}

	protectedUser := v1.Group("/user")
	protectedUser.Use(middleware.AuthMiddleware(authenticator))
	{
		protectedUser.GET("/:id", authHandler.GetUser)
		protectedUser.POST("/logout", authHandler.Logout)

		protectedUser.POST("/send-email-otp", authRateLimit, verificationHandler.SendEmailOTP)
		protectedUser.POST("/verify-email-otp", authRateLimit, verificationHandler.VerifyEmailOTP)
		protectedUser.POST("/send-phone-otp", authRateLimit, verificationHandler.SendPhoneOTP)
		protectedUser.POST("/verify-phone-otp", authRateLimit, verificationHandler.VerifyPhoneOTP)
	}

	jobsGroup := v1.Group("/jobs")
	jobsGroup.Use(middleware.AuthMiddleware(authenticator))
	{
		jobsGroup.POST("/create", jobHandler.Create)
		jobsGroup.GET("/my-jobs", jobHandler.MyJobs)
		jobsGroup.POST("/send-job-emails", jobHandler.SendJobEmails)
	}

	return r
}
