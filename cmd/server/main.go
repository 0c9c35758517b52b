package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/recruiter-backend/internal/config"
	"github.com/ignatzorin/recruiter-backend/internal/db"
	httpHandlers "github.com/ignatzorin/recruiter-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/recruiter-backend/internal/http/router"
	"github.com/ignatzorin/recruiter-backend/internal/logger"
	"github.com/ignatzorin/recruiter-backend/internal/notify"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
	"github.com/ignatzorin/recruiter-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера.
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Транспорты уведомлений: создаются один раз и внедряются в сервисы.
	emailSender := notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	smsSender := notify.NewSMSSender(cfg.SMSGatewayURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFromNumber)

	templates, err := notify.NewTemplates()
	if err != nil {
		log.Fatalf("main: не удалось подготовить шаблоны писем: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager, cfg.BcryptCost)
	otpService := service.NewOTPService(userRepo, emailSender, smsSender, templates, cfg.OTPTTL)
	jobService := service.NewJobService(jobRepo, emailSender, templates)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	verificationHandler := httpHandlers.NewVerificationHandler(otpService)
	jobHandler := httpHandlers.NewJobHandler(jobService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, verificationHandler, jobHandler, healthHandler, authService)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
