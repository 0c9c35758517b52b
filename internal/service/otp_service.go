package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/logger"
	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// OTPStore описывает зависимости OTPService от слоя хранилища.
type OTPStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetOTP(ctx context.Context, userID uuid.UUID, channel, code string, expiresAt time.Time) error
	ConfirmChannel(ctx context.Context, userID uuid.UUID, channel string) error
}

// EmailTransport отправляет письмо с HTML телом.
type EmailTransport interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// SMSTransport отправляет текстовое сообщение на телефон.
type SMSTransport interface {
	Send(ctx context.Context, to, body string) error
}

// OTPTemplates рендерит тело письма с кодом подтверждения.
type OTPTemplates interface {
	OTPEmail(code string) (string, error)
}

// OTPService генерирует и проверяет одноразовые коды по каналам email/phone.
type OTPService struct {
	repo      OTPStore
	email     EmailTransport
	sms       SMSTransport
	templates OTPTemplates
	ttl       time.Duration
	now       func() time.Time
}

// NewOTPService создаёт сервис одноразовых кодов.
func NewOTPService(repo OTPStore, email EmailTransport, sms SMSTransport, templates OTPTemplates, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPService{
		repo:      repo,
		email:     email,
		sms:       sms,
		templates: templates,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Generate выпускает шестизначный код для канала и сохраняет его,
// перетирая предыдущий ожидающий код этого канала.
func (s *OTPService) Generate(ctx context.Context, userID uuid.UUID, channel string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("otp service: не удалось сгенерировать код: %w", err)
	}

	expiresAt := s.now().Add(s.ttl)
	if err := s.repo.SetOTP(ctx, userID, channel, code, expiresAt); err != nil {
		return "", err
	}

	return code, nil
}

// SendEmailCode генерирует код и отправляет его письмом на адрес аккаунта.
func (s *OTPService) SendEmailCode(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	code, err := s.Generate(ctx, userID, models.VerificationChannelEmail)
	if err != nil {
		return err
	}

	body, err := s.templates.OTPEmail(code)
	if err != nil {
		return fmt.Errorf("otp service: не удалось отрендерить письмо: %w", err)
	}

	if err := s.email.Send(ctx, []string{user.Email}, "Email Verification OTP", body); err != nil {
		return fmt.Errorf("otp service: не удалось отправить письмо: %w", err)
	}

	if logger.Log != nil {
		logger.Log.WithField("user_id", userID).Info("otp service: код отправлен на email")
	}

	return nil
}

// SendPhoneCode генерирует код и отправляет его SMS на телефон аккаунта.
func (s *OTPService) SendPhoneCode(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	code, err := s.Generate(ctx, userID, models.VerificationChannelPhone)
	if err != nil {
		return err
	}

	if err := s.sms.Send(ctx, user.Phone, "Код подтверждения: "+code); err != nil {
		return fmt.Errorf("otp service: не удалось отправить SMS: %w", err)
	}

	if logger.Log != nil {
		logger.Log.WithField("user_id", userID).Info("otp service: код отправлен по SMS")
	}

	return nil
}

// Verify сверяет предъявленный код с ожидающим кодом канала.
// Успех — точное совпадение строго до истечения срока: канал помечается
// подтверждённым, слот очищается. Неверный или просроченный код состояние
// не меняет: ожидающий код НЕ сбрасывается, правильная попытка до
// истечения срока всё ещё пройдёт. Каналы независимы друг от друга.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, channel, submitted string) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	code, expires := user.OTPSlot(channel)
	if code == nil || expires == nil {
		return false, nil
	}
	if submitted != *code || !s.now().Before(*expires) {
		return false, nil
	}

	if err := s.repo.ConfirmChannel(ctx, userID, channel); err != nil {
		return false, err
	}

	return true, nil
}

// generateCode возвращает шесть случайных десятичных цифр без смещения.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
