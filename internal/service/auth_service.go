package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/logger"
	"github.com/ignatzorin/recruiter-backend/internal/models"
	"github.com/ignatzorin/recruiter-backend/internal/validation"
)

// ErrWrongPassword возвращается, когда аккаунт найден, но пароль не совпал.
var ErrWrongPassword = errors.New("wrong password")

// CredentialStore описывает зависимости AuthService от слоя хранилища.
type CredentialStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AddToken(ctx context.Context, userID uuid.UUID, token string) error
	HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// AuthService инкапсулирует регистрацию, вход и проверку bearer токенов.
type AuthService struct {
	repo       CredentialStore
	tokens     *TokenManager
	bcryptCost int
}

// SignupInput содержит данные аккаунта при регистрации.
type SignupInput struct {
	Name        string
	CompanyName string
	Phone       string
	Email       string
	Password    string
}

// LoginResult возвращает аккаунт и выпущенный токен.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService создаёт сервис аутентификации.
// Стоимость bcrypt приходит из конфигурации и не зашивается в код.
func NewAuthService(repo CredentialStore, tokens *TokenManager, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Signup создаёт новый аккаунт рекрутёра.
// Пароль валидируется до хеширования; в хранилище попадает только хеш.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateNonEmpty("имя", in.Name); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateNonEmpty("название компании", in.CompanyName); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(passHash),
	}

	// Уникальность email проверяет хранилище: гонку двух одновременных
	// регистраций закрывает ограничение в базе, а не предварительный SELECT.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login проверяет учётные данные и выпускает новый токен,
// добавляя его в коллекцию токенов аккаунта.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddToken(ctx, user.ID, token); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate проверяет bearer токен.
// Токен обязан пройти криптографическую проверку И всё ещё числиться в
// коллекции аккаунта: отозванный при logout токен остаётся валидным JWT
// до истечения срока, но здесь будет отвергнут.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.HasToken(ctx, user.ID, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenMalformed
	}

	return user, nil
}

// Logout отзывает ровно предъявленный токен.
// Остальные сессии аккаунта продолжают действовать.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.repo.RemoveToken(ctx, userID, token); err != nil {
		return err
	}

	if logger.Log != nil {
		logger.Log.WithField("user_id", userID).Debug("auth service: токен отозван")
	}

	return nil
}

// GetByID возвращает аккаунт по идентификатору.
func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangePassword валидирует и перехеширует новый пароль.
// Хеширование выполняется только когда пароль действительно меняется —
// остальные обновления аккаунта его не трогают.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(passHash))
}

// VerifyPassword сравнивает plaintext с хешем аккаунта.
func (s *AuthService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
