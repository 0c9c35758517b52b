package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// Ошибки уровня хранилища.
var (
	// ErrUserNotFound возвращается, когда запись пользователя не найдена.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается при нарушении уникальности email.
	ErrEmailTaken = errors.New("email already taken")
)

// pgUniqueViolation — код ошибки PostgreSQL для нарушения уникального ограничения.
const pgUniqueViolation = "23505"

// UserRepository отвечает за таблицы users и user_tokens.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет новый аккаунт. Поле PasswordHash обязано быть уже
// захешированным — plaintext в хранилище не попадает никогда.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, company_name, phone, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email_verified, phone_verified, is_deleted, created_at, updated_at
	`

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Name, user.CompanyName, user.Phone, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.EmailVerified, &user.PhoneVerified, &user.IsDeleted, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

const userColumns = `id, name, company_name, phone, email, password_hash,
		email_verified, phone_verified,
		email_otp, email_otp_expires, phone_otp, phone_otp_expires,
		is_deleted, created_at, updated_at`

// GetByEmail возвращает неудалённого пользователя по email (без учёта регистра).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND NOT is_deleted`
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает неудалённого пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND NOT is_deleted`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpdatePassword записывает новый хеш пароля и обновляет updated_at.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	); err != nil {
		return fmt.Errorf("user repository: update password %w", err)
	}
	return nil
}

// AddToken добавляет bearer токен в коллекцию аккаунта.
func (r *UserRepository) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`,
		userID, token,
	); err != nil {
		return fmt.Errorf("user repository: add token %w", err)
	}
	return nil
}

// HasToken проверяет, что именно эта строка токена всё ещё числится за аккаунтом.
func (r *UserRepository) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	); err != nil {
		return false, fmt.Errorf("user repository: has token %w", err)
	}
	return count > 0, nil
}

// RemoveToken удаляет ровно совпадающий токен.
// Удаление отсутствующего токена — no-op.
func (r *UserRepository) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	); err != nil {
		return fmt.Errorf("user repository: remove token %w", err)
	}
	return nil
}

// otpColumns возвращает имена колонок слота OTP для канала.
// Канал приходит только из констант models, но имена всё равно не
// подставляются из пользовательского ввода.
func otpColumns(channel string) (codeCol, expiresCol, verifiedCol string) {
	if channel == models.VerificationChannelPhone {
		return "phone_otp", "phone_otp_expires", "phone_verified"
	}
	return "email_otp", "email_otp_expires", "email_verified"
}

// SetOTP записывает ожидающий код канала, перетирая предыдущий.
func (r *UserRepository) SetOTP(ctx context.Context, userID uuid.UUID, channel, code string, expiresAt time.Time) error {
	codeCol, expiresCol, _ := otpColumns(channel)
	query := fmt.Sprintf(
		`UPDATE users SET %s = $2, %s = $3, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`,
		codeCol, expiresCol,
	)
	if _, err := r.db.ExecContext(ctx, query, userID, code, expiresAt); err != nil {
		return fmt.Errorf("user repository: set otp %w", err)
	}
	return nil
}

// ConfirmChannel помечает канал подтверждённым и очищает его OTP слот.
// Один UPDATE — подтверждение и очистка атомарны на уровне записи.
func (r *UserRepository) ConfirmChannel(ctx context.Context, userID uuid.UUID, channel string) error {
	codeCol, expiresCol, verifiedCol := otpColumns(channel)
	query := fmt.Sprintf(
		`UPDATE users SET %s = TRUE, %s = NULL, %s = NULL, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`,
		verifiedCol, codeCol, expiresCol,
	)
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("user repository: confirm channel %w", err)
	}
	return nil
}
