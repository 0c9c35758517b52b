package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/recruiter-backend/internal/models"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
)

// mockUserStore реализует CredentialStore и OTPStore для тестов.
type mockUserStore struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	tokens       map[uuid.UUID][]string
	createCalls  int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		tokens:       make(map[uuid.UUID][]string),
	}
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	m.createCalls++
	key := strings.ToLower(user.Email)
	if existing, ok := m.usersByEmail[key]; ok && !existing.IsDeleted {
		return repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.usersByEmail[key] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[strings.ToLower(strings.TrimSpace(email))]; ok && !user.IsDeleted {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok && !user.IsDeleted {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	m.tokens[userID] = append(m.tokens[userID], token)
	return nil
}

func (m *mockUserStore) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	for _, t := range m.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	kept := m.tokens[userID][:0]
	for _, t := range m.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	m.tokens[userID] = kept
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	if user, ok := m.usersByID[userID]; ok {
		user.PasswordHash = passwordHash
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockUserStore) SetOTP(ctx context.Context, userID uuid.UUID, channel, code string, expiresAt time.Time) error {
	user, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if channel == models.VerificationChannelPhone {
		user.PhoneOTP = &code
		user.PhoneOTPExpires = &expiresAt
	} else {
		user.EmailOTP = &code
		user.EmailOTPExpires = &expiresAt
	}
	return nil
}

func (m *mockUserStore) ConfirmChannel(ctx context.Context, userID uuid.UUID, channel string) error {
	user, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if channel == models.VerificationChannelPhone {
		user.PhoneVerified = true
		user.PhoneOTP = nil
		user.PhoneOTPExpires = nil
	} else {
		user.EmailVerified = true
		user.EmailOTP = nil
		user.EmailOTPExpires = nil
	}
	return nil
}

func validSignup() SignupInput {
	return SignupInput{
		Name:        "Анна",
		CompanyName: "Acme",
		Phone:       "+79990001122",
		Email:       "a@x.com",
		Password:    "secret1",
	}
}

func TestAuthService_SignupStoresOnlyHash(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	user, err := service.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("signup вернул ошибку: %v", err)
	}

	if user.PasswordHash == "secret1" {
		t.Fatalf("в хранилище попал plaintext пароль")
	}
	if strings.Contains(user.PasswordHash, "secret1") {
		t.Fatalf("хеш содержит plaintext пароль")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("хеш не соответствует исходному паролю: %v", err)
	}
}

func TestAuthService_SignupDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	ctx := context.Background()
	if _, err := service.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("первая регистрация вернула ошибку: %v", err)
	}

	in := validSignup()
	in.Email = "A@X.com"
	if _, err := service.Signup(ctx, in); err != repository.ErrEmailTaken {
		t.Fatalf("ожидался ErrEmailTaken, получили %v", err)
	}
}

func TestAuthService_SignupRejectsWeakPasswordBeforeHashing(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	ctx := context.Background()

	in := validSignup()
	in.Password = "MyPassWord1"
	if _, err := service.Signup(ctx, in); err == nil {
		t.Fatalf("пароль со словом password должен быть отклонён")
	}

	in.Password = "abc"
	if _, err := service.Signup(ctx, in); err == nil {
		t.Fatalf("короткий пароль должен быть отклонён")
	}

	if repo.createCalls != 0 {
		t.Fatalf("невалидный пароль не должен доходить до хранилища, было %d вызовов Create", repo.createCalls)
	}
}

func TestAuthService_LoginLogoutAuthenticate(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	ctx := context.Background()
	if _, err := service.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup вернул ошибку: %v", err)
	}

	result, err := service.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}

	user, err := service.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate после login вернул ошибку: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("authenticate вернул не тот аккаунт: %s", user.Email)
	}

	if err := service.Logout(ctx, user.ID, result.Token); err != nil {
		t.Fatalf("logout вернул ошибку: %v", err)
	}

	// После отзыва токен криптографически валиден, но уже не принимается.
	if _, err := service.Authenticate(ctx, result.Token); err == nil {
		t.Fatalf("отозванный токен не должен проходить authenticate")
	}

	// Повторный logout того же токена — no-op.
	if err := service.Logout(ctx, user.ID, result.Token); err != nil {
		t.Fatalf("повторный logout должен быть no-op, получили %v", err)
	}
}

func TestAuthService_TwoSessionsIndependent(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	ctx := context.Background()
	if _, err := service.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup вернул ошибку: %v", err)
	}

	first, err := service.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("первый login вернул ошибку: %v", err)
	}
	second, err := service.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("второй login вернул ошибку: %v", err)
	}

	if first.Token == second.Token {
		t.Fatalf("два логина должны выдавать разные токены")
	}

	if err := service.Logout(ctx, first.User.ID, first.Token); err != nil {
		t.Fatalf("logout вернул ошибку: %v", err)
	}

	if _, err := service.Authenticate(ctx, first.Token); err == nil {
		t.Fatalf("отозванный токен не должен проходить")
	}
	if _, err := service.Authenticate(ctx, second.Token); err != nil {
		t.Fatalf("вторая сессия должна пережить отзыв первой: %v", err)
	}
}

func TestAuthService_LoginErrors(t *testing.T) {
	repo := newMockUserStore()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour), bcrypt.MinCost)

	ctx := context.Background()
	if _, err := service.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup вернул ошибку: %v", err)
	}

	if _, err := service.Login(ctx, "nobody@x.com", "secret1"); err != repository.ErrUserNotFound {
		t.Fatalf("для неизвестного email ожидался ErrUserNotFound, получили %v", err)
	}
	if _, err := service.Login(ctx, "a@x.com", "wrong-pass"); err != ErrWrongPassword {
		t.Fatalf("для неверного пароля ожидался ErrWrongPassword, получили %v", err)
	}
}
