package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/recruiter-backend/internal/http/middleware"
	"github.com/ignatzorin/recruiter-backend/internal/models"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
	"github.com/ignatzorin/recruiter-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore — in-memory замена обоих репозиториев для HTTP тестов.
type stubStore struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	tokens       map[uuid.UUID][]string
	jobs         map[uuid.UUID]*models.Job
}

func newStubStore() *stubStore {
	return &stubStore{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		tokens:       make(map[uuid.UUID][]string),
		jobs:         make(map[uuid.UUID]*models.Job),
	}
}

func (s *stubStore) Create(ctx context.Context, user *models.User) error {
	key := strings.ToLower(user.Email)
	if existing, ok := s.usersByEmail[key]; ok && !existing.IsDeleted {
		return repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.usersByEmail[key] = user
	s.usersByID[user.ID] = user
	return nil
}

func (s *stubStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]; ok && !user.IsDeleted {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.usersByID[id]; ok && !user.IsDeleted {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *stubStore) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	for _, t := range s.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	kept := s.tokens[userID][:0]
	for _, t := range s.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	s.tokens[userID] = kept
	return nil
}

func (s *stubStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	if user, ok := s.usersByID[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (s *stubStore) SetOTP(ctx context.Context, userID uuid.UUID, channel, code string, expiresAt time.Time) error {
	user, ok := s.usersByID[userID]
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

func (s *stubStore) ConfirmChannel(ctx context.Context, userID uuid.UUID, channel string) error {
	user, ok := s.usersByID[userID]
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

func (s *stubStore) CreateJob(ctx context.Context, job *models.Job) error {
	job.ID = uuid.New()
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	stored := *job
	s.jobs[job.ID] = &stored
	return nil
}

func (s *stubStore) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	var out []models.Job
	for _, job := range s.jobs {
		if job.PostedBy == posterID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *stubStore) GetWithPoster(ctx context.Context, jobID uuid.UUID) (*models.JobWithPoster, error) {
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	result := &models.JobWithPoster{Job: *job}
	if poster, ok := s.usersByID[job.PostedBy]; ok {
		result.PosterName = poster.Name
		result.PosterEmail = poster.Email
		result.PosterCompany = poster.CompanyName
	}
	return result, nil
}

// jobStoreAdapter подгоняет stubStore под интерфейс вакансий.
type jobStoreAdapter struct{ *stubStore }

func (a jobStoreAdapter) Create(ctx context.Context, job *models.Job) error {
	return a.CreateJob(ctx, job)
}

type nopEmail struct{}

func (nopEmail) Send(ctx context.Context, to []string, subject, htmlBody string) error { return nil }

type nopSMS struct{}

func (nopSMS) Send(ctx context.Context, to, body string) error { return nil }

type nopTemplates struct{}

func (nopTemplates) OTPEmail(code string) (string, error) { return "<p>" + code + "</p>", nil }

func (nopTemplates) JobAnnouncement(job *models.JobWithPoster) (string, error) {
	return "<p>" + job.JobTitle + "</p>", nil
}

type testEnv struct {
	store  *stubStore
	router *gin.Engine
}

func newTestEnv() *testEnv {
	store := newStubStore()
	tokens := service.NewTokenManager("test-secret", time.Hour)
	auth := service.NewAuthService(store, tokens, bcrypt.MinCost)
	otp := service.NewOTPService(store, nopEmail{}, nopSMS{}, nopTemplates{}, 5*time.Minute)
	jobs := service.NewJobService(jobStoreAdapter{store}, nopEmail{}, nopTemplates{})

	authHandler := NewAuthHandler(auth)
	verificationHandler := NewVerificationHandler(otp)
	jobHandler := NewJobHandler(jobs)

	r := gin.New()
	v1 := r.Group("/v1")

	userGroup := v1.Group("/user")
	userGroup.POST("/signup", authHandler.Signup)
	userGroup.POST("/login", authHandler.Login)

	protectedUser := v1.Group("/user")
	protectedUser.Use(middleware.AuthMiddleware(auth))
	protectedUser.GET("/:id", authHandler.GetUser)
	protectedUser.POST("/logout", authHandler.Logout)
	protectedUser.POST("/send-email-otp", verificationHandler.SendEmailOTP)
	protectedUser.POST("/verify-email-otp", verificationHandler.VerifyEmailOTP)
	protectedUser.POST("/send-phone-otp", verificationHandler.SendPhoneOTP)
	protectedUser.POST("/verify-phone-otp", verificationHandler.VerifyPhoneOTP)

	jobsGroup := v1.Group("/jobs")
	jobsGroup.Use(middleware.AuthMiddleware(auth))
	jobsGroup.POST("/create", jobHandler.Create)
	jobsGroup.GET("/my-jobs", jobHandler.MyJobs)
	jobsGroup.POST("/send-job-emails", jobHandler.SendJobEmails)

	return &testEnv{store: store, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("не удалось сериализовать тело запроса: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Error   bool            `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("ответ не является конвертом: %v, тело: %s", err, rec.Body.String())
	}
	return env
}

func signupBody() map[string]string {
	return map[string]string{
		"name":        "Анна",
		"companyName": "Acme",
		"phone":       "+79990001122",
		"email":       "a@x.com",
		"password":    "secret1",
	}
}

// signupAndLogin регистрирует аккаунт и возвращает действующий токен.
func (e *testEnv) signupAndLogin(t *testing.T) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/user/signup", "", signupBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("signup вернул %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/v1/user/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login вернул %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Token == "" {
		t.Fatalf("login не вернул токен")
	}
	return env.Token
}

// verifyBothChannels подтверждает email и phone через HTTP, подсматривая
// коды напрямую в хранилище.
func (e *testEnv) verifyBothChannels(t *testing.T, token string) {
	t.Helper()
	user := e.store.usersByEmail["a@x.com"]

	rec := e.do(t, http.MethodPost, "/v1/user/send-email-otp", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send-email-otp вернул %d: %s", rec.Code, rec.Body.String())
	}
	rec = e.do(t, http.MethodPost, "/v1/user/verify-email-otp", token, map[string]string{"otp": *user.EmailOTP})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-email-otp вернул %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/v1/user/send-phone-otp", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send-phone-otp вернул %d: %s", rec.Code, rec.Body.String())
	}
	rec = e.do(t, http.MethodPost, "/v1/user/verify-phone-otp", token, map[string]string{"otp": *user.PhoneOTP})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-phone-otp вернул %d: %s", rec.Code, rec.Body.String())
	}
}
