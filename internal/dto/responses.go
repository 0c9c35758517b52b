package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// Envelope — единый формат ответа API.
// Клиент ветвится по полю error, не разбирая статус коды.
type Envelope struct {
	Data    interface{} `json:"data"`
	Token   string      `json:"token"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Error   bool        `json:"error"`
}

// NewEnvelope собирает ответ. Nil data превращается в пустой список,
// чтобы фронтенд всегда получал одинаковую форму.
func NewEnvelope(data interface{}, token string, status int, message string, isError bool) Envelope {
	if data == nil {
		data = []interface{}{}
	}
	return Envelope{
		Data:    data,
		Token:   token,
		Status:  status,
		Message: message,
		Error:   isError,
	}
}

// PublicUser — внешнее представление аккаунта.
// Хеш пароля, токены, OTP коды и их сроки сюда не попадают принципиально:
// редактирование выполняется проекцией, а не удалением полей по месту.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CompanyName   string    `json:"companyName"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"isEmailVerified"`
	PhoneVerified bool      `json:"isPhoneVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewPublicUser проецирует внутренний аккаунт в внешний DTO.
// Единственная точка выхода User за пределы хранилища.
func NewPublicUser(u *models.User) PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		CompanyName:   u.CompanyName,
		Phone:         u.Phone,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// PublicJob — внешнее представление вакансии.
type PublicJob struct {
	ID              uuid.UUID `json:"id"`
	PostedBy        uuid.UUID `json:"postedBy"`
	JobTitle        string    `json:"jobTitle"`
	JobDescription  string    `json:"jobDescription"`
	ExperienceLevel string    `json:"experienceLevel"`
	Candidates      []string  `json:"candidates"`
	EndDate         time.Time `json:"endDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewPublicJob проецирует вакансию в внешний DTO.
func NewPublicJob(j *models.Job) PublicJob {
	candidates := j.Candidates
	if candidates == nil {
		candidates = []string{}
	}
	return PublicJob{
		ID:              j.ID,
		PostedBy:        j.PostedBy,
		JobTitle:        j.JobTitle,
		JobDescription:  j.JobDescription,
		ExperienceLevel: j.ExperienceLevel,
		Candidates:      candidates,
		EndDate:         j.EndDate,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

// NewPublicJobs проецирует список вакансий.
func NewPublicJobs(jobs []models.Job) []PublicJob {
	out := make([]PublicJob, 0, len(jobs))
	for i := range jobs {
		out = append(out, NewPublicJob(&jobs[i]))
	}
	return out
}
