package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/logger"
	"github.com/ignatzorin/recruiter-backend/internal/models"
	"github.com/ignatzorin/recruiter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/recruiter-backend/internal/validation"
)

// JobStore описывает зависимости JobService от слоя хранилища.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error)
	GetWithPoster(ctx context.Context, jobID uuid.UUID) (*models.JobWithPoster, error)
}

// JobTemplates рендерит письмо-анонс вакансии для кандидатов.
type JobTemplates interface {
	JobAnnouncement(job *models.JobWithPoster) (string, error)
}

// JobService инкапсулирует публикацию вакансий и рассылку анонсов.
type JobService struct {
	repo      JobStore
	email     EmailTransport
	templates JobTemplates
}

// CreateJobInput содержит данные новой вакансии.
type CreateJobInput struct {
	JobTitle        string
	JobDescription  string
	ExperienceLevel string
	Candidates      []string
	EndDate         time.Time
}

// NewJobService создаёт сервис вакансий.
func NewJobService(repo JobStore, email EmailTransport, templates JobTemplates) *JobService {
	return &JobService{
		repo:      repo,
		email:     email,
		templates: templates,
	}
}

// Create публикует вакансию от имени аккаунта.
// Право публикации проверяется здесь: оба канала аккаунта должны быть
// подтверждены, иначе Forbidden — бизнес-логика не продолжает молча.
func (s *JobService) Create(ctx context.Context, user *models.User, in CreateJobInput) (*models.Job, error) {
	if !user.CanPostJob() {
		return nil, apperror.ErrNotVerified
	}

	if err := validation.ValidateLength("заголовок вакансии", strings.TrimSpace(in.JobTitle), 1, validation.MaxJobTitleLength); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if err := validation.ValidateNonEmpty("описание вакансии", in.JobDescription); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if err := validation.ValidateNonEmpty("уровень опыта", in.ExperienceLevel); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if err := validation.ValidateCandidates(in.Candidates); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if in.EndDate.IsZero() {
		return nil, fmt.Errorf("job service: дата окончания обязательна")
	}

	job := &models.Job{
		PostedBy:        user.ID,
		JobTitle:        strings.TrimSpace(in.JobTitle),
		JobDescription:  strings.TrimSpace(in.JobDescription),
		ExperienceLevel: strings.TrimSpace(in.ExperienceLevel),
		Candidates:      normalizeEmails(in.Candidates),
		EndDate:         in.EndDate,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithField("job_id", job.ID).Info("job service: вакансия опубликована")
	}

	return job, nil
}

// MyJobs возвращает вакансии, опубликованные аккаунтом.
func (s *JobService) MyJobs(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByPoster(ctx, posterID)
}

// SendJobEmails рассылает анонс вакансии всем кандидатам из её списка.
func (s *JobService) SendJobEmails(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.repo.GetWithPoster(ctx, jobID)
	if err != nil {
		return err
	}

	if len(job.Candidates) == 0 {
		return fmt.Errorf("job service: у вакансии нет кандидатов для рассылки")
	}

	body, err := s.templates.JobAnnouncement(job)
	if err != nil {
		return fmt.Errorf("job service: не удалось отрендерить письмо: %w", err)
	}

	subject := "New Job Posting: " + job.JobTitle
	if err := s.email.Send(ctx, job.Candidates, subject, body); err != nil {
		return fmt.Errorf("job service: не удалось отправить письма: %w", err)
	}

	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"job_id":     job.ID,
			"recipients": len(job.Candidates),
		}).Info("job service: анонс вакансии разослан")
	}

	return nil
}

// normalizeEmails приводит адреса кандидатов к нижнему регистру без пробелов.
func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, strings.ToLower(strings.TrimSpace(e)))
	}
	return out
}
