package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// ErrJobNotFound возвращается, когда вакансия не найдена.
var ErrJobNotFound = errors.New("job not found")

// JobRepository отвечает за таблицу jobs.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт экземпляр репозитория.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create сохраняет новую вакансию.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (posted_by, job_title, job_description, experience_level, candidates, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_visible, is_deleted, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		job.PostedBy, job.JobTitle, job.JobDescription, job.ExperienceLevel,
		pq.Array(job.Candidates), job.EndDate,
	).Scan(&job.ID, &job.IsVisible, &job.IsDeleted, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}

	return nil
}

// ListByPoster возвращает неудалённые вакансии пользователя, новые первыми.
func (r *JobRepository) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	query := `
		SELECT id, posted_by, job_title, job_description, experience_level, candidates, end_date,
			is_visible, is_deleted, created_at, updated_at
		FROM jobs
		WHERE posted_by = $1 AND NOT is_deleted
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, posterID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list by poster %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("job repository: list by poster scan %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("job repository: list by poster rows %w", err)
	}

	return jobs, nil
}

// GetWithPoster возвращает вакансию вместе с контактами автора для рассылки.
func (r *JobRepository) GetWithPoster(ctx context.Context, jobID uuid.UUID) (*models.JobWithPoster, error) {
	query := `
		SELECT j.id, j.posted_by, j.job_title, j.job_description, j.experience_level, j.candidates,
			j.end_date, j.is_visible, j.is_deleted, j.created_at, j.updated_at,
			u.name AS poster_name, u.email AS poster_email, u.company_name AS poster_company
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE j.id = $1 AND NOT j.is_deleted
	`

	var jwp models.JobWithPoster
	var candidates pq.StringArray
	if err := r.db.QueryRowxContext(ctx, query, jobID).Scan(
		&jwp.ID, &jwp.PostedBy, &jwp.JobTitle, &jwp.JobDescription, &jwp.ExperienceLevel, &candidates,
		&jwp.EndDate, &jwp.IsVisible, &jwp.IsDeleted, &jwp.CreatedAt, &jwp.UpdatedAt,
		&jwp.PosterName, &jwp.PosterEmail, &jwp.PosterCompany,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get with poster %w", err)
	}

	jwp.Candidates = []string(candidates)

	return &jwp, nil
}

// scanJob читает одну строку вакансии с массивом кандидатов.
func scanJob(rows *sqlx.Rows) (*models.Job, error) {
	var job models.Job
	var candidates pq.StringArray
	if err := rows.Scan(
		&job.ID, &job.PostedBy, &job.JobTitle, &job.JobDescription, &job.ExperienceLevel, &candidates,
		&job.EndDate, &job.IsVisible, &job.IsDeleted, &job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Candidates = []string(candidates)
	return &job, nil
}
