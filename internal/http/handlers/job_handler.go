package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/recruiter-backend/internal/dto"
	"github.com/ignatzorin/recruiter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/recruiter-backend/internal/repository"
	"github.com/ignatzorin/recruiter-backend/internal/service"
)

// JobHandler предоставляет HTTP слой для вакансий.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create обрабатывает POST /v1/jobs/create.
// Публиковать могут только аккаунты с подтверждёнными email и телефоном.
func (h *JobHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	var req struct {
		JobTitle        string   `json:"jobTitle" binding:"required"`
		JobDescription  string   `json:"jobDescription" binding:"required"`
		ExperienceLevel string   `json:"experienceLevel" binding:"required"`
		Candidates      []string `json:"candidates"`
		EndDate         string   `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, nil, "", http.StatusBadRequest, "Body is invalid", true)
		return
	}

	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		respond(c, nil, "", http.StatusBadRequest, "дата окончания имеет некорректный формат", true)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), user, service.CreateJobInput{
		JobTitle:        req.JobTitle,
		JobDescription:  req.JobDescription,
		ExperienceLevel: req.ExperienceLevel,
		Candidates:      req.Candidates,
		EndDate:         endDate,
	})
	if err != nil {
		if apperror.IsForbidden(err) {
			respond(c, nil, "", http.StatusForbidden, "User is not verified to post jobs.", true)
			return
		}
		respond(c, nil, "", http.StatusBadRequest, err.Error(), true)
		return
	}

	respond(c, dto.NewPublicJob(job), "", http.StatusCreated, "Job created successfully.", false)
}

// MyJobs обрабатывает GET /v1/jobs/my-jobs.
func (h *JobHandler) MyJobs(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	jobs, err := h.jobs.MyJobs(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	if len(jobs) == 0 {
		respond(c, nil, "", http.StatusNotFound, "No jobs found.", true)
		return
	}

	respond(c, dto.NewPublicJobs(jobs), "", http.StatusOK, "Jobs fetched successfully.", false)
}

// SendJobEmails обрабатывает POST /v1/jobs/send-job-emails.
func (h *JobHandler) SendJobEmails(c *gin.Context) {
	if _, err := currentUser(c); err != nil {
		respond(c, nil, "", http.StatusUnauthorized, "требуется авторизация", true)
		return
	}

	var req struct {
		JobID string `json:"jobId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, nil, "", http.StatusBadRequest, "Body is invalid", true)
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		respond(c, nil, "", http.StatusBadRequest, "неверный идентификатор вакансии", true)
		return
	}

	if err := h.jobs.SendJobEmails(c.Request.Context(), jobID); err != nil {
		// Исторический контракт: отсутствующая вакансия отдаётся как 403.
		if errors.Is(err, repository.ErrJobNotFound) {
			respond(c, nil, "", http.StatusForbidden, "You are not authorized to send this job.", true)
			return
		}
		respond(c, nil, "", http.StatusInternalServerError, "Failed to send emails.", true)
		return
	}

	respond(c, nil, "", http.StatusOK, "Emails sent successfully.", false)
}

// parseEndDate принимает дату в RFC3339 или как календарный день.
func parseEndDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
