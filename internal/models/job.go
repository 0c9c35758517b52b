package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает опубликованную вакансию.
type Job struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PostedBy        uuid.UUID `db:"posted_by" json:"posted_by"`
	JobTitle        string    `db:"job_title" json:"jobTitle"`
	JobDescription  string    `db:"job_description" json:"jobDescription"`
	ExperienceLevel string    `db:"experience_level" json:"experienceLevel"`
	Candidates      []string  `db:"-" json:"candidates"`
	EndDate         time.Time `db:"end_date" json:"endDate"`
	IsVisible       bool      `db:"is_visible" json:"isVisible"`
	IsDeleted       bool      `db:"is_deleted" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// JobWithPoster — вакансия вместе с контактами автора.
// Нужна для писем кандидатам: подпись формируется от имени рекрутёра.
type JobWithPoster struct {
	Job
	PosterName    string `db:"poster_name" json:"-"`
	PosterEmail   string `db:"poster_email" json:"-"`
	PosterCompany string `db:"poster_company" json:"-"`
}
