package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ignatzorin/recruiter-backend/internal/models"
)

// Templates рендерит HTML тела писем.
type Templates struct {
	otp *template.Template
	job *template.Template
}

// NewTemplates парсит шаблоны писем один раз при старте.
func NewTemplates() (*Templates, error) {
	otp, err := template.New("otp").Parse(otpEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("templates: не удалось распарсить шаблон OTP: %w", err)
	}

	job, err := template.New("job").Parse(jobEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("templates: не удалось распарсить шаблон вакансии: %w", err)
	}

	return &Templates{otp: otp, job: job}, nil
}

// OTPEmail рендерит письмо с кодом подтверждения email.
func (t *Templates) OTPEmail(code string) (string, error) {
	var buf bytes.Buffer
	if err := t.otp.Execute(&buf, struct{ Code string }{Code: code}); err != nil {
		return "", fmt.Errorf("templates: рендер OTP письма: %w", err)
	}
	return buf.String(), nil
}

// JobAnnouncement рендерит письмо-анонс вакансии для кандидатов.
func (t *Templates) JobAnnouncement(job *models.JobWithPoster) (string, error) {
	data := struct {
		JobTitle        string
		JobDescription  string
		ExperienceLevel string
		EndDate         string
		PosterName      string
		PosterEmail     string
		PosterCompany   string
	}{
		JobTitle:        job.JobTitle,
		JobDescription:  job.JobDescription,
		ExperienceLevel: job.ExperienceLevel,
		EndDate:         job.EndDate.Format("Mon Jan 02 2006"),
		PosterName:      job.PosterName,
		PosterEmail:     job.PosterEmail,
		PosterCompany:   job.PosterCompany,
	}

	var buf bytes.Buffer
	if err := t.job.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: рендер письма вакансии: %w", err)
	}
	return buf.String(), nil
}

const otpEmailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Email Verification</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
  <div style="background-color: #ffffff; padding: 20px; border-radius: 8px; max-width: 600px; margin: auto; box-shadow: 0 0 15px rgba(0, 0, 0, 0.1);">
    <div style="text-align: center; padding-bottom: 20px; border-bottom: 1px solid #dddddd;">
      <h1 style="margin: 0; color: #333;">Email Verification</h1>
    </div>
    <div style="padding-top: 20px; text-align: center;">
      <p>Your OTP for email verification is:</p>
      <div style="display: inline-block; background-color: #4caf50; color: white; padding: 10px 20px; font-size: 20px; letter-spacing: 4px; margin-top: 10px; border-radius: 5px;">{{.Code}}</div>
      <p>Please enter this OTP to verify your email address.</p>
    </div>
    <div style="margin-top: 20px; text-align: center; font-size: 12px; color: #888;">
      <p>If you did not request this, please ignore this email.</p>
    </div>
  </div>
</body>
</html>
`

const jobEmailTemplate = `<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; padding: 20px; background-color: #f9f9f9; border-radius: 8px;">
  <p style="font-size: 16px; color: #555;">Hello,</p>

  <p style="font-size: 18px; color: #333;">We are excited to inform you that <strong style="color: #1E90FF;">{{.PosterCompany}}</strong> is looking for candidates for the following role:</p>

  <h2 style="color: #2C3E50; border-bottom: 2px solid #1E90FF; padding-bottom: 5px;">{{.JobTitle}}</h2>

  <p style="color: #555;"><strong>Description:</strong> {{.JobDescription}}</p>
  <p style="color: #555;"><strong>Experience Level:</strong> {{.ExperienceLevel}}</p>
  <p style="color: #555;"><strong>Submission Deadline:</strong> {{.EndDate}}</p>

  <div style="margin-top: 20px; padding: 10px; border-radius: 8px; background-color: #ffffff; border: 1px solid #ddd;">
    <p>If you are interested, please feel free to get in touch with us for more details or to submit your application.</p>
  </div>

  <br>

  <p style="font-size: 16px; color: #333;">Best regards,</p>
  <p style="font-size: 18px; font-weight: bold; color: #2C3E50;">{{.PosterName}}</p>
  <p style="color: #555;">HR at {{.PosterCompany}}</p>
  <p>Email: <a href="mailto:{{.PosterEmail}}" style="color: #1E90FF; text-decoration: none;">{{.PosterEmail}}</a></p>
</div>
`
