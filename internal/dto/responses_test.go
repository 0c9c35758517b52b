package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/recruiter-backend/internal/models"
)

func TestNewPublicUserRedactsSecrets(t *testing.T) {
	code := "123456"
	expires := time.Now().Add(5 * time.Minute)
	user := &models.User{
		ID:              uuid.New(),
		Name:            "Анна",
		CompanyName:     "Acme",
		Phone:           "+79990001122",
		Email:           "a@x.com",
		PasswordHash:    "$2a$10$very-secret-hash",
		EmailOTP:        &code,
		EmailOTPExpires: &expires,
		PhoneOTP:        &code,
		PhoneOTPExpires: &expires,
		EmailVerified:   true,
	}

	raw, err := json.Marshal(NewPublicUser(user))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	// Секреты не должны просачиваться наружу ни под каким именем.
	for key := range fields {
		lower := strings.ToLower(key)
		assert.NotContains(t, lower, "password", "поле %q похоже на секрет", key)
		assert.NotContains(t, lower, "otp", "поле %q похоже на секрет", key)
		assert.NotContains(t, lower, "hash", "поле %q похоже на секрет", key)
	}
	assert.NotContains(t, string(raw), "very-secret-hash")
	assert.NotContains(t, string(raw), code)

	assert.Equal(t, "a@x.com", fields["email"])
	assert.Equal(t, true, fields["isEmailVerified"])
	assert.Equal(t, false, fields["isPhoneVerified"])
}

func TestNewEnvelopeNilData(t *testing.T) {
	raw, err := json.Marshal(NewEnvelope(nil, "", 404, "No jobs found.", true))
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))

	// Nil data сериализуется как пустой список, не как null.
	assert.Equal(t, []interface{}{}, envelope["data"])
	assert.Equal(t, true, envelope["error"])
	assert.Equal(t, "No jobs found.", envelope["message"])
	assert.Equal(t, float64(404), envelope["status"])
}

func TestNewPublicJobEmptyCandidates(t *testing.T) {
	job := &models.Job{
		ID:       uuid.New(),
		PostedBy: uuid.New(),
		JobTitle: "Go разработчик",
	}

	raw, err := json.Marshal(NewPublicJob(job))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, []interface{}{}, fields["candidates"])
	assert.Equal(t, "Go разработчик", fields["jobTitle"])
}
