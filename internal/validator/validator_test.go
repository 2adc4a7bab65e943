package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekboard/api/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestValidateCreateTask(t *testing.T) {
	assert.NoError(t, ValidateCreateTask(domain.CreateTaskRequest{Title: "Buy milk"}))
	assert.NoError(t, ValidateCreateTask(domain.CreateTaskRequest{
		Title:     "Report",
		WeekStart: strPtr("2026-08-24"),
	}))

	tests := []struct {
		name string
		req  domain.CreateTaskRequest
	}{
		{"missing title", domain.CreateTaskRequest{}},
		{"blank title", domain.CreateTaskRequest{Title: "   "}},
		{"title too long", domain.CreateTaskRequest{Title: strings.Repeat("x", 201)}},
		{"bad week_start", domain.CreateTaskRequest{Title: "ok", WeekStart: strPtr("24-08-2026")}},
		{"non-date week_start", domain.CreateTaskRequest{Title: "ok", WeekStart: strPtr("next monday")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateTask(tt.req)
			require.Error(t, err)
			appErr, ok := err.(*domain.AppError)
			require.True(t, ok)
			assert.Equal(t, domain.ErrCodeValidationFailed, appErr.Code)
		})
	}
}

func TestValidateAssignTask(t *testing.T) {
	assert.NoError(t, ValidateAssignTask(domain.AssignTaskRequest{
		UserID: "2b8e4b0e-1111-4222-8333-444455556666",
		Title:  "Report",
	}))

	// user_id is checked before title.
	err := ValidateAssignTask(domain.AssignTaskRequest{})
	require.Error(t, err)
	appErr := err.(*domain.AppError)
	assert.Contains(t, appErr.Details, "user_id")

	err = ValidateAssignTask(domain.AssignTaskRequest{UserID: "some-id"})
	require.Error(t, err)
	appErr = err.(*domain.AppError)
	assert.Contains(t, appErr.Details, "title")
}

func TestValidateWeekStart(t *testing.T) {
	assert.NoError(t, ValidateWeekStart(nil))
	assert.NoError(t, ValidateWeekStart(strPtr("2026-01-05")))
	assert.Error(t, ValidateWeekStart(strPtr("2026-13-01")))
	assert.Error(t, ValidateWeekStart(strPtr("")))
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup(domain.SignupRequest{
		Email:    "alice@example.com",
		Password: "Password1",
		Name:     "alice",
	}))

	assert.Error(t, ValidateSignup(domain.SignupRequest{
		Email:    "not-an-email",
		Password: "Password1",
		Name:     "alice",
	}))
	assert.Error(t, ValidateSignup(domain.SignupRequest{
		Email:    "alice@example.com",
		Password: "weak",
		Name:     "alice",
	}))
	assert.Error(t, ValidateSignup(domain.SignupRequest{
		Email:    "alice@example.com",
		Password: "Password1",
		Name:     "a",
	}))
}
