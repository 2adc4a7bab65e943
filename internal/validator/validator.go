package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/weekboard/api/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// weekStartLayout is the only accepted week bucket format.
const weekStartLayout = "2006-01-02"

func ValidateSignup(req domain.SignupRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return err
	}
	if err := ValidateRequired("name", req.Name); err != nil {
		return err
	}
	if len(req.Name) < 2 || len(req.Name) > 100 {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"name": "must be between 2 and 100 characters",
		})
	}
	return nil
}

func ValidateLogin(req domain.LoginRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	return ValidateRequired("password", req.Password)
}

func ValidateEmail(email string) error {
	if email == "" {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"email": "is required",
		})
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"email": "invalid format",
		})
	}
	if !emailRegex.MatchString(email) {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"email": "invalid format",
		})
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"password": "is required",
		})
	}
	if len(password) < 8 {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"password": "must be at least 8 characters",
		})
	}
	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasUpper || !hasLower || !hasNumber {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"password": "must contain uppercase, lowercase, and number",
		})
	}
	return nil
}

func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			field: "is required",
		})
	}
	return nil
}

// ValidateCreateTask rejects the request before any database access.
func ValidateCreateTask(req domain.CreateTaskRequest) error {
	if err := ValidateRequired("title", req.Title); err != nil {
		return err
	}
	if len(req.Title) > 200 {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"title": "must be at most 200 characters",
		})
	}
	return ValidateWeekStart(req.WeekStart)
}

// ValidateAssignTask checks user_id and title before the admin lookup, in
// that order.
func ValidateAssignTask(req domain.AssignTaskRequest) error {
	if err := ValidateRequired("user_id", req.UserID); err != nil {
		return err
	}
	if err := ValidateRequired("title", req.Title); err != nil {
		return err
	}
	if len(req.Title) > 200 {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"title": "must be at most 200 characters",
		})
	}
	return ValidateWeekStart(req.WeekStart)
}

func ValidateWeekStart(weekStart *string) error {
	if weekStart == nil {
		return nil
	}
	if _, err := time.Parse(weekStartLayout, *weekStart); err != nil {
		return domain.ErrValidationFailed.WithDetails(map[string]string{
			"week_start": "must be a date in YYYY-MM-DD format",
		})
	}
	return nil
}
