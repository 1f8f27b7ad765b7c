package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"FirstName":       "First name",
	"LastName":        "Last name",
	"Username":        "Username",
	"Password":        "Password",
	"ConfirmPassword": "Password confirmation",
	"NewPassword":     "New password",
	"Email":           "Email",
	"Code":            "Verification code",
	"Role":            "Role",
	"JobPost":         "Job post",
	"CoverLetter":     "Cover letter",
	"Stars":           "Rating",
	"Rating":          "Rating",
	"BudgetMin":       "Minimum budget",
	"BudgetMax":       "Maximum budget",
	"Content":         "Content",
	"Answer":          "Answer",
	"WorkHours":       "Work hours per week",
	"SalaryUSD":       "Salary (USD)",
	"Difficulty":      "Difficulty",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s: must be greater than or equal to %s", label, param)
	case "lte":
		return fmt.Sprintf("%s: must be less than or equal to %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)
	case "eqfield":
		return fmt.Sprintf("%s: must match %s", label, getFieldLabel(param))
	case "gtefield":
		return fmt.Sprintf("%s: must not be less than %s", label, getFieldLabel(param))
	case "valid_name":
		return fmt.Sprintf("%s: may only contain letters, spaces and . ' -", label)
	case "username":
		return fmt.Sprintf("%s: 3-150 characters, letters, digits and @.+-_ only", label)
	case "six_digits":
		return fmt.Sprintf("%s: must be exactly 6 digits", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
