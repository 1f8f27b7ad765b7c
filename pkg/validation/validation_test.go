package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	FirstName       string `validate:"required,valid_name"`
	Username        string `validate:"required,username"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

type codeInput struct {
	Code string `validate:"required,six_digits"`
	Bio  string `validate:"no_emoji"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomRules(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(codeInput{Code: "012345", Bio: "Backend engineer"}))
	assert.Error(t, v.Struct(codeInput{Code: "12345"}))
	assert.Error(t, v.Struct(codeInput{Code: "12345a"}))
	assert.Error(t, v.Struct(codeInput{Code: "123456", Bio: "rocket \U0001F680"}))

	assert.NoError(t, v.Struct(registerInput{FirstName: "Anne-Marie", Username: "anne.m", Password: "longenough", ConfirmPassword: "longenough"}))
	assert.Error(t, v.Struct(registerInput{FirstName: "R2D2", Username: "r2", Password: "longenough", ConfirmPassword: "longenough"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerInput{FirstName: "Ann", Username: "ann_1", Password: "longenough", ConfirmPassword: "different"})
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Password confirmation: must match Password", msgs[0])
}

func TestFormatValidationErrorsPassesThroughOtherErrors(t *testing.T) {
	msgs := FormatValidationErrors(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"unexpected EOF"}, msgs)
}

func TestFormatCamelCase(t *testing.T) {
	assert.Equal(t, "Work Hours Per Week", formatCamelCase("WorkHoursPerWeek"))
}
