package usecase

import (
	"errors"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// repoErr maps a repository error to an AppError: ErrNotFound becomes a 404
// with notFoundMsg, anything else an opaque 500.
func repoErr(err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

// validationErr turns validator errors into a 400 with per-field details.
func validationErr(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := validation.FormatValidationErrors(err)
		msg := "Validation failed"
		if len(msgs) > 0 {
			msg = msgs[0]
		}
		return apperror.Validation(msg).WithDetails(msgs)
	}
	return apperror.Validation(err.Error())
}
