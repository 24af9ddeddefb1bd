package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and maps failures to a
// VALIDATION_FAILED error listing the offending fields.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		var invalid validator.ValidationErrors
		details := map[string]any{}
		if errors.As(err, &invalid) {
			for _, fieldErr := range invalid {
				details[strings.ToLower(fieldErr.Field())] = fieldErr.Tag()
			}
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return nil
}
