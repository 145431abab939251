package httputil

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorToText returns a readable message for a failed binding
// validation.
func ValidationErrorToText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be longer than %s", e.Field(), e.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", e.Field(), e.Param())
	}
	return fmt.Sprintf("%s is not valid", e.Field())
}

// validationTexts returns the messages for all failed validations in err.
// Bodies that are lists fail with one error per element.
func validationTexts(err error) []string {
	var texts []string

	var sliceErrors binding.SliceValidationError
	if errors.As(err, &sliceErrors) {
		for _, e := range sliceErrors {
			texts = append(texts, validationTexts(e)...)
		}
		return texts
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			texts = append(texts, ValidationErrorToText(e))
		}
	}

	return texts
}
