package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ValidationFields flattens validator errors into a field -> message map. Keys drop the
// top-level struct name, so nested answers appear as "answers[0].question_id".
func ValidationFields(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fe.Namespace()
		if idx := strings.Index(key, "."); idx >= 0 {
			key = key[idx+1:]
		}
		fields[key] = formatValidationError(fe)
	}
	return fields
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
