package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"gt":          "{field} must be greater than {param}",
		"date":        "{field} must be a date in YYYY-MM-DD format",
		"uuid":        "{field} must be a valid UUID",
		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not exceed {param} MB",
	}
)

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			template, ok := messages[valErr.Tag()]
			if !ok {
				continue
			}

			return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(template)
		}

		return valErrors.Error()
	}

	return err.Error()
}
