package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// customMessages overrides the generated message for specific field/tag pairs
var customMessages = map[string]map[string]string{
	"Email": {
		"required": "email is required",
		"email":    "email is not a valid address",
	},
	"NewEmail": {
		"required": "new email is required",
		"email":    "new email is not a valid address",
	},
	"Username": {
		"required": "username is required",
		"min":      "username must be at least 3 characters",
		"max":      "username cannot exceed 30 characters",
	},
	"Password": {
		"required": "password is required",
		"min":      "password must be at least 8 characters",
	},
	"PasswordConfirm": {
		"required": "password confirmation is required",
	},
	"NewPassword": {
		"required": "new password is required",
		"min":      "new password must be at least 8 characters",
	},
	"Name": {
		"required": "team name is required",
		"min":      "team name must be at least 2 characters",
	},
	"UserID": {
		"required": "user_id is required",
	},
}

func defaultMessage(field, tag, param string) string {
	name := toSnakeCase(field)
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s is not a valid email address", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, param)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", name, param)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// FieldErrors converts binding/validation failures into a field-scoped map.
// Non-validator errors map to a single "detail" entry.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		out["detail"] = err.Error()
		return out
	}

	for _, e := range validationErrors {
		msg := ""
		if fieldMessages, exists := customMessages[e.Field()]; exists {
			msg = fieldMessages[e.Tag()]
		}
		if msg == "" {
			msg = defaultMessage(e.Field(), e.Tag(), e.Param())
		}
		out[toSnakeCase(e.Field())] = msg
	}

	return out
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := s[i-1]
			if prev < 'A' || prev > 'Z' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(toLower(r))
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
