// Package validation wraps a shared go-playground validator instance.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Email reports whether value is a syntactically valid address.
func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return validate.Var(value, "email") == nil
}

// URL reports whether value is an absolute http(s) URL.
func URL(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return validate.Var(value, "http_url") == nil
}

// OptionalURL accepts an empty value or an absolute http(s) URL.
func OptionalURL(value string) bool {
	return strings.TrimSpace(value) == "" || URL(value)
}

// FieldError is a flattened validator failure keyed by the JSON field name.
type FieldError struct {
	Field string
	Tag   string
}

// Flatten converts validator errors into field/tag pairs. Other errors yield
// nil.
func Flatten(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: toSnake(fe.Field()), Tag: fe.Tag()})
	}
	return out
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
