package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"larder/pkg/apperr"
)

// Translate converts the engine's native violations into FieldErrors with
// dot-joined, wire-named paths and human-readable messages.
func Translate(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath rewrites the engine's namespace ("Recipe.recipe_ingredients[0].quantity")
// into the dot path callers see ("recipe_ingredients.0.quantity"). The leading
// segment is the root struct's type name and is dropped.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	namespace = strings.ReplaceAll(namespace, "]", "")
	return namespace
}

// message renders a single violation. Enum violations name the full set of
// valid options; bound violations name the bound.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_unless", "required_if", "required_with":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		options := strings.Join(strings.Fields(fe.Param()), ", ")
		return fmt.Sprintf("must be one of: %s", options)
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "datetime":
		if fe.Param() == "2006-01-02" {
			return "must be a valid date in YYYY-MM-DD format"
		}
		return "must be a valid timestamp"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// FormatMessage flattens violations into one human-readable message.
// Zero errors yields a generic fallback; a single error is returned bare
// (the common inline-form case); multiple errors become a header plus one
// bullet per violation, preserving input order.
func FormatMessage(errs []FieldError) string {
	switch len(errs) {
	case 0:
		return "validation failed"
	case 1:
		return errs[0].Message
	default:
		var b strings.Builder
		b.WriteString("validation failed:")
		for _, e := range errs {
			b.WriteString("\n- ")
			b.WriteString(e.Field)
			b.WriteString(": ")
			b.WriteString(e.Message)
		}
		return b.String()
	}
}

// ToFormErrors maps violations by field path for form-rendering layers.
// On duplicate paths the last violation wins; later entries overwrite
// earlier ones.
func ToFormErrors(errs []FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

// Err converts a failed result into a coded fail-fast error carrying the
// formatted aggregate message. Calling Err on a successful result returns nil.
func (r Result[T]) Err() error {
	if r.Ok() {
		return nil
	}
	return apperr.New(apperr.CodeInvalidInput, FormatMessage(r.errs))
}
