// Package validation wraps go-playground/validator with the result and error
// shapes the rest of the service is built around.
//
// Every trust-boundary crossing is bracketed by this package: inserts and
// updates are validated before they reach a store, rows are validated after
// they come back. The core Validate path never returns an error for bad data;
// it reports violations as data (Result). MustValidate is the fail-fast
// variant for call sites whose only recovery is aborting the operation.
//
// This package never logs. Presentation of failures belongs to callers, via
// FormatMessage and ToFormErrors.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// engine is the shared validator instance. Struct metadata is cached inside
// the library, so a single instance is both the fast path and the idiomatic
// one; it is safe for concurrent use.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names so error paths match payloads.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is a single violation: a dot-joined path from the root of the
// validated value to the offending leaf, plus a human-readable message.
// Array elements appear as numeric path segments ("recipe_ingredients.0.quantity").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Result is the tagged outcome of a validation call. Exactly one of
// {data, errors} is populated; the constructors are the only way to build one,
// which is what holds that invariant.
type Result[T any] struct {
	data *T
	errs []FieldError
}

// OK wraps successfully validated (and normalized) data.
func OK[T any](data *T) Result[T] {
	return Result[T]{data: data}
}

// Fail wraps one or more violations. Calling it with none is a programming
// error; a generic violation is substituted so the result still fails.
func Fail[T any](errs ...FieldError) Result[T] {
	if len(errs) == 0 {
		errs = []FieldError{{Message: "validation failed"}}
	}
	return Result[T]{errs: errs}
}

// Ok reports whether validation succeeded.
func (r Result[T]) Ok() bool { return r.data != nil }

// Data returns the validated value; nil when the result failed.
func (r Result[T]) Data() *T { return r.data }

// Errors returns the collected violations; nil when the result succeeded.
func (r Result[T]) Errors() []FieldError { return r.errs }

// Validate normalizes v in place (trims strings, defaults nil slices to
// empty) and structurally checks it, collecting every violation found in a
// single pass rather than stopping at the first. It never returns an error
// for data problems; only a malformed schema definition (validating a
// non-struct, an unregistered tag) panics, since that is a programming error
// rather than a data error.
func Validate[T any](v *T) Result[T] {
	if v == nil {
		return Fail[T](FieldError{Message: "value is required"})
	}
	Normalize(v)
	err := engine.Struct(v)
	if err == nil {
		return OK(v)
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		panic(fmt.Sprintf("validation: malformed schema for %T: %v", v, err))
	}
	return Fail[T](Translate(verrs)...)
}

// MustValidate is the fail-fast variant used at integration boundaries:
// on failure it returns a coded error whose message is the formatted
// aggregate of every violation.
func MustValidate[T any](v *T) (*T, error) {
	res := Validate(v)
	if !res.Ok() {
		return nil, res.Err()
	}
	return res.Data(), nil
}

// ValidateSlice validates a homogeneous collection, aggregating every
// element's violations into one result with index-prefixed field paths
// ("0.name", "1.quantity", ...). Elements are normalized in place, so a
// successful result's data is the coerced collection.
func ValidateSlice[T any](items []T) Result[[]T] {
	var errs []FieldError
	for i := range items {
		res := Validate(&items[i])
		for _, fe := range res.Errors() {
			errs = append(errs, FieldError{
				Field:   prefixField(fmt.Sprintf("%d", i), fe.Field),
				Message: fe.Message,
			})
		}
	}
	if len(errs) > 0 {
		return Fail[[]T](errs...)
	}
	return OK(&items)
}

// MustValidateSlice is the fail-fast form of ValidateSlice.
func MustValidateSlice[T any](items []T) ([]T, error) {
	res := ValidateSlice(items)
	if !res.Ok() {
		return nil, res.Err()
	}
	return *res.Data(), nil
}

// Partial validates only the listed fields of v, identified by their wire
// (json) names. Absent fields are not an error; present fields are held to
// their full constraints. This is the on-the-fly counterpart to a
// pre-derived update shape, for payloads where the present subset is only
// known at runtime.
func Partial[T any](v *T, fields ...string) Result[T] {
	if v == nil {
		return Fail[T](FieldError{Message: "value is required"})
	}
	if len(fields) == 0 {
		Normalize(v)
		return OK(v)
	}
	Normalize(v)
	structFields := make([]string, 0, len(fields))
	for _, f := range fields {
		if name, ok := structFieldForJSON(reflect.TypeOf(*v), f); ok {
			structFields = append(structFields, name)
		}
	}
	err := engine.StructPartial(v, structFields...)
	if err == nil {
		return OK(v)
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		panic(fmt.Sprintf("validation: malformed schema for %T: %v", v, err))
	}
	return Fail[T](Translate(verrs)...)
}

// structFieldForJSON resolves a wire name back to the Go field name.
func structFieldForJSON(t reflect.Type, jsonName string) (string, bool) {
	if t.Kind() != reflect.Struct {
		return "", false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = f.Name
		}
		if name == jsonName {
			return f.Name, true
		}
	}
	return "", false
}

func prefixField(prefix, field string) string {
	if field == "" {
		return prefix
	}
	return prefix + "." + field
}
