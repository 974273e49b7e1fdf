// Package sanitize neutralizes stored-XSS risk in free-text fields by
// escaping HTML-significant characters. It escapes only; it never strips
// markup, so content that legitimately contains angle brackets survives as
// readable text.
//
// String is NOT idempotent: an ampersand introduced by a previous escape is
// escaped again ("&amp;" becomes "&amp;amp;"). Callers must sanitize exactly
// once, at the write boundary, and before validating: length limits apply to
// the escaped form that is stored. The behavior is pinned by test rather
// than left implicit.
package sanitize

import (
	"reflect"
	"strings"
)

// escaper rewrites the five HTML-significant characters to entities.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// String escapes HTML-significant characters and trims surrounding
// whitespace.
func String(s string) string {
	return strings.TrimSpace(escaper.Replace(s))
}

// Struct applies String to every settable string field and []string element
// of the struct pointed to by v. Non-string fields are left untouched, and
// nested structs or slices of structs are not walked; sanitize nested values
// at their own write boundaries.
func Struct(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(String(field.String()))
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					elem := field.Index(j)
					elem.SetString(String(elem.String()))
				}
			}
		}
	}
}
