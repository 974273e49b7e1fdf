package validation

import (
	"reflect"
	"strings"
)

// Normalize coerces v toward its declared shape before checking: string
// fields are trimmed (including elements of string slices), and nil slices
// are defaulted to empty so absent collection fields read as empty rather
// than null. Nested structs and slices of structs are walked recursively;
// unexported fields are left alone.
func Normalize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}
	normalizeValue(val.Elem())
}

func normalizeValue(val reflect.Value) {
	switch val.Kind() {
	case reflect.Struct:
		// time.Time and friends have no settable exported fields worth walking.
		if val.Type().PkgPath() == "time" {
			return
		}
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanSet() {
				continue
			}
			normalizeField(field)
		}
	case reflect.Ptr:
		if !val.IsNil() {
			normalizeValue(val.Elem())
		}
	}
}

func normalizeField(field reflect.Value) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(strings.TrimSpace(field.String()))
	case reflect.Slice:
		if field.IsNil() {
			field.Set(reflect.MakeSlice(field.Type(), 0, 0))
			return
		}
		switch field.Type().Elem().Kind() {
		case reflect.String:
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		case reflect.Struct:
			for j := 0; j < field.Len(); j++ {
				normalizeValue(field.Index(j))
			}
		}
	case reflect.Struct:
		normalizeValue(field)
	case reflect.Ptr:
		// Pointer fields (optional update shapes) normalize through the
		// pointee so *string values are trimmed like plain strings.
		if !field.IsNil() {
			normalizeField(field.Elem())
		}
	}
}
