// Package httputil centralizes JSON response writing so every handler maps
// coded errors to statuses the same way.
package httputil

import (
	"encoding/json"
	"net/http"

	"larder/pkg/apperr"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a coded error onto an HTTP response. Internal errors omit
// the description so backend details never leak to clients; every other code
// carries its message through.
func WriteError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != apperr.CodeInternal {
		body["error_description"] = apperr.MessageOf(err)
	}
	WriteJSON(w, statusFor(code), body)
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
