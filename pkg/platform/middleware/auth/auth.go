// Package auth resolves the current user from a bearer token issued by the
// external auth service. Token issuance, refresh, and session management are
// out of scope; this middleware only verifies the signature and lifts the
// subject and email claims into request context.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RequireUser rejects requests without a valid bearer token and records the
// authenticated user's ID and email in the context.
func RequireUser(signingKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httputil.WriteError(w, apperr.New(apperr.CodeUnauthorized, "missing bearer token"))
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperr.Newf(apperr.CodeUnauthorized, "unexpected signing method %q", t.Method.Alg())
				}
				return signingKey, nil
			})
			if err != nil || !token.Valid {
				httputil.WriteError(w, apperr.New(apperr.CodeUnauthorized, "invalid bearer token"))
				return
			}

			userID, err := id.ParseUserID(c.Subject)
			if err != nil {
				httputil.WriteError(w, apperr.New(apperr.CodeUnauthorized, "token subject is not a user id"))
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), userID)
			ctx = requestcontext.WithUserEmail(ctx, c.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
