// Package device summarizes the client User-Agent into a short
// human-readable label ("Chrome on Linux") used when attributing domain
// events. The raw User-Agent stays available via requestcontext.UserAgent.
package device

import (
	"net/http"

	"github.com/mssola/useragent"

	"larder/pkg/requestcontext"
)

// Label middleware parses the User-Agent header and records the summary
// label in the request context. Unparseable agents get the label "unknown".
func Label(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceLabel(r.Context(), Summarize(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Summarize reduces a raw User-Agent string to "<browser> on <os>".
func Summarize(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OS()
	switch {
	case name == "" && os == "":
		return "unknown"
	case os == "":
		return name
	case name == "":
		return os
	default:
		return name + " on " + os
	}
}
