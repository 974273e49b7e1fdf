// Package httpserver configures the process's HTTP listener.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps handler in a server tuned for a small JSON API. The write
// timeout stays generous because assistant replies can take several seconds.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
