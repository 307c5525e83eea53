package httpserver

import (
	"net/http"
	"time"

	"investogun/internal/platform/config"
)

// writeMargin is the time a handler has left after the webhook call to save
// the draft and write the response.
const writeMargin = 10 * time.Second

// New builds the HTTP server. Submissions wait on the intake endpoint inside
// the request, so the write deadline outlasts the webhook timeout.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.Webhook.Timeout + writeMargin,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}
