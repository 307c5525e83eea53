package application

import (
	"log/slog"

	"investogun/internal/application/form"
	"investogun/internal/application/handler"
	"investogun/internal/application/service"
	"investogun/internal/application/view"
)

// Service exposes draft editing and submission.
type Service = service.Service

// Handler wires the form and JSON API routes to the service.
type Handler = handler.Handler

// NewService constructs the application service with required dependencies.
func NewService(drafts service.DraftStore, editor *form.Editor, submitter service.Submitter, opts ...service.Option) *Service {
	return service.New(drafts, editor, submitter, opts...)
}

// NewHandler constructs the HTTP handler for the form and its API.
func NewHandler(s *Service, sessions handler.Sessions, renderer *view.Renderer, logger *slog.Logger, maxBody int64) *Handler {
	return handler.New(s, sessions, renderer, logger, maxBody)
}
