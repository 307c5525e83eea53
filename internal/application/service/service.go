package service

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"investogun/internal/application/form"
	"investogun/internal/application/metrics"
	"investogun/internal/application/models"
	"investogun/internal/audit"
	"investogun/internal/reference"
	"investogun/internal/webhook"
	dErrors "investogun/pkg/domain-errors"
	"investogun/pkg/platform/middleware/metadata"
	"investogun/pkg/platform/sentinel"
	"investogun/pkg/requestcontext"
)

// Draft actions, used as metric labels.
const (
	actionCreated     = "created"
	actionFields      = "fields_updated"
	actionRowAdded    = "row_added"
	actionRowRemoved  = "row_removed"
	actionToggle      = "service_toggled"
	actionAttachments = "attachments_uploaded"
	actionReset       = "reset"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

const (
	tracerName         = "investogun/application"
	submitSpanName     = "application.submit"
	submitFailedReason = "intake endpoint unreachable"
)

type DraftStore interface {
	Save(ctx context.Context, draft *models.Draft) error
	Get(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Submitter delivers the application payload to the intake endpoint.
type Submitter interface {
	Submit(ctx context.Context, payload any) (*webhook.Response, error)
}

type AttachmentStore interface {
	Upload(ctx context.Context, draftID uuid.UUID, field string, files []*multipart.FileHeader) ([]models.Attachment, error)
	Remove(ctx context.Context, list []models.Attachment)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns the draft lifecycle: creation, edits, attachments and
// submission.
type Service struct {
	drafts         DraftStore
	editor         *form.Editor
	submitter      Submitter
	attachments    AttachmentStore
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAttachments(a AttachmentStore) Option {
	return func(s *Service) {
		s.attachments = a
	}
}

// New constructs a Service.
func New(drafts DraftStore, editor *form.Editor, submitter Submitter, opts ...Option) *Service {
	s := &Service{drafts: drafts, editor: editor, submitter: submitter, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reference returns the option lists the form is validated against.
func (s *Service) Reference() *reference.Data {
	return s.editor.Reference()
}

// Start creates a draft with default values.
func (s *Service) Start(ctx context.Context) (*models.Draft, error) {
	draft := models.NewDraft(uuid.New(), requestcontext.Now(ctx))
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create draft")
	}
	s.countAction(actionCreated)
	s.emit(ctx, audit.ActionDraftCreated, draft.ID, "")
	return draft, nil
}

// Get loads a draft. An unknown or expired draft is a not-found error.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrExpired):
			return nil, dErrors.New(dErrors.CodeNotFound, "draft has expired")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "draft not found")
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "draft storage unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
	}
	return draft, nil
}

// GetOrStart loads the draft, or starts a new one when id is unset or the
// draft has expired. created reports whether a new draft was made.
func (s *Service) GetOrStart(ctx context.Context, id uuid.UUID) (draft *models.Draft, created bool, err error) {
	if id != uuid.Nil {
		draft, err = s.Get(ctx, id)
		if err == nil {
			return draft, false, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, false, err
		}
	}
	draft, err = s.Start(ctx)
	return draft, err == nil, err
}

// UpdateFields applies a posted form to the draft.
func (s *Service) UpdateFields(ctx context.Context, id uuid.UUID, values url.Values) (*models.Draft, error) {
	return s.update(ctx, id, actionFields, func(app models.Application) (models.Application, error) {
		return s.editor.Apply(app, values)
	})
}

// SetFields sets each path to its value, in path order. Either every value
// is applied or none is.
func (s *Service) SetFields(ctx context.Context, id uuid.UUID, fields map[string]string) (*models.Draft, error) {
	return s.update(ctx, id, actionFields, func(app models.Application) (models.Application, error) {
		paths := make([]string, 0, len(fields))
		for p := range fields {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		var err error
		for _, p := range paths {
			if app, err = s.editor.Set(app, p, fields[p]); err != nil {
				return app, err
			}
		}
		return app, nil
	})
}

func (s *Service) AddRow(ctx context.Context, id uuid.UUID, list form.List) (*models.Draft, error) {
	return s.update(ctx, id, actionRowAdded, func(app models.Application) (models.Application, error) {
		return form.AddRow(app, list)
	})
}

func (s *Service) RemoveRow(ctx context.Context, id uuid.UUID, list form.List, index int) (*models.Draft, error) {
	return s.update(ctx, id, actionRowRemoved, func(app models.Application) (models.Application, error) {
		return form.RemoveRow(app, list, index)
	})
}

func (s *Service) ToggleService(ctx context.Context, id uuid.UUID, service string) (*models.Draft, error) {
	return s.update(ctx, id, actionToggle, func(app models.Application) (models.Application, error) {
		return s.editor.ToggleService(app, service)
	})
}

// AttachFiles stores files and replaces the draft's list for field. Blobs of
// the replaced list are deleted afterwards.
func (s *Service) AttachFiles(ctx context.Context, id uuid.UUID, field form.AttachmentField, files []*multipart.FileHeader) (*models.Draft, error) {
	if s.attachments == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "attachments are not enabled")
	}
	if _, err := form.ParseAttachmentField(string(field)); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stored, err := s.attachments.Upload(ctx, id, string(field), files)
	if err != nil {
		return nil, err
	}
	// Reload so edits saved while the upload ran are kept.
	draft, err := s.Get(ctx, id)
	if err != nil {
		s.attachments.Remove(ctx, stored)
		return nil, err
	}
	previous := attachmentsOf(draft.Application, field)

	next, err := form.SetAttachments(draft.Application, field, stored)
	if err != nil {
		s.attachments.Remove(ctx, stored)
		return nil, err
	}
	draft.Application = next
	draft.UpdatedAt = requestcontext.Now(ctx)
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.attachments.Remove(ctx, stored)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	s.attachments.Remove(ctx, previous)
	s.countAction(actionAttachments)
	s.emit(ctx, audit.ActionAttachmentsUploaded, id, string(field))
	return draft, nil
}

// Reset discards the draft and its stored attachments. Resetting an unknown
// draft is not an error.
func (s *Service) Reset(ctx context.Context, id uuid.UUID) error {
	draft, err := s.Get(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil
		}
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete draft")
	}
	if s.attachments != nil {
		s.attachments.Remove(ctx, draft.Application.Attachments.BusinessPlanFiles)
		s.attachments.Remove(ctx, draft.Application.Attachments.CompanyProfileFiles)
	}
	s.countAction(actionReset)
	s.emit(ctx, audit.ActionDraftReset, id, "")
	return nil
}

// Submit posts the application once and records the outcome on the draft.
// A rejected or failed delivery is not an error: it sets the draft status to
// SubmissionError. Errors are returned only when the draft cannot be loaded
// or saved.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, submitSpanName)
	defer span.End()
	span.SetAttributes(attribute.String("draft.id", id.String()))

	start := time.Now()
	resp, submitErr := s.submitter.Submit(ctx, draft.Application)

	// The webhook may take a while; record the outcome on the latest draft so
	// edits saved meanwhile survive.
	draft, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if submitErr != nil {
		draft.Status = models.SubmissionError
		span.RecordError(submitErr)
		span.SetStatus(codes.Error, "submission failed")
		s.logger.WarnContext(ctx, "submission failed",
			"draft_id", id,
			"request_id", requestcontext.RequestID(ctx),
			"error", submitErr,
		)
		s.observeSubmission(outcomeError, start)
		s.emit(ctx, audit.ActionSubmissionFailed, id, failureReason(submitErr))
	} else {
		draft.Status = models.SubmissionSuccess
		s.logger.InfoContext(ctx, "submission accepted",
			"draft_id", id,
			"request_id", requestcontext.RequestID(ctx),
			"status", resp.Status,
			"duration", resp.Duration,
		)
		s.observeSubmission(outcomeSuccess, start)
		s.emit(ctx, audit.ActionSubmissionSucceeded, id, "")
	}

	draft.UpdatedAt = requestcontext.Now(ctx)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return draft, nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, action string, fn func(models.Application) (models.Application, error)) (*models.Draft, error) {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(draft.Application)
	if err != nil {
		return nil, err
	}
	draft.Application = next
	draft.UpdatedAt = requestcontext.Now(ctx)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	s.countAction(action)
	return draft, nil
}

func attachmentsOf(app models.Application, field form.AttachmentField) []models.Attachment {
	if field == form.AttachmentBusinessPlan {
		return app.Attachments.BusinessPlanFiles
	}
	return app.Attachments.CompanyProfileFiles
}

// failureReason keeps the upstream status in the audit trail without the
// response body, which may echo applicant data.
func failureReason(err error) string {
	if errors.Is(err, webhook.ErrNotOK) {
		return err.Error()
	}
	return submitFailedReason
}

func (s *Service) emit(ctx context.Context, action audit.Action, draftID uuid.UUID, reason string) {
	if s.auditPublisher == nil {
		return
	}
	s.auditPublisher.Emit(ctx, audit.Event{
		Action:    action,
		DraftID:   draftID,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		Client:    metadata.ClientSummary(requestcontext.UserAgent(ctx)),
		Timestamp: requestcontext.Now(ctx),
	})
}

func (s *Service) countAction(action string) {
	if s.metrics != nil {
		s.metrics.IncrementDraftAction(action)
	}
}

func (s *Service) observeSubmission(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(outcome, start)
	}
}
