package handler

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"investogun/internal/application/form"
	"investogun/internal/application/models"
	"investogun/internal/application/view"
	"investogun/internal/attachments"
	"investogun/internal/reference"
	dErrors "investogun/pkg/domain-errors"
	"investogun/pkg/platform/httputil"
	"investogun/pkg/requestcontext"
)

// Service defines the draft operations the handlers drive.
type Service interface {
	GetOrStart(ctx context.Context, id uuid.UUID) (*models.Draft, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	UpdateFields(ctx context.Context, id uuid.UUID, values url.Values) (*models.Draft, error)
	SetFields(ctx context.Context, id uuid.UUID, fields map[string]string) (*models.Draft, error)
	AddRow(ctx context.Context, id uuid.UUID, list form.List) (*models.Draft, error)
	RemoveRow(ctx context.Context, id uuid.UUID, list form.List, index int) (*models.Draft, error)
	ToggleService(ctx context.Context, id uuid.UUID, service string) (*models.Draft, error)
	AttachFiles(ctx context.Context, id uuid.UUID, field form.AttachmentField, files []*multipart.FileHeader) (*models.Draft, error)
	Reset(ctx context.Context, id uuid.UUID) error
	Submit(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	Reference() *reference.Data
}

// Sessions binds a browser to its draft.
type Sessions interface {
	FromRequest(r *http.Request) (uuid.UUID, error)
	Resolve(r *http.Request) (draftID uuid.UUID, renew bool, err error)
	SetCookie(w http.ResponseWriter, draftID uuid.UUID) error
	ClearCookie(w http.ResponseWriter)
}

// Handler serves the HTML form and the JSON API over the same drafts.
type Handler struct {
	service  Service
	sessions Sessions
	view     *view.Renderer
	logger   *slog.Logger
	maxBody  int64
}

// New creates a Handler. maxBody bounds form and upload request bodies.
func New(service Service, sessions Sessions, renderer *view.Renderer, logger *slog.Logger, maxBody int64) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		view:     renderer,
		logger:   logger,
		maxBody:  maxBody,
	}
}

// Register registers the form and API routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/form/reset", h.handleReset)
	r.Get("/api/reference", h.handleReference)

	r.Group(func(r chi.Router) {
		r.Use(h.requireDraft)

		r.Get("/", h.handleForm)
		r.Post("/form", h.handlePostForm)
		r.Post("/form/attachments/{field}", h.handleUploadForm)

		r.Route("/api/application", func(r chi.Router) {
			r.Get("/", h.handleGetApplication)
			r.Patch("/", h.handlePatchApplication)
			r.Post("/lists/{list}", h.handleAddRow)
			r.Delete("/lists/{list}/{index}", h.handleRemoveRow)
			r.Post("/services/toggle", h.handleToggleService)
			r.Post("/attachments/{field}", h.handleUploadAPI)
			r.Post("/submit", h.handleSubmit)
		})
	})
}

type draftKey struct{}

// requireDraft resolves the session cookie to a draft, starting a new draft
// (and cookie) when the cookie is missing, invalid or points at an expired
// draft. A cookie past half its lifetime is reissued so it slides with the
// store TTL.
func (h *Handler) requireDraft(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, renew, err := h.sessions.Resolve(r)
		if err != nil {
			id = uuid.Nil
		}

		draft, created, err := h.service.GetOrStart(ctx, id)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to resolve draft",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		if created || renew {
			if err := h.sessions.SetCookie(w, draft.ID); err != nil {
				httputil.WriteError(w, err)
				return
			}
		}

		ctx = requestcontext.WithDraftID(ctx, draft.ID)
		ctx = context.WithValue(ctx, draftKey{}, draft)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func draftFrom(ctx context.Context) *models.Draft {
	d, _ := ctx.Value(draftKey{}).(*models.Draft)
	return d
}

// -----------------------------------------------------------------------------
// HTML form
// -----------------------------------------------------------------------------

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, draftFrom(r.Context()), "")
}

// handlePostForm applies every posted field, stores any chosen files, runs
// the optional action and redirects back to the form.
func (h *Handler) handlePostForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := requestcontext.DraftID(ctx)

	if err := attachments.ParseForm(w, r, h.maxBody); err != nil {
		h.renderError(w, r, draftFrom(ctx), err)
		return
	}
	draft, err := h.service.UpdateFields(ctx, id, r.PostForm)
	if err != nil {
		h.renderError(w, r, draftFrom(ctx), err)
		return
	}
	for _, field := range []form.AttachmentField{form.AttachmentBusinessPlan, form.AttachmentCompanyProfile} {
		files := attachments.Files(r, string(field))
		if len(files) == 0 {
			continue
		}
		attached, err := h.service.AttachFiles(ctx, id, field, files)
		if err != nil {
			h.renderError(w, r, draft, err)
			return
		}
		draft = attached
	}
	if _, err := h.runAction(ctx, id, r.PostForm.Get("action")); err != nil {
		h.renderError(w, r, draft, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// runAction dispatches the button that submitted the form:
// add:<list>, remove:<list>:<index>, toggle:<service> or submit.
// An empty action, refresh or save only stores the fields.
func (h *Handler) runAction(ctx context.Context, id uuid.UUID, action string) (*models.Draft, error) {
	verb, arg, _ := strings.Cut(action, ":")
	switch verb {
	case "", "refresh", "save":
		return nil, nil
	case "submit":
		return h.service.Submit(ctx, id)
	case "add":
		list, err := form.ParseList(arg)
		if err != nil {
			return nil, err
		}
		return h.service.AddRow(ctx, id, list)
	case "remove":
		name, rawIndex, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, dErrors.New(dErrors.CodeBadRequest, "remove needs a list and an index")
		}
		list, err := form.ParseList(name)
		if err != nil {
			return nil, err
		}
		index, err := parseIndex(rawIndex)
		if err != nil {
			return nil, err
		}
		return h.service.RemoveRow(ctx, id, list, index)
	case "toggle":
		return h.service.ToggleService(ctx, id, arg)
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action %q", action))
}

func (h *Handler) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.upload(w, r); err != nil {
		h.renderError(w, r, draftFrom(ctx), err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if id, err := h.sessions.FromRequest(r); err == nil {
		if err := h.service.Reset(ctx, id); err != nil {
			h.logger.ErrorContext(ctx, "failed to reset draft",
				"request_id", requestcontext.RequestID(ctx),
				"draft_id", id,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, draft *models.Draft, message string) {
	page := view.Page{
		App:    draft.Application,
		Status: draft.Status,
		Ref:    h.service.Reference(),
		Error:  message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.view.Form(w, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render form",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
}

// renderError shows the form again with a message. Internal failures get a
// generic message; their detail only goes to the log.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, draft *models.Draft, err error) {
	ctx := r.Context()
	code := dErrors.CodeInternal
	message := "Something went wrong. Please try again."
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		code = de.Code
		message = de.Message
	}
	h.logError(ctx, "form request rejected", code, err)
	if draft == nil {
		draft = draftFrom(ctx)
	}
	h.render(w, r, httputil.StatusFor(code), draft, message)
}

// -----------------------------------------------------------------------------
// JSON API
// -----------------------------------------------------------------------------

func (h *Handler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(draftFrom(r.Context())))
}

func (h *Handler) handlePatchApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[UpdateFieldsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	draft, err := h.service.SetFields(ctx, requestcontext.DraftID(ctx), req.Fields)
	h.writeDraft(w, r, draft, err)
}

func (h *Handler) handleAddRow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := form.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	draft, err := h.service.AddRow(ctx, requestcontext.DraftID(ctx), list)
	h.writeDraft(w, r, draft, err)
}

func (h *Handler) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := form.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	draft, err := h.service.RemoveRow(ctx, requestcontext.DraftID(ctx), list, index)
	h.writeDraft(w, r, draft, err)
}

func (h *Handler) handleToggleService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ToggleServiceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	draft, err := h.service.ToggleService(ctx, requestcontext.DraftID(ctx), req.Service)
	h.writeDraft(w, r, draft, err)
}

func (h *Handler) handleUploadAPI(w http.ResponseWriter, r *http.Request) {
	draft, err := h.upload(w, r)
	h.writeDraft(w, r, draft, err)
}

// handleSubmit answers 200 for both outcomes: a rejected submission is a
// result, reported in status, not a request error.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	draft, err := h.service.Submit(ctx, requestcontext.DraftID(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{Status: draft.Status})
}

func (h *Handler) handleReference(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Reference())
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) (*models.Draft, error) {
	ctx := r.Context()
	field, err := form.ParseAttachmentField(chi.URLParam(r, "field"))
	if err != nil {
		return nil, err
	}
	files, err := attachments.FromRequest(w, r, h.maxBody)
	if err != nil {
		return nil, err
	}
	return h.service.AttachFiles(ctx, requestcontext.DraftID(ctx), field, files)
}

func (h *Handler) writeDraft(w http.ResponseWriter, r *http.Request, draft *models.Draft, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(draft))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeInternal
	if de, ok := dErrors.As(err); ok {
		code = de.Code
	}
	h.logError(r.Context(), "api request rejected", code, err)
	httputil.WriteError(w, err)
}

func (h *Handler) logError(ctx context.Context, msg string, code dErrors.Code, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", requestcontext.DraftID(ctx),
		"code", code,
		"error", err,
	}
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}

func parseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid row index %q", raw))
	}
	return i, nil
}
