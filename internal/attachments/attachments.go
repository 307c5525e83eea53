// Package attachments moves uploaded business plan and company profile files
// into the blob store and returns the metadata recorded on the application.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"investogun/internal/application/models"
	"investogun/internal/blob"
	dErrors "investogun/pkg/domain-errors"
)

// FormField is the multipart field carrying the files.
const FormField = "files"

const (
	maxParallelPuts    = 4
	defaultContentType = "application/octet-stream"
)

// Uploader stores attachment files.
type Uploader struct {
	store  blob.Store
	logger *slog.Logger
}

// New creates an uploader writing to store.
func New(store blob.Store, logger *slog.Logger) *Uploader {
	return &Uploader{store: store, logger: logger}
}

// ParseForm parses a urlencoded or multipart request body of at most
// maxBytes. Multipart value parts land in r.PostForm as usual.
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return dErrors.New(dErrors.CodePayloadTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxBytes))
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form body")
}

// Files returns the file parts posted under field. Empty file inputs yield
// no parts.
func Files(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

// FromRequest parses a multipart upload of at most maxBytes and returns the
// parts posted under FormField.
func FromRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]*multipart.FileHeader, error) {
	if err := ParseForm(w, r, maxBytes); err != nil {
		return nil, err
	}
	files := Files(r, FormField)
	if len(files) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no files uploaded")
	}
	return files, nil
}

// Upload stores files under the draft and field, in parallel. The result
// keeps the order of files. When any put fails, the ones that succeeded are
// removed again.
func (u *Uploader) Upload(ctx context.Context, draftID uuid.UUID, field string, files []*multipart.FileHeader) ([]models.Attachment, error) {
	out := make([]models.Attachment, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPuts)
	for i, fh := range files {
		g.Go(func() error {
			a, err := u.put(gctx, draftID, field, fh)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.Remove(context.WithoutCancel(ctx), out)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store attachment")
	}
	return out, nil
}

func (u *Uploader) put(ctx context.Context, draftID uuid.UUID, field string, fh *multipart.FileHeader) (models.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	name := cleanFileName(fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	key := fmt.Sprintf("%s/%s/%s-%s", draftID, field, uuid.NewString(), name)

	if _, err := u.store.Put(ctx, key, f, blob.PutOptions{ContentType: contentType, Size: fh.Size}); err != nil {
		return models.Attachment{}, err
	}
	return models.Attachment{
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   fh.Size,
		Key:         key,
	}, nil
}

// Remove deletes stored blobs. Failures are logged only: an orphaned blob
// never blocks the applicant.
func (u *Uploader) Remove(ctx context.Context, list []models.Attachment) {
	for _, a := range list {
		if a.Key == "" {
			continue
		}
		if err := u.store.Delete(ctx, a.Key); err != nil {
			u.logger.WarnContext(ctx, "failed to delete attachment blob", "key", a.Key, "error", err)
		}
	}
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
