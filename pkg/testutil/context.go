package testutil

import (
	"context"
	"net/http"
	"time"

	"investogun/pkg/requestcontext"
)

// Request holds the values the request middleware chain normally injects.
type Request struct {
	Time      time.Time
	RequestID string
	ClientIP  string
	UserAgent string
}

// Context returns parent carrying r's values, as if the request had passed
// through the requestid, requesttime and metadata middleware. Zero fields
// are left unset.
func Context(parent context.Context, r Request) context.Context {
	ctx := parent
	if !r.Time.IsZero() {
		ctx = requestcontext.WithTime(ctx, r.Time)
	}
	if r.RequestID != "" {
		ctx = requestcontext.WithRequestID(ctx, r.RequestID)
	}
	if r.ClientIP != "" || r.UserAgent != "" {
		ctx = requestcontext.WithClientMetadata(ctx, r.ClientIP, r.UserAgent)
	}
	return ctx
}

// WithRequest attaches r's values to req's context.
func WithRequest(req *http.Request, r Request) *http.Request {
	return req.WithContext(Context(req.Context(), r))
}
