// Package requestid bridges chi's request ID into pkg/requestcontext and
// echoes it back to the caller.
package requestid

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"investogun/pkg/requestcontext"
)

// Header is the response header carrying the request ID.
const Header = "X-Request-Id"

// Middleware must run after chimw.RequestID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id != "" {
			w.Header().Set(Header, id)
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
