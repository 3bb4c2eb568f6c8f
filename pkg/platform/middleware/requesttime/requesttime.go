// Package requesttime pins a single "now" per HTTP request so audit events and
// screening outcomes of one request share a timestamp.
package requesttime

import (
	"net/http"
	"time"

	"namescreen/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
