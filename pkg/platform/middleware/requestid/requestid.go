package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"namescreen/pkg/requestcontext"
)

// Header carries the correlation id in both directions.
const Header = "X-Request-ID"

const maxInboundLength = 128

// Middleware propagates an inbound X-Request-ID or generates a new UUID, stores it
// in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
