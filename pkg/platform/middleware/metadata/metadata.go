package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"namescreen/pkg/requestcontext"
)

// ClientMetadata extracts the client IP and User-Agent, derives a short client
// description and stores all three in the request context. Apply it early.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua, DescribeAgent(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DescribeAgent reduces a User-Agent header to "<browser>/<os>", "bot:<name>" or
// the bare product token for non-browser clients such as curl or SDKs.
func DescribeAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, _ := ua.Browser()
	if ua.Bot() {
		return "bot:" + name
	}
	if os := ua.OS(); os != "" && name != "" {
		return name + "/" + os
	}
	if name != "" {
		return name
	}
	return "unknown"
}

// ClientIPFromRequest extracts the originating client IP, honouring
// X-Forwarded-For and X-Real-IP set by proxies.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return "unknown"
}
