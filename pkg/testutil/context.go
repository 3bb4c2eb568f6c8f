package testutil

import (
	"net/http"

	"namescreen/pkg/requestcontext"
)

// WithRequestID simulates the request id middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithOperator simulates a request that passed the admin guard.
func WithOperator(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithOperator(req.Context(), subject))
}
