// Package models holds the rate limiting result and response types.
package models

import "time"

// EndpointClass groups endpoints that share a request budget.
type EndpointClass string

const (
	// ClassScreen covers POST /v1/screen.
	ClassScreen EndpointClass = "screen"
	// ClassRegistry covers the registry stats and refresh endpoints.
	ClassRegistry EndpointClass = "registry"
)

// RateLimitResult is the outcome of one check against a sliding window.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the API response when a client is over budget.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"` // seconds
}

// Key builds the store key for a client within a class.
func Key(class EndpointClass, client string) string {
	return "ratelimit:" + string(class) + ":" + client
}
