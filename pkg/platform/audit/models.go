// Package audit defines the screening audit trail: the event shape, the store
// contract and the publishers that deliver events to stores.
package audit

import (
	"context"
	"time"
)

// Action names what happened.
type Action string

const (
	ActionScreeningCompleted Action = "screening_completed"
	ActionScreeningFailed    Action = "screening_failed"
	ActionRegistryRefreshed  Action = "registry_refreshed"
	ActionRegistryRefreshErr Action = "registry_refresh_failed"
)

// Decision values recorded for screening events.
const (
	DecisionMatch  = "match"
	DecisionClear  = "clear"
	DecisionFailed = "failed"
)

// Event is transport-agnostic so stores can fan it out. It never carries the
// screened name itself: SubjectHash is the name's identity hash.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	RequestID   string    `json:"request_id,omitempty"`
	SubjectHash string    `json:"subject_hash,omitempty"`
	RecordType  string    `json:"record_type,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	MatchCount  int       `json:"match_count"`
	Skipped     int       `json:"skipped"`
	Stage       string    `json:"stage,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Scorer      string    `json:"scorer,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	ClientAgent string    `json:"client_agent,omitempty"`
	Operator    string    `json:"operator,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can be queried back (memory, postgres).
type Lister interface {
	ListByRequest(ctx context.Context, requestID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
