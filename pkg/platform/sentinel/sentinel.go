package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by stores and clients.
// Services translate them into domain errors; validation failures belong in
// pkg/domain-errors instead.
//
//   - ErrNotFound: no such record or key
//   - ErrUnavailable: backend unreachable or degraded
//   - ErrIntegrity: stored data violates a structural invariant
//   - ErrClosed: component used after Close
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrIntegrity   = errors.New("integrity violation")
	ErrClosed      = errors.New("closed")
	ErrQueueFull   = errors.New("queue full")
)
