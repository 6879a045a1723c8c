// Package events publishes claim lifecycle events for downstream
// adjudication consumers. Publishing is best-effort: a single attempt per
// event, and callers are expected to log and swallow any failure rather
// than fail the surrounding operation.
package events

import (
	"context"
	"time"
)

// Event types emitted by the claims pipeline.
const (
	TypeClaimSubmitted    = "claim.submitted"
	TypeClaimReprocessing = "claim.reprocessing"
	TypeClaimStatusChange = "claim.status_changed"
)

// ClaimEvent is the wire payload published to the claims topic, keyed by
// claim ID.
type ClaimEvent struct {
	EventType string    `json:"event_type"`
	ClaimID   string    `json:"claim_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers a claim event. Implementations must not retry and must
// bound their own latency.
type Publisher interface {
	Publish(ctx context.Context, event ClaimEvent) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event ClaimEvent) error { return nil }
