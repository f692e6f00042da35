package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is one append-only record of a classified gateway response.
// (PspReference, EventCode) is intended to be unique per response and is
// used by the downstream notification handler for duplicate detection;
// the write path does not enforce it.
type Event struct {
	ID            uuid.UUID
	PspReference  string
	EventCode     string
	EventResult   string
	IncrementID   string
	PaymentMethod string
	CreatedAt     time.Time
}
