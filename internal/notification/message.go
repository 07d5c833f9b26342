package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("message not found")
	// ErrDuplicate means a message with this external id was already
	// ingested.
	ErrDuplicate = errors.New("duplicate message")
)

// State is the parse lifecycle of an inbound message. Every message ends in
// done or ignored; it is never dropped silently and never retried forever.
type State string

const (
	StateDraft      State = "draft"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateIgnored    State = "ignored"
)

// Message is one forwarded bank notification awaiting or past parsing.
type Message struct {
	ID uuid.UUID

	// MessageID is the forwarder's unique id for the notification,
	// also the base of transaction external ids.
	MessageID string

	Sender  string
	Subject string

	RawBody string
	// Body is the cleaned plain text the parser runs on.
	Body string

	State    State
	Attempts int

	ReceivedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// ParseTemplate is a stored grammar, tried against messages in Position
// order.
type ParseTemplate struct {
	ID       uuid.UUID
	Name     string
	Body     string
	Position int
}
