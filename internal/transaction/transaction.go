package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicate means the journal already holds a transaction with this
	// external id; re-parsing a message must hit this instead of inserting
	// a second row.
	ErrDuplicate = errors.New("duplicate transaction")
)

// Direction is the money flow relative to the account.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPosted  Status = "posted"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Transaction is one money movement extracted from a notification message.
type Transaction struct {
	ID        uuid.UUID
	JournalID uuid.UUID
	MessageID *uuid.UUID

	// ExternalID is unique within a journal, derived from the source
	// message id and the record's position in it.
	ExternalID string

	Account   string
	Direction Direction
	Status    Status

	// Amount and Balance are integer minor units.
	Amount   int64
	Balance  *int64
	Currency string

	Message  string
	PostedAt time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SignedAmount is the amount with outbound movements negated, the form
// statement lines carry.
func (t *Transaction) SignedAmount() int64 {
	if t.Direction == DirectionOutbound {
		return -t.Amount
	}

	return t.Amount
}
