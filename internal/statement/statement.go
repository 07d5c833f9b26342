package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("statement not found")

// GapReference marks a synthetic line standing in for transactions the bank
// never notified us about.
const GapReference = "MISSING TRANSACTIONS"

// Statement is one reporting period of a journal.
type Statement struct {
	ID        uuid.UUID
	JournalID uuid.UUID
	// Key identifies the period within the journal, derived from the
	// journal's grouping policy ("2022-01-28", "2022-W04", "2022-02-B1",
	// "2022-02-16").
	Key       string
	StartDate time.Time
	CreatedAt time.Time
}

// Line is one statement row. Gap lines have no transaction and carry the
// balance difference the missing movements must account for.
type Line struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	// TransactionID is nil for gap lines and debit-card opposite lines.
	TransactionID *uuid.UUID

	Date      time.Time
	Reference string
	Narration string

	// Amount is signed: outbound movements are negative.
	Amount  int64
	Balance *int64

	IsGap    bool
	Sequence int

	// PartnerID and PaymentID are set by reconciliation when exactly one
	// candidate partner explains the line.
	PartnerID *uuid.UUID
	PaymentID *uuid.UUID

	CreatedAt time.Time
}
