package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrExportNotFound = errors.New("transfer export not found")
)

// Status is the transfer lifecycle of an outgoing payment.
type Status string

const (
	StatusPrepare      Status = "prepare"
	StatusTransferring Status = "transferring"
	StatusTransferred  Status = "transferred"
	StatusReconciled   Status = "reconciled"
)

// Partner is a counterparty payments are made to.
type Partner struct {
	ID          uuid.UUID
	Name        string
	TaxCode     string
	BankAccount string
	BankName    string
	// ContentTemplate renders the bank transfer memo for this partner,
	// e.g. "{{.PartnerName}} {{.Memo}} {{.PUID}}".
	ContentTemplate string
	CreatedAt       time.Time
}

// Payment is one outgoing transfer to a partner.
type Payment struct {
	ID        uuid.UUID
	PartnerID uuid.UUID
	JournalID uuid.UUID

	Amount   int64
	Currency string
	Memo     string

	// Content is the transfer memo sent to the bank; the PUID is derived
	// from it.
	Content string

	// PUID is empty while the payment is in prepare and immutable once
	// assigned.
	PUID string

	// Reference is the posted accounting name ("BNK1/2022/0042"), kept
	// as a fallback matching key.
	Reference string

	Status    Status
	CreatedAt time.Time
	UpdatedAt *time.Time

	Partner *Partner // Loaded via JOIN
}

// TransferExport is a generated bulk-transfer file addressed by an opaque
// download token.
type TransferExport struct {
	ID        uuid.UUID
	Token     string
	Filename  string
	Content   []byte
	CreatedAt time.Time
}
