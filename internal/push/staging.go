package push

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("staging record not found")
	// ErrNoAPIKey fails a push immediately; retrying cannot fix missing
	// configuration.
	ErrNoAPIKey = errors.New("push api key not configured")
)

// Status is the outbound lifecycle of a staged invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPushing Status = "pushing"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Company is a tenant whose invoice events we accept and forward.
type Company struct {
	ID                 uuid.UUID
	Name               string
	TaxCode            string
	APIKey             string
	IntegrationEnabled bool
	CreatedAt          time.Time
}

// Staging is one supplier invoice queued for the external verification API.
type Staging struct {
	ID        uuid.UUID
	CompanyID uuid.UUID

	InvoiceNo     string
	SellerTaxCode string
	BuyerTaxCode  string
	Amount        int64
	IssuedAt      time.Time

	// RawPayload is the inbound webhook event verbatim, forwarded as-is.
	RawPayload []byte

	Status    Status
	Retries   int
	LastError string
	// ResponseLog is the JSON attempt log of the most recent push run.
	ResponseLog []byte

	CreatedAt time.Time
	UpdatedAt *time.Time
}
