package journal

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("journal not found")

// Type distinguishes bank journals (which carry running balances and gap
// detection) from cash journals.
type Type string

const (
	TypeBank Type = "bank"
	TypeCash Type = "cash"
)

// Grouping controls how posted transactions are bucketed into statements.
type Grouping string

const (
	GroupingDay       Grouping = "day"
	GroupingWeek      Grouping = "week"
	GroupingBimonthly Grouping = "bimonthly"
	GroupingMonth     Grouping = "month"
	GroupingCustom    Grouping = "custom"
)

// AccountType is the kind of account an alias points at. Card accounts have
// no statement gap rows; debit cards additionally get a balancing opposite
// line per imported line.
type AccountType string

const (
	AccountBank       AccountType = "bank"
	AccountCreditCard AccountType = "credit_card"
	AccountDebitCard  AccountType = "debit_card"
)

// Journal is an accounting journal transactions are routed into.
type Journal struct {
	ID       uuid.UUID
	Name     string
	Code     string
	Type     Type
	Currency string

	Grouping Grouping
	// StartDay is the day of month a "month" grouping period opens on.
	StartDay int
	// CustomDays are the period boundaries for the "custom" grouping,
	// ascending days of month.
	CustomDays []int
}

// Alias maps a masked account suffix as it appears in notification text
// (for example "**0080") to a journal.
type Alias struct {
	ID          uuid.UUID
	JournalID   uuid.UUID
	Name        string
	AccountType AccountType
	Currency    string

	Journal *Journal // Loaded via JOIN
}
