package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	JournalID  uuid.UUID
	MessageID  *uuid.UUID
	ExternalID string
	Account    string
	Direction  Direction
	Amount     int64
	Balance    *int64
	Currency   string
	Message    string
	PostedAt   time.Time
}

type ListFilter struct {
	JournalID *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Create persists a normalized transaction in draft. A second record with
// the same external id in the same journal returns ErrDuplicate unchanged so
// callers can count and skip it.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		JournalID:  params.JournalID,
		MessageID:  params.MessageID,
		ExternalID: params.ExternalID,
		Account:    params.Account,
		Direction:  params.Direction,
		Status:     StatusDraft,
		Amount:     params.Amount,
		Balance:    params.Balance,
		Currency:   params.Currency,
		Message:    params.Message,
		PostedAt:   params.PostedAt,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Post marks a reviewed draft ready for statement sync.
func (s *Service) Post(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusPosted)
}

// Skip drops a transaction from the pipeline by explicit user action.
func (s *Service) Skip(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusSkipped)
}
