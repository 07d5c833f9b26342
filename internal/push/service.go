package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=push
type Repository interface {
	CreateStaging(ctx context.Context, st *Staging) error
	GetStaging(ctx context.Context, id uuid.UUID) (*Staging, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*Staging, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// SavePushResult persists the outcome of one push run: final status,
	// attempt count, last error and the structured attempt log.
	SavePushResult(ctx context.Context, id uuid.UUID, status Status, retries int, lastError string, responseLog []byte) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
}

// Pusher is implemented by *Client.
type Pusher interface {
	Push(ctx context.Context, st *Staging) ([]Attempt, error)
}

type Service struct {
	repo     Repository
	client   Pusher
	pipeline *metrics.Pipeline
}

func NewService(repo Repository, client Pusher, pipeline *metrics.Pipeline) *Service {
	return &Service{repo: repo, client: client, pipeline: pipeline}
}

type EventParams struct {
	CompanyID     uuid.UUID
	InvoiceNo     string
	SellerTaxCode string
	BuyerTaxCode  string
	Amount        int64
	IssuedAt      time.Time
	RawPayload    []byte
}

// CreateFromEvent stages an inbound invoice event for pushing.
func (s *Service) CreateFromEvent(ctx context.Context, params EventParams) (*Staging, error) {
	st := &Staging{
		CompanyID:     params.CompanyID,
		InvoiceNo:     params.InvoiceNo,
		SellerTaxCode: params.SellerTaxCode,
		BuyerTaxCode:  params.BuyerTaxCode,
		Amount:        params.Amount,
		IssuedAt:      params.IssuedAt,
		RawPayload:    params.RawPayload,
		Status:        StatusDraft,
	}
	if err := s.repo.CreateStaging(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) Company(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) Skip(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusSkipped)
}

// PushDrafts pushes queued staging records. Each record gets its own push
// run with client-side retry; exhaustion marks it failed with the last error
// and the attempt log, never silently.
func (s *Service) PushDrafts(ctx context.Context, limit int) (int, error) {
	drafts, err := s.repo.ListByStatus(ctx, StatusDraft, limit)
	if err != nil {
		return 0, fmt.Errorf("listing draft stagings: %w", err)
	}

	pushed := 0

	for _, st := range drafts {
		if err := s.repo.UpdateStatus(ctx, st.ID, StatusPushing); err != nil {
			return pushed, fmt.Errorf("marking staging pushing: %w", err)
		}

		attempts, pushErr := s.client.Push(ctx, st)

		log, err := json.Marshal(attempts)
		if err != nil {
			log = nil
		}

		if pushErr != nil {
			s.pipeline.RecordPush("failed", len(attempts))
			slog.Error("pushing staging", "staging_id", st.ID, "attempts", len(attempts), "error", pushErr)

			if err := s.repo.SavePushResult(ctx, st.ID, StatusFailed, len(attempts), pushErr.Error(), log); err != nil {
				return pushed, fmt.Errorf("saving failed push: %w", err)
			}

			if errors.Is(pushErr, context.Canceled) || errors.Is(pushErr, context.DeadlineExceeded) {
				return pushed, pushErr
			}

			continue
		}

		s.pipeline.RecordPush("success", len(attempts))

		if err := s.repo.SavePushResult(ctx, st.ID, StatusSuccess, len(attempts), "", log); err != nil {
			return pushed, fmt.Errorf("saving successful push: %w", err)
		}

		pushed++
	}

	return pushed, nil
}
