package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/events"
	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/payment"
	"github.com/hqnguyen/remitd/internal/statement"
)

// Audit records a line reconciliation could not settle automatically.
type Audit struct {
	ID        uuid.UUID
	LineID    uuid.UUID
	Detail    string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=service_mock.go -package=reconcile
type Repository interface {
	ListStatements(ctx context.Context) ([]*statement.Statement, error)
	ListUnmatchedLines(ctx context.Context, statementID uuid.UUID) ([]*statement.Line, error)
	// ListOpenPayments returns transferring and transferred payments,
	// the ones a statement line could confirm.
	ListOpenPayments(ctx context.Context) ([]*payment.Payment, error)
	// AssignMatch links the line to the payment and marks the payment
	// reconciled in one database transaction.
	AssignMatch(ctx context.Context, lineID, paymentID, partnerID uuid.UUID, strategy string) error
	CreateAudit(ctx context.Context, a *Audit) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	pipeline  *metrics.Pipeline
	opts      Options
}

func NewService(repo Repository, publisher events.Publisher, pipeline *metrics.Pipeline, opts Options) *Service {
	return &Service{repo: repo, publisher: publisher, pipeline: pipeline, opts: opts}
}

// Run reconciles every statement. A statement that fails is logged and the
// loop moves on; one bad statement must not stall the rest of the book.
func (s *Service) Run(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		s.pipeline.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	statements, err := s.repo.ListStatements(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing statements: %w", err)
	}

	payments, err := s.repo.ListOpenPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing open payments: %w", err)
	}

	matched := 0

	for _, st := range statements {
		n, err := s.reconcileStatement(ctx, st, payments)
		if err != nil {
			slog.Error("reconciling statement", "statement_id", st.ID, "key", st.Key, "error", err)
			continue
		}

		matched += n
	}

	return matched, nil
}

func (s *Service) reconcileStatement(ctx context.Context, st *statement.Statement, payments []*payment.Payment) (int, error) {
	lines, err := s.repo.ListUnmatchedLines(ctx, st.ID)
	if err != nil {
		return 0, fmt.Errorf("listing lines: %w", err)
	}

	matched := 0

	for _, line := range lines {
		if line.IsGap {
			continue
		}

		candidates := MatchLine(line, payments, s.opts)

		chosen, ambiguous := Resolve(candidates)
		if ambiguous {
			audit := &Audit{
				LineID: line.ID,
				Detail: fmt.Sprintf("%d candidate payments across multiple partners", len(candidates)),
			}
			if err := s.repo.CreateAudit(ctx, audit); err != nil {
				return matched, fmt.Errorf("creating audit: %w", err)
			}

			s.publishOutcome(ctx, line, nil, "ambiguous", false)

			continue
		}

		if chosen == nil {
			s.pipeline.ReconcileUnmatchedTotal.Inc()
			continue
		}

		if err := s.repo.AssignMatch(ctx, line.ID, chosen.PaymentID, chosen.PartnerID, chosen.Strategy); err != nil {
			return matched, fmt.Errorf("assigning match: %w", err)
		}

		matched++

		s.pipeline.ReconcileMatchedTotal.WithLabelValues(chosen.Strategy).Inc()
		s.publishOutcome(ctx, line, chosen, chosen.Strategy, true)
	}

	return matched, nil
}

func (s *Service) publishOutcome(ctx context.Context, line *statement.Line, chosen *Candidate, strategy string, ok bool) {
	ev := events.ReconcileEvent{
		StatementLineID: line.ID.String(),
		Strategy:        strategy,
		Matched:         ok,
	}
	if chosen != nil {
		ev.TransactionID = chosen.PaymentID.String()
	}

	if err := s.publisher.PublishReconcile(ctx, ev); err != nil {
		slog.Error("publishing reconcile event", "line_id", line.ID, "error", err)
	}
}
