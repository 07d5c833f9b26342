package statement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/journal"
	"github.com/hqnguyen/remitd/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=statement
type Repository interface {
	GetOrCreateStatement(ctx context.Context, s *Statement) error
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	ListStatements(ctx context.Context, journalID *uuid.UUID) ([]*Statement, error)
	ListLines(ctx context.Context, statementID uuid.UUID) ([]*Line, error)
	// InsertLine reports false when the transaction already has a line,
	// so re-syncing never duplicates rows.
	InsertLine(ctx context.Context, l *Line) (bool, error)
	// SaveLayout persists recomputed sequences and replaces every gap
	// line of the statement in one database transaction.
	SaveLayout(ctx context.Context, statementID uuid.UUID, ordered, gaps []*Line) error
}

// TransactionSource lists posted transactions awaiting statement sync.
type TransactionSource interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// AccountTyper resolves a transaction's account text to its alias, whose
// account type decides gap and opposite-line behavior.
type AccountTyper interface {
	ByAccount(ctx context.Context, account string) (*journal.Alias, error)
}

type JournalSource interface {
	Journals(ctx context.Context) ([]*journal.Journal, error)
}

type Service struct {
	repo     Repository
	txSource TransactionSource
	typer    AccountTyper
	journals JournalSource
}

func NewService(repo Repository, txSource TransactionSource, typer AccountTyper, journals JournalSource) *Service {
	return &Service{repo: repo, txSource: txSource, typer: typer, journals: journals}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

func (s *Service) List(ctx context.Context, journalID *uuid.UUID) ([]*Statement, error) {
	return s.repo.ListStatements(ctx, journalID)
}

func (s *Service) Lines(ctx context.Context, statementID uuid.UUID) ([]*Line, error) {
	return s.repo.ListLines(ctx, statementID)
}

// SyncAll runs SyncJournal over every configured journal. A journal that
// fails is logged and skipped; the others still sync.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	journals, err := s.journals.Journals(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing journals: %w", err)
	}

	synced := 0

	for _, j := range journals {
		n, err := s.SyncJournal(ctx, j)
		if err != nil {
			slog.Error("syncing journal", "journal", j.Code, "error", err)
			continue
		}

		synced += n
	}

	return synced, nil
}

// SyncJournal pulls the journal's posted transactions into statement lines,
// bucketing by the journal's grouping policy, then recomputes ordering and
// gap lines for every statement it touched.
func (s *Service) SyncJournal(ctx context.Context, j *journal.Journal) (int, error) {
	status := transaction.StatusPosted

	txs, err := s.txSource.List(ctx, transaction.ListFilter{JournalID: &j.ID, Status: &status})
	if err != nil {
		return 0, fmt.Errorf("listing posted transactions: %w", err)
	}

	touched := map[uuid.UUID]journal.AccountType{}

	synced := 0

	for _, tx := range txs {
		key, start := GroupKey(j, tx.PostedAt)

		st := &Statement{JournalID: j.ID, Key: key, StartDate: start}
		if err := s.repo.GetOrCreateStatement(ctx, st); err != nil {
			return synced, fmt.Errorf("statement %s: %w", key, err)
		}

		accountType := journal.AccountBank

		if alias, err := s.typer.ByAccount(ctx, tx.Account); err == nil {
			accountType = alias.AccountType
		}

		touched[st.ID] = accountType

		line := &Line{
			StatementID:   st.ID,
			TransactionID: &tx.ID,
			Date:          tx.PostedAt,
			Reference:     tx.ExternalID,
			Narration:     tx.Message,
			Amount:        tx.SignedAmount(),
			Balance:       tx.Balance,
		}

		inserted, err := s.repo.InsertLine(ctx, line)
		if err != nil {
			return synced, fmt.Errorf("inserting line for %s: %w", tx.ExternalID, err)
		}

		if !inserted {
			continue
		}

		synced++

		// A debit card account mirrors each spend with a balancing
		// opposite movement.
		if accountType == journal.AccountDebitCard {
			opposite := &Line{
				StatementID: st.ID,
				Date:        tx.PostedAt,
				Reference:   "OPPOSITE " + tx.ExternalID,
				Narration:   tx.Message,
				Amount:      -line.Amount,
			}
			if _, err := s.repo.InsertLine(ctx, opposite); err != nil {
				return synced, fmt.Errorf("inserting opposite line for %s: %w", tx.ExternalID, err)
			}
		}
	}

	for statementID, accountType := range touched {
		if err := s.refresh(ctx, statementID, accountType); err != nil {
			slog.Error("refreshing statement", "statement_id", statementID, "error", err)
		}
	}

	return synced, nil
}

// refresh recomputes line ordering and gap rows for one statement. Card
// accounts report no running balance worth trusting, so they get ordering
// only, never gap rows.
func (s *Service) refresh(ctx context.Context, statementID uuid.UUID, accountType journal.AccountType) error {
	all, err := s.repo.ListLines(ctx, statementID)
	if err != nil {
		return fmt.Errorf("listing lines: %w", err)
	}

	var lines []*Line

	for _, l := range all {
		if !l.IsGap {
			lines = append(lines, l)
		}
	}

	opening := OpeningBalance(lines)
	ordered := Reorder(lines, opening)

	var gaps []*Line

	if accountType == journal.AccountBank {
		gaps, _ = ComputeGaps(ordered, opening)
	}

	return s.repo.SaveLayout(ctx, statementID, ordered, gaps)
}
