package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/payment"
	"github.com/hqnguyen/remitd/internal/reconcile"
	"github.com/hqnguyen/remitd/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListStatements(ctx context.Context) ([]*statement.Statement, error) {
	query := `SELECT id, journal_id, key, start_date, created_at FROM statements ORDER BY start_date ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing statements: %w", err)
	}
	defer rows.Close()

	var statements []*statement.Statement

	for rows.Next() {
		var st statement.Statement

		if err := rows.Scan(&st.ID, &st.JournalID, &st.Key, &st.StartDate, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning statement: %w", err)
		}

		statements = append(statements, &st)
	}

	return statements, rows.Err()
}

func (s *Store) ListUnmatchedLines(ctx context.Context, statementID uuid.UUID) ([]*statement.Line, error) {
	query := `
		SELECT l.id, l.statement_id, l.transaction_id, l.date, l.reference, l.narration,
		       l.amount, l.balance, l.is_gap, l.sequence, l.partner_id, l.payment_id, l.created_at
		FROM statement_lines l
		WHERE l.statement_id = $1 AND l.partner_id IS NULL AND NOT l.is_gap
		ORDER BY l.date ASC, l.sequence ASC
	`

	rows, err := s.db.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("listing unmatched lines: %w", err)
	}
	defer rows.Close()

	var lines []*statement.Line

	for rows.Next() {
		var l statement.Line

		var balance sql.NullInt64

		if err := rows.Scan(
			&l.ID, &l.StatementID, &l.TransactionID, &l.Date, &l.Reference, &l.Narration,
			&l.Amount, &balance, &l.IsGap, &l.Sequence, &l.PartnerID, &l.PaymentID, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}

		if balance.Valid {
			l.Balance = &balance.Int64
		}

		lines = append(lines, &l)
	}

	return lines, rows.Err()
}

func (s *Store) ListOpenPayments(ctx context.Context) ([]*payment.Payment, error) {
	query := `
		SELECT p.id, p.partner_id, p.journal_id, p.amount, p.currency, p.memo, p.content,
		       p.puid, p.reference, p.status, p.created_at, p.updated_at
		FROM payments p
		WHERE p.status IN ($1, $2)
		ORDER BY p.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, payment.StatusTransferring, payment.StatusTransferred)
	if err != nil {
		return nil, fmt.Errorf("listing open payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		var p payment.Payment

		var statusStr string

		if err := rows.Scan(
			&p.ID, &p.PartnerID, &p.JournalID, &p.Amount, &p.Currency, &p.Memo, &p.Content,
			&p.PUID, &p.Reference, &statusStr, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.Status = payment.Status(statusStr)
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}

// AssignMatch links a line to its payment and marks the payment reconciled
// atomically, so a crash between the two cannot leave a half-settled match.
func (s *Store) AssignMatch(ctx context.Context, lineID, paymentID, partnerID uuid.UUID, strategy string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE statement_lines
		SET partner_id = $1, payment_id = $2
		WHERE id = $3 AND partner_id IS NULL`,
		partnerID, paymentID, lineID); err != nil {
		return fmt.Errorf("assigning line partner: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE id = $2`,
		payment.StatusReconciled, paymentID); err != nil {
		return fmt.Errorf("marking payment reconciled: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO reconcile_audit (line_id, detail, created_at)
		VALUES ($1, $2, NOW())`,
		lineID, "matched by "+strategy); err != nil {
		return fmt.Errorf("recording audit: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing match: %w", err)
	}

	return nil
}

func (s *Store) CreateAudit(ctx context.Context, a *reconcile.Audit) error {
	query := `
		INSERT INTO reconcile_audit (line_id, detail, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, a.LineID, a.Detail).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating audit: %w", err)
	}

	return nil
}
