package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) GetOrCreateStatement(ctx context.Context, st *statement.Statement) error {
	query := `
		INSERT INTO statements (journal_id, key, start_date, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (journal_id, key) DO UPDATE SET key = EXCLUDED.key
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, st.JournalID, st.Key, st.StartDate).
		Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting statement: %w", err)
	}

	return nil
}

func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	query := `SELECT id, journal_id, key, start_date, created_at FROM statements WHERE id = $1`

	var st statement.Statement

	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&st.ID, &st.JournalID, &st.Key, &st.StartDate, &st.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting statement: %w", err)
	}

	return &st, nil
}

func (s *Store) ListStatements(ctx context.Context, journalID *uuid.UUID) ([]*statement.Statement, error) {
	query := `SELECT id, journal_id, key, start_date, created_at FROM statements`

	var args []any

	if journalID != nil {
		query += ` WHERE journal_id = $1`

		args = append(args, *journalID)
	}

	query += ` ORDER BY start_date DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
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

const selectLineColumns = `
	l.id, l.statement_id, l.transaction_id, l.date, l.reference, l.narration,
	l.amount, l.balance, l.is_gap, l.sequence, l.partner_id, l.payment_id, l.created_at
`

func scanLine(sc scanner) (*statement.Line, error) {
	var l statement.Line

	var balance sql.NullInt64

	if err := sc.Scan(
		&l.ID, &l.StatementID, &l.TransactionID, &l.Date, &l.Reference, &l.Narration,
		&l.Amount, &balance, &l.IsGap, &l.Sequence, &l.PartnerID, &l.PaymentID, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	if balance.Valid {
		l.Balance = &balance.Int64
	}

	return &l, nil
}

func (s *Store) ListLines(ctx context.Context, statementID uuid.UUID) ([]*statement.Line, error) {
	query := `SELECT ` + selectLineColumns + `
		FROM statement_lines l
		WHERE l.statement_id = $1
		ORDER BY l.date ASC, l.sequence ASC`

	rows, err := s.db.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("listing lines: %w", err)
	}
	defer rows.Close()

	var lines []*statement.Line

	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}

		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// The dedup index is partial (gap placeholders share one reference), so the
// conflict target must repeat its predicate or postgres cannot infer the
// index and rejects the statement at plan time.
const insertLineQuery = `
	INSERT INTO statement_lines (statement_id, transaction_id, date, reference, narration, amount, balance, is_gap, sequence, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	ON CONFLICT (statement_id, reference) WHERE NOT is_gap DO NOTHING
	RETURNING id, created_at
`

// InsertLine inserts a line unless the statement already carries one with
// the same reference. The reference doubles as the dedup key because gap and
// opposite lines have no transaction id.
func (s *Store) InsertLine(ctx context.Context, l *statement.Line) (bool, error) {
	err := s.db.QueryRowContext(ctx, insertLineQuery,
		l.StatementID,
		l.TransactionID,
		l.Date,
		l.Reference,
		l.Narration,
		l.Amount,
		l.Balance,
		l.IsGap,
		l.Sequence,
	).Scan(&l.ID, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("inserting line: %w", err)
	}

	return true, nil
}

func (s *Store) SaveLayout(ctx context.Context, statementID uuid.UUID, ordered, gaps []*statement.Line) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM statement_lines WHERE statement_id = $1 AND is_gap`, statementID); err != nil {
		return fmt.Errorf("deleting gap lines: %w", err)
	}

	for _, l := range ordered {
		if _, err := dbTx.ExecContext(ctx,
			`UPDATE statement_lines SET sequence = $1 WHERE id = $2`, l.Sequence, l.ID); err != nil {
			return fmt.Errorf("updating sequence: %w", err)
		}
	}

	for _, g := range gaps {
		if _, err := dbTx.ExecContext(ctx, `
			INSERT INTO statement_lines (statement_id, transaction_id, date, reference, narration, amount, balance, is_gap, sequence, created_at)
			VALUES ($1, NULL, $2, $3, $4, $5, NULL, TRUE, $6, NOW())`,
			statementID, g.Date, g.Reference, g.Narration, g.Amount, g.Sequence); err != nil {
			return fmt.Errorf("inserting gap line: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing layout: %w", err)
	}

	return nil
}
