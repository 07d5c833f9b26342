package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/payment"
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

const selectPaymentColumns = `
	p.id, p.partner_id, p.journal_id, p.amount, p.currency, p.memo, p.content, p.puid,
	p.reference, p.status, p.created_at, p.updated_at,
	pr.name, pr.tax_code, pr.bank_account, pr.bank_name, pr.content_template, pr.created_at
`

func scanPayment(sc scanner) (*payment.Payment, error) {
	var p payment.Payment

	var partner payment.Partner

	var statusStr string

	if err := sc.Scan(
		&p.ID, &p.PartnerID, &p.JournalID, &p.Amount, &p.Currency, &p.Memo, &p.Content, &p.PUID,
		&p.Reference, &statusStr, &p.CreatedAt, &p.UpdatedAt,
		&partner.Name, &partner.TaxCode, &partner.BankAccount, &partner.BankName, &partner.ContentTemplate, &partner.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = payment.Status(statusStr)
	partner.ID = p.PartnerID
	p.Partner = &partner

	return &p, nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		JOIN partners pr ON p.partner_id = pr.id
		WHERE p.id = $1`

	p, err := scanPayment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		JOIN partners pr ON p.partner_id = pr.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.PartnerID != nil {
		query += fmt.Sprintf(" AND p.partner_id = $%d", argIdx)

		args = append(args, *filter.PartnerID)
		argIdx++
	}

	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (s *Store) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	query := `UPDATE payments SET content = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, content, id); err != nil {
		return fmt.Errorf("updating content: %w", err)
	}

	return nil
}

// AssignPUID writes the PUID only for rows that do not have one yet, keeping
// assigned ids immutable at the database level too.
func (s *Store) AssignPUID(ctx context.Context, id uuid.UUID, puid string) error {
	query := `UPDATE payments SET puid = $1, updated_at = NOW() WHERE id = $2 AND puid = ''`

	if _, err := s.db.ExecContext(ctx, query, puid, id); err != nil {
		return fmt.Errorf("assigning puid: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status payment.Status) error {
	query := `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return nil
}

func (s *Store) GetPartner(ctx context.Context, id uuid.UUID) (*payment.Partner, error) {
	query := `SELECT id, name, tax_code, bank_account, bank_name, content_template, created_at
		FROM partners WHERE id = $1`

	var p payment.Partner

	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.TaxCode, &p.BankAccount, &p.BankName, &p.ContentTemplate, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting partner: %w", err)
	}

	return &p, nil
}

func (s *Store) ListPartners(ctx context.Context) ([]*payment.Partner, error) {
	query := `SELECT id, name, tax_code, bank_account, bank_name, content_template, created_at
		FROM partners ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	defer rows.Close()

	var partners []*payment.Partner

	for rows.Next() {
		var p payment.Partner

		if err := rows.Scan(&p.ID, &p.Name, &p.TaxCode, &p.BankAccount, &p.BankName, &p.ContentTemplate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning partner: %w", err)
		}

		partners = append(partners, &p)
	}

	return partners, rows.Err()
}

func (s *Store) CreateExport(ctx context.Context, e *payment.TransferExport) error {
	query := `
		INSERT INTO transfer_exports (token, filename, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, e.Token, e.Filename, e.Content).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}

	return nil
}

func (s *Store) GetExportByToken(ctx context.Context, token string) (*payment.TransferExport, error) {
	query := `SELECT id, token, filename, content, created_at FROM transfer_exports WHERE token = $1`

	var e payment.TransferExport

	err := s.db.QueryRowContext(ctx, query, token).
		Scan(&e.ID, &e.Token, &e.Filename, &e.Content, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrExportNotFound
		}

		return nil, fmt.Errorf("getting export: %w", err)
	}

	return &e, nil
}
