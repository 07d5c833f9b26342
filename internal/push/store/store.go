package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/push"
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

const selectStagingColumns = `
	s.id, s.company_id, s.invoice_no, s.seller_tax_code, s.buyer_tax_code, s.amount,
	s.issued_at, s.raw_payload, s.status, s.retries, s.last_error, s.response_log,
	s.created_at, s.updated_at
`

func scanStaging(sc scanner) (*push.Staging, error) {
	var st push.Staging

	var statusStr string

	if err := sc.Scan(
		&st.ID, &st.CompanyID, &st.InvoiceNo, &st.SellerTaxCode, &st.BuyerTaxCode, &st.Amount,
		&st.IssuedAt, &st.RawPayload, &statusStr, &st.Retries, &st.LastError, &st.ResponseLog,
		&st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}

	st.Status = push.Status(statusStr)

	return &st, nil
}

func (s *Store) CreateStaging(ctx context.Context, st *push.Staging) error {
	query := `
		INSERT INTO invoice_staging (company_id, invoice_no, seller_tax_code, buyer_tax_code, amount, issued_at, raw_payload, status, retries, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, '', NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		st.CompanyID,
		st.InvoiceNo,
		st.SellerTaxCode,
		st.BuyerTaxCode,
		st.Amount,
		st.IssuedAt,
		st.RawPayload,
		st.Status,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating staging: %w", err)
	}

	return nil
}

func (s *Store) GetStaging(ctx context.Context, id uuid.UUID) (*push.Staging, error) {
	query := `SELECT ` + selectStagingColumns + ` FROM invoice_staging s WHERE s.id = $1`

	st, err := scanStaging(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, push.ErrNotFound
		}

		return nil, fmt.Errorf("getting staging: %w", err)
	}

	return st, nil
}

func (s *Store) ListByStatus(ctx context.Context, status push.Status, limit int) ([]*push.Staging, error) {
	query := `SELECT ` + selectStagingColumns + `
		FROM invoice_staging s
		WHERE s.status = $1
		ORDER BY s.created_at ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("listing stagings: %w", err)
	}
	defer rows.Close()

	var stagings []*push.Staging

	for rows.Next() {
		st, err := scanStaging(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning staging: %w", err)
		}

		stagings = append(stagings, st)
	}

	return stagings, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status push.Status) error {
	query := `UPDATE invoice_staging SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating staging status: %w", err)
	}

	return nil
}

func (s *Store) SavePushResult(ctx context.Context, id uuid.UUID, status push.Status, retries int, lastError string, responseLog []byte) error {
	query := `
		UPDATE invoice_staging
		SET status = $1, retries = $2, last_error = $3, response_log = $4, updated_at = NOW()
		WHERE id = $5
	`

	if _, err := s.db.ExecContext(ctx, query, status, retries, lastError, responseLog, id); err != nil {
		return fmt.Errorf("saving push result: %w", err)
	}

	return nil
}

func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (*push.Company, error) {
	query := `SELECT id, name, tax_code, api_key, integration_enabled, created_at FROM companies WHERE id = $1`

	var c push.Company

	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.TaxCode, &c.APIKey, &c.IntegrationEnabled, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, push.ErrNotFound
		}

		return nil, fmt.Errorf("getting company: %w", err)
	}

	return &c, nil
}
