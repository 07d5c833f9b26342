package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hqnguyen/remitd/internal/notification"
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

const selectMessageColumns = `
	m.id, m.message_id, m.sender, m.subject, m.raw_body, m.body, m.state, m.attempts,
	m.received_at, m.created_at, m.updated_at
`

func scanMessage(s scanner) (*notification.Message, error) {
	var m notification.Message

	var stateStr string

	if err := s.Scan(
		&m.ID, &m.MessageID, &m.Sender, &m.Subject, &m.RawBody, &m.Body, &stateStr, &m.Attempts,
		&m.ReceivedAt, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.State = notification.State(stateStr)

	return &m, nil
}

func (s *Store) CreateMessage(ctx context.Context, m *notification.Message) error {
	query := `
		INSERT INTO messages (message_id, sender, subject, raw_body, body, state, attempts, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.MessageID,
		m.Sender,
		m.Subject,
		m.RawBody,
		m.Body,
		m.State,
		m.Attempts,
		m.ReceivedAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return notification.ErrDuplicate
		}

		return fmt.Errorf("creating message: %w", err)
	}

	return nil
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*notification.Message, error) {
	query := `SELECT ` + selectMessageColumns + ` FROM messages m WHERE m.id = $1`

	m, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notification.ErrNotFound
		}

		return nil, fmt.Errorf("getting message: %w", err)
	}

	return m, nil
}

func (s *Store) ListMessages(ctx context.Context, filter notification.ListFilter) ([]*notification.Message, error) {
	query := `SELECT ` + selectMessageColumns + ` FROM messages m WHERE 1=1`

	var args []any

	if filter.State != nil {
		query += " AND m.state = $1"

		args = append(args, *filter.State)
	}

	query += " ORDER BY m.received_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var msgs []*notification.Message

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}

		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]*notification.Message, error) {
	query := `SELECT ` + selectMessageColumns + `
		FROM messages m
		WHERE m.state IN ($1, $2)
		ORDER BY m.received_at ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, notification.StateDraft, notification.StateProcessing, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending messages: %w", err)
	}
	defer rows.Close()

	var msgs []*notification.Message

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}

		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

func (s *Store) UpdateParseState(ctx context.Context, id uuid.UUID, state notification.State, attempts int) error {
	query := `
		UPDATE messages
		SET state = $1, attempts = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := s.db.ExecContext(ctx, query, state, attempts, id)
	if err != nil {
		return fmt.Errorf("updating message state: %w", err)
	}

	return nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]*notification.ParseTemplate, error) {
	query := `SELECT id, name, body, position FROM parse_templates ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing parse templates: %w", err)
	}
	defer rows.Close()

	var templates []*notification.ParseTemplate

	for rows.Next() {
		var t notification.ParseTemplate

		if err := rows.Scan(&t.ID, &t.Name, &t.Body, &t.Position); err != nil {
			return nil, fmt.Errorf("scanning parse template: %w", err)
		}

		templates = append(templates, &t)
	}

	return templates, rows.Err()
}
