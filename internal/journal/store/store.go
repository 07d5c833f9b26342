package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hqnguyen/remitd/internal/journal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectJournalColumns = `
	j.id, j.name, j.code, j.type, j.currency, j.grouping, j.start_day, j.custom_days
`

type scanner interface {
	Scan(dest ...any) error
}

func scanJournal(s scanner) (*journal.Journal, error) {
	var j journal.Journal

	var typeStr, groupingStr string

	var customDays pq.Int64Array

	if err := s.Scan(&j.ID, &j.Name, &j.Code, &typeStr, &j.Currency, &groupingStr, &j.StartDay, &customDays); err != nil {
		return nil, err
	}

	j.Type = journal.Type(typeStr)
	j.Grouping = journal.Grouping(groupingStr)

	for _, d := range customDays {
		j.CustomDays = append(j.CustomDays, int(d))
	}

	return &j, nil
}

func (s *Store) GetJournal(ctx context.Context, code string) (*journal.Journal, error) {
	query := `SELECT ` + selectJournalColumns + ` FROM journals j WHERE j.code = $1`

	j, err := scanJournal(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, journal.ErrNotFound
		}

		return nil, fmt.Errorf("getting journal: %w", err)
	}

	return j, nil
}

func (s *Store) ListJournals(ctx context.Context) ([]*journal.Journal, error) {
	query := `SELECT ` + selectJournalColumns + ` FROM journals j ORDER BY j.code ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	defer rows.Close()

	var journals []*journal.Journal

	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}

		journals = append(journals, j)
	}

	return journals, rows.Err()
}

func (s *Store) ListAliases(ctx context.Context) ([]*journal.Alias, error) {
	query := `
		SELECT a.id, a.journal_id, a.name, a.account_type, a.currency, ` + selectJournalColumns + `
		FROM journal_aliases a
		JOIN journals j ON a.journal_id = j.id
		ORDER BY length(a.name) DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}
	defer rows.Close()

	var aliases []*journal.Alias

	for rows.Next() {
		var a journal.Alias

		var j journal.Journal

		var accountType, journalType, groupingStr string

		var customDays pq.Int64Array

		if err := rows.Scan(
			&a.ID, &a.JournalID, &a.Name, &accountType, &a.Currency,
			&j.ID, &j.Name, &j.Code, &journalType, &j.Currency, &groupingStr, &j.StartDay, &customDays,
		); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}

		a.AccountType = journal.AccountType(accountType)
		j.Type = journal.Type(journalType)
		j.Grouping = journal.Grouping(groupingStr)

		for _, d := range customDays {
			j.CustomDays = append(j.CustomDays, int(d))
		}

		a.Journal = &j
		aliases = append(aliases, &a)
	}

	return aliases, rows.Err()
}
