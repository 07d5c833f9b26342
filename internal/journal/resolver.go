package journal

import (
	"context"
	"strings"
)

//go:generate mockgen -source=resolver.go -destination=repository_mock.go -package=journal
type Repository interface {
	ListAliases(ctx context.Context) ([]*Alias, error)
	GetJournal(ctx context.Context, code string) (*Journal, error)
	ListJournals(ctx context.Context) ([]*Journal, error)
}

// Resolver routes notification text to journals through configured aliases.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// FromEnvelope returns the alias whose name occurs in the message subject or
// body. A message that mentions no configured alias belongs to no journal and
// must not produce transactions.
func (r *Resolver) FromEnvelope(ctx context.Context, subject, body string) (*Alias, error) {
	aliases, err := r.repo.ListAliases(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range aliases {
		if strings.Contains(subject, a.Name) || strings.Contains(body, a.Name) {
			return a, nil
		}
	}

	return nil, ErrNotFound
}

// ByAccount returns the alias matching a parsed ACCOUNT capture. Bank texts
// vary in how much of the account they repeat, so containment runs both ways:
// "**0080" matches alias "**0080", and "PARK JONG HYUN(**40)" matches alias
// "(**40)".
func (r *Resolver) ByAccount(ctx context.Context, account string) (*Alias, error) {
	aliases, err := r.repo.ListAliases(ctx)
	if err != nil {
		return nil, err
	}

	account = strings.TrimSpace(account)

	for _, a := range aliases {
		if strings.Contains(account, a.Name) || strings.Contains(a.Name, account) {
			return a, nil
		}
	}

	return nil, ErrNotFound
}

func (r *Resolver) Journals(ctx context.Context) ([]*Journal, error) {
	return r.repo.ListJournals(ctx)
}
