package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/events"
	"github.com/hqnguyen/remitd/internal/journal"
	"github.com/hqnguyen/remitd/internal/mailtext"
	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/textgram"
	"github.com/hqnguyen/remitd/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=notification
type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	ListMessages(ctx context.Context, filter ListFilter) ([]*Message, error)
	ListPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateParseState(ctx context.Context, id uuid.UUID, state State, attempts int) error
	ListTemplates(ctx context.Context) ([]*ParseTemplate, error)
}

// AliasResolver is the slice of journal.Resolver the parser needs.
type AliasResolver interface {
	FromEnvelope(ctx context.Context, subject, body string) (*journal.Alias, error)
	ByAccount(ctx context.Context, account string) (*journal.Alias, error)
}

// TransactionCreator persists normalized transactions.
type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type ListFilter struct {
	State *State
}

type Service struct {
	repo      Repository
	resolver  AliasResolver
	txService TransactionCreator
	publisher events.Publisher
	pipeline  *metrics.Pipeline

	maxAttempts int
	sourceLoc   *time.Location
}

func NewService(
	repo Repository,
	resolver AliasResolver,
	txService TransactionCreator,
	publisher events.Publisher,
	pipeline *metrics.Pipeline,
	maxAttempts int,
	sourceLoc *time.Location,
) *Service {
	return &Service{
		repo:        repo,
		resolver:    resolver,
		txService:   txService,
		publisher:   publisher,
		pipeline:    pipeline,
		maxAttempts: maxAttempts,
		sourceLoc:   sourceLoc,
	}
}

type IngestParams struct {
	MessageID  string
	Sender     string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Ingest stores a forwarded notification as a draft message. The raw body is
// kept verbatim; parsing runs against a decoded, HTML-stripped copy.
func (s *Service) Ingest(ctx context.Context, params IngestParams) (*Message, error) {
	cleaned, err := mailtext.DecodeToUTF8([]byte(params.Body))
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	receivedAt := params.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	m := &Message{
		MessageID:  params.MessageID,
		Sender:     params.Sender,
		Subject:    params.Subject,
		RawBody:    params.Body,
		Body:       mailtext.Clean(cleaned),
		State:      StateDraft,
		ReceivedAt: receivedAt,
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetMessage(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Message, error) {
	return s.repo.ListMessages(ctx, filter)
}

// ProcessPending parses draft and processing messages. A message that yields
// transactions moves to done; one that yields nothing gets another attempt
// until the ceiling, then is marked ignored. Per-message failures never stop
// the batch.
func (s *Service) ProcessPending(ctx context.Context, limit int) (int, error) {
	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return 0, err
	}

	msgs, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("listing pending messages: %w", err)
	}

	processed := 0

	for _, m := range msgs {
		if err := s.processMessage(ctx, m, templates); err != nil {
			slog.Error("processing message", "message_id", m.MessageID, "error", err)
			continue
		}

		processed++
	}

	return processed, nil
}

func (s *Service) loadTemplates(ctx context.Context) ([]*textgram.Template, error) {
	stored, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	var templates []*textgram.Template

	for _, t := range stored {
		tmpl, err := textgram.Compile(t.Name, t.Body)
		if err != nil {
			slog.Error("compiling template", "template", t.Name, "error", err)
			continue
		}

		templates = append(templates, tmpl)
	}

	return templates, nil
}

type candidate struct {
	record   textgram.Record
	template string
}

func (s *Service) processMessage(ctx context.Context, m *Message, templates []*textgram.Template) error {
	var candidates []candidate

	matchedTemplate := ""

	for _, tmpl := range templates {
		for _, r := range tmpl.Parse(m.Body) {
			candidates = append(candidates, candidate{record: r, template: tmpl.Name})
		}
	}

	created := 0

	duplicates := 0

	for i, c := range candidates {
		params, err := s.normalize(ctx, m, c.record, i)
		if err != nil {
			slog.Warn("dropping candidate record",
				"message_id", m.MessageID, "template", c.template, "ordinal", i, "error", err)
			continue
		}

		tx, err := s.txService.Create(ctx, *params)
		if errors.Is(err, transaction.ErrDuplicate) {
			duplicates++
			s.pipeline.TransactionsDuplicateTotal.Inc()

			continue
		}

		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}

		created++
		matchedTemplate = c.template

		s.pipeline.RecordTransactionCreated(tx.JournalID.String(), string(tx.Direction))
		s.publishCreated(ctx, tx)
	}

	if created+duplicates > 0 {
		s.pipeline.RecordMessageParsed(matchedTemplate, m.Attempts+1)

		return s.repo.UpdateParseState(ctx, m.ID, StateDone, m.Attempts+1)
	}

	attempts := m.Attempts + 1
	if attempts >= s.maxAttempts {
		s.pipeline.RecordMessageIgnored(attempts)
		slog.Warn("message ignored after retry ceiling", "message_id", m.MessageID, "attempts", attempts)

		return s.repo.UpdateParseState(ctx, m.ID, StateIgnored, attempts)
	}

	return s.repo.UpdateParseState(ctx, m.ID, StateProcessing, attempts)
}

// normalize turns one parsed record into transaction create params, or an
// error when the record cannot be attributed to a configured account.
func (s *Service) normalize(ctx context.Context, m *Message, r textgram.Record, ordinal int) (*transaction.CreateParams, error) {
	envelopeAlias, err := s.resolver.FromEnvelope(ctx, m.Subject, m.Body)
	if err != nil {
		return nil, fmt.Errorf("no journal for envelope: %w", err)
	}

	alias, err := s.resolver.ByAccount(ctx, r["ACCOUNT"])
	if err != nil {
		return nil, fmt.Errorf("no alias for account %q: %w", r["ACCOUNT"], err)
	}

	if alias.JournalID != envelopeAlias.JournalID {
		return nil, fmt.Errorf("account %q routes outside the envelope journal", r["ACCOUNT"])
	}

	direction, err := transaction.ClassifyDirection(r["PAYMENT_TYPE"], alias.AccountType)
	if err != nil {
		return nil, err
	}

	amount, err := transaction.ParseAmount(r["AMOUNT"])
	if err != nil {
		return nil, err
	}

	var balance *int64

	if r["BALANCE"] != "" {
		b, err := transaction.ParseAmount(r["BALANCE"])
		if err == nil {
			balance = &b
		}
	}

	currency := r["AMOUNT_CURRENCY"]
	if currency == "" {
		currency = alias.Currency
	}

	postedAt, err := transaction.ParseLocalTime(r["DATE"], s.sourceLoc)
	if err != nil {
		// Unparseable bank timestamps fall back to when we got the
		// message.
		postedAt = m.ReceivedAt.UTC()
	}

	return &transaction.CreateParams{
		JournalID:  alias.JournalID,
		MessageID:  &m.ID,
		ExternalID: m.MessageID + "/" + strconv.Itoa(ordinal),
		Account:    r["ACCOUNT"],
		Direction:  direction,
		Amount:     amount,
		Balance:    balance,
		Currency:   currency,
		Message:    r["MESSAGE"],
		PostedAt:   postedAt,
	}, nil
}

func (s *Service) publishCreated(ctx context.Context, tx *transaction.Transaction) {
	ev := events.TransactionEvent{
		TransactionID: tx.ID.String(),
		ExternalID:    tx.ExternalID,
		Journal:       tx.JournalID.String(),
		Direction:     string(tx.Direction),
		Amount:        strconv.FormatInt(tx.Amount, 10),
		Currency:      tx.Currency,
		PostedAt:      tx.PostedAt,
	}
	if err := s.publisher.PublishTransaction(ctx, ev); err != nil {
		slog.Error("publishing transaction event", "external_id", tx.ExternalID, "error", err)
	}
}
