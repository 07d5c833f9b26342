package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hqnguyen/remitd/internal/events"
	"github.com/hqnguyen/remitd/internal/journal"
	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/notification"
	"github.com/hqnguyen/remitd/internal/transaction"
)

// Prometheus collectors register globally, so the package shares one set.
var testPipeline = metrics.NewPipeline()

const testGrammar = `
Value Required ACCOUNT (\S+)
Value PAYMENT_TYPE ([\-+])
Value AMOUNT ((\d+,?)+)
Value DATE (\d{2}:\d{2})

Start
  ^TK ${ACCOUNT} ${PAYMENT_TYPE} VND ${AMOUNT} -> Record
`

func testTemplates() []*notification.ParseTemplate {
	return []*notification.ParseTemplate{
		{ID: uuid.New(), Name: "balance-change", Body: testGrammar, Position: 1},
	}
}

func testAlias() *journal.Alias {
	journalID := uuid.New()

	return &journal.Alias{
		ID:        uuid.New(),
		JournalID: journalID,
		Name:      "**0080",
		Currency:  "VND",
		Journal:   &journal.Journal{ID: journalID, Code: "BNK1", Type: journal.TypeBank},
	}
}

func newService(repo *notification.MockRepository, resolver *notification.MockAliasResolver, creator *notification.MockTransactionCreator, maxAttempts int) *notification.Service {
	return notification.NewService(repo, resolver, creator, events.NopPublisher{}, testPipeline, maxAttempts, time.UTC)
}

func TestService_ProcessPending_CreatesTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	receivedAt := time.Date(2022, 1, 28, 3, 0, 0, 0, time.UTC)
	msg := &notification.Message{
		ID:         uuid.New(),
		MessageID:  "fwd-1",
		Subject:    "VCB alert",
		Body:       "TK **0080 + VND 990,000",
		State:      notification.StateDraft,
		ReceivedAt: receivedAt,
	}

	alias := testAlias()

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListTemplates(gomock.Any()).Return(testTemplates(), nil)
	repo.EXPECT().ListPending(gomock.Any(), 100).Return([]*notification.Message{msg}, nil)
	repo.EXPECT().UpdateParseState(gomock.Any(), msg.ID, notification.StateDone, 1).Return(nil)

	resolver := notification.NewMockAliasResolver(ctrl)
	resolver.EXPECT().FromEnvelope(gomock.Any(), msg.Subject, msg.Body).Return(alias, nil)
	resolver.EXPECT().ByAccount(gomock.Any(), "**0080").Return(alias, nil)

	creator := notification.NewMockTransactionCreator(ctrl)
	creator.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			assert.Equal(t, "fwd-1/0", params.ExternalID)
			assert.Equal(t, alias.JournalID, params.JournalID)
			assert.Equal(t, transaction.DirectionInbound, params.Direction)
			assert.Equal(t, int64(990000), params.Amount)
			assert.Equal(t, "VND", params.Currency)
			// No DATE capture: the record falls back to the message's
			// received timestamp.
			assert.Equal(t, receivedAt, params.PostedAt)

			return &transaction.Transaction{ID: uuid.New(), JournalID: params.JournalID, ExternalID: params.ExternalID, Direction: params.Direction, Amount: params.Amount}, nil
		})

	svc := newService(repo, resolver, creator, 5)

	processed, err := svc.ProcessPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestService_ProcessPending_DuplicateIsStillDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := &notification.Message{
		ID:         uuid.New(),
		MessageID:  "fwd-1",
		Body:       "TK **0080 + VND 990,000",
		State:      notification.StateProcessing,
		Attempts:   1,
		ReceivedAt: time.Now().UTC(),
	}

	alias := testAlias()

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListTemplates(gomock.Any()).Return(testTemplates(), nil)
	repo.EXPECT().ListPending(gomock.Any(), 100).Return([]*notification.Message{msg}, nil)
	repo.EXPECT().UpdateParseState(gomock.Any(), msg.ID, notification.StateDone, 2).Return(nil)

	resolver := notification.NewMockAliasResolver(ctrl)
	resolver.EXPECT().FromEnvelope(gomock.Any(), gomock.Any(), gomock.Any()).Return(alias, nil)
	resolver.EXPECT().ByAccount(gomock.Any(), "**0080").Return(alias, nil)

	creator := notification.NewMockTransactionCreator(ctrl)
	creator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, transaction.ErrDuplicate)

	svc := newService(repo, resolver, creator, 5)

	processed, err := svc.ProcessPending(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestService_ProcessPending_FailureIncrementsAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := &notification.Message{
		ID:         uuid.New(),
		MessageID:  "fwd-2",
		Body:       "nothing the grammar recognizes",
		State:      notification.StateDraft,
		ReceivedAt: time.Now().UTC(),
	}

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListTemplates(gomock.Any()).Return(testTemplates(), nil)
	repo.EXPECT().ListPending(gomock.Any(), 100).Return([]*notification.Message{msg}, nil)
	repo.EXPECT().UpdateParseState(gomock.Any(), msg.ID, notification.StateProcessing, 1).Return(nil)

	resolver := notification.NewMockAliasResolver(ctrl)
	creator := notification.NewMockTransactionCreator(ctrl)

	svc := newService(repo, resolver, creator, 5)

	_, err := svc.ProcessPending(context.Background(), 100)
	require.NoError(t, err)
}

func TestService_ProcessPending_RetryCeilingIgnores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := &notification.Message{
		ID:         uuid.New(),
		MessageID:  "fwd-3",
		Body:       "still unparseable",
		State:      notification.StateProcessing,
		Attempts:   4,
		ReceivedAt: time.Now().UTC(),
	}

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListTemplates(gomock.Any()).Return(testTemplates(), nil)
	repo.EXPECT().ListPending(gomock.Any(), 100).Return([]*notification.Message{msg}, nil)
	repo.EXPECT().UpdateParseState(gomock.Any(), msg.ID, notification.StateIgnored, 5).Return(nil)

	resolver := notification.NewMockAliasResolver(ctrl)
	creator := notification.NewMockTransactionCreator(ctrl)

	svc := newService(repo, resolver, creator, 5)

	_, err := svc.ProcessPending(context.Background(), 100)
	require.NoError(t, err)
}

func TestService_ProcessPending_UnknownAccountDropsCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := &notification.Message{
		ID:         uuid.New(),
		MessageID:  "fwd-4",
		Body:       "TK **9999 + VND 1,000",
		State:      notification.StateDraft,
		ReceivedAt: time.Now().UTC(),
	}

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListTemplates(gomock.Any()).Return(testTemplates(), nil)
	repo.EXPECT().ListPending(gomock.Any(), 100).Return([]*notification.Message{msg}, nil)
	repo.EXPECT().UpdateParseState(gomock.Any(), msg.ID, notification.StateProcessing, 1).Return(nil)

	resolver := notification.NewMockAliasResolver(ctrl)
	resolver.EXPECT().FromEnvelope(gomock.Any(), gomock.Any(), gomock.Any()).Return(testAlias(), nil)
	resolver.EXPECT().ByAccount(gomock.Any(), "**9999").Return(nil, journal.ErrNotFound)

	creator := notification.NewMockTransactionCreator(ctrl)

	svc := newService(repo, resolver, creator, 5)

	_, err := svc.ProcessPending(context.Background(), 100)
	require.NoError(t, err)
}

func TestService_Ingest_CleansBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *notification.Message) error {
			m.ID = uuid.New()
			return nil
		})

	svc := newService(repo, notification.NewMockAliasResolver(ctrl), notification.NewMockTransactionCreator(ctrl), 5)

	got, err := svc.Ingest(context.Background(), notification.IngestParams{
		MessageID:  "fwd-5",
		Subject:    "alert",
		Body:       "<html><body><p>TK **0080 + VND 990,000</p></body></html>",
		ReceivedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, notification.StateDraft, got.State)
	assert.Equal(t, "TK **0080 + VND 990,000", got.Body)
	assert.Contains(t, got.RawBody, "<html>")
}
