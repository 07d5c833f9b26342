package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hqnguyen/remitd/internal/events"
	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/payment"
	"github.com/hqnguyen/remitd/internal/reconcile"
	"github.com/hqnguyen/remitd/internal/statement"
)

var testPipeline = metrics.NewPipeline()

func TestService_Run_AssignsSingleCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := &statement.Statement{ID: uuid.New(), Key: "2022-01-28"}
	p := &payment.Payment{ID: uuid.New(), PartnerID: uuid.New(), PUID: "puid3fa94c21", Status: payment.StatusTransferred}
	line := &statement.Line{ID: uuid.New(), StatementID: st.ID, Narration: "thanh toan puid3fa94c21"}

	repo := reconcile.NewMockRepository(ctrl)
	repo.EXPECT().ListStatements(gomock.Any()).Return([]*statement.Statement{st}, nil)
	repo.EXPECT().ListOpenPayments(gomock.Any()).Return([]*payment.Payment{p}, nil)
	repo.EXPECT().ListUnmatchedLines(gomock.Any(), st.ID).Return([]*statement.Line{line}, nil)
	repo.EXPECT().AssignMatch(gomock.Any(), line.ID, p.ID, p.PartnerID, reconcile.StrategyPUID).Return(nil)

	svc := reconcile.NewService(repo, events.NopPublisher{}, testPipeline, bothStrategies)

	matched, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestService_Run_AmbiguityAuditsAndSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := &statement.Statement{ID: uuid.New(), Key: "2022-01-28"}
	// Two payments from different partners share the same posted name.
	p1 := &payment.Payment{ID: uuid.New(), PartnerID: uuid.New(), Reference: "BNK1/2022/0042"}
	p2 := &payment.Payment{ID: uuid.New(), PartnerID: uuid.New(), Reference: "BNK1/2022/0042"}
	line := &statement.Line{ID: uuid.New(), StatementID: st.ID, Narration: "TT..BNK1/2022/0042"}

	repo := reconcile.NewMockRepository(ctrl)
	repo.EXPECT().ListStatements(gomock.Any()).Return([]*statement.Statement{st}, nil)
	repo.EXPECT().ListOpenPayments(gomock.Any()).Return([]*payment.Payment{p1, p2}, nil)
	repo.EXPECT().ListUnmatchedLines(gomock.Any(), st.ID).Return([]*statement.Line{line}, nil)
	repo.EXPECT().
		CreateAudit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *reconcile.Audit) error {
			assert.Equal(t, line.ID, a.LineID)
			assert.NotEmpty(t, a.Detail)
			return nil
		})

	svc := reconcile.NewService(repo, events.NopPublisher{}, testPipeline, reconcile.Options{MatchPUID: true})

	matched, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestService_Run_StatementErrorDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bad := &statement.Statement{ID: uuid.New(), Key: "2022-01-27"}
	good := &statement.Statement{ID: uuid.New(), Key: "2022-01-28"}
	p := &payment.Payment{ID: uuid.New(), PartnerID: uuid.New(), PUID: "puidaabbccdd"}
	line := &statement.Line{ID: uuid.New(), StatementID: good.ID, Narration: "puidaabbccdd"}

	repo := reconcile.NewMockRepository(ctrl)
	repo.EXPECT().ListStatements(gomock.Any()).Return([]*statement.Statement{bad, good}, nil)
	repo.EXPECT().ListOpenPayments(gomock.Any()).Return([]*payment.Payment{p}, nil)
	repo.EXPECT().ListUnmatchedLines(gomock.Any(), bad.ID).Return(nil, errors.New("db error"))
	repo.EXPECT().ListUnmatchedLines(gomock.Any(), good.ID).Return([]*statement.Line{line}, nil)
	repo.EXPECT().AssignMatch(gomock.Any(), line.ID, p.ID, p.PartnerID, reconcile.StrategyPUID).Return(nil)

	svc := reconcile.NewService(repo, events.NopPublisher{}, testPipeline, bothStrategies)

	matched, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestService_Run_GapLinesAreSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := &statement.Statement{ID: uuid.New(), Key: "2022-01-28"}
	gap := &statement.Line{ID: uuid.New(), StatementID: st.ID, Reference: statement.GapReference, IsGap: true}

	repo := reconcile.NewMockRepository(ctrl)
	repo.EXPECT().ListStatements(gomock.Any()).Return([]*statement.Statement{st}, nil)
	repo.EXPECT().ListOpenPayments(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListUnmatchedLines(gomock.Any(), st.ID).Return([]*statement.Line{gap}, nil)

	svc := reconcile.NewService(repo, events.NopPublisher{}, testPipeline, bothStrategies)

	matched, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, matched)
}
