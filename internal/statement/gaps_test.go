package statement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/remitd/internal/statement"
)

func bal(v int64) *int64 { return &v }

func TestOpeningBalance(t *testing.T) {
	lines := []*statement.Line{
		{Amount: 500},
		{Amount: 1000, Balance: bal(11500)},
	}

	// 11500 - 1000 - 500 already counted = 10000 before everything.
	assert.Equal(t, int64(10000), statement.OpeningBalance(lines))
}

func TestOpeningBalance_NoBalances(t *testing.T) {
	lines := []*statement.Line{{Amount: 500}, {Amount: -200}}
	assert.Equal(t, int64(0), statement.OpeningBalance(lines))
}

func TestComputeGaps_ContinuousChain(t *testing.T) {
	lines := []*statement.Line{
		{Amount: 1000, Balance: bal(11000)},
		{Amount: -4000, Balance: bal(7000)},
	}

	gaps, total := statement.ComputeGaps(lines, 10000)
	assert.Empty(t, gaps)
	assert.Zero(t, total)
}

func TestComputeGaps_MissingMovement(t *testing.T) {
	day := time.Date(2022, 1, 28, 0, 0, 0, 0, time.UTC)

	lines := []*statement.Line{
		{Date: day, Amount: 1000, Balance: bal(11000)},
		// Balance jumped by an extra 500 the lines cannot explain.
		{Date: day.Add(time.Hour), Amount: 2000, Balance: bal(13500)},
	}

	gaps, total := statement.ComputeGaps(lines, 10000)
	require.Len(t, gaps, 1)
	assert.Equal(t, statement.GapReference, gaps[0].Reference)
	assert.Equal(t, int64(500), gaps[0].Amount)
	assert.True(t, gaps[0].IsGap)
	assert.Equal(t, int64(500), total)
}

func TestComputeGaps_NegativeGap(t *testing.T) {
	lines := []*statement.Line{
		{Amount: 1000, Balance: bal(10700)},
	}

	gaps, total := statement.ComputeGaps(lines, 10000)
	require.Len(t, gaps, 1)
	assert.Equal(t, int64(-300), gaps[0].Amount)
	assert.Equal(t, int64(300), total)
}

func TestReorder_PicksBalanceConsistentOrder(t *testing.T) {
	at := time.Date(2022, 1, 28, 9, 34, 0, 0, time.UTC)

	// Inserted in an order whose balance chain needs two gap rows; the
	// swapped order needs none.
	lines := []*statement.Line{
		{Date: at, Sequence: 0, Amount: -4000, Balance: bal(7000)},
		{Date: at, Sequence: 1, Amount: 1000, Balance: bal(11000)},
	}

	ordered := statement.Reorder(lines, 10000)
	require.Len(t, ordered, 2)
	assert.Equal(t, int64(1000), ordered[0].Amount)
	assert.Equal(t, int64(-4000), ordered[1].Amount)
	assert.Equal(t, 0, ordered[0].Sequence)
	assert.Equal(t, 1, ordered[1].Sequence)

	gaps, total := statement.ComputeGaps(ordered, 10000)
	assert.Empty(t, gaps)
	assert.Zero(t, total)
}

func TestReorder_KeepsDistinctTimestampsInDateOrder(t *testing.T) {
	early := time.Date(2022, 1, 28, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	lines := []*statement.Line{
		{Date: late, Sequence: 0, Amount: 200},
		{Date: early, Sequence: 1, Amount: 100},
	}

	ordered := statement.Reorder(lines, 0)
	require.Len(t, ordered, 2)
	assert.Equal(t, early, ordered[0].Date)
	assert.Equal(t, late, ordered[1].Date)
}
