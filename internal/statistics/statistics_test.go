package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStatistics(t *testing.T) {
	t.Parallel()
	s := &Statistics{}
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.True(t, s.IsLedgerBalanced())
}

func TestAddSplitsShowdownResults(t *testing.T) {
	t.Parallel()
	s := &Statistics{}
	s.Add(Result{Net: 100, BigBlind: 50, Showdown: true, Pot: 200, Street: River})
	s.Add(Result{Net: 50, BigBlind: 50, Pot: 100, Street: Preflop})
	s.Add(Result{Net: -150, BigBlind: 50, Showdown: true, Pot: 300, Street: Flop})
	s.Add(Result{Net: 0, BigBlind: 50, Pot: 75, Street: Preflop})

	assert.Equal(t, 4, s.Hands)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.ShowdownWins)
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.InDelta(t, -1.0, s.ShowdownBB, 1e-9)
	assert.InDelta(t, 1.0, s.NonShowdownBB, 1e-9)
	assert.InDelta(t, 0.0, s.Mean(), 1e-9)
	assert.Equal(t, 300, s.MaxPot)
	assert.Equal(t, [4]int{2, 1, 0, 1}, s.Streets)
	assert.True(t, s.IsLedgerBalanced())
}

func TestSpreadMeasures(t *testing.T) {
	t.Parallel()
	s := &Statistics{}
	for _, net := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(Result{Net: net, BigBlind: 1})
	}
	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-9)
	assert.InDelta(t, 4.5, s.Median(), 1e-9)
	assert.InDelta(t, 2.0, s.Percentile(0), 1e-9)
	assert.InDelta(t, 9.0, s.Percentile(1), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
	assert.InDelta(t, s.Mean(), (lo+hi)/2, 1e-9)
}

func TestStreetFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Preflop, StreetFor(0))
	assert.Equal(t, Flop, StreetFor(3))
	assert.Equal(t, Turn, StreetFor(4))
	assert.Equal(t, River, StreetFor(5))
	assert.Equal(t, "turn", Turn.String())
}

func TestTrackerSummariesOrderByWinnings(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Record("bob", Result{Net: -100, BigBlind: 50})
	tr.Record("alice", Result{Net: 100, BigBlind: 50, Showdown: true})
	tr.Record("carol", Result{Net: 0, BigBlind: 50})
	tr.Record("alice", Result{Net: -50, BigBlind: 50})

	sums := tr.Summaries()
	require.Len(t, sums, 3)
	assert.Equal(t, []string{"alice", "carol", "bob"}, []string{sums[0].Name, sums[1].Name, sums[2].Name})
	assert.Equal(t, 2, sums[0].Hands)
	assert.InDelta(t, 1.0, sums[0].NetBB, 1e-9)
	assert.InDelta(t, 0.5, sums[0].BBPerHand, 1e-9)
	assert.Equal(t, 1, sums[0].ShowdownWins)

	s, ok := tr.Get("bob")
	require.True(t, ok)
	assert.Equal(t, 1, s.Losses)
	_, ok = tr.Get("dave")
	assert.False(t, ok)
}

func TestRenderListsEveryPlayer(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Record("alice", Result{Net: 100, BigBlind: 50})
	tr.Record("bob", Result{Net: -100, BigBlind: 50})

	out := Render(tr.Summaries())
	assert.Contains(t, out, "PLAYER")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "+2.0")
	assert.Contains(t, out, "-2.0")
}
