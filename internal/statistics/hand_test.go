package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/randutil"
)

func TestResultsOfFoldedHand(t *testing.T) {
	t.Parallel()
	g := game.NewGame(game.WithRNG(randutil.New(5)))
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := g.AddPlayer(name, 1000)
		require.NoError(t, err)
	}
	h, err := g.NewHand(false)
	require.NoError(t, err)
	assert.Nil(t, ResultsOf(h))

	require.NoError(t, h.Start())
	require.NoError(t, h.Act(game.Fold, 0))
	require.NoError(t, h.Act(game.Fold, 0))
	require.True(t, h.Ended())

	res := ResultsOf(h)
	require.Len(t, res, 3)
	assert.Equal(t, Result{Net: 0, BigBlind: 50, Pot: 75, Street: Preflop}, res["alice"])
	assert.Equal(t, Result{Net: -25, BigBlind: 50, Pot: 75, Street: Preflop}, res["bob"])
	assert.Equal(t, Result{Net: 25, BigBlind: 50, Pot: 75, Street: Preflop}, res["carol"])

	tr := NewTracker()
	tr.RecordHand(h)
	s, ok := tr.Get("carol")
	require.True(t, ok)
	assert.Equal(t, 1, s.NonShowdownWins)
}
