package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()
	cases := map[string]Action{
		"fold":   Fold,
		"check":  Call,
		"CALL":   Call,
		" bet ":  Raise,
		"raise":  Raise,
		"all-in": AllIn,
		"allin":  AllIn,
	}
	for in, want := range cases {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("muck")
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, "allin", AllIn.String())
	assert.Equal(t, "action(9)", Action(9).String())
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()
	g, rec := newTestGame(t, "", 1000, 1000, 1000)
	h := startHand(t, g)

	require.NoError(t, h.Act(Call, 0))
	require.NoError(t, h.Act(Call, 0))
	require.False(t, h.RoundFinished())
	require.Equal(t, 2, h.Turn())

	require.NoError(t, h.Act(Raise, 100))
	assert.Equal(t, Event{Code: EventAction, PrevSeat: 2, NextSeat: 0, Message: LabelRaise, Bet: 100}, rec.last())
	assert.Equal(t, 150, h.MinRaiseTo())

	require.NoError(t, h.Act(Call, 0))
	require.NoError(t, h.Act(Call, 0))
	assert.True(t, h.RoundFinished())
	assert.Equal(t, 300, h.PotTotal())
}

func TestPostflopBetAndRaiseMinimums(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, "", 1000, 1000, 1000)
	h := startHand(t, g)
	for !h.RoundFinished() {
		require.NoError(t, h.Act(Call, 0))
	}
	require.NoError(t, h.NextRound())
	require.Equal(t, 1, h.Turn())
	assert.Zero(t, h.BetToCall())

	assert.ErrorIs(t, h.Act(Raise, 60), ErrBelowMinimumBet)
	require.NoError(t, h.Act(Raise, 100))
	assert.Equal(t, LabelBet, h.Seat(1).LastAction)

	assert.ErrorIs(t, h.Act(Raise, 150), ErrBelowMinimumBet)
	require.NoError(t, h.Act(Raise, 200))
	assert.Equal(t, LabelRaise, h.Seat(2).LastAction)
	assert.Equal(t, 300, h.MinRaiseTo())
}

func TestShortBlindGoesAllIn(t *testing.T) {
	t.Parallel()
	g, rec := newTestGame(t, "", 1000, 20, 1000)
	h := startHand(t, g)

	assert.Equal(t, Event{Code: EventStartHand, PrevSeat: 1, NextSeat: 2, Message: LabelAllIn, Bet: 20}, rec.events[1])
	assert.True(t, h.Seat(1).AllIn)
	assert.Equal(t, 50, h.BetToCall())
	assert.Equal(t, 0, h.Turn())
}

func TestAllInUnderRaiseKeepsMinimum(t *testing.T) {
	t.Parallel()
	g, rec := newTestGame(t, "", 1000, 1000, 130)
	h := startHand(t, g)

	require.NoError(t, h.Act(Raise, 100))
	require.NoError(t, h.Act(Call, 0))
	require.Equal(t, 2, h.Turn())

	require.NoError(t, h.Act(Raise, 400))
	assert.Equal(t, Event{Code: EventAction, PrevSeat: 2, NextSeat: 0, Message: LabelAllIn, Bet: 130}, rec.last())
	assert.Equal(t, 130, h.BetToCall())
	assert.Equal(t, 180, h.MinRaiseTo(), "a short all-in does not shrink the raise size")

	require.NoError(t, h.Act(Call, 0))
	require.NoError(t, h.Act(Call, 0))
	assert.True(t, h.RoundFinished())
	assert.Equal(t, 390, h.PotTotal())
}
