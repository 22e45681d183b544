package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNew(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		s, err := New(name, randutil.New(1), testLogger())
		require.NoError(t, err, name)
		assert.NotNil(t, s)
	}
	_, err := New("shark", randutil.New(1), testLogger())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, []string{"call", "fold", "maniac", "random"}, Names())
	assert.True(t, Known("Maniac"))
	assert.False(t, Known("shark"))
}

func TestCallAndFoldBots(t *testing.T) {
	t.Parallel()
	facing := game.View{BetToCall: 100, RoundBet: 50, Chips: 500, BigBlind: 50}
	free := game.View{BetToCall: 50, RoundBet: 50, Chips: 500, BigBlind: 50}

	call := NewCallBot(testLogger())
	assert.Equal(t, game.Call, call.Decide(facing).Action)
	assert.Equal(t, game.Call, call.Decide(free).Action)

	fold := NewFoldBot(testLogger())
	assert.Equal(t, game.Fold, fold.Decide(facing).Action)
	assert.Equal(t, game.Call, fold.Decide(free).Action)
}

func TestManiacBotShovesPremiumHands(t *testing.T) {
	t.Parallel()
	m := NewManiacBot(randutil.New(3), testLogger())

	aces := game.View{Pocket: poker.MustParseCards("As Ah"), BetToCall: 50, Chips: 1000, BigBlind: 50, MinRaiseTo: 100}
	assert.Equal(t, game.AllIn, m.Decide(aces).Action)

	trash := game.View{Pocket: poker.MustParseCards("7c 2d"), BetToCall: 50, Chips: 1000, BigBlind: 50, MinRaiseTo: 100}
	assert.Equal(t, game.Call, m.Decide(trash).Action)
}

func TestRandBotRolls(t *testing.T) {
	t.Parallel()
	r := NewRandBot(randutil.New(5), testLogger())
	free := game.View{BetToCall: 50, RoundBet: 50, Chips: 1000, BigBlind: 50}
	facing := game.View{BetToCall: 200, RoundBet: 50, Chips: 1000, BigBlind: 50}

	raise := r.decide(free, 10, 0)
	assert.Equal(t, game.Raise, raise.Action)
	assert.Contains(t, []int{75, 100, 125, 150}, raise.Amount)

	assert.Equal(t, game.AllIn, r.decide(free, 69, 10).Action)
	assert.Equal(t, game.AllIn, r.decide(free, 69, 69).Action)
	assert.Equal(t, game.Call, r.decide(free, 69, 9).Action)
	assert.Equal(t, game.Call, r.decide(free, 69, 70).Action)

	// Facing 200 the bot calls only when y < 25.
	assert.Equal(t, game.Call, r.decide(facing, 50, 24).Action)
	assert.Equal(t, game.Fold, r.decide(facing, 50, 25).Action)
	assert.Equal(t, game.Fold, r.decide(facing, 69, 80).Action)
}

// Every strategy must drive a table to completion without stalling it.
func TestStrategiesFinishHands(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rng := randutil.New(77)
			s, err := New(name, rng, testLogger())
			require.NoError(t, err)

			g := game.NewGame(game.WithRNG(randutil.New(5)))
			for _, p := range []string{"a", "b", "c", "d"} {
				_, err := g.AddPlayer(p, 1000)
				require.NoError(t, err)
			}

			for i := 0; i < 20; i++ {
				h, err := g.NewHand(i > 0)
				if err != nil {
					require.ErrorIs(t, err, game.ErrInsufficientPlayers)
					return
				}
				require.NoError(t, h.Start())
				for steps := 0; !h.Ended(); steps++ {
					require.Less(t, steps, 400)
					if h.RoundFinished() {
						require.NoError(t, h.NextRound())
						continue
					}
					seat := h.Turn()
					require.NoError(t, h.Apply(seat, s.Decide(h.ViewFor(seat))))
				}
			}
		})
	}
}
