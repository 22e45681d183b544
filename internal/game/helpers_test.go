package game

import (
	"testing"

	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/poker"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) observe(e Event) { r.events = append(r.events, e) }

func (r *recorder) codes() []EventCode {
	out := make([]EventCode, len(r.events))
	for i, e := range r.events {
		out[i] = e.Code
	}
	return out
}

func (r *recorder) last() Event {
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() { r.events = nil }

// newTestGame seats players named P0..Pn with the given stacks. A non-empty
// deck string stacks the deck: pocket cards in seat order, then the board.
func newTestGame(t *testing.T, deck string, chips ...int) (*Game, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts := []Option{WithObserver(rec.observe), WithRNG(randutil.New(1))}
	if deck != "" {
		cards := poker.MustParseCards(deck)
		opts = append(opts, WithDeckSource(func() *poker.Deck { return poker.NewStackedDeck(cards...) }))
	}
	g := NewGame(opts...)
	for i, c := range chips {
		_, err := g.AddPlayer(playerName(i), c)
		require.NoError(t, err)
	}
	return g, rec
}

func playerName(i int) string {
	return "P" + string(rune('0'+i))
}

// startHand deals and starts a hand with the button on seat 0.
func startHand(t *testing.T, g *Game) *Hand {
	t.Helper()
	h, err := g.NewHand(false)
	require.NoError(t, err)
	require.NoError(t, h.Start())
	return h
}

func totalChips(g *Game) int {
	total := 0
	for _, p := range g.Players() {
		total += p.Chips
	}
	if h := g.Hand(); h != nil && !h.Ended() {
		total += h.PotTotal()
	}
	return total
}

func checkDown(t *testing.T, h *Hand) {
	t.Helper()
	for !h.Ended() {
		if h.RoundFinished() {
			require.NoError(t, h.NextRound())
			continue
		}
		require.NoError(t, h.Act(Call, 0))
	}
}
