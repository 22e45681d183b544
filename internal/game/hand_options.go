package game

import (
	rand "math/rand/v2"

	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/poker"
)

// DefaultSmallBlind is the small blind of a game created without options.
const DefaultSmallBlind = 25

// Option configures a Game.
type Option func(*Game)

// WithSmallBlind sets the small blind; the big blind is always twice that.
func WithSmallBlind(amount int) Option {
	return func(g *Game) {
		if amount > 0 {
			g.smallBlind = amount
		}
	}
}

// WithRNG sets the source used to shuffle each hand's deck.
func WithRNG(rng *rand.Rand) Option {
	return func(g *Game) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithDeckSource overrides deck creation, e.g. to deal stacked decks in tests.
func WithDeckSource(fn func() *poker.Deck) Option {
	return func(g *Game) {
		g.newDeck = fn
	}
}

// WithObserver registers a callback that receives every event in order.
// It runs synchronously inside the operation that produced the event.
func WithObserver(fn func(Event)) Option {
	return func(g *Game) {
		g.observer = fn
	}
}

func defaultOptions(g *Game) {
	g.smallBlind = DefaultSmallBlind
	g.rng, _ = randutil.Resolve(nil)
}
