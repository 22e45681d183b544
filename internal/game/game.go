package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/patrickkosasih/Allin/poker"
)

// Game is a sequence of hands played by a changing roster.
type Game struct {
	players    []*Player
	dealer     int
	smallBlind int
	hand       *Hand
	hands      int

	rng      *rand.Rand
	newDeck  func() *poker.Deck
	observer func(Event)
}

// NewGame creates a game with no players.
func NewGame(opts ...Option) *Game {
	g := &Game{}
	defaultOptions(g)
	for _, opt := range opts {
		opt(g)
	}
	if g.newDeck == nil {
		g.newDeck = func() *poker.Deck { return poker.NewDeck(g.rng) }
	}
	return g
}

func (g *Game) SmallBlind() int { return g.smallBlind }
func (g *Game) BigBlind() int   { return 2 * g.smallBlind }
func (g *Game) Dealer() int     { return g.dealer }
func (g *Game) HandCount() int  { return g.hands }

// Hand returns the current hand, or nil between hands.
func (g *Game) Hand() *Hand { return g.hand }

// InProgress reports whether a hand is running and not yet resolved.
func (g *Game) InProgress() bool {
	return g.hand != nil && !g.hand.Ended()
}

// Players returns the roster in seat order.
func (g *Game) Players() []*Player {
	return slices.Clone(g.players)
}

// NumPlayers returns the roster size.
func (g *Game) NumPlayers() int { return len(g.players) }

// Player looks a player up by name.
func (g *Game) Player(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddPlayer seats a new player at the end of the roster. Players can only be
// added while no hand is being played.
func (g *Game) AddPlayer(name string, chips int) (*Player, error) {
	if g.InProgress() {
		return nil, ErrHandInProgress
	}
	if _, ok := g.Player(name); ok {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	p := &Player{Name: name, Chips: chips, Seat: len(g.players)}
	g.players = append(g.players, p)
	return p, nil
}

// RemovePlayer removes a player. While a hand is running the player is only
// marked and leaves at the next hand boundary; removed reports which happened.
func (g *Game) RemovePlayer(name string) (removed bool, err error) {
	p, ok := g.Player(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	if g.InProgress() {
		p.LeaveNextHand = true
		return false, nil
	}
	g.players = slices.DeleteFunc(g.players, func(q *Player) bool { return q == p })
	if g.dealer > p.Seat {
		g.dealer--
	}
	if g.dealer >= len(g.players) {
		g.dealer = 0
	}
	g.renumber()
	return true, nil
}

// PrepareNextHand clears the finished hand, drops leavers and bankrupt
// players, and optionally moves the dealer button to the next survivor.
// It returns the players removed from the roster.
func (g *Game) PrepareNextHand(cycleDealer bool) []*Player {
	g.hand = nil

	var kept, removed []*Player
	nextDealer := -1
	for i := 1; i <= len(g.players); i++ {
		idx := (g.dealer + i) % len(g.players)
		if !cycleDealer {
			idx = (g.dealer + i - 1) % len(g.players)
		}
		p := g.players[idx]
		if nextDealer < 0 && p.Chips > 0 && !p.LeaveNextHand {
			nextDealer = idx
		}
	}
	for _, p := range g.players {
		if p.Chips <= 0 || p.LeaveNextHand {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}

	newDealer := 0
	if nextDealer >= 0 {
		for i, p := range kept {
			if p == g.players[nextDealer] {
				newDealer = i
			}
		}
	}
	g.players = kept
	g.dealer = newDealer
	g.renumber()
	return removed
}

// NewHand prepares the roster and deals a new hand. The hand still has to be
// started to post the blinds.
func (g *Game) NewHand(cycleDealer bool) (*Hand, error) {
	if g.InProgress() {
		return nil, ErrHandInProgress
	}
	g.PrepareNextHand(cycleDealer)
	if len(g.players) < 2 {
		return nil, fmt.Errorf("%w: %d players", ErrInsufficientPlayers, len(g.players))
	}

	g.hands++
	g.hand = newHand(slices.Clone(g.players), g.hands, g.dealer, g.smallBlind, g.newDeck(), g.emit)
	g.emit(NewEvent(EventNewHand))
	return g.hand, nil
}

func (g *Game) emit(e Event) {
	if g.observer != nil {
		g.observer(e)
	}
}

func (g *Game) renumber() {
	for i, p := range g.players {
		p.Seat = i
	}
}
