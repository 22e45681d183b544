package game

import "github.com/patrickkosasih/Allin/poker"

// Player is a participant of a Game. It outlives individual hands.
type Player struct {
	Name          string
	Chips         int
	Seat          int
	LeaveNextHand bool
}

// Seat is a player's state within a single hand. Player indexes the hand's
// roster rather than pointing back at the identity.
type Seat struct {
	Player     int
	Pocket     []poker.Card
	RoundBet   int // chips committed this betting round
	TotalBet   int // chips committed this hand
	Folded     bool
	AllIn      bool
	Called     bool
	LastAction string
	Ranking    *poker.Ranking
}

// CanAct reports whether the seat can still make voluntary decisions.
func (s *Seat) CanAct() bool {
	return !s.Folded && !s.AllIn
}

func (s Seat) clone() Seat {
	out := s
	out.Pocket = append([]poker.Card(nil), s.Pocket...)
	if s.Ranking != nil {
		r := *s.Ranking
		out.Ranking = &r
	}
	return out
}
