package game

import "github.com/patrickkosasih/Allin/poker"

// View is everything a seat may know when it is asked to decide.
type View struct {
	Seat       int
	Name       string
	Pocket     []poker.Card
	Community  []poker.Card
	Chips      int // uncommitted stack
	RoundBet   int
	BetToCall  int
	BigBlind   int
	MinRaiseTo int
	Pot        int
	Live       int // players that have not folded
	Ranking    *poker.Ranking
}

// ToCall is the number of chips needed to stay in the hand.
func (v View) ToCall() int {
	return max(v.BetToCall-v.RoundBet, 0)
}

// CanRaise reports whether a raise is possible at all.
func (v View) CanRaise() bool {
	return v.Chips > v.ToCall()
}

// Decision is a strategy's answer to a View.
type Decision struct {
	Action    Action
	Amount    int // round commitment to raise to
	Reasoning string
}

// Strategy decides for a seat. It is only consulted on that seat's turn.
type Strategy interface {
	Decide(v View) Decision
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(View) Decision

func (f StrategyFunc) Decide(v View) Decision { return f(v) }

// Apply submits d for seat, falling back to a check or call when a raise is
// rejected so a strategy can never stall the table.
func (h *Hand) Apply(seat int, d Decision) error {
	err := h.ActAs(seat, d.Action, d.Amount)
	if err != nil && (d.Action == Raise || d.Action == AllIn) {
		return h.ActAs(seat, Call, 0)
	}
	return err
}
