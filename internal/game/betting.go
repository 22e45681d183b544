package game

import (
	"fmt"
	"strings"
)

// Action is a decision a player can submit on their turn.
type Action uint8

const (
	Fold Action = iota
	Call        // check when nothing is owed
	Raise       // bet when nothing has been bet yet
	AllIn
)

var actionNames = [...]string{
	Fold:  "fold",
	Call:  "call",
	Raise: "raise",
	AllIn: "allin",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction accepts the action names plus the check/bet aliases.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "call", "check":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Action labels attached to events and seats.
const (
	LabelFold   = "fold"
	LabelCheck  = "check"
	LabelCall   = "call"
	LabelBet    = "bet"
	LabelRaise  = "raise"
	LabelAllIn  = "all-in"
	LabelFolded = "folded"
)

// pay moves chips from the player's stack into the seat's commitments,
// capping at the stack. It returns the amount actually paid.
func (h *Hand) pay(seat, amount int) int {
	s := &h.seats[seat]
	p := h.roster[s.Player]
	if amount >= p.Chips {
		amount = p.Chips
		s.AllIn = true
	}
	p.Chips -= amount
	s.RoundBet += amount
	s.TotalBet += amount
	return amount
}

// postBlind commits a forced bet. Forced bets never count as calling.
func (h *Hand) postBlind(seat, amount int) Event {
	s := &h.seats[seat]
	h.pay(seat, amount)
	s.LastAction = LabelBet
	if s.AllIn {
		s.LastAction = LabelAllIn
	}
	h.betToCall = max(h.betToCall, amount)
	return Event{Code: EventStartHand, PrevSeat: seat, NextSeat: NoSeat, Message: s.LastAction, Bet: s.RoundBet}
}

// MinRaiseTo is the smallest round commitment a non all-in raise may reach.
func (h *Hand) MinRaiseTo() int {
	return max(2*h.bigBlind, h.betToCall+h.minRaise)
}

func (h *Hand) applyAction(seat int, action Action, amount int) (string, error) {
	s := &h.seats[seat]
	p := h.roster[s.Player]
	full := s.RoundBet + p.Chips

	switch action {
	case Fold:
		s.Folded = true
		return LabelFold, nil

	case Call:
		owed := h.betToCall - s.RoundBet
		h.pay(seat, max(owed, 0))
		s.Called = true
		if owed <= 0 {
			return LabelCheck, nil
		}
		return LabelCall, nil

	case AllIn:
		amount = full
		fallthrough

	case Raise:
		if amount >= full {
			amount = full
			if amount <= h.betToCall {
				// Short stack: an all-in that cannot cover the bet is a call.
				h.pay(seat, amount-s.RoundBet)
				s.Called = true
				return LabelCall, nil
			}
		} else {
			switch {
			case amount < 2*h.bigBlind:
				return "", fmt.Errorf("%w: %d < %d", ErrBelowMinimumBet, amount, 2*h.bigBlind)
			case amount <= h.betToCall:
				return "", fmt.Errorf("%w: %d <= %d", ErrBelowMinimumRaise, amount, h.betToCall)
			case amount < h.betToCall+h.minRaise:
				return "", fmt.Errorf("%w: raise to at least %d", ErrBelowMinimumBet, h.betToCall+h.minRaise)
			}
		}

		label := LabelBet
		if h.betToCall > 0 {
			label = LabelRaise
		}
		h.minRaise = max(h.minRaise, amount-h.betToCall)
		h.betToCall = amount
		for i := range h.seats {
			h.seats[i].Called = false
		}
		h.pay(seat, amount-s.RoundBet)
		s.Called = true
		return label, nil
	}

	return "", fmt.Errorf("%w: %v", ErrInvalidAction, action)
}
