package game

import (
	"slices"

	"github.com/patrickkosasih/Allin/poker"
)

func (h *Hand) Number() int          { return h.number }
func (h *Hand) Dealer() int          { return h.dealer }
func (h *Hand) SmallBlind() int      { return h.smallBlind }
func (h *Hand) BigBlind() int        { return h.bigBlind }
func (h *Hand) BetToCall() int       { return h.betToCall }
func (h *Hand) MinRaise() int        { return h.minRaise }
func (h *Hand) Turn() int            { return h.turn }
func (h *Hand) Blinds() [2]int       { return h.blinds }
func (h *Hand) Started() bool        { return h.started }
func (h *Hand) RoundFinished() bool  { return h.roundFinished }
func (h *Hand) Ended() bool          { return h.ended }
func (h *Hand) NumSeats() int        { return len(h.seats) }
func (h *Hand) Results() []PotResult { return slices.Clone(h.results) }

// Community returns a copy of the community cards.
func (h *Hand) Community() []poker.Card {
	return slices.Clone(h.community)
}

// Seat returns a copy of a seat's state.
func (h *Hand) Seat(seat int) Seat {
	return h.seats[seat].clone()
}

// Seats returns copies of every seat in seat order.
func (h *Hand) Seats() []Seat {
	out := make([]Seat, len(h.seats))
	for i := range h.seats {
		out[i] = h.seats[i].clone()
	}
	return out
}

// Player returns the identity sitting at seat.
func (h *Hand) Player(seat int) *Player {
	return h.roster[h.seats[seat].Player]
}

// Contributions returns each seat's commitment so far.
func (h *Hand) Contributions() []Contribution {
	return h.contributions()
}

// PotsSoFar splits the chips committed so far into pots.
func (h *Hand) PotsSoFar() []Pot {
	return SplitPots(h.contributions())
}

// PotTotal is the number of chips committed this hand.
func (h *Hand) PotTotal() int {
	total := 0
	for i := range h.seats {
		total += h.seats[i].TotalBet
	}
	return total
}

// Winners returns the seats that won at least one contested pot, in seat order.
func (h *Hand) Winners() []int {
	var out []int
	for _, r := range h.results {
		for _, w := range r.Winners {
			if !slices.Contains(out, w) {
				out = append(out, w)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Payouts totals the chips credited to each seat at the showdown.
func (h *Hand) Payouts() map[int]int {
	out := make(map[int]int)
	for _, r := range h.results {
		for _, p := range r.Payouts {
			out[p.Seat] += p.Amount
		}
	}
	return out
}

// ViewFor builds the decision view of seat.
func (h *Hand) ViewFor(seat int) View {
	s := &h.seats[seat]
	p := h.roster[s.Player]
	live := 0
	for i := range h.seats {
		if !h.seats[i].Folded {
			live++
		}
	}
	v := View{
		Seat:       seat,
		Name:       p.Name,
		Pocket:     slices.Clone(s.Pocket),
		Community:  slices.Clone(h.community),
		Chips:      p.Chips,
		RoundBet:   s.RoundBet,
		BetToCall:  h.betToCall,
		BigBlind:   h.bigBlind,
		MinRaiseTo: h.MinRaiseTo(),
		Pot:        h.PotTotal(),
		Live:       live,
	}
	if s.Ranking != nil {
		r := *s.Ranking
		v.Ranking = &r
	}
	return v
}
