package game

import (
	"slices"
)

// Contribution is what one seat has put into the pot this hand.
type Contribution struct {
	Seat   int
	Amount int
	Folded bool
	AllIn  bool
}

// Pot is the main pot or a side pot. Eligible seats are ordered by seat.
// A refund pot holds chips no live seat matched; they go back to Shares.
type Pot struct {
	Amount   int
	Cap      int // contribution level that closes this pot
	Eligible []int
	Refund   bool
	Shares   map[int]int
}

// Payout is a credit of chips to a seat.
type Payout struct {
	Seat   int
	Amount int
}

// PotResult is a resolved pot.
type PotResult struct {
	Pot     Pot
	Winners []int
	Payouts []Payout
}

// SplitPots partitions contributions into a main pot and side pots. Every
// distinct all-in level of a live seat closes a pot; the highest live
// contribution closes the last one. Chips above that come back as a refund.
func SplitPots(contribs []Contribution) []Pot {
	var levels []int
	topLive, topAll := 0, 0
	for _, c := range contribs {
		topAll = max(topAll, c.Amount)
		if c.Folded {
			continue
		}
		topLive = max(topLive, c.Amount)
		if c.AllIn && c.Amount > 0 {
			levels = append(levels, c.Amount)
		}
	}
	levels = append(levels, topLive, topAll)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		if level <= prev {
			continue
		}
		pot := Pot{Cap: level}
		shares := make(map[int]int)
		for _, c := range contribs {
			slice := min(c.Amount, level) - prev
			if slice <= 0 {
				continue
			}
			pot.Amount += slice
			shares[c.Seat] += slice
			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.Seat)
			}
		}
		prev = level
		if pot.Amount == 0 {
			continue
		}
		if len(pot.Eligible) == 0 {
			pot.Refund = true
			pot.Shares = shares
			for seat := range shares {
				pot.Eligible = append(pot.Eligible, seat)
			}
		}
		slices.Sort(pot.Eligible)
		pots = append(pots, pot)
	}
	return pots
}

// TotalAmount sums the pots.
func TotalAmount(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// splitAmong divides amount among winners. Odd chips go one at a time to the
// winners closest clockwise to the dealer.
func splitAmong(amount int, winners []int, dealer, nseats int) []Payout {
	if len(winners) == 0 {
		return nil
	}
	ordered := slices.Clone(winners)
	distance := func(seat int) int {
		return (seat - dealer - 1 + nseats) % nseats
	}
	slices.SortFunc(ordered, func(a, b int) int { return distance(a) - distance(b) })

	share, rem := amount/len(ordered), amount%len(ordered)
	payouts := make([]Payout, len(ordered))
	for i, seat := range ordered {
		payouts[i] = Payout{Seat: seat, Amount: share}
		if i < rem {
			payouts[i].Amount++
		}
	}
	return payouts
}
