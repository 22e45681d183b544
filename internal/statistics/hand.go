package statistics

import "github.com/patrickkosasih/Allin/internal/game"

// ResultsOf extracts every seat's result from a finished hand, keyed by
// player name. It returns nil while the hand is still running.
func ResultsOf(h *game.Hand) map[string]Result {
	if h == nil || !h.Ended() {
		return nil
	}
	seats := h.Seats()
	live := 0
	for _, s := range seats {
		if !s.Folded {
			live++
		}
	}
	payouts := h.Payouts()
	street := StreetFor(len(h.Community()))
	out := make(map[string]Result, len(seats))
	for i, s := range seats {
		out[h.Player(i).Name] = Result{
			Net:      payouts[i] - s.TotalBet,
			BigBlind: h.BigBlind(),
			Showdown: live > 1,
			Pot:      h.PotTotal(),
			Street:   street,
		}
	}
	return out
}

// RecordHand adds the results of a finished hand.
func (t *Tracker) RecordHand(h *game.Hand) {
	for name, r := range ResultsOf(h) {
		t.Record(name, r)
	}
}
