package game

import (
	"fmt"
	"slices"

	"github.com/patrickkosasih/Allin/poker"
)

// Hand is one deal of a game, from the blinds to the showdown.
//
// A hand moves through Created -> Betting -> RoundFinished -> Betting ... ->
// Showdown. Folding down to a single player jumps straight to the showdown.
type Hand struct {
	roster     []*Player
	seats      []Seat
	number     int
	dealer     int
	smallBlind int
	bigBlind   int
	deck       *poker.Deck
	community  []poker.Card

	betToCall     int
	minRaise      int
	turn          int
	blinds        [2]int
	started       bool
	roundFinished bool
	ended         bool
	results       []PotResult

	emit func(Event)
}

func newHand(roster []*Player, number, dealer, smallBlind int, deck *poker.Deck, emit func(Event)) *Hand {
	h := &Hand{
		roster:     roster,
		seats:      make([]Seat, len(roster)),
		number:     number,
		dealer:     dealer,
		smallBlind: smallBlind,
		bigBlind:   2 * smallBlind,
		deck:       deck,
		turn:       NoSeat,
		blinds:     [2]int{NoSeat, NoSeat},
		emit:       emit,
	}
	if h.emit == nil {
		h.emit = func(Event) {}
	}
	for i := range h.seats {
		h.seats[i].Player = i
		h.seats[i].Pocket = deck.Deal(2)
		if roster[i].Chips <= 0 {
			h.seats[i].Folded = true
			h.seats[i].LastAction = LabelFolded
		}
	}
	return h
}

// Start posts the blinds and hands the turn to the seat after the big blind.
func (h *Hand) Start() error {
	if h.started {
		return ErrHandAlreadyStarted
	}
	playable := 0
	for _, p := range h.roster {
		if p.Chips > 0 {
			playable++
		}
	}
	if playable < 2 {
		return fmt.Errorf("%w: %d can play", ErrInsufficientPlayers, playable)
	}

	h.started = true
	h.minRaise = h.bigBlind

	sb := h.nextActor(h.dealer)
	h.blinds[0] = sb
	sbEvent := h.postBlind(sb, h.smallBlind)

	bb := h.nextActor(sb)
	h.blinds[1] = bb
	bbEvent := h.postBlind(bb, h.bigBlind)
	h.betToCall = h.bigBlind

	h.turn = h.nextActor(bb)
	if h.isRoundFinished() {
		h.finishRound()
	}
	sbEvent.NextSeat = bb
	bbEvent.NextSeat = h.turn
	h.emit(sbEvent)
	h.emit(bbEvent)
	if h.roundFinished {
		h.emit(NewEvent(EventRoundFinish))
	}
	return nil
}

// Act applies an action for the seat whose turn it is.
func (h *Hand) Act(action Action, amount int) error {
	if err := h.canAct(); err != nil {
		return err
	}
	return h.act(h.turn, action, amount)
}

// ActAs applies an action for seat, failing if it is not that seat's turn.
func (h *Hand) ActAs(seat int, action Action, amount int) error {
	if err := h.canAct(); err != nil {
		return err
	}
	if seat != h.turn {
		return fmt.Errorf("%w: seat %d, turn %d", ErrNotYourTurn, seat, h.turn)
	}
	return h.act(seat, action, amount)
}

func (h *Hand) canAct() error {
	switch {
	case !h.started:
		return ErrHandNotStarted
	case h.ended:
		return ErrHandAlreadyEnded
	case h.roundFinished:
		return ErrRoundAlreadyEnded
	case h.turn == NoSeat:
		return ErrRoundAlreadyEnded
	}
	return nil
}

func (h *Hand) act(seat int, action Action, amount int) error {
	label, err := h.applyAction(seat, action, amount)
	if err != nil {
		return err
	}
	s := &h.seats[seat]
	if s.AllIn {
		label = LabelAllIn
	}
	s.LastAction = label
	ev := Event{Code: EventAction, PrevSeat: seat, Message: label, Bet: s.RoundBet}

	if h.liveCount() == 1 {
		h.turn = NoSeat
		h.roundFinished = true
		ev.NextSeat = NoSeat
		h.emit(ev)
		h.resolve()
		return nil
	}

	if h.isRoundFinished() {
		h.finishRound()
		ev.Code = EventRoundFinish
		ev.NextSeat = NoSeat
	} else {
		h.turn = h.nextActor(seat)
		ev.NextSeat = h.turn
	}
	h.emit(ev)
	return nil
}

// NextRound deals the next street, or runs the showdown after the river.
func (h *Hand) NextRound() error {
	switch {
	case !h.started:
		return ErrHandNotStarted
	case h.ended:
		return ErrHandAlreadyEnded
	case !h.roundFinished:
		return ErrRoundInProgress
	}
	if len(h.community) >= 5 {
		h.resolve()
		return nil
	}

	n := 1
	if len(h.community) == 0 {
		n = 3
	}
	h.community = append(h.community, h.deck.Deal(n)...)

	h.betToCall = 0
	h.minRaise = h.bigBlind
	h.roundFinished = false
	for i := range h.seats {
		s := &h.seats[i]
		s.RoundBet = 0
		s.Called = false
		switch {
		case s.Folded:
			s.LastAction = LabelFolded
		case s.AllIn:
			s.LastAction = LabelAllIn
		default:
			s.LastAction = ""
		}
	}
	h.rankSeats()

	h.turn = h.nextActor(h.dealer)
	if h.actorCount() <= 1 {
		h.finishRound()
		h.emit(NewEvent(EventSkipRound))
		return nil
	}
	ev := NewEvent(EventNewRound)
	ev.NextSeat = h.turn
	h.emit(ev)
	return nil
}

// Showdown resolves the hand. It is only legal once betting is over: either
// a single player remains or the river has been fully bet.
func (h *Hand) Showdown() error {
	switch {
	case !h.started:
		return ErrHandNotStarted
	case h.ended:
		return ErrHandAlreadyEnded
	case h.liveCount() > 1 && (!h.roundFinished || len(h.community) < 5):
		return ErrRoundInProgress
	}
	h.resolve()
	return nil
}

func (h *Hand) resolve() {
	h.rankSeats()
	h.turn = NoSeat
	h.roundFinished = true

	pots := SplitPots(h.contributions())
	h.results = make([]PotResult, 0, len(pots))
	for _, pot := range pots {
		res := PotResult{Pot: pot}
		if pot.Refund {
			for _, seat := range pot.Eligible {
				res.Payouts = append(res.Payouts, Payout{Seat: seat, Amount: pot.Shares[seat]})
			}
		} else {
			res.Winners = h.bestOf(pot.Eligible)
			res.Payouts = splitAmong(pot.Amount, res.Winners, h.dealer, len(h.seats))
		}
		for _, p := range res.Payouts {
			h.roster[h.seats[p.Seat].Player].Chips += p.Amount
		}
		h.results = append(h.results, res)
	}
	h.ended = true
	h.emit(NewEvent(EventShowdown))
}

func (h *Hand) bestOf(eligible []int) []int {
	if len(eligible) <= 1 {
		return slices.Clone(eligible)
	}
	var best uint32
	var winners []int
	for _, seat := range eligible {
		var score uint32
		if r := h.seats[seat].Ranking; r != nil {
			score = r.Score
		}
		switch {
		case winners == nil || score > best:
			best = score
			winners = []int{seat}
		case score == best:
			winners = append(winners, seat)
		}
	}
	return winners
}

func (h *Hand) rankSeats() {
	if len(h.community) < 3 {
		return
	}
	for i := range h.seats {
		s := &h.seats[i]
		cards := append(slices.Clone(s.Pocket), h.community...)
		r, err := poker.Evaluate(cards)
		if err != nil {
			continue
		}
		s.Ranking = &r
	}
}

func (h *Hand) finishRound() {
	h.roundFinished = true
	h.turn = NoSeat
}

// isRoundFinished reports whether every live seat has called or is all-in.
func (h *Hand) isRoundFinished() bool {
	for i := range h.seats {
		s := &h.seats[i]
		if !s.Folded && !s.Called && !s.AllIn {
			return false
		}
	}
	return true
}

// nextActor returns the first seat after from that can still act, wrapping
// around to from itself. NoSeat means nobody can act.
func (h *Hand) nextActor(from int) int {
	n := len(h.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if h.seats[seat].CanAct() && h.roster[h.seats[seat].Player].Chips > 0 {
			return seat
		}
	}
	return NoSeat
}

func (h *Hand) liveCount() int {
	n := 0
	for i := range h.seats {
		if !h.seats[i].Folded {
			n++
		}
	}
	return n
}

func (h *Hand) actorCount() int {
	n := 0
	for i := range h.seats {
		if h.seats[i].CanAct() {
			n++
		}
	}
	return n
}

func (h *Hand) contributions() []Contribution {
	out := make([]Contribution, len(h.seats))
	for i, s := range h.seats {
		out[i] = Contribution{Seat: i, Amount: s.TotalBet, Folded: s.Folded, AllIn: s.AllIn}
	}
	return out
}
