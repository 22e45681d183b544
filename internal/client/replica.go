package client

import (
	"errors"
	"fmt"
	"slices"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/poker"
)

var ErrOutOfSync = errors.New("replica out of sync")

// Replica mirrors a room's table from the events a client receives. It only
// ever knows what the server chose to reveal to this client.
type Replica struct {
	players    []protocol.PlayerInfo
	dealer     int
	smallBlind int
	handNumber int
	clientSeat int
	pocket     []poker.Card
	hand       *replicaHand
}

type replicaHand struct {
	started       bool
	blindsPosted  int
	blinds        [2]int
	turn          int
	betToCall     int
	minRaise      int
	community     []poker.Card
	seats         []protocol.SeatInfo
	roundFinished bool
	ended         bool
	revealed      []protocol.RevealedHand
	results       []protocol.PotInfo
}

func NewReplica() *Replica {
	return &Replica{clientSeat: game.NoSeat}
}

// ClientSeat is the viewer's seat, or game.NoSeat when not seated.
func (r *Replica) ClientSeat() int { return r.clientSeat }

// Pocket returns the viewer's own pocket cards for the current hand.
func (r *Replica) Pocket() []poker.Card { return slices.Clone(r.pocket) }

// InHand reports whether a hand is being mirrored.
func (r *Replica) InHand() bool { return r.hand != nil }

// MyTurn reports whether the viewer is expected to act.
func (r *Replica) MyTurn() bool {
	h := r.hand
	return h != nil && h.started && !h.ended && !h.roundFinished &&
		r.clientSeat != game.NoSeat && h.turn == r.clientSeat
}

// Apply folds one event and its sync payload into the mirror. data must be
// non-nil exactly for the codes that require sync.
func (r *Replica) Apply(e game.Event, data *protocol.GameData) error {
	if e.Code.RequiresSync() {
		if data == nil {
			return fmt.Errorf("%w: %s", ErrMissingSync, e.Code)
		}
		if err := data.Check(e.Code); err != nil {
			return err
		}
	}

	switch e.Code {
	case game.EventResetPlayers:
		s := data.Roster
		r.players = slices.Clone(s.Players)
		r.dealer = s.Dealer
		r.smallBlind = s.SmallBlind
		r.clientSeat = s.ClientSeat
		r.pocket = nil
		r.hand = nil

	case game.EventNewHand:
		s := data.Deal
		r.players = slices.Clone(s.Players)
		r.dealer = s.Dealer
		r.smallBlind = s.SmallBlind
		r.handNumber = s.HandNumber
		r.clientSeat = s.ClientSeat
		r.pocket = slices.Clone(s.Pocket)
		h := &replicaHand{
			blinds: [2]int{game.NoSeat, game.NoSeat},
			turn:   game.NoSeat,
			seats:  make([]protocol.SeatInfo, len(s.Players)),
		}
		for i, p := range s.Players {
			if p.Chips <= 0 {
				h.seats[i] = protocol.SeatInfo{Folded: true, LastAction: game.LabelFolded}
			}
		}
		r.hand = h

	case game.EventStartHand:
		h, err := r.current(e)
		if err != nil {
			return err
		}
		if err := r.commit(e); err != nil {
			return err
		}
		if h.blindsPosted < len(h.blinds) {
			h.blinds[h.blindsPosted] = e.PrevSeat
		}
		h.blindsPosted++
		h.started = true
		h.minRaise = r.bigBlind()
		// The small blind's event names the big blind as next; the real
		// turn is only known once both blinds are in.
		if h.blindsPosted == 1 {
			h.betToCall = max(h.betToCall, r.smallBlind)
		} else {
			h.betToCall = r.bigBlind()
			h.turn = e.NextSeat
		}

	case game.EventAction, game.EventRoundFinish:
		h, err := r.current(e)
		if err != nil {
			return err
		}
		if e.PrevSeat != game.NoSeat {
			if err := r.commit(e); err != nil {
				return err
			}
		}
		h.turn = e.NextSeat
		h.roundFinished = e.Code == game.EventRoundFinish || e.NextSeat == game.NoSeat

	case game.EventNewRound, game.EventSkipRound:
		h, err := r.current(e)
		if err != nil {
			return err
		}
		h.community = slices.Clone(data.Round.Community)
		h.betToCall = 0
		h.minRaise = r.bigBlind()
		for i := range h.seats {
			s := &h.seats[i]
			s.RoundBet = 0
			switch {
			case s.Folded:
				s.LastAction = game.LabelFolded
			case s.AllIn:
				s.LastAction = game.LabelAllIn
			default:
				s.LastAction = ""
			}
		}
		h.turn = e.NextSeat
		h.roundFinished = e.Code == game.EventSkipRound

	case game.EventShowdown:
		h, err := r.current(e)
		if err != nil {
			return err
		}
		s := data.Showdown
		if len(s.Chips) != len(r.players) {
			return fmt.Errorf("%w: %d stacks for %d players", ErrOutOfSync, len(s.Chips), len(r.players))
		}
		for i, chips := range s.Chips {
			r.players[i].Chips = chips
		}
		h.revealed = slices.Clone(s.Revealed)
		h.results = slices.Clone(s.Pots)
		h.turn = game.NoSeat
		h.roundFinished = true
		h.ended = true

	case game.EventResetHand:
		r.hand = nil
		r.pocket = nil

	case game.EventJoinMidGame:
		s := data.Table
		r.players = slices.Clone(s.Players)
		r.dealer = s.Dealer
		r.smallBlind = s.SmallBlind
		r.handNumber = s.HandNumber
		r.clientSeat = s.ClientSeat
		r.pocket = nil
		h := &replicaHand{
			started:       s.Started,
			blinds:        s.Blinds,
			turn:          s.Turn,
			betToCall:     s.BetToCall,
			minRaise:      s.MinRaise,
			community:     slices.Clone(s.Community),
			seats:         slices.Clone(s.Seats),
			roundFinished: s.RoundFinished,
			ended:         s.HandEnded,
		}
		for _, b := range s.Blinds {
			if b != game.NoSeat {
				h.blindsPosted++
			}
		}
		r.hand = h

	default:
		return fmt.Errorf("%w: unknown event %s", ErrOutOfSync, e.Code)
	}
	return nil
}

func (r *Replica) current(e game.Event) (*replicaHand, error) {
	if r.hand == nil {
		return nil, fmt.Errorf("%w: %s outside a hand", ErrOutOfSync, e.Code)
	}
	return r.hand, nil
}

// commit moves the actor's chips into its round commitment.
func (r *Replica) commit(e game.Event) error {
	h := r.hand
	if e.PrevSeat < 0 || e.PrevSeat >= len(h.seats) || e.PrevSeat >= len(r.players) {
		return fmt.Errorf("%w: seat %d", ErrOutOfSync, e.PrevSeat)
	}
	s := &h.seats[e.PrevSeat]
	delta := e.Bet - s.RoundBet
	if delta < 0 {
		return fmt.Errorf("%w: seat %d commitment shrank from %d to %d", ErrOutOfSync, e.PrevSeat, s.RoundBet, e.Bet)
	}
	r.players[e.PrevSeat].Chips -= delta
	s.RoundBet = e.Bet
	s.TotalBet += delta
	s.LastAction = e.Message
	switch e.Message {
	case game.LabelFold:
		s.Folded = true
	case game.LabelAllIn:
		s.AllIn = true
	}
	if e.Code != game.EventStartHand && e.Bet > h.betToCall {
		h.minRaise = max(h.minRaise, e.Bet-h.betToCall)
		h.betToCall = e.Bet
	}
	return nil
}

func (r *Replica) bigBlind() int { return 2 * r.smallBlind }

func (r *Replica) contributions() []game.Contribution {
	out := make([]game.Contribution, len(r.hand.seats))
	for i, s := range r.hand.seats {
		out[i] = game.Contribution{Seat: i, Amount: s.TotalBet, Folded: s.Folded, AllIn: s.AllIn}
	}
	return out
}

// PublicTable is the state every member of a room can see.
type PublicTable struct {
	Players    []protocol.PlayerInfo
	Dealer     int
	SmallBlind int
	HandNumber int
	Hand       *PublicHand // nil between hands
}

// PublicHand is the visible part of a running hand.
type PublicHand struct {
	Started       bool
	Blinds        [2]int
	Turn          int
	BetToCall     int
	MinRaise      int
	Community     []poker.Card
	Seats         []protocol.SeatInfo
	Pots          []game.Pot
	RoundFinished bool
	Ended         bool
	Revealed      []protocol.RevealedHand
	Results       []protocol.PotInfo
}

// PublicView returns a copy of the public state. Two clients that have seen
// the same table agree on it regardless of when they joined.
func (r *Replica) PublicView() PublicTable {
	t := PublicTable{
		Players:    slices.Clone(r.players),
		Dealer:     r.dealer,
		SmallBlind: r.smallBlind,
		HandNumber: r.handNumber,
	}
	if h := r.hand; h != nil {
		t.Hand = &PublicHand{
			Started:       h.started,
			Blinds:        h.blinds,
			Turn:          h.turn,
			BetToCall:     h.betToCall,
			MinRaise:      h.minRaise,
			Community:     slices.Clone(h.community),
			Seats:         slices.Clone(h.seats),
			Pots:          game.SplitPots(r.contributions()),
			RoundFinished: h.roundFinished,
			Ended:         h.ended,
			Revealed:      slices.Clone(h.revealed),
			Results:       slices.Clone(h.results),
		}
	}
	return t
}

// View builds a strategy view for seat. Pocket cards are only known for the
// client's own seat.
func (r *Replica) View(seat int) (game.View, error) {
	h := r.hand
	if h == nil {
		return game.View{}, fmt.Errorf("%w: no hand in progress", ErrOutOfSync)
	}
	if seat < 0 || seat >= len(h.seats) {
		return game.View{}, fmt.Errorf("%w: seat %d", ErrOutOfSync, seat)
	}
	s := h.seats[seat]
	v := game.View{
		Seat:       seat,
		Name:       r.players[seat].Name,
		Community:  slices.Clone(h.community),
		Chips:      r.players[seat].Chips,
		RoundBet:   s.RoundBet,
		BetToCall:  h.betToCall,
		BigBlind:   r.bigBlind(),
		MinRaiseTo: max(2*r.bigBlind(), h.betToCall+h.minRaise),
	}
	for _, s := range h.seats {
		v.Pot += s.TotalBet
		if !s.Folded {
			v.Live++
		}
	}
	if seat == r.clientSeat {
		v.Pocket = slices.Clone(r.pocket)
		if len(v.Pocket) == 2 && len(h.community) >= 3 {
			if rk, err := poker.Evaluate(append(slices.Clone(v.Pocket), h.community...)); err == nil {
				v.Ranking = &rk
			}
		}
	}
	return v, nil
}
