package protocol

import (
	"errors"
	"fmt"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/poker"
)

// SyncVersion is bumped whenever a sync schema changes shape.
const SyncVersion = 1

var (
	ErrSyncVersion  = errors.New("unsupported sync version")
	ErrSyncMismatch = errors.New("sync payload does not match event")
)

// SyncKind names the schema carried by a GameData.
type SyncKind uint8

const (
	SyncNone SyncKind = iota
	SyncRoster
	SyncDeal
	SyncRound
	SyncShowdown
	SyncTable
)

// ExpectedSync returns the schema that must accompany an event code.
func ExpectedSync(code game.EventCode) SyncKind {
	switch code {
	case game.EventResetPlayers:
		return SyncRoster
	case game.EventNewHand:
		return SyncDeal
	case game.EventNewRound, game.EventSkipRound:
		return SyncRound
	case game.EventShowdown:
		return SyncShowdown
	case game.EventJoinMidGame:
		return SyncTable
	}
	return SyncNone
}

// GameData is a sync payload. Exactly one schema is set.
type GameData struct {
	Version  int
	Roster   *RosterSync
	Deal     *DealSync
	Round    *RoundSync
	Showdown *ShowdownSync
	Table    *TableSync
}

// Kind reports which schema the payload carries.
func (d *GameData) Kind() SyncKind {
	switch {
	case d.Roster != nil:
		return SyncRoster
	case d.Deal != nil:
		return SyncDeal
	case d.Round != nil:
		return SyncRound
	case d.Showdown != nil:
		return SyncShowdown
	case d.Table != nil:
		return SyncTable
	}
	return SyncNone
}

// Check verifies the payload is the one code requires.
func (d *GameData) Check(code game.EventCode) error {
	if d.Version != SyncVersion {
		return fmt.Errorf("%w: %d", ErrSyncVersion, d.Version)
	}
	if want := ExpectedSync(code); d.Kind() != want {
		return fmt.Errorf("%w: %s carries kind %d, want %d", ErrSyncMismatch, code, d.Kind(), want)
	}
	return nil
}

// PlayerInfo is the public identity of a seated player.
type PlayerInfo struct {
	Name          string
	Chips         int
	Seat          int
	LeaveNextHand bool
}

// RosterSync accompanies EventResetPlayers.
type RosterSync struct {
	Players    []PlayerInfo
	Dealer     int
	SmallBlind int
	ClientSeat int // -1 when the viewer is not seated
}

// DealSync accompanies EventNewHand. Pocket only ever holds the viewer's cards.
type DealSync struct {
	Players    []PlayerInfo
	Dealer     int
	SmallBlind int
	HandNumber int
	ClientSeat int
	Pocket     []poker.Card
}

// RoundSync accompanies EventNewRound and EventSkipRound.
type RoundSync struct {
	Community []poker.Card
}

// RevealedHand is a live seat's hand at the showdown.
type RevealedHand struct {
	Seat    int
	Pocket  []poker.Card
	Ranking string
	Score   uint32
}

// PotInfo is a resolved pot.
type PotInfo struct {
	Amount   int
	Eligible []int
	Winners  []int
	Refund   bool
	Payouts  []game.Payout
}

// ShowdownSync accompanies EventShowdown.
type ShowdownSync struct {
	Revealed []RevealedHand
	Pots     []PotInfo
	Chips    []int // final stacks in seat order
}

// SeatInfo is the public part of a seat's hand state.
type SeatInfo struct {
	Folded     bool
	AllIn      bool
	RoundBet   int
	TotalBet   int
	LastAction string
}

// TableSync accompanies EventJoinMidGame: the full public table.
type TableSync struct {
	Players       []PlayerInfo
	Dealer        int
	SmallBlind    int
	HandNumber    int
	ClientSeat    int
	Started       bool
	Blinds        [2]int
	Turn          int
	BetToCall     int
	MinRaise      int
	Community     []poker.Card
	Seats         []SeatInfo
	RoundFinished bool
	HandEnded     bool
}

func players(list []*game.Player) []PlayerInfo {
	out := make([]PlayerInfo, len(list))
	for i, p := range list {
		out[i] = PlayerInfo{Name: p.Name, Chips: p.Chips, Seat: p.Seat, LeaveNextHand: p.LeaveNextHand}
	}
	return out
}

// RosterFor builds the roster payload for a viewer.
func RosterFor(g *game.Game, viewerSeat int) *GameData {
	return &GameData{Version: SyncVersion, Roster: &RosterSync{
		Players:    players(g.Players()),
		Dealer:     g.Dealer(),
		SmallBlind: g.SmallBlind(),
		ClientSeat: viewerSeat,
	}}
}

// DealFor builds the new hand payload for a viewer; only the viewer's pocket
// cards are included.
func DealFor(g *game.Game, h *game.Hand, viewerSeat int) *GameData {
	d := &DealSync{
		Players:    players(g.Players()),
		Dealer:     h.Dealer(),
		SmallBlind: h.SmallBlind(),
		HandNumber: h.Number(),
		ClientSeat: viewerSeat,
	}
	if viewerSeat >= 0 && viewerSeat < h.NumSeats() {
		d.Pocket = h.Seat(viewerSeat).Pocket
	}
	return &GameData{Version: SyncVersion, Deal: d}
}

// RoundFor builds the community card payload.
func RoundFor(h *game.Hand) *GameData {
	return &GameData{Version: SyncVersion, Round: &RoundSync{Community: h.Community()}}
}

// ShowdownFor builds the showdown payload. Folded seats stay hidden.
func ShowdownFor(h *game.Hand) *GameData {
	s := &ShowdownSync{}
	live := 0
	for _, seat := range h.Seats() {
		if !seat.Folded {
			live++
		}
	}
	for i, seat := range h.Seats() {
		s.Chips = append(s.Chips, h.Player(i).Chips)
		// A hand won by folds reveals nothing.
		if seat.Folded || live < 2 {
			continue
		}
		r := RevealedHand{Seat: i, Pocket: seat.Pocket}
		if seat.Ranking != nil {
			r.Ranking = seat.Ranking.Type.String()
			r.Score = seat.Ranking.Score
		}
		s.Revealed = append(s.Revealed, r)
	}
	for _, res := range h.Results() {
		s.Pots = append(s.Pots, PotInfo{
			Amount:   res.Pot.Amount,
			Eligible: res.Pot.Eligible,
			Winners:  res.Winners,
			Refund:   res.Pot.Refund,
			Payouts:  res.Payouts,
		})
	}
	return &GameData{Version: SyncVersion, Showdown: s}
}

// TableFor builds the mid-game join payload. It carries no pocket cards.
func TableFor(g *game.Game, h *game.Hand, viewerSeat int) *GameData {
	// Leaving mid-hand is announced by the roster sync at the hand boundary;
	// a joiner sees the same flags as members already watching.
	roster := players(g.Players())
	for i := range roster {
		roster[i].LeaveNextHand = false
	}
	t := &TableSync{
		Players:       roster,
		Dealer:        h.Dealer(),
		SmallBlind:    h.SmallBlind(),
		HandNumber:    h.Number(),
		ClientSeat:    viewerSeat,
		Started:       h.Started(),
		Blinds:        h.Blinds(),
		Turn:          h.Turn(),
		BetToCall:     h.BetToCall(),
		MinRaise:      h.MinRaise(),
		Community:     h.Community(),
		RoundFinished: h.RoundFinished(),
		HandEnded:     h.Ended(),
	}
	for _, seat := range h.Seats() {
		t.Seats = append(t.Seats, SeatInfo{
			Folded:     seat.Folded,
			AllIn:      seat.AllIn,
			RoundBet:   seat.RoundBet,
			TotalBet:   seat.TotalBet,
			LastAction: seat.LastAction,
		})
	}
	return &GameData{Version: SyncVersion, Table: t}
}
