package game

import "fmt"

// EventCode identifies the kind of state transition an Event describes.
type EventCode uint8

const (
	EventResetPlayers EventCode = iota
	EventNewHand
	EventStartHand
	EventAction
	EventRoundFinish
	EventNewRound
	EventSkipRound
	EventShowdown
	EventResetHand
	EventJoinMidGame
)

var eventCodeNames = [...]string{
	EventResetPlayers: "reset_players",
	EventNewHand:      "new_hand",
	EventStartHand:    "start_hand",
	EventAction:       "action",
	EventRoundFinish:  "round_finish",
	EventNewRound:     "new_round",
	EventSkipRound:    "skip_round",
	EventShowdown:     "showdown",
	EventResetHand:    "reset_hand",
	EventJoinMidGame:  "join_mid_game",
}

func (c EventCode) String() string {
	if int(c) < len(eventCodeNames) {
		return eventCodeNames[c]
	}
	return fmt.Sprintf("event(%d)", uint8(c))
}

// Valid reports whether c is a known event code.
func (c EventCode) Valid() bool {
	return int(c) < len(eventCodeNames)
}

// RequiresSync reports whether observers need a sync payload alongside an
// event with this code to keep their mirror of the table consistent.
func (c EventCode) RequiresSync() bool {
	switch c {
	case EventResetPlayers, EventNewHand, EventNewRound, EventSkipRound, EventShowdown, EventJoinMidGame:
		return true
	}
	return false
}

// NoSeat marks an absent seat in an Event.
const NoSeat = -1

// Event describes one state transition of a game.
type Event struct {
	Code     EventCode
	PrevSeat int    // seat that caused the event, or NoSeat
	NextSeat int    // seat whose turn it is afterwards, or NoSeat
	Message  string // action label, e.g. "raise" or "all-in"
	Bet      int    // round commitment of PrevSeat after the event
}

// NewEvent returns an event with no seats attached.
func NewEvent(code EventCode) Event {
	return Event{Code: code, PrevSeat: NoSeat, NextSeat: NoSeat}
}

func (e Event) String() string {
	return fmt.Sprintf("%s prev=%d next=%d msg=%q bet=%d", e.Code, e.PrevSeat, e.NextSeat, e.Message, e.Bet)
}
