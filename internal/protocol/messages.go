// Package protocol defines the packets exchanged between the server and its
// clients, their msgpack encoding and the framing used on each transport.
package protocol

import (
	"errors"
	"fmt"

	"github.com/patrickkosasih/Allin/internal/game"
)

// PacketType discriminates the content of a Packet.
type PacketType uint8

const (
	TypeBasicRequest PacketType = iota
	TypeBasicResponse
	TypeGameAction
	TypeGameEvent
	TypeGameData
)

var packetTypeNames = [...]string{
	TypeBasicRequest:  "basic_request",
	TypeBasicResponse: "basic_response",
	TypeGameAction:    "game_action",
	TypeGameEvent:     "game_event",
	TypeGameData:      "game_data",
}

func (t PacketType) String() string {
	if int(t) < len(packetTypeNames) {
		return packetTypeNames[t]
	}
	return fmt.Sprintf("packet(%d)", uint8(t))
}

var (
	ErrUnknownPacketType = errors.New("unknown packet type")
	ErrMalformedPacket   = errors.New("malformed packet")
)

// Packet is the envelope of everything sent over a connection. Exactly one
// content field is set, matching Type.
type Packet struct {
	Type   PacketType
	Text   string // request command or response string
	Action *Action
	Event  *Event
	Data   *GameData
}

// Action is a betting decision sent by a client.
type Action struct {
	Action string `msg:"action"` // fold, call, raise, allin
	Amount int    `msg:"amount"`
}

// Event mirrors game.Event on the wire.
type Event struct {
	Code     uint8  `msg:"code"`
	PrevSeat int    `msg:"prev"`
	NextSeat int    `msg:"next"`
	Message  string `msg:"message"`
	Bet      int    `msg:"bet"`
}

func NewRequest(command string) Packet {
	return Packet{Type: TypeBasicRequest, Text: command}
}

func NewResponse(result string) Packet {
	return Packet{Type: TypeBasicResponse, Text: result}
}

func NewAction(action game.Action, amount int) Packet {
	return Packet{Type: TypeGameAction, Action: &Action{Action: action.String(), Amount: amount}}
}

func NewEvent(e game.Event) Packet {
	return Packet{Type: TypeGameEvent, Event: &Event{
		Code:     uint8(e.Code),
		PrevSeat: e.PrevSeat,
		NextSeat: e.NextSeat,
		Message:  e.Message,
		Bet:      e.Bet,
	}}
}

func NewData(d *GameData) Packet {
	return Packet{Type: TypeGameData, Data: d}
}

// GameAction converts the wire action into the engine's vocabulary.
func (a *Action) GameAction() (game.Action, error) {
	return game.ParseAction(a.Action)
}

// GameEvent converts the wire event into the engine's vocabulary.
func (e *Event) GameEvent() (game.Event, error) {
	code := game.EventCode(e.Code)
	if !code.Valid() {
		return game.Event{}, fmt.Errorf("%w: event code %d", ErrMalformedPacket, e.Code)
	}
	return game.Event{
		Code:     code,
		PrevSeat: e.PrevSeat,
		NextSeat: e.NextSeat,
		Message:  e.Message,
		Bet:      e.Bet,
	}, nil
}

// Validate checks that the content field matches the packet type.
func (p *Packet) Validate() error {
	var ok bool
	switch p.Type {
	case TypeBasicRequest, TypeBasicResponse:
		ok = p.Action == nil && p.Event == nil && p.Data == nil
	case TypeGameAction:
		ok = p.Action != nil
	case TypeGameEvent:
		ok = p.Event != nil
	case TypeGameData:
		ok = p.Data != nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPacketType, p.Type)
	}
	if !ok {
		return fmt.Errorf("%w: %s without content", ErrMalformedPacket, p.Type)
	}
	return nil
}
