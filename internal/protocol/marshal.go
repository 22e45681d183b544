package protocol

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/poker"
)

// Encode serializes a packet as the msgpack array [type, content].
func Encode(p Packet) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.MarshalMsg(nil)
}

// Decode parses one packet and validates its shape.
func Decode(b []byte) (Packet, error) {
	var p Packet
	rest, err := p.UnmarshalMsg(b)
	if err != nil {
		return Packet{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	if len(rest) != 0 {
		return Packet{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPacket, len(rest))
	}
	if err := p.Validate(); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// MarshalMsg implements msgp.Marshaler
func (p *Packet) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendArrayHeader(b, 2)
	o = msgp.AppendUint8(o, uint8(p.Type))
	switch p.Type {
	case TypeBasicRequest, TypeBasicResponse:
		o = msgp.AppendString(o, p.Text)
	case TypeGameAction:
		o, err = p.Action.MarshalMsg(o)
	case TypeGameEvent:
		o, err = p.Event.MarshalMsg(o)
	case TypeGameData:
		o, err = p.Data.MarshalMsg(o)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownPacketType, p.Type)
	}
	if err != nil {
		err = msgp.WrapError(err, "Content")
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (p *Packet) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var n uint32
	n, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, msgp.ArrayError{Wanted: 2, Got: n}
	}
	var t uint8
	t, bts, err = msgp.ReadUint8Bytes(bts)
	if err != nil {
		return nil, msgp.WrapError(err, "Type")
	}
	*p = Packet{Type: PacketType(t)}
	switch p.Type {
	case TypeBasicRequest, TypeBasicResponse:
		p.Text, bts, err = msgp.ReadStringBytes(bts)
	case TypeGameAction:
		p.Action = new(Action)
		bts, err = p.Action.UnmarshalMsg(bts)
	case TypeGameEvent:
		p.Event = new(Event)
		bts, err = p.Event.UnmarshalMsg(bts)
	case TypeGameData:
		p.Data = new(GameData)
		bts, err = p.Data.UnmarshalMsg(bts)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPacketType, t)
	}
	if err != nil {
		return nil, msgp.WrapError(err, "Content")
	}
	return bts, nil
}

// MarshalMsg implements msgp.Marshaler
func (a *Action) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.AppendMapHeader(b, 2)
	o = msgp.AppendString(o, "action")
	o = msgp.AppendString(o, a.Action)
	o = msgp.AppendString(o, "amount")
	o = msgp.AppendInt(o, a.Amount)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (a *Action) UnmarshalMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "action":
			a.Action, o, err = msgp.ReadStringBytes(bts)
		case "amount":
			a.Amount, o, err = msgp.ReadIntBytes(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

// MarshalMsg implements msgp.Marshaler
func (e *Event) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.AppendMapHeader(b, 5)
	o = msgp.AppendString(o, "code")
	o = msgp.AppendUint8(o, e.Code)
	o = msgp.AppendString(o, "prev")
	o = msgp.AppendInt(o, e.PrevSeat)
	o = msgp.AppendString(o, "next")
	o = msgp.AppendInt(o, e.NextSeat)
	o = msgp.AppendString(o, "message")
	o = msgp.AppendString(o, e.Message)
	o = msgp.AppendString(o, "bet")
	o = msgp.AppendInt(o, e.Bet)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (e *Event) UnmarshalMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "code":
			e.Code, o, err = msgp.ReadUint8Bytes(bts)
		case "prev":
			e.PrevSeat, o, err = msgp.ReadIntBytes(bts)
		case "next":
			e.NextSeat, o, err = msgp.ReadIntBytes(bts)
		case "message":
			e.Message, o, err = msgp.ReadStringBytes(bts)
		case "bet":
			e.Bet, o, err = msgp.ReadIntBytes(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

// MarshalMsg implements msgp.Marshaler. Only the populated schema is written.
func (d *GameData) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendMapHeader(b, 2)
	o = msgp.AppendString(o, "v")
	o = msgp.AppendInt(o, d.Version)
	switch d.Kind() {
	case SyncRoster:
		o = msgp.AppendString(o, "roster")
		o = d.Roster.appendMsg(o)
	case SyncDeal:
		o = msgp.AppendString(o, "deal")
		o = d.Deal.appendMsg(o)
	case SyncRound:
		o = msgp.AppendString(o, "round")
		o = d.Round.appendMsg(o)
	case SyncShowdown:
		o = msgp.AppendString(o, "showdown")
		o = d.Showdown.appendMsg(o)
	case SyncTable:
		o = msgp.AppendString(o, "table")
		o = d.Table.appendMsg(o)
	default:
		return nil, fmt.Errorf("%w: empty game data", ErrMalformedPacket)
	}
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (d *GameData) UnmarshalMsg(bts []byte) ([]byte, error) {
	*d = GameData{}
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "v":
			d.Version, o, err = msgp.ReadIntBytes(bts)
		case "roster":
			d.Roster = new(RosterSync)
			o, err = d.Roster.readMsg(bts)
		case "deal":
			d.Deal = new(DealSync)
			o, err = d.Deal.readMsg(bts)
		case "round":
			d.Round = new(RoundSync)
			o, err = d.Round.readMsg(bts)
		case "showdown":
			d.Showdown = new(ShowdownSync)
			o, err = d.Showdown.readMsg(bts)
		case "table":
			d.Table = new(TableSync)
			o, err = d.Table.readMsg(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

func (r *RosterSync) appendMsg(o []byte) []byte {
	o = msgp.AppendMapHeader(o, 4)
	o = msgp.AppendString(o, "players")
	o = appendPlayers(o, r.Players)
	o = msgp.AppendString(o, "dealer")
	o = msgp.AppendInt(o, r.Dealer)
	o = msgp.AppendString(o, "sb")
	o = msgp.AppendInt(o, r.SmallBlind)
	o = msgp.AppendString(o, "seat")
	o = msgp.AppendInt(o, r.ClientSeat)
	return o
}

func (r *RosterSync) readMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "players":
			r.Players, o, err = readPlayers(bts)
		case "dealer":
			r.Dealer, o, err = msgp.ReadIntBytes(bts)
		case "sb":
			r.SmallBlind, o, err = msgp.ReadIntBytes(bts)
		case "seat":
			r.ClientSeat, o, err = msgp.ReadIntBytes(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

func (d *DealSync) appendMsg(o []byte) []byte {
	o = msgp.AppendMapHeader(o, 6)
	o = msgp.AppendString(o, "players")
	o = appendPlayers(o, d.Players)
	o = msgp.AppendString(o, "dealer")
	o = msgp.AppendInt(o, d.Dealer)
	o = msgp.AppendString(o, "sb")
	o = msgp.AppendInt(o, d.SmallBlind)
	o = msgp.AppendString(o, "hand")
	o = msgp.AppendInt(o, d.HandNumber)
	o = msgp.AppendString(o, "seat")
	o = msgp.AppendInt(o, d.ClientSeat)
	o = msgp.AppendString(o, "pocket")
	o = appendCards(o, d.Pocket)
	return o
}

func (d *DealSync) readMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "players":
			d.Players, o, err = readPlayers(bts)
		case "dealer":
			d.Dealer, o, err = msgp.ReadIntBytes(bts)
		case "sb":
			d.SmallBlind, o, err = msgp.ReadIntBytes(bts)
		case "hand":
			d.HandNumber, o, err = msgp.ReadIntBytes(bts)
		case "seat":
			d.ClientSeat, o, err = msgp.ReadIntBytes(bts)
		case "pocket":
			d.Pocket, o, err = readCards(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

func (r *RoundSync) appendMsg(o []byte) []byte {
	o = msgp.AppendMapHeader(o, 1)
	o = msgp.AppendString(o, "community")
	return appendCards(o, r.Community)
}

func (r *RoundSync) readMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		if key == "community" {
			r.Community, o, err = readCards(bts)
			return
		}
		return msgp.Skip(bts)
	})
}

func (s *ShowdownSync) appendMsg(o []byte) []byte {
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendString(o, "revealed")
	o = msgp.AppendArrayHeader(o, uint32(len(s.Revealed)))
	for _, r := range s.Revealed {
		o = msgp.AppendMapHeader(o, 4)
		o = msgp.AppendString(o, "seat")
		o = msgp.AppendInt(o, r.Seat)
		o = msgp.AppendString(o, "pocket")
		o = appendCards(o, r.Pocket)
		o = msgp.AppendString(o, "ranking")
		o = msgp.AppendString(o, r.Ranking)
		o = msgp.AppendString(o, "score")
		o = msgp.AppendUint32(o, r.Score)
	}
	o = msgp.AppendString(o, "pots")
	o = msgp.AppendArrayHeader(o, uint32(len(s.Pots)))
	for _, p := range s.Pots {
		o = msgp.AppendMapHeader(o, 5)
		o = msgp.AppendString(o, "amount")
		o = msgp.AppendInt(o, p.Amount)
		o = msgp.AppendString(o, "eligible")
		o = appendInts(o, p.Eligible)
		o = msgp.AppendString(o, "winners")
		o = appendInts(o, p.Winners)
		o = msgp.AppendString(o, "refund")
		o = msgp.AppendBool(o, p.Refund)
		o = msgp.AppendString(o, "payouts")
		o = msgp.AppendArrayHeader(o, uint32(len(p.Payouts)))
		for _, pay := range p.Payouts {
			o = msgp.AppendArrayHeader(o, 2)
			o = msgp.AppendInt(o, pay.Seat)
			o = msgp.AppendInt(o, pay.Amount)
		}
	}
	o = msgp.AppendString(o, "chips")
	return appendInts(o, s.Chips)
}

func (s *ShowdownSync) readMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "revealed":
			return readArray(bts, func(bts []byte) ([]byte, error) {
				var r RevealedHand
				o, err := readMap(bts, func(key string, bts []byte) (o []byte, err error) {
					switch key {
					case "seat":
						r.Seat, o, err = msgp.ReadIntBytes(bts)
					case "pocket":
						r.Pocket, o, err = readCards(bts)
					case "ranking":
						r.Ranking, o, err = msgp.ReadStringBytes(bts)
					case "score":
						r.Score, o, err = msgp.ReadUint32Bytes(bts)
					default:
						o, err = msgp.Skip(bts)
					}
					return
				})
				s.Revealed = append(s.Revealed, r)
				return o, err
			})
		case "pots":
			return readArray(bts, func(bts []byte) ([]byte, error) {
				var p PotInfo
				o, err := readMap(bts, func(key string, bts []byte) (o []byte, err error) {
					switch key {
					case "amount":
						p.Amount, o, err = msgp.ReadIntBytes(bts)
					case "eligible":
						p.Eligible, o, err = readInts(bts)
					case "winners":
						p.Winners, o, err = readInts(bts)
					case "refund":
						p.Refund, o, err = msgp.ReadBoolBytes(bts)
					case "payouts":
						o, err = readArray(bts, func(bts []byte) ([]byte, error) {
							pair, o, err := readInts(bts)
							if err == nil && len(pair) != 2 {
								err = msgp.ArrayError{Wanted: 2, Got: uint32(len(pair))}
							}
							if err != nil {
								return nil, err
							}
							p.Payouts = append(p.Payouts, game.Payout{Seat: pair[0], Amount: pair[1]})
							return o, nil
						})
					default:
						o, err = msgp.Skip(bts)
					}
					return
				})
				s.Pots = append(s.Pots, p)
				return o, err
			})
		case "chips":
			s.Chips, o, err = readInts(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

func (t *TableSync) appendMsg(o []byte) []byte {
	o = msgp.AppendMapHeader(o, 14)
	o = msgp.AppendString(o, "players")
	o = appendPlayers(o, t.Players)
	o = msgp.AppendString(o, "dealer")
	o = msgp.AppendInt(o, t.Dealer)
	o = msgp.AppendString(o, "sb")
	o = msgp.AppendInt(o, t.SmallBlind)
	o = msgp.AppendString(o, "hand")
	o = msgp.AppendInt(o, t.HandNumber)
	o = msgp.AppendString(o, "seat")
	o = msgp.AppendInt(o, t.ClientSeat)
	o = msgp.AppendString(o, "started")
	o = msgp.AppendBool(o, t.Started)
	o = msgp.AppendString(o, "blinds")
	o = appendInts(o, t.Blinds[:])
	o = msgp.AppendString(o, "turn")
	o = msgp.AppendInt(o, t.Turn)
	o = msgp.AppendString(o, "to_call")
	o = msgp.AppendInt(o, t.BetToCall)
	o = msgp.AppendString(o, "min_raise")
	o = msgp.AppendInt(o, t.MinRaise)
	o = msgp.AppendString(o, "community")
	o = appendCards(o, t.Community)
	o = msgp.AppendString(o, "seats")
	o = msgp.AppendArrayHeader(o, uint32(len(t.Seats)))
	for _, s := range t.Seats {
		o = msgp.AppendArrayHeader(o, 5)
		o = msgp.AppendBool(o, s.Folded)
		o = msgp.AppendBool(o, s.AllIn)
		o = msgp.AppendInt(o, s.RoundBet)
		o = msgp.AppendInt(o, s.TotalBet)
		o = msgp.AppendString(o, s.LastAction)
	}
	o = msgp.AppendString(o, "round_finished")
	o = msgp.AppendBool(o, t.RoundFinished)
	o = msgp.AppendString(o, "ended")
	o = msgp.AppendBool(o, t.HandEnded)
	return o
}

func (t *TableSync) readMsg(bts []byte) ([]byte, error) {
	return readMap(bts, func(key string, bts []byte) (o []byte, err error) {
		switch key {
		case "players":
			t.Players, o, err = readPlayers(bts)
		case "dealer":
			t.Dealer, o, err = msgp.ReadIntBytes(bts)
		case "sb":
			t.SmallBlind, o, err = msgp.ReadIntBytes(bts)
		case "hand":
			t.HandNumber, o, err = msgp.ReadIntBytes(bts)
		case "seat":
			t.ClientSeat, o, err = msgp.ReadIntBytes(bts)
		case "started":
			t.Started, o, err = msgp.ReadBoolBytes(bts)
		case "blinds":
			var blinds []int
			blinds, o, err = readInts(bts)
			if err == nil && len(blinds) != 2 {
				err = msgp.ArrayError{Wanted: 2, Got: uint32(len(blinds))}
			}
			if err == nil {
				t.Blinds = [2]int{blinds[0], blinds[1]}
			}
		case "turn":
			t.Turn, o, err = msgp.ReadIntBytes(bts)
		case "to_call":
			t.BetToCall, o, err = msgp.ReadIntBytes(bts)
		case "min_raise":
			t.MinRaise, o, err = msgp.ReadIntBytes(bts)
		case "community":
			t.Community, o, err = readCards(bts)
		case "seats":
			o, err = readArray(bts, func(bts []byte) (o []byte, err error) {
				var n uint32
				if n, bts, err = msgp.ReadArrayHeaderBytes(bts); err != nil {
					return nil, err
				}
				if n != 5 {
					return nil, msgp.ArrayError{Wanted: 5, Got: n}
				}
				var s SeatInfo
				if s.Folded, bts, err = msgp.ReadBoolBytes(bts); err != nil {
					return nil, err
				}
				if s.AllIn, bts, err = msgp.ReadBoolBytes(bts); err != nil {
					return nil, err
				}
				if s.RoundBet, bts, err = msgp.ReadIntBytes(bts); err != nil {
					return nil, err
				}
				if s.TotalBet, bts, err = msgp.ReadIntBytes(bts); err != nil {
					return nil, err
				}
				if s.LastAction, bts, err = msgp.ReadStringBytes(bts); err != nil {
					return nil, err
				}
				t.Seats = append(t.Seats, s)
				return bts, nil
			})
		case "round_finished":
			t.RoundFinished, o, err = msgp.ReadBoolBytes(bts)
		case "ended":
			t.HandEnded, o, err = msgp.ReadBoolBytes(bts)
		default:
			o, err = msgp.Skip(bts)
		}
		return
	})
}

// readMap walks a msgpack map, handing each value to field.
func readMap(bts []byte, field func(key string, bts []byte) ([]byte, error)) ([]byte, error) {
	n, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	for range n {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, err
		}
		bts, err = field(string(key), bts)
		if err != nil {
			return nil, msgp.WrapError(err, string(key))
		}
	}
	return bts, nil
}

// readArray walks a msgpack array; a nil value reads as empty.
func readArray(bts []byte, elem func(bts []byte) ([]byte, error)) ([]byte, error) {
	if msgp.IsNil(bts) {
		return msgp.ReadNilBytes(bts)
	}
	n, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	for i := range n {
		if bts, err = elem(bts); err != nil {
			return nil, msgp.WrapError(err, i)
		}
	}
	return bts, nil
}

func appendInts(o []byte, v []int) []byte {
	o = msgp.AppendArrayHeader(o, uint32(len(v)))
	for _, x := range v {
		o = msgp.AppendInt(o, x)
	}
	return o
}

func readInts(bts []byte) (out []int, o []byte, err error) {
	o, err = readArray(bts, func(bts []byte) ([]byte, error) {
		x, rest, err := msgp.ReadIntBytes(bts)
		out = append(out, x)
		return rest, err
	})
	return out, o, err
}

// Cards travel as their two character notation, e.g. "Td".
func appendCards(o []byte, cards []poker.Card) []byte {
	o = msgp.AppendArrayHeader(o, uint32(len(cards)))
	for _, c := range cards {
		o = msgp.AppendString(o, c.String())
	}
	return o
}

func readCards(bts []byte) (out []poker.Card, o []byte, err error) {
	o, err = readArray(bts, func(bts []byte) ([]byte, error) {
		s, rest, err := msgp.ReadStringBytes(bts)
		if err != nil {
			return nil, err
		}
		c, err := poker.ParseCard(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		return rest, nil
	})
	return out, o, err
}

func appendPlayers(o []byte, list []PlayerInfo) []byte {
	o = msgp.AppendArrayHeader(o, uint32(len(list)))
	for _, p := range list {
		o = msgp.AppendArrayHeader(o, 4)
		o = msgp.AppendString(o, p.Name)
		o = msgp.AppendInt(o, p.Chips)
		o = msgp.AppendInt(o, p.Seat)
		o = msgp.AppendBool(o, p.LeaveNextHand)
	}
	return o
}

func readPlayers(bts []byte) (out []PlayerInfo, o []byte, err error) {
	o, err = readArray(bts, func(bts []byte) (rest []byte, err error) {
		var n uint32
		if n, bts, err = msgp.ReadArrayHeaderBytes(bts); err != nil {
			return nil, err
		}
		if n != 4 {
			return nil, msgp.ArrayError{Wanted: 4, Got: n}
		}
		var p PlayerInfo
		if p.Name, bts, err = msgp.ReadStringBytes(bts); err != nil {
			return nil, err
		}
		if p.Chips, bts, err = msgp.ReadIntBytes(bts); err != nil {
			return nil, err
		}
		if p.Seat, bts, err = msgp.ReadIntBytes(bts); err != nil {
			return nil, err
		}
		if p.LeaveNextHand, bts, err = msgp.ReadBoolBytes(bts); err != nil {
			return nil, err
		}
		out = append(out, p)
		return bts, nil
	})
	return out, o, err
}
