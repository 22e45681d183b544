package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
)

// onEvent observes the game. It runs inside whatever actor operation made the
// game emit, so it only fans out and schedules follow-ups.
func (r *Room) onEvent(e game.Event) {
	r.seq++
	r.logger.Debug("event", "code", e.Code, "prev", e.PrevSeat, "next", e.NextSeat, "msg", e.Message, "bet", e.Bet)
	r.broadcast(e)

	h := r.game.Hand()
	switch e.Code {
	case game.EventNewHand:
		r.handID = newHandID()
		r.logger.Info("new hand", "hand", h.Number(), "id", r.handID, "players", h.NumSeats())
		r.schedule(roomOwner, r.cfg.Timing.StartHand, func() {
			if err := h.Start(); err != nil {
				r.logger.Warn("start hand", "err", err)
			}
		})
	case game.EventRoundFinish:
		r.schedule(roomOwner, r.cfg.Timing.NextRound, func() { r.nextRound(h) })
	case game.EventSkipRound:
		d := r.cfg.Timing.SkipRound + time.Duration(len(h.Community()))*r.cfg.Timing.SkipRoundPerCard
		r.schedule(roomOwner, d, func() { r.nextRound(h) })
	case game.EventShowdown:
		r.logger.Info("hand finished", "hand", h.Number(), "id", r.handID, "winners", h.Winners())
		r.stats.RecordHand(h)
		r.schedule(roomOwner, r.cfg.Timing.ResetHand, r.resetHand)
	}
}

// newHandID returns a time-ordered identifier so hands sort by start time in
// the logs.
func newHandID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (r *Room) nextRound(h *game.Hand) {
	if err := h.NextRound(); err != nil {
		r.logger.Warn("next round", "err", err)
	}
}

func (r *Room) start() {
	r.running = true
	r.game.PrepareNextHand(false)
	r.logger.Info("game starting", "players", r.game.NumPlayers())
	r.broadcast(game.NewEvent(game.EventResetPlayers))
	r.schedule(roomOwner, r.cfg.Timing.Start, r.newHand)
}

func (r *Room) stop(reason string) {
	r.running = false
	r.logger.Info("game stopped", "reason", reason, "players", r.game.NumPlayers())
	r.broadcast(game.NewEvent(game.EventResetPlayers))
}

func (r *Room) newHand() {
	if !r.running {
		return
	}
	if _, err := r.game.NewHand(false); err != nil {
		r.stop(err.Error())
	}
}

// resetHand closes a finished hand: bankrupt players become spectators,
// leavers go, and queued members take the free seats.
func (r *Room) resetHand() {
	r.broadcast(game.NewEvent(game.EventResetHand))

	removed := r.game.PrepareNextHand(true)
	for _, p := range removed {
		if m, ok := r.members[p.Name]; ok {
			m.state = stateSpectating
			r.logger.Info("player bankrupt", "name", p.Name)
		}
	}

	admitted := 0
	for _, name := range r.order {
		m := r.members[name]
		if m.state != stateQueued || r.game.NumPlayers() >= r.cfg.Capacity {
			continue
		}
		if _, err := r.game.AddPlayer(name, r.cfg.StartingChips); err != nil {
			r.logger.Warn("admit queued member", "name", name, "err", err)
			continue
		}
		m.state = stateSeated
		admitted++
	}

	if r.game.NumPlayers() < 2 {
		r.stop("not enough players")
		return
	}
	if len(removed) > 0 || admitted > 0 {
		r.schedule(roomOwner, r.cfg.Timing.ResetPlayers, func() {
			r.broadcast(game.NewEvent(game.EventResetPlayers))
		})
		r.schedule(roomOwner, r.cfg.Timing.NewHandReseated, r.newHand)
		return
	}
	r.schedule(roomOwner, r.cfg.Timing.NewHand, r.newHand)
}

// settle runs after every actor operation. It folds for players who left and
// hands the turn to bots.
func (r *Room) settle() {
	for {
		h := r.game.Hand()
		if h == nil || !h.Started() || h.Ended() || h.RoundFinished() || h.Turn() == game.NoSeat {
			return
		}
		if r.turnSeq == r.seq {
			return
		}
		r.turnSeq = r.seq

		seat := h.Turn()
		name := h.Player(seat).Name
		m, ok := r.members[name]
		switch {
		case !ok:
			r.logger.Debug("folding for departed player", "name", name)
			if err := h.ActAs(seat, game.Fold, 0); err != nil {
				r.logger.Error("auto fold", "name", name, "err", err)
				return
			}
		case m.strategy != nil:
			r.schedule(name, r.cfg.Timing.BotDecision, func() { r.botTurn(h, seat, m) })
			return
		default:
			return
		}
	}
}

func (r *Room) botTurn(h *game.Hand, seat int, m *member) {
	if h != r.game.Hand() || h.Turn() != seat || h.RoundFinished() {
		return
	}
	d := m.strategy.Decide(h.ViewFor(seat))
	r.logger.Debug("bot decision", "name", m.name, "action", d.Action, "amount", d.Amount, "why", d.Reasoning)
	if err := h.Apply(seat, d); err != nil {
		r.logger.Warn("bot action rejected, folding", "name", m.name, "err", err)
		if err := h.ActAs(seat, game.Fold, 0); err != nil {
			r.logger.Error("bot fold", "name", m.name, "err", err)
		}
	}
}

func (r *Room) broadcast(e game.Event) {
	for _, name := range r.order {
		r.send(r.members[name], e)
	}
}

func (r *Room) send(m *member, e game.Event) {
	r.outbox = append(r.outbox, delivery{to: m.sink, event: e, data: r.syncFor(m, e)})
}

func (r *Room) flush() {
	for _, d := range r.outbox {
		d.to.Deliver(d.event, d.data)
	}
	clear(r.outbox)
	r.outbox = r.outbox[:0]
}

// seatOf returns the member's seat, or NoSeat for queued members and
// spectators.
func (r *Room) seatOf(m *member) int {
	if m.state != stateSeated {
		return game.NoSeat
	}
	if p, ok := r.game.Player(m.name); ok {
		return p.Seat
	}
	return game.NoSeat
}

// syncFor builds the payload an event needs, as seen by m.
func (r *Room) syncFor(m *member, e game.Event) *protocol.GameData {
	h := r.game.Hand()
	switch protocol.ExpectedSync(e.Code) {
	case protocol.SyncRoster:
		return protocol.RosterFor(r.game, r.seatOf(m))
	case protocol.SyncDeal:
		return protocol.DealFor(r.game, h, r.seatOf(m))
	case protocol.SyncRound:
		return protocol.RoundFor(h)
	case protocol.SyncShowdown:
		return protocol.ShowdownFor(h)
	case protocol.SyncTable:
		return protocol.TableFor(r.game, h, r.seatOf(m))
	}
	return nil
}

