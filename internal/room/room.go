// Package room runs poker rooms. Each room is an actor: one goroutine owns
// the game and executes every mutation, whether it comes from a member, a
// timer or a bot.
package room

import (
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/internal/statistics"
)

var (
	ErrNameTaken   = errors.New("name already taken")
	ErrRoomFull    = errors.New("room is full")
	ErrNotMember   = errors.New("not a member of this room")
	ErrNotYourTurn = game.ErrNotYourTurn
	ErrRoomClosed  = errors.New("room is closed")
	ErrGameRunning = errors.New("game already running")
	ErrNotSeated   = errors.New("not seated at the table")
)

// Member receives the room's events. Deliver is called from the room's
// goroutine and must not block.
type Member interface {
	Deliver(e game.Event, data *protocol.GameData)
}

type memberState uint8

const (
	stateSeated memberState = iota
	stateQueued
	stateSpectating
)

type member struct {
	name     string
	sink     Member
	state    memberState
	strategy game.Strategy // nil for remote players
}

type delivery struct {
	to    Member
	event game.Event
	data  *protocol.GameData
}

type request struct {
	fn   func()
	done chan struct{}
}

// Room is a table that members join by code.
type Room struct {
	code   string
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger

	ops       chan request
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// Owned by the actor goroutine.
	game    *game.Game
	members map[string]*member
	order   []string // join order
	running bool
	outbox  []delivery
	timers  map[uint64]*pendingTimer
	timerID uint64
	seq     uint64 // game events seen
	turnSeq uint64 // seq at which the current turn was handled
	stats   *statistics.Tracker
	handID  string
}

// New creates a room and starts its actor goroutine.
func New(code string, cfg Config, clock quartz.Clock, logger *log.Logger) *Room {
	rng, seed := randutil.Resolve(cfg.Seed)
	r := &Room{
		code:    code,
		cfg:     cfg,
		clock:   clock,
		logger:  logger.WithPrefix("room").With("room", code),
		ops:     make(chan request),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		members: make(map[string]*member),
		timers:  make(map[uint64]*pendingTimer),
		stats:   statistics.NewTracker(),
	}
	r.game = game.NewGame(
		game.WithSmallBlind(cfg.SmallBlind),
		game.WithRNG(rng),
		game.WithObserver(r.onEvent),
	)
	r.logger.Debug("room created", "seed", seed, "capacity", cfg.Capacity)
	go r.loop()
	return r
}

func (r *Room) Code() string { return r.code }

func (r *Room) loop() {
	defer close(r.stopped)
	for {
		select {
		case req := <-r.ops:
			req.fn()
			r.settle()
			r.flush()
			close(req.done)
		case <-r.done:
			r.stopTimers()
			return
		}
	}
}

// post runs fn on the actor and waits for it, including the fan-out it caused.
func (r *Room) post(fn func()) bool {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case r.ops <- req:
	case <-r.done:
		return false
	}
	<-req.done
	return true
}

func (r *Room) do(fn func() error) error {
	var err error
	if !r.post(func() { err = fn() }) {
		return ErrRoomClosed
	}
	return err
}

// Close stops the room and all of its timers.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	<-r.stopped
}

// Join adds a member. While a game runs the member is queued until the next
// hand boundary and is brought up to date with the current table.
func (r *Room) Join(name string, sink Member) error {
	return r.do(func() error {
		return r.join(&member{name: name, sink: sink})
	})
}

// AddBot seats a member whose turns are played by strategy.
func (r *Room) AddBot(name string, strategy game.Strategy) error {
	return r.do(func() error {
		return r.join(&member{name: name, sink: discard{}, strategy: strategy})
	})
}

func (r *Room) join(m *member) error {
	if _, ok := r.members[m.name]; ok {
		return ErrNameTaken
	}
	if _, ok := r.game.Player(m.name); ok {
		return ErrNameTaken
	}
	if r.occupancy() >= r.cfg.Capacity {
		return ErrRoomFull
	}
	r.members[m.name] = m
	r.order = append(r.order, m.name)
	r.logger.Info("member joined", "name", m.name, "bot", m.strategy != nil, "running", r.running)

	if !r.running {
		if _, err := r.game.AddPlayer(m.name, r.cfg.StartingChips); err != nil {
			r.drop(m.name)
			return err
		}
		m.state = stateSeated
		r.broadcast(game.NewEvent(game.EventResetPlayers))
		if r.cfg.AutoStart && r.game.NumPlayers() >= 2 {
			r.start()
		}
		return nil
	}

	m.state = stateQueued
	if h := r.game.Hand(); h == nil || h.Ended() {
		r.send(m, game.NewEvent(game.EventResetPlayers))
	} else {
		r.send(m, game.NewEvent(game.EventJoinMidGame))
	}
	return nil
}

// Leave removes a member. A seated player leaving mid-hand keeps their seat
// until the hand ends and folds whenever the turn reaches them.
func (r *Room) Leave(name string) error {
	return r.do(func() error {
		m, ok := r.members[name]
		if !ok {
			return ErrNotMember
		}
		r.drop(name)
		r.cancelOwner(name)
		r.logger.Info("member left", "name", name)
		if m.state != stateSeated {
			return nil
		}
		p, _ := r.game.Player(name)
		seat := p.Seat
		removed, err := r.game.RemovePlayer(name)
		if err != nil {
			return err
		}
		if removed {
			r.broadcast(game.NewEvent(game.EventResetPlayers))
			return nil
		}
		// Their turn may already be up; let settle fold for them.
		if h := r.game.Hand(); h != nil && h.Turn() == seat {
			r.turnSeq = 0
		}
		return nil
	})
}

// Act plays a betting action for a seated member.
func (r *Room) Act(name string, action game.Action, amount int) error {
	return r.do(func() error {
		m, ok := r.members[name]
		if !ok {
			return ErrNotMember
		}
		if m.state != stateSeated {
			return ErrNotSeated
		}
		h := r.game.Hand()
		if h == nil {
			return game.ErrHandNotStarted
		}
		p, _ := r.game.Player(name)
		return h.ActAs(p.Seat, action, amount)
	})
}

// Start begins the game without waiting for auto-start.
func (r *Room) Start() error {
	return r.do(func() error {
		if r.running {
			return ErrGameRunning
		}
		if r.game.NumPlayers() < 2 {
			return game.ErrInsufficientPlayers
		}
		r.start()
		return nil
	})
}

// Summary is a snapshot of a room for listings.
type Summary struct {
	Code       string `json:"code"`
	Players    int    `json:"players"`
	Queued     int    `json:"queued"`
	Spectators int    `json:"spectators"`
	Capacity   int    `json:"capacity"`
	Running    bool   `json:"running"`
	Hands      int    `json:"hands"`
}

func (r *Room) Summary() (Summary, error) {
	var s Summary
	err := r.do(func() error {
		s = Summary{
			Code:     r.code,
			Players:  r.game.NumPlayers(),
			Capacity: r.cfg.Capacity,
			Running:  r.running,
			Hands:    r.game.HandCount(),
		}
		for _, m := range r.members {
			switch m.state {
			case stateQueued:
				s.Queued++
			case stateSpectating:
				s.Spectators++
			}
		}
		return nil
	})
	return s, err
}

// Stats summarizes the results of every player who finished a hand here.
func (r *Room) Stats() ([]statistics.Summary, error) {
	var out []statistics.Summary
	err := r.do(func() error {
		out = r.stats.Summaries()
		return nil
	})
	return out, err
}

func (r *Room) occupancy() int {
	n := r.game.NumPlayers()
	for _, m := range r.members {
		if m.state == stateQueued {
			n++
		}
	}
	return n
}

func (r *Room) drop(name string) {
	delete(r.members, name)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == name })
}

type discard struct{}

func (discard) Deliver(game.Event, *protocol.GameData) {}
