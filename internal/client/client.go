// Package client connects to an Allin server, mirrors the rooms it joins and
// can hand its seat to a strategy.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
)

// DefaultRequestTimeout bounds how long a request waits for its response.
const DefaultRequestTimeout = 3 * time.Second

const messageQueue = 256

var (
	ErrRequestTimeout = errors.New("request timed out")
	ErrMissingSync    = errors.New("event arrived without its sync data")
	ErrClosed         = errors.New("session closed")
)

// Message is one game event together with the sync payload sent ahead of it.
type Message struct {
	Event game.Event
	Data  *protocol.GameData
}

// Option configures a Session.
type Option func(*Session)

func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRequestTimeout sets the request timeout; zero keeps the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Session is a client connection. Requests are answered strictly in order,
// so only one is in flight at a time; game events are queued for Next.
type Session struct {
	conn    protocol.Conn
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	slot      chan struct{}
	responses chan string
	messages  chan Message

	mu       sync.Mutex
	inflight bool
	stale    int // responses still owed to requests that gave up

	done      chan struct{}
	closeOnce sync.Once
	err       error // why the read loop stopped; set before done closes
}

// Dial connects over TCP.
func Dial(ctx context.Context, addr string, opts ...Option) (*Session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewSession(protocol.NewStreamConn(conn), opts...), nil
}

// DialWS connects to the websocket endpoint at url, e.g. ws://host:32728/ws.
func DialWS(ctx context.Context, url string, opts ...Option) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewSession(protocol.NewWSConn(conn), opts...), nil
}

// NewSession wraps an established connection and starts reading from it.
func NewSession(conn protocol.Conn, opts ...Option) *Session {
	s := &Session{
		conn:      conn,
		clock:     quartz.NewReal(),
		timeout:   DefaultRequestTimeout,
		logger:    log.Default(),
		slot:      make(chan struct{}, 1),
		responses: make(chan string, 1),
		messages:  make(chan Message, messageQueue),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("client").With("remote", conn.RemoteAddr())
	go s.readLoop()
	return s
}

// Done is closed once the connection is gone.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the session ended, after Done is closed.
func (s *Session) Err() error {
	<-s.done
	return s.err
}

func (s *Session) Close() error {
	return s.conn.Close()
}

func (s *Session) readLoop() {
	var err error
	defer func() {
		s.closeOnce.Do(func() {
			s.err = err
			close(s.done)
		})
	}()

	var pending *protocol.GameData
	for {
		var p protocol.Packet
		if p, err = s.conn.ReadPacket(); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				s.logger.Debug("connection closed")
			} else {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}

		switch p.Type {
		case protocol.TypeBasicResponse:
			s.deliverResponse(p.Text)

		case protocol.TypeGameData:
			if pending != nil {
				s.logger.Warn("sync data overwritten before its event", "kind", pending.Kind())
			}
			pending = p.Data

		case protocol.TypeGameEvent:
			ev, perr := p.Event.GameEvent()
			if perr != nil {
				s.logger.Warn("dropping event", "error", perr)
				pending = nil
				continue
			}
			msg := Message{Event: ev, Data: pending}
			pending = nil
			select {
			case s.messages <- msg:
			default:
				err = fmt.Errorf("message queue full at %s", ev.Code)
				s.logger.Error("falling behind the server, disconnecting", "queue", messageQueue)
				_ = s.conn.Close()
				return
			}

		default:
			s.logger.Warn("unexpected packet", "type", p.Type)
		}
	}
}

func (s *Session) deliverResponse(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.stale > 0:
		s.stale--
		s.logger.Debug("discarding late response", "response", text)
	case s.inflight:
		s.inflight = false
		s.responses <- text
	default:
		s.logger.Warn("unsolicited response", "response", text)
	}
}

// Request sends a basic request and returns the server's answer. An ERROR
// answer comes back as an error wrapping protocol.ErrRequestFailed.
func (s *Session) Request(ctx context.Context, command string) (string, error) {
	text, err := s.roundTrip(ctx, protocol.NewRequest(command))
	if err != nil {
		return "", err
	}
	return protocol.ParseResponse(text)
}

// Act submits a betting action on the client's turn.
func (s *Session) Act(ctx context.Context, action game.Action, amount int) error {
	text, err := s.roundTrip(ctx, protocol.NewAction(action, amount))
	if err != nil {
		return err
	}
	_, err = protocol.ParseResponse(text)
	return err
}

// Join enters a room by code.
func (s *Session) Join(ctx context.Context, code string) error {
	_, err := s.Request(ctx, protocol.CmdJoin+" "+code)
	return err
}

// Leave leaves the current room.
func (s *Session) Leave(ctx context.Context) error {
	_, err := s.Request(ctx, protocol.CmdLeave)
	return err
}

// SetName changes the name used on the next join.
func (s *Session) SetName(ctx context.Context, name string) error {
	_, err := s.Request(ctx, protocol.CmdName+" "+name)
	return err
}

func (s *Session) roundTrip(ctx context.Context, p protocol.Packet) (string, error) {
	select {
	case <-s.done:
		return "", ErrClosed
	default:
	}
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.done:
		return "", ErrClosed
	}
	defer func() { <-s.slot }()

	s.mu.Lock()
	s.inflight = true
	s.mu.Unlock()

	if err := s.conn.WritePacket(p); err != nil {
		s.mu.Lock()
		s.inflight = false
		s.mu.Unlock()
		select {
		case <-s.done:
			return "", ErrClosed
		default:
		}
		return "", fmt.Errorf("send %s: %w", p.Type, err)
	}

	timer := s.clock.NewTimer(s.timeout, "client", "request")
	defer timer.Stop()

	select {
	case text := <-s.responses:
		return text, nil
	case <-timer.C:
		return s.abandon(ErrRequestTimeout)
	case <-ctx.Done():
		return s.abandon(ctx.Err())
	case <-s.done:
		return "", ErrClosed
	}
}

// abandon gives up on the request in flight. Its response may still arrive;
// it is then discarded instead of answering the next request.
func (s *Session) abandon(err error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inflight {
		// Answered while we were timing out.
		return <-s.responses, nil
	}
	s.inflight = false
	s.stale++
	return "", err
}

// Next returns the next game event. Events that change mirrored state must
// carry a matching sync payload; ErrMissingSync means the mirror can no
// longer be trusted.
func (s *Session) Next(ctx context.Context) (Message, error) {
	var msg Message
	select {
	case msg = <-s.messages:
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-s.done:
		// Drain what arrived before the connection went away.
		select {
		case msg = <-s.messages:
		default:
			return Message{}, ErrClosed
		}
	}

	if msg.Data == nil {
		if msg.Event.Code.RequiresSync() {
			s.logger.Error("protocol violation", "event", msg.Event.Code, "error", ErrMissingSync)
			return msg, fmt.Errorf("%w: %s", ErrMissingSync, msg.Event.Code)
		}
		return msg, nil
	}
	if err := msg.Data.Check(msg.Event.Code); err != nil {
		s.logger.Error("protocol violation", "event", msg.Event.Code, "error", err)
		return msg, err
	}
	return msg, nil
}

// Run feeds events to handle until ctx ends, the connection closes or
// handle fails.
func (s *Session) Run(ctx context.Context, handle func(Message) error) error {
	for {
		msg, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if err := handle(msg); err != nil {
			return err
		}
	}
}
