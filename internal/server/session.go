package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/room"
)

// Session is one client connection. A read pump handles requests in order and
// a write pump drains the send queue.
type Session struct {
	id       uuid.UUID
	conn     protocol.Conn
	registry *Registry
	send     chan protocol.Packet
	logger   *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu   sync.RWMutex
	name string
	room *room.Room
}

func newSession(conn protocol.Conn, registry *Registry, queue int, logger *log.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()
	return &Session{
		id:       id,
		conn:     conn,
		registry: registry,
		send:     make(chan protocol.Packet, queue),
		logger:   logger.WithPrefix("session").With("id", id.String()[:8], "remote", conn.RemoteAddr()),
		ctx:      ctx,
		cancel:   cancel,
		name:     defaultName(conn.RemoteAddr()),
	}
}

// defaultName names a client after its remote port until it picks a name.
func defaultName(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return "Port " + port
	}
	return "Port " + addr
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// RoomCode returns the code of the joined room, or "".
func (s *Session) RoomCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.room == nil {
		return ""
	}
	return s.room.Code()
}

func (s *Session) RemoteAddr() string { return s.conn.RemoteAddr() }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// run pumps the connection until it fails or the session is closed.
func (s *Session) run() {
	go s.writePump()
	s.readPump()
}

// Close tears the connection down. The room is left by the read pump.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.conn.Close()
	})
	return err
}

// Deliver queues a room event, preceded by its sync payload. A client that
// cannot keep up is disconnected.
func (s *Session) Deliver(e game.Event, data *protocol.GameData) {
	if data != nil && !s.enqueue(protocol.NewData(data)) {
		return
	}
	s.enqueue(protocol.NewEvent(e))
}

func (s *Session) enqueue(p protocol.Packet) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.send <- p:
		return true
	default:
		// Called from the room goroutine; tearing the socket down must not
		// wait on it.
		s.logger.Warn("send queue full, closing connection")
		s.cancel()
		go func() { _ = s.Close() }()
		return false
	}
}

func (s *Session) respond(text string) {
	s.enqueue(protocol.NewResponse(text))
}

func (s *Session) readPump() {
	defer func() {
		s.leaveRoom()
		_ = s.Close()
	}()

	for {
		p, err := s.conn.ReadPacket()
		if err != nil {
			switch {
			case s.ctx.Err() != nil, errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				s.logger.Debug("connection closed")
			default:
				s.logger.Warn("read failed, dropping connection", "err", err)
			}
			return
		}
		s.handlePacket(p)
	}
}

func (s *Session) writePump() {
	for {
		select {
		case p := <-s.send:
			if err := s.conn.WritePacket(p); err != nil {
				s.logger.Warn("write failed", "err", err)
				_ = s.Close()
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) handlePacket(p protocol.Packet) {
	switch p.Type {
	case protocol.TypeBasicRequest:
		s.handleRequest(p.Text)
	case protocol.TypeGameAction:
		s.handleAction(p.Action)
	default:
		s.logger.Warn("unexpected packet from client", "type", p.Type)
	}
}

func (s *Session) handleRequest(text string) {
	s.logger.Debug("request", "text", text)
	req, err := protocol.ParseRequest(text)
	if err != nil {
		s.respond(protocol.ErrorResponse(protocol.Reason(err)))
		return
	}

	switch req.Command {
	case protocol.CmdEcho:
		s.respond(req.Arg)
	case protocol.CmdJoin:
		s.respond(s.join(req.Arg))
	case protocol.CmdLeave:
		if !s.leaveRoom() {
			s.respond(protocol.ErrorResponse(protocol.ReasonNotInRoom))
			return
		}
		s.respond(protocol.ResponseSuccess)
	case protocol.CmdName:
		if s.RoomCode() != "" {
			s.respond(protocol.ErrorResponse(protocol.ReasonAlreadyInRoom))
			return
		}
		s.mu.Lock()
		s.name = req.Arg
		s.mu.Unlock()
		s.respond(protocol.ResponseSuccess)
	case protocol.CmdRooms:
		s.respond(strings.Join(s.registry.Codes(), " "))
	}
}

func (s *Session) join(code string) string {
	if s.RoomCode() != "" {
		return protocol.ErrorResponse(protocol.ReasonAlreadyInRoom)
	}
	rm, err := s.registry.Get(code)
	if err != nil {
		return protocol.ErrorResponse(protocol.ReasonRoomNotFound)
	}
	name := s.Name()
	// Set before joining so events delivered during the join are attributed.
	s.mu.Lock()
	s.room = rm
	s.mu.Unlock()
	if err := rm.Join(name, s); err != nil {
		s.mu.Lock()
		s.room = nil
		s.mu.Unlock()
		s.logger.Info("join failed", "room", code, "err", err)
		switch {
		case errors.Is(err, room.ErrNameTaken):
			return protocol.ErrorResponse(protocol.ReasonNameTaken)
		case errors.Is(err, room.ErrRoomFull):
			return protocol.ErrorResponse(protocol.ReasonRoomFull)
		case errors.Is(err, room.ErrRoomClosed):
			return protocol.ErrorResponse(protocol.ReasonRoomNotFound)
		}
		return protocol.ErrorResponse(err.Error())
	}
	s.logger.Info("joined room", "room", code, "name", name)
	return protocol.ResponseSuccess
}

// leaveRoom leaves the joined room, reporting whether there was one.
func (s *Session) leaveRoom() bool {
	s.mu.Lock()
	rm := s.room
	s.room = nil
	s.mu.Unlock()
	if rm == nil {
		return false
	}
	if err := rm.Leave(s.Name()); err != nil && !errors.Is(err, room.ErrRoomClosed) {
		s.logger.Warn("leave failed", "room", rm.Code(), "err", err)
	}
	return true
}

func (s *Session) handleAction(a *protocol.Action) {
	s.mu.RLock()
	rm := s.room
	s.mu.RUnlock()
	if rm == nil {
		s.respond(protocol.ErrorResponse(protocol.ReasonNotInRoom))
		return
	}
	action, err := a.GameAction()
	if err != nil {
		s.respond(protocol.ErrorResponse(err.Error()))
		return
	}
	if err := rm.Act(s.Name(), action, a.Amount); err != nil {
		s.logger.Debug("action rejected", "action", action, "amount", a.Amount, "err", err)
		s.respond(protocol.ErrorResponse(err.Error()))
		return
	}
	s.respond(protocol.ResponseSuccess)
}

func (s *Session) String() string {
	return fmt.Sprintf("%s %q %s", s.id.String()[:8], s.Name(), s.RemoteAddr())
}
