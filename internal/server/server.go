// Package server accepts client connections over TCP and websockets and
// routes their requests to rooms.
package server

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/internal/room"
)

// Server owns the listeners, the sessions and the room registry.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	clock    quartz.Clock
	registry *Registry
	timing   room.Timing
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*Session]struct{}
	closed   bool
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a server and opens the rooms named in cfg.
func New(cfg *Config, logger *log.Logger, clock quartz.Clock) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timing, err := cfg.RoomTiming()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		logger:   logger.WithPrefix("server"),
		clock:    clock,
		registry: NewRegistry(logger, clock),
		timing:   timing,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[*Session]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, rc := range cfg.Rooms {
		rm, err := s.registry.Create(rc.Code, cfg.roomConfig(rc, timing))
		if err != nil {
			s.registry.CloseAll()
			return nil, err
		}
		rng, _ := randutil.Resolve(rc.Seed)
		for _, bc := range rc.Bots {
			if err := s.seatBot(rm, bc.Strategy, bc.Name, randutil.Derive(rng)); err != nil {
				s.registry.CloseAll()
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Server) Registry() *Registry { return s.registry }

// CreateRoom opens a room with the default room settings.
func (s *Server) CreateRoom(code string) (*room.Room, error) {
	d := room.DefaultConfig()
	rc := RoomConfig{Code: code, Capacity: d.Capacity, SmallBlind: d.SmallBlind, StartingChips: d.StartingChips}
	return s.registry.Create(code, s.cfg.roomConfig(rc, s.timing))
}

// AddBot seats a server-side bot in the room.
func (s *Server) AddBot(code, strategy, name string) error {
	rm, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	rng, _ := randutil.Resolve(nil)
	return s.seatBot(rm, strategy, name, rng)
}

func (s *Server) seatBot(rm *room.Room, strategy, name string, rng *rand.Rand) error {
	st, err := bot.New(strategy, rng, s.logger)
	if err != nil {
		return err
	}
	if name == "" {
		name = fmt.Sprintf("%s bot", strings.ToUpper(strategy[:1])+strategy[1:])
	}
	if err := rm.AddBot(name, st); err != nil {
		return fmt.Errorf("seat bot %s in %s: %w", name, rm.Code(), err)
	}
	s.logger.Info("bot seated", "room", rm.Code(), "name", name, "strategy", strategy)
	return nil
}

// Run listens on the configured addresses until ctx is cancelled or Shutdown
// is called.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Address, err)
	}
	s.logger.Info("listening", "transport", "tcp", "addr", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Serve(ln) })

	var httpSrv *http.Server
	if addr := s.cfg.Server.WSAddress; addr != "-" {
		httpSrv = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
		s.logger.Info("listening", "transport", "websocket", "addr", addr)
		g.Go(func() error {
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.ctx.Done():
		}
		s.Shutdown()
		_ = ln.Close()
		if httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}
		return nil
	})
	return g.Wait()
}

// Serve accepts stream connections from ln until it is closed.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.ServeConn(protocol.NewStreamConn(conn))
	}
}

// ServeConn starts a session on conn and returns immediately.
func (s *Server) ServeConn(conn protocol.Conn) *Session {
	sess := newSession(conn, s.registry, s.cfg.Server.SendQueue, s.logger)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return sess
	}
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()
	s.logger.Info("client connected", "session", sess)

	go func() {
		defer s.wg.Done()
		sess.run()
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "session", sess)
	}()
	return sess
}

// Sessions returns the connected sessions ordered by remote address.
func (s *Server) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		out = append(out, sess)
	}
	slices.SortFunc(out, func(a, b *Session) int { return strings.Compare(a.RemoteAddr(), b.RemoteAddr()) })
	return out
}

// Shutdown closes every session, waits for them to leave their rooms and
// closes the rooms. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	s.logger.Info("shutting down", "sessions", len(sessions))
	for _, sess := range sessions {
		_ = sess.Close()
	}
	s.wg.Wait()
	s.registry.CloseAll()
	s.cancel()
}
