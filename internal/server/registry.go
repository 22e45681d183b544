package server

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/room"
)

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room does not exist")
)

// Registry tracks the rooms of a server by code.
type Registry struct {
	logger *log.Logger
	clock  quartz.Clock
	mu     sync.RWMutex
	rooms  map[string]*room.Room
}

func NewRegistry(logger *log.Logger, clock quartz.Clock) *Registry {
	return &Registry{
		logger: logger,
		clock:  clock,
		rooms:  make(map[string]*room.Room),
	}
}

// Create opens a room under code.
func (r *Registry) Create(code string, cfg room.Config) (*room.Room, error) {
	if !protocol.ValidRoomCode(code) {
		return nil, fmt.Errorf("%s: %s", protocol.ReasonInvalidRoomCode, code)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("room %s: %w", code, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[code]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, code)
	}
	rm := room.New(code, cfg, r.clock, r.logger)
	r.rooms[code] = rm
	return rm, nil
}

// Get looks a room up by code.
func (r *Registry) Get(code string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return rm, nil
}

// Delete closes and forgets a room.
func (r *Registry) Delete(code string) bool {
	r.mu.Lock()
	rm, ok := r.rooms[code]
	delete(r.rooms, code)
	r.mu.Unlock()
	if ok {
		rm.Close()
	}
	return ok
}

// Codes returns the room codes in order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// List summarizes every room. Rooms closed concurrently are skipped.
func (r *Registry) List() []room.Summary {
	summaries := make([]room.Summary, 0)
	for _, code := range r.Codes() {
		rm, err := r.Get(code)
		if err != nil {
			continue
		}
		s, err := rm.Summary()
		if err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// CloseAll closes every room.
func (r *Registry) CloseAll() {
	for _, code := range r.Codes() {
		r.Delete(code)
	}
}
