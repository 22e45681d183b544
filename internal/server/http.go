package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/room"
)

// Handler serves the websocket transport and the read-only HTTP endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/rooms", s.handleRooms)
	r.Get("/rooms/{code}/stats", s.handleRoomStats)
	return r
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "err", err)
		return
	}
	s.ServeConn(protocol.NewWSConn(conn))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleRooms(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.List()); err != nil {
		s.logger.Warn("encode room list", "err", err)
	}
}

func (s *Server) handleRoomStats(w http.ResponseWriter, r *http.Request) {
	rm, err := s.registry.Get(chi.URLParam(r, "code"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	stats, err := rm.Stats()
	if errors.Is(err, room.ErrRoomClosed) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Warn("encode room stats", "err", err)
	}
}
