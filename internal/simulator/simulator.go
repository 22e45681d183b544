// Package simulator plays hands between built-in strategies without a
// server, for comparing bots.
package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/internal/statistics"
)

// maxActions bounds a single hand so a broken strategy cannot spin forever.
const maxActions = 1000

var ErrStuckHand = errors.New("hand did not finish")

// Config describes a simulation.
type Config struct {
	Hands         int
	Strategies    []string // one seat per entry
	SmallBlind    int
	StartingChips int
	Seed          *int64
	Logger        *log.Logger
}

// Simulator runs hands between bots.
type Simulator struct {
	config Config
}

func New(config Config) *Simulator {
	if config.SmallBlind <= 0 {
		config.SmallBlind = game.DefaultSmallBlind
	}
	if config.StartingChips <= 0 {
		config.StartingChips = 100 * 2 * config.SmallBlind
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// SeatNames returns the player name used for each strategy, e.g. "random#2".
func (s *Simulator) SeatNames() []string {
	names := make([]string, len(s.config.Strategies))
	for i, strategy := range s.config.Strategies {
		names[i] = fmt.Sprintf("%s#%d", strategy, i+1)
	}
	return names
}

// Run plays the configured number of hands. Every hand starts from full
// stacks and the button moves each hand.
func (s *Simulator) Run(ctx context.Context) (*statistics.Tracker, error) {
	if len(s.config.Strategies) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 strategies", game.ErrInsufficientPlayers)
	}
	rng, seed := randutil.Resolve(s.config.Seed)
	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("simulation starting", "hands", s.config.Hands, "seats", len(s.config.Strategies), "seed", seed)

	g := game.NewGame(game.WithSmallBlind(s.config.SmallBlind), game.WithRNG(randutil.Derive(rng)))
	strategies := make(map[string]game.Strategy)
	for i, name := range s.SeatNames() {
		strategy, err := bot.New(s.config.Strategies[i], randutil.Derive(rng), logger)
		if err != nil {
			return nil, err
		}
		strategies[name] = strategy
		if _, err := g.AddPlayer(name, s.config.StartingChips); err != nil {
			return nil, err
		}
	}

	stats := statistics.NewTracker()
	for n := range s.config.Hands {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for _, p := range g.Players() {
			p.Chips = s.config.StartingChips
		}
		h, err := g.NewHand(n > 0)
		if err != nil {
			return stats, err
		}
		if err := playHand(h, strategies); err != nil {
			return stats, fmt.Errorf("hand %d (seed %d): %w", h.Number(), seed, err)
		}
		stats.RecordHand(h)
		logger.Debug("hand finished", "hand", h.Number(), "winners", h.Winners())
	}
	return stats, nil
}

func playHand(h *game.Hand, strategies map[string]game.Strategy) error {
	if err := h.Start(); err != nil {
		return err
	}
	for range maxActions {
		switch {
		case h.Ended():
			return nil
		case h.RoundFinished():
			if err := h.NextRound(); err != nil {
				return err
			}
		default:
			seat := h.Turn()
			d := strategies[h.Player(seat).Name].Decide(h.ViewFor(seat))
			if err := h.Apply(seat, d); err != nil {
				if err := h.ActAs(seat, game.Fold, 0); err != nil {
					return err
				}
			}
		}
	}
	return ErrStuckHand
}
