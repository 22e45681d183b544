package main

import (
	"fmt"
	"time"

	"github.com/patrickkosasih/Allin/cmd/allin/shared"
	"github.com/patrickkosasih/Allin/internal/simulator"
	"github.com/patrickkosasih/Allin/internal/statistics"
)

// SimulateCmd plays bots against each other offline and prints a leaderboard.
type SimulateCmd struct {
	Strategies    []string `arg:"" help:"One strategy per seat (call, fold, random, maniac)"`
	Hands         int      `short:"n" default:"10000" help:"Number of hands to play"`
	SmallBlind    int      `default:"25" help:"Small blind"`
	StartingChips int      `default:"1000" help:"Stack every hand starts with"`
	Seed          *int64   `help:"RNG seed (random when unset)"`
	LogLevel      string   `short:"l" default:"warn" env:"ALLIN_LOG_LEVEL" help:"Log level (debug|info|warn|error)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger, err := shared.NewLogger(c.LogLevel, g.Debug, g.LogJSON)
	if err != nil {
		return err
	}
	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Hands:         c.Hands,
		Strategies:    c.Strategies,
		SmallBlind:    c.SmallBlind,
		StartingChips: c.StartingChips,
		Seed:          c.Seed,
		Logger:        logger,
	})
	start := time.Now()
	stats, err := sim.Run(ctx)
	if stats != nil && len(stats.Summaries()) > 0 {
		fmt.Println(statistics.Render(stats.Summaries()))
		fmt.Printf("%d hands in %s\n", c.Hands, time.Since(start).Round(time.Millisecond))
	}
	return err
}
