package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func run(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	seed := int64(42)
	cfg.Seed = &seed
	cfg.Logger = testLogger()
	return New(cfg)
}

func TestSimulationIsZeroSum(t *testing.T) {
	t.Parallel()
	sim := run(t, Config{Hands: 200, Strategies: []string{"call", "random", "maniac", "fold"}})
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	total := 0.0
	for _, name := range sim.SeatNames() {
		s, ok := stats.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, 200, s.Hands, name)
		assert.True(t, s.IsLedgerBalanced(), name)
		total += s.SumBB
	}
	assert.InDelta(t, 0, total, 1e-6)
}

func TestSimulationIsReproducible(t *testing.T) {
	t.Parallel()
	cfg := Config{Hands: 50, Strategies: []string{"random", "maniac", "call"}}
	a, err := run(t, cfg).Run(context.Background())
	require.NoError(t, err)
	b, err := run(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Summaries(), b.Summaries())
}

func TestSimulationRejectsBadConfig(t *testing.T) {
	t.Parallel()
	_, err := run(t, Config{Hands: 1, Strategies: []string{"call"}}).Run(context.Background())
	assert.ErrorIs(t, err, game.ErrInsufficientPlayers)

	_, err = run(t, Config{Hands: 1, Strategies: []string{"call", "shark"}}).Run(context.Background())
	assert.ErrorIs(t, err, bot.ErrUnknownStrategy)
}

func TestSimulationStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := run(t, Config{Hands: 10, Strategies: []string{"call", "call"}}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stats.Summaries())
}
