package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/poker"
)

// ManiacBot raises with anything decent and shoves its best hands.
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(v game.View) game.Decision {
	strong, decent := m.strength(v)

	switch {
	case strong && v.CanRaise():
		return game.Decision{Action: game.AllIn, Reasoning: "maniac shove"}
	case decent && v.CanRaise() && m.rng.Float64() < 0.85:
		// Pot sized raise, never below the minimum.
		target := max(v.MinRaiseTo, v.BetToCall+v.Pot)
		return game.Decision{Action: game.Raise, Amount: target, Reasoning: "maniac big raise"}
	}
	m.logger.Debug("maniac calling", "seat", v.Seat, "to_call", v.ToCall())
	return check("maniac calling")
}

func (m *ManiacBot) strength(v game.View) (strong, decent bool) {
	if v.Ranking != nil {
		return v.Ranking.Type >= poker.ThreeOfAKind, v.Ranking.Type >= poker.Pair
	}
	if len(v.Pocket) < 2 {
		return false, false
	}
	switch poker.CategorizeHoleCards(v.Pocket[0], v.Pocket[1]) {
	case poker.CategoryPremium:
		return true, true
	case poker.CategoryStrong, poker.CategoryMedium:
		return false, true
	}
	return false, false
}
