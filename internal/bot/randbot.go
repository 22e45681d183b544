package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
)

// RandBot makes cheap random decisions driven by the size of the bet it faces.
// A quarter of the time it raises by one to four units of 25 chips; a rare
// roll shoves; otherwise it calls small bets and folds to large ones.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(v game.View) game.Decision {
	d := r.decide(v, r.rng.IntN(100), r.rng.IntN(100))
	r.logger.Debug("rand decision", "seat", v.Seat, "action", d.Action, "amount", d.Amount, "to_call", v.ToCall())
	return d
}

// decide maps the two rolls x and y, both in [0, 100), to a decision.
func (r *RandBot) decide(v game.View, x, y int) game.Decision {
	switch {
	case x < 25:
		// Too small a raise is rejected and replaced by a call.
		return game.Decision{
			Action:    game.Raise,
			Amount:    v.RoundBet + 25*(1+r.rng.IntN(4)),
			Reasoning: "rand-bot raising",
		}
	case x == 69 && y > 9 && y <= 69:
		return game.Decision{Action: game.AllIn, Reasoning: "rand-bot shoving"}
	case v.BetToCall > 0 && v.ToCall() > 0:
		// Calls with probability 50/BetToCall.
		if y*v.BetToCall < 5000 {
			return check("rand-bot calling")
		}
		return game.Decision{Action: game.Fold, Reasoning: "rand-bot folding to a big bet"}
	}
	return check("rand-bot checking")
}
