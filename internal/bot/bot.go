// Package bot holds the built-in decision strategies that can fill seats.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
)

var ErrUnknownStrategy = errors.New("unknown bot strategy")

type factory func(rng *rand.Rand, logger *log.Logger) game.Strategy

var registry = map[string]factory{
	"call":   func(_ *rand.Rand, l *log.Logger) game.Strategy { return NewCallBot(l) },
	"fold":   func(_ *rand.Rand, l *log.Logger) game.Strategy { return NewFoldBot(l) },
	"random": func(r *rand.Rand, l *log.Logger) game.Strategy { return NewRandBot(r, l) },
	"maniac": func(r *rand.Rand, l *log.Logger) game.Strategy { return NewManiacBot(r, l) },
}

// Names lists the registered strategies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Known reports whether name is a registered strategy.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// New builds the named strategy.
func New(name string, rng *rand.Rand, logger *log.Logger) (game.Strategy, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
	return f(rng, logger.WithPrefix("bot").With("strategy", name)), nil
}

func check(reason string) game.Decision {
	return game.Decision{Action: game.Call, Reasoning: reason}
}
