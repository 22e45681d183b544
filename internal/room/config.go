package room

import (
	"fmt"
	"time"
)

// Timing holds the delays between automatic transitions.
type Timing struct {
	Start            time.Duration // start -> NewHand
	StartHand        time.Duration // NewHand -> blinds
	NextRound        time.Duration // RoundFinish -> next street
	SkipRound        time.Duration // SkipRound -> next street, plus SkipRoundPerCard per community card
	SkipRoundPerCard time.Duration
	ResetHand        time.Duration // Showdown -> ResetHand
	ResetPlayers     time.Duration // ResetHand -> ResetPlayers when the roster changed
	NewHandReseated  time.Duration // ResetHand -> NewHand when the roster changed
	NewHand          time.Duration // ResetHand -> NewHand otherwise
	BotDecision      time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Start:            2 * time.Second,
		StartHand:        2 * time.Second,
		NextRound:        time.Second,
		SkipRound:        2250 * time.Millisecond,
		SkipRoundPerCard: 125 * time.Millisecond,
		ResetHand:        10 * time.Second,
		ResetPlayers:     2500 * time.Millisecond,
		NewHandReseated:  4500 * time.Millisecond,
		NewHand:          3 * time.Second,
		BotDecision:      500 * time.Millisecond,
	}
}

// Config describes a room.
type Config struct {
	Capacity      int
	SmallBlind    int
	StartingChips int
	AutoStart     bool
	Seed          *int64
	Timing        Timing
}

func DefaultConfig() Config {
	return Config{
		Capacity:      10,
		SmallBlind:    25,
		StartingChips: 1000,
		AutoStart:     true,
		Timing:        DefaultTiming(),
	}
}

// Validate checks that the config describes a playable room.
func (c Config) Validate() error {
	if c.Capacity < 2 {
		return fmt.Errorf("capacity must be at least 2, got %d", c.Capacity)
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	}
	if c.StartingChips < 2*c.SmallBlind {
		return fmt.Errorf("starting chips (%d) must cover the big blind (%d)", c.StartingChips, 2*c.SmallBlind)
	}
	return nil
}
