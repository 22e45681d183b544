package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/room"
)

const (
	DefaultAddress   = "localhost:32727"
	DefaultWSAddress = "localhost:32728"
	DefaultLogLevel  = "info"
	DefaultSendQueue = 256
)

// Config is the server configuration.
type Config struct {
	Server ServerSettings
	Timing *TimingConfig
	Rooms  []RoomConfig
}

// fileConfig is the HCL shape of Config; every top-level block is optional.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Timing *TimingConfig   `hcl:"timing,block"`
	Rooms  []RoomConfig    `hcl:"room,block"`
}

// ServerSettings holds listener and logging settings.
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	WSAddress string `hcl:"websocket_address,optional"` // "-" disables the HTTP listener
	LogLevel  string `hcl:"log_level,optional"`
	SendQueue int    `hcl:"send_queue,optional"`
}

// RoomConfig defines a room created at startup.
type RoomConfig struct {
	Code          string      `hcl:"code,label"`
	Capacity      int         `hcl:"capacity,optional"`
	SmallBlind    int         `hcl:"small_blind,optional"`
	StartingChips int         `hcl:"starting_chips,optional"`
	AutoStart     *bool       `hcl:"auto_start,optional"`
	Seed          *int64      `hcl:"seed,optional"`
	Bots          []BotConfig `hcl:"bot,block"`
}

// BotConfig seats a server-side bot in a room.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
}

// TimingConfig overrides transition delays, written as Go durations ("2.5s").
type TimingConfig struct {
	Start            string `hcl:"start,optional"`
	StartHand        string `hcl:"start_hand,optional"`
	NextRound        string `hcl:"next_round,optional"`
	SkipRound        string `hcl:"skip_round,optional"`
	SkipRoundPerCard string `hcl:"skip_round_per_card,optional"`
	ResetHand        string `hcl:"reset_hand,optional"`
	ResetPlayers     string `hcl:"reset_players,optional"`
	NewHandReseated  string `hcl:"new_hand_reseated,optional"`
	NewHand          string `hcl:"new_hand,optional"`
	BotDecision      string `hcl:"bot_decision,optional"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads an HCL configuration file. A missing file yields defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg := Config{Timing: fc.Timing, Rooms: fc.Rooms}
	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.WSAddress == "" {
		c.Server.WSAddress = DefaultWSAddress
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Server.SendQueue == 0 {
		c.Server.SendQueue = DefaultSendQueue
	}
	defaults := room.DefaultConfig()
	for i := range c.Rooms {
		r := &c.Rooms[i]
		if r.Capacity == 0 {
			r.Capacity = defaults.Capacity
		}
		if r.SmallBlind == 0 {
			r.SmallBlind = defaults.SmallBlind
		}
		if r.StartingChips == 0 {
			r.StartingChips = defaults.StartingChips
		}
		if r.AutoStart == nil {
			r.AutoStart = &defaults.AutoStart
		}
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.SendQueue < 1 {
		return fmt.Errorf("send_queue must be positive, got %d", c.Server.SendQueue)
	}
	if _, err := c.RoomTiming(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, r := range c.Rooms {
		if !protocol.ValidRoomCode(r.Code) {
			return fmt.Errorf("room %q: invalid room code", r.Code)
		}
		if seen[r.Code] {
			return fmt.Errorf("room %s: defined twice", r.Code)
		}
		seen[r.Code] = true
		if err := c.roomConfig(r, room.DefaultTiming()).Validate(); err != nil {
			return fmt.Errorf("room %s: %w", r.Code, err)
		}
		if len(r.Bots) > r.Capacity {
			return fmt.Errorf("room %s: %d bots exceed capacity %d", r.Code, len(r.Bots), r.Capacity)
		}
		for _, b := range r.Bots {
			if !bot.Known(b.Strategy) {
				return fmt.Errorf("room %s: bot %s: %w: %q", r.Code, b.Name, bot.ErrUnknownStrategy, b.Strategy)
			}
		}
	}
	return nil
}

// RoomTiming returns the default delays with the timing block applied.
func (c *Config) RoomTiming() (room.Timing, error) {
	t := room.DefaultTiming()
	if c.Timing == nil {
		return t, nil
	}
	overrides := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"start", c.Timing.Start, &t.Start},
		{"start_hand", c.Timing.StartHand, &t.StartHand},
		{"next_round", c.Timing.NextRound, &t.NextRound},
		{"skip_round", c.Timing.SkipRound, &t.SkipRound},
		{"skip_round_per_card", c.Timing.SkipRoundPerCard, &t.SkipRoundPerCard},
		{"reset_hand", c.Timing.ResetHand, &t.ResetHand},
		{"reset_players", c.Timing.ResetPlayers, &t.ResetPlayers},
		{"new_hand_reseated", c.Timing.NewHandReseated, &t.NewHandReseated},
		{"new_hand", c.Timing.NewHand, &t.NewHand},
		{"bot_decision", c.Timing.BotDecision, &t.BotDecision},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		d, err := time.ParseDuration(o.value)
		if err != nil {
			return t, fmt.Errorf("timing %s: %w", o.name, err)
		}
		if d < 0 {
			return t, fmt.Errorf("timing %s: negative duration %s", o.name, d)
		}
		*o.dst = d
	}
	return t, nil
}

func (c *Config) roomConfig(r RoomConfig, timing room.Timing) room.Config {
	cfg := room.Config{
		Capacity:      r.Capacity,
		SmallBlind:    r.SmallBlind,
		StartingChips: r.StartingChips,
		AutoStart:     true,
		Seed:          r.Seed,
		Timing:        timing,
	}
	if r.AutoStart != nil {
		cfg.AutoStart = *r.AutoStart
	}
	return cfg
}
