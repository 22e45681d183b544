package client

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/protocol"
)

// Config is the configuration of a networked bot.
type Config struct {
	Server ServerConnection
	Player PlayerSettings
}

// ServerConnection says where and how to connect. A websocket URL, when set,
// wins over the TCP address.
type ServerConnection struct {
	Address        string `hcl:"address,optional"`
	WebsocketURL   string `hcl:"websocket_url,optional"`
	RequestTimeout string `hcl:"request_timeout,optional"`
}

// PlayerSettings names the seat and how it plays.
type PlayerSettings struct {
	Name      string `hcl:"name,optional"`
	Room      string `hcl:"room,optional"`
	Strategy  string `hcl:"strategy,optional"`
	ThinkTime string `hcl:"think_time,optional"`
	Seed      *int64 `hcl:"seed,optional"`
}

type fileConfig struct {
	Server *ServerConnection `hcl:"server,block"`
	Player *PlayerSettings   `hcl:"player,block"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConnection{
			Address:        "localhost:32727",
			RequestTimeout: DefaultRequestTimeout.String(),
		},
		Player: PlayerSettings{
			Room:      "AAAA",
			Strategy:  "call",
			ThinkTime: "500ms",
		},
	}
}

// LoadConfig reads an HCL file. A missing file yields the defaults.
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

	cfg := &Config{}
	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	if fc.Player != nil {
		cfg.Player = *fc.Player
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.RequestTimeout == "" {
		c.Server.RequestTimeout = d.Server.RequestTimeout
	}
	if c.Player.Room == "" {
		c.Player.Room = d.Player.Room
	}
	if c.Player.Strategy == "" {
		c.Player.Strategy = d.Player.Strategy
	}
	if c.Player.ThinkTime == "" {
		c.Player.ThinkTime = d.Player.ThinkTime
	}
}

func (c *Config) Validate() error {
	if c.Server.Address == "" && c.Server.WebsocketURL == "" {
		return fmt.Errorf("server address is required")
	}
	if d, err := time.ParseDuration(c.Server.RequestTimeout); err != nil || d <= 0 {
		return fmt.Errorf("request_timeout %q must be a positive duration", c.Server.RequestTimeout)
	}
	if d, err := time.ParseDuration(c.Player.ThinkTime); err != nil || d < 0 {
		return fmt.Errorf("think_time %q must be a non-negative duration", c.Player.ThinkTime)
	}
	if !protocol.ValidRoomCode(c.Player.Room) {
		return fmt.Errorf("invalid room code %q", c.Player.Room)
	}
	if c.Player.Name != "" {
		if _, err := protocol.ParseRequest(protocol.CmdName + " " + c.Player.Name); err != nil {
			return fmt.Errorf("invalid player name %q", c.Player.Name)
		}
	}
	if !bot.Known(c.Player.Strategy) {
		return fmt.Errorf("%w: %q", bot.ErrUnknownStrategy, c.Player.Strategy)
	}
	return nil
}

// Timeouts returns the parsed request timeout and think time. Call Validate first.
func (c *Config) Timeouts() (request, think time.Duration) {
	request, _ = time.ParseDuration(c.Server.RequestTimeout)
	think, _ = time.ParseDuration(c.Player.ThinkTime)
	return request, think
}
