package main

import (
	"fmt"
	"os"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/patrickkosasih/Allin/cmd/allin/shared"
	"github.com/patrickkosasih/Allin/internal/server"
)

// ServerCmd runs the server. Flags override the config file.
type ServerCmd struct {
	Config    string   `short:"c" default:"allin.hcl" env:"ALLIN_CONFIG" help:"Path to HCL configuration file"`
	Addr      string   `short:"a" env:"ALLIN_ADDR" help:"TCP address (overrides config)"`
	WSAddr    string   `name:"ws-addr" env:"ALLIN_WS_ADDR" help:"HTTP/websocket address, '-' to disable (overrides config)"`
	LogLevel  string   `short:"l" env:"ALLIN_LOG_LEVEL" help:"Log level (overrides config)"`
	Rooms     []string `sep:"," help:"Extra room codes to open with default settings"`
	NoConsole bool     `help:"Do not read operator commands from stdin"`
}

func (c *ServerCmd) Run(g *Globals) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.WSAddr != "" {
		cfg.Server.WSAddress = c.WSAddr
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}

	logger, err := shared.NewLogger(cfg.Server.LogLevel, g.Debug, g.LogJSON)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger, quartz.NewReal())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, code := range c.Rooms {
		if _, err := srv.CreateRoom(code); err != nil {
			srv.Shutdown()
			return fmt.Errorf("room %s: %w", code, err)
		}
	}

	logger.Info("starting Allin server",
		"addr", cfg.Server.Address,
		"ws_addr", cfg.Server.WSAddress,
		"rooms", srv.Registry().Codes())

	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return srv.Run(ctx) })
	if !c.NoConsole {
		// Stdin closing leaves the server running.
		console := server.NewConsole(srv, os.Stdin, os.Stdout)
		grp.Go(func() error { return console.Run(ctx) })
	}
	return grp.Wait()
}
