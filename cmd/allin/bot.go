package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/patrickkosasih/Allin/cmd/allin/shared"
	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/client"
	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/randutil"
)

// BotCmd plays seats over the network with a built-in strategy.
type BotCmd struct {
	Strategy string `arg:"" optional:"" help:"Bot strategy (call, fold, random, maniac)"`
	Config   string `short:"c" default:"allin-bot.hcl" env:"ALLIN_BOT_CONFIG" help:"Path to HCL configuration file"`
	Server   string `short:"s" env:"ALLIN_SERVER" help:"TCP address of the server (overrides config)"`
	WS       string `name:"ws" env:"ALLIN_WS_URL" help:"Websocket URL, e.g. ws://localhost:32728/ws (overrides config)"`
	Room     string `short:"r" env:"ALLIN_ROOM" help:"Room code to join (overrides config)"`
	Name     string `short:"n" env:"ALLIN_NAME" help:"Player name (overrides config)"`
	Count    int    `default:"1" help:"Number of bots to connect, each on its own connection"`
	LogLevel string `short:"l" default:"info" env:"ALLIN_LOG_LEVEL" help:"Log level (debug|info|warn|error)"`
}

func (c *BotCmd) Run(g *Globals) error {
	cfg, err := client.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.Strategy != "" {
		cfg.Player.Strategy = c.Strategy
	}
	if c.Server != "" {
		cfg.Server.Address = c.Server
	}
	if c.WS != "" {
		cfg.Server.WebsocketURL = c.WS
	}
	if c.Room != "" {
		cfg.Player.Room = c.Room
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}

	logger, err := shared.NewLogger(c.LogLevel, g.Debug, g.LogJSON)
	if err != nil {
		return err
	}
	logger = logger.With("room", cfg.Player.Room, "strategy", cfg.Player.Strategy)

	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	rng, seed := randutil.Resolve(cfg.Player.Seed)
	logger.Info("connecting bots", "count", c.Count, "seed", seed)

	grp, ctx := errgroup.WithContext(ctx)
	for i := range c.Count {
		name := cfg.Player.Name
		if name != "" && c.Count > 1 {
			name = fmt.Sprintf("%s-%d", name, i+1)
		}
		botLogger := logger
		if c.Count > 1 {
			botLogger = logger.With("bot", i+1)
		}
		strategy, err := bot.New(cfg.Player.Strategy, randutil.Derive(rng), botLogger)
		if err != nil {
			return err
		}
		grp.Go(func() error {
			return playBot(ctx, cfg, name, strategy, botLogger)
		})
	}
	return grp.Wait()
}

// playBot connects one session, joins the room and plays until the server
// closes the connection or ctx is done.
func playBot(ctx context.Context, cfg client.Config, name string, strategy game.Strategy, logger *log.Logger) error {
	requestTimeout, think := cfg.Timeouts()
	clock := quartz.NewReal()
	opts := []client.Option{
		client.WithClock(clock),
		client.WithLogger(logger),
		client.WithRequestTimeout(requestTimeout),
	}
	var (
		sess *client.Session
		err  error
	)
	if cfg.Server.WebsocketURL != "" {
		sess, err = client.DialWS(ctx, cfg.Server.WebsocketURL, opts...)
	} else {
		sess, err = client.Dial(ctx, cfg.Server.Address, opts...)
	}
	if err != nil {
		return err
	}
	defer sess.Close()
	go func() {
		<-ctx.Done()
		_ = sess.Close()
	}()

	if name != "" {
		if err := sess.SetName(ctx, name); err != nil {
			return fmt.Errorf("set name %q: %w", name, err)
		}
	}

	runner := client.NewRunner(sess, strategy, clock, think, logger)
	runner.OnMessage = func(m client.Message, r *client.Replica) {
		switch m.Event.Code {
		case game.EventNewHand:
			logger.Info("new hand", "seat", r.ClientSeat(), "pocket", r.Pocket())
		case game.EventShowdown:
			view := r.PublicView()
			if seat := r.ClientSeat(); seat >= 0 && seat < len(view.Players) {
				logger.Info("hand over", "chips", view.Players[seat].Chips)
			}
		}
	}

	errs := make(chan error, 1)
	go func() { errs <- runner.Run(ctx) }()

	if err := sess.Join(ctx, cfg.Player.Room); err != nil {
		return fmt.Errorf("join %s: %w", cfg.Player.Room, err)
	}
	logger.Info("joined room", "name", name)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		return nil
	}
}
