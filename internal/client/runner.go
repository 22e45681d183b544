package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/patrickkosasih/Allin/internal/game"
)

// Runner plays a seat over the network: it keeps a Replica current and asks
// the strategy for a decision whenever the turn lands on the client.
type Runner struct {
	session  *Session
	replica  *Replica
	strategy game.Strategy
	clock    quartz.Clock
	delay    time.Duration
	logger   *log.Logger

	// OnMessage, when set, sees every message after it has been applied.
	OnMessage func(Message, *Replica)
}

// NewRunner builds a runner. delay is how long to think before acting.
func NewRunner(session *Session, strategy game.Strategy, clock quartz.Clock, delay time.Duration, logger *log.Logger) *Runner {
	return &Runner{
		session:  session,
		replica:  NewReplica(),
		strategy: strategy,
		clock:    clock,
		delay:    delay,
		logger:   logger.WithPrefix("runner"),
	}
}

func (r *Runner) Replica() *Replica { return r.replica }

// Run processes events until ctx ends or the session closes.
func (r *Runner) Run(ctx context.Context) error {
	err := r.session.Run(ctx, func(m Message) error {
		if err := r.replica.Apply(m.Event, m.Data); err != nil {
			return err
		}
		if r.OnMessage != nil {
			r.OnMessage(m, r.replica)
		}
		if !r.replica.MyTurn() {
			return nil
		}
		return r.takeTurn(ctx)
	})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func (r *Runner) takeTurn(ctx context.Context) error {
	seat := r.replica.ClientSeat()
	v, err := r.replica.View(seat)
	if err != nil {
		return err
	}
	if r.delay > 0 {
		timer := r.clock.NewTimer(r.delay, "client", "decision")
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	d := r.strategy.Decide(v)
	r.logger.Debug("deciding", "seat", seat, "action", d.Action, "amount", d.Amount, "reason", d.Reasoning)

	err = r.session.Act(ctx, d.Action, d.Amount)
	if err != nil && (d.Action == game.Raise || d.Action == game.AllIn) {
		r.logger.Debug("raise rejected, calling instead", "error", err)
		err = r.session.Act(ctx, game.Call, 0)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRequestTimeout), errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
		return fmt.Errorf("act: %w", err)
	}
	// Anything else is a rule rejection; never stall the table.
	r.logger.Warn("action rejected, folding", "error", err)
	if ferr := r.session.Act(ctx, game.Fold, 0); ferr != nil {
		r.logger.Warn("fold rejected", "error", ferr)
	}
	return nil
}
