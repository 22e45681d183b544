package bot

import (
	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
)

// CallBot checks or calls every decision.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(v game.View) game.Decision {
	if v.ToCall() == 0 {
		return check("call-bot checking")
	}
	c.logger.Debug("calling", "seat", v.Seat, "to_call", v.ToCall())
	return check("call-bot calling")
}
