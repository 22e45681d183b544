package bot

import (
	"github.com/charmbracelet/log"
	"github.com/patrickkosasih/Allin/internal/game"
)

// FoldBot checks when it is free and folds to any bet.
type FoldBot struct {
	logger *log.Logger
}

func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) Decide(v game.View) game.Decision {
	if v.ToCall() == 0 {
		return check("fold-bot checking")
	}
	return game.Decision{Action: game.Fold, Reasoning: "fold-bot folding"}
}
