package statistics

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	gainStyle   = cellStyle.Foreground(lipgloss.Color("#04B575"))
	lossStyle   = cellStyle.Foreground(lipgloss.Color("#FF6B6B"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Render draws summaries as a table, one row per player.
func Render(sums []Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("PLAYER", "HANDS", "NET BB", "BB/HAND", "95% CI", "WON", "SHOWDOWN").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != 2 || row < 0 || row >= len(sums) {
				return cellStyle
			}
			switch {
			case sums[row].NetBB > 0:
				return gainStyle
			case sums[row].NetBB < 0:
				return lossStyle
			}
			return cellStyle
		})
	for _, s := range sums {
		t.Row(
			s.Name,
			fmt.Sprint(s.Hands),
			fmt.Sprintf("%+.1f", s.NetBB),
			fmt.Sprintf("%+.2f", s.BBPerHand),
			fmt.Sprintf("[%.2f, %.2f]", s.CI95[0], s.CI95[1]),
			fmt.Sprint(s.Wins),
			fmt.Sprint(s.ShowdownWins),
		)
	}
	return t.Render()
}
