package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjack/internal/ledger"
)

// RenderRankings renders standings as a bordered table. highlight marks one
// player's row, empty for none.
func RenderRankings(standings []ledger.Standing, highlight string) string {
	rows := make([][]string, len(standings))
	for i, s := range standings {
		rows[i] = []string{strconv.Itoa(s.Rank), s.Username, strconv.FormatInt(s.Chips, 10)}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("#", "PLAYER", "CHIPS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			style := cell
			if col == 2 {
				style = style.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(standings) && standings[row].Username == highlight {
				style = style.Inherit(SuccessStyle)
			}
			return style
		}).
		Render()
}
