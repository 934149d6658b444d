package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/notemap/notemap/internal/canvas"
)

const statusBarHeight = 1

var (
	statusBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	statusModeStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	statusNoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("216")).Background(lipgloss.Color("236")).Padding(0, 1)

	popupStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	helpFrame   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	selectStyle = lipgloss.NewStyle().Reverse(true)
)

// paletteStyles maps each canvas color to its terminal rendering. Black is
// drawn as bright black so it stays visible against dark backgrounds.
var paletteStyles = map[canvas.Color]lipgloss.Style{
	canvas.White:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	canvas.Red:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	canvas.Green:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	canvas.Yellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	canvas.Blue:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	canvas.Magenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	canvas.Cyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	canvas.Black:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

func colorStyle(c canvas.Color) lipgloss.Style {
	if s, ok := paletteStyles[c]; ok {
		return s
	}
	return paletteStyles[canvas.White]
}
