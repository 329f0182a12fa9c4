// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	DealerIcon = "🎩"
	PlayerIcon = "🙂"
	CPUIcon    = "🤖"
	TurnIcon   = "👉"
	BustIcon   = "💥"
	StandIcon  = "✋"
	WildIcon   = "★"
	HiddenFace = "▒▒"
)

// Lipgloss Styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	SubtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	ActiveBox    = BoxStyle.BorderForeground(lipgloss.Color("220"))
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WinStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	LossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	CursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	AdviceStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1).Italic(true)
	CardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Background(lipgloss.Color("#FFFFFF")).Width(4).Align(lipgloss.Center)
	HiddenStyle  = CardStyle.Foreground(lipgloss.Color("63"))
	ChartStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	MessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
)

// SuitColors 每个花色的前景色
var SuitColors = map[string]lipgloss.Color{
	"COINS":  lipgloss.Color("#B8860B"),
	"CUPS":   lipgloss.Color("#CD0000"),
	"SWORDS": lipgloss.Color("#1E3A8A"),
	"CLUBS":  lipgloss.Color("#166534"),
}
