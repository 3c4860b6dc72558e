package ui

import "github.com/charmbracelet/lipgloss"

const ellipsis = "…"

var (
	fuchsia    = lipgloss.Color("#EE6FF8")
	mintGreen  = lipgloss.Color("#89F0CB")
	dullYellow = lipgloss.Color("#9BA92F")
	red        = lipgloss.Color("#ED567A")

	subtleColor    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	midGrayColor   = lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"}
	statusBarNote  = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg    = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	statusBarFg    = lipgloss.AdaptiveColor{Light: "#8E8E8E", Dark: "#8E8E8E"}
	logoBackground = lipgloss.Color("#7D56F4")

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(logoBackground).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(statusBarFg).
			Background(statusBarBg)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNote).
				Background(statusBarBg)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
				Background(lipgloss.AdaptiveColor{Light: "#FF5555", Dark: "#893843"}).
				Padding(0, 1)

	headwordStyle = lipgloss.NewStyle().
			Foreground(fuchsia).
			Bold(true)

	ipaStyle = lipgloss.NewStyle().
			Foreground(midGrayColor).
			Italic(true)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	meaningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#DDDDDD"})

	cefrStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	playingStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	repeatingStyle = lipgloss.NewStyle().
			Foreground(dullYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(fuchsia).
				Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(fuchsia)
)
