package main

import (
	"github.com/charmbracelet/lipgloss"

	"leek/internal/config"
)

type styles struct {
	header   lipgloss.Style
	dir      lipgloss.Style
	file     lipgloss.Style
	selected lipgloss.Style
	title    lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	box      lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true).
			PaddingLeft(2),
		dir: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Secondary)).
			PaddingLeft(1),
		file: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Foreground)).
			PaddingLeft(1),
		selected: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Highlight)).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			PaddingLeft(1),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Muted)),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)).
			PaddingLeft(2),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Border)).
			Padding(0, 2),
	}
}
