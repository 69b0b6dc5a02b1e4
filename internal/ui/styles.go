package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title   lipgloss.Style
	Timer   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Frame   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F28C28")),
		Timer:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#F8F8F2")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		Frame:   lipgloss.NewStyle().Padding(1, 2),
	}
}
