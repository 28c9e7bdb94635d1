// Package ui holds the lipgloss styles shared by the interactive
// commands.
package ui

import (
	"charm.land/lipgloss/v2"
)

var (
	Primary = lipgloss.Color("#8B5CF6") // Purple
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Accent  = lipgloss.Color("#F97316") // Orange
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Question = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	Choice = lipgloss.NewStyle().
		PaddingLeft(2)

	Correct = lipgloss.NewStyle().
		Bold(true).
		Foreground(Success)

	Wrong = lipgloss.NewStyle().
		Bold(true).
		Foreground(Error)

	Topic = lipgloss.NewStyle().
		Foreground(Accent)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)
