// Package presenter renders grade book read models for the terminal using Lipgloss.
package presenter

import "github.com/charmbracelet/lipgloss"

// Styles groups the terminal styles used by the presenter.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
	Header  lipgloss.Style
}

// ColorStyles returns the default colored styles.
func ColorStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")). // Green
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // Yellow
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")). // Red
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")), // Blue
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")), // Gray
		Bold: lipgloss.NewStyle().
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Success: plain,
		Warning: plain,
		Error:   plain,
		Info:    plain,
		Dim:     plain,
		Bold:    plain,
		Header:  plain,
	}
}

// Prefixes for status lines.
func (s Styles) successPrefix() string { return s.Success.Render("✓") }
func (s Styles) warningPrefix() string { return s.Warning.Render("⚠") }
func (s Styles) errorPrefix() string   { return s.Error.Render("✗") }
func (s Styles) arrowPrefix() string   { return s.Info.Render("→") }
