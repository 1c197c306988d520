// SPDX-License-Identifier: GPL-3.0-only
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
	ColorBg        = lipgloss.Color("#1F2937") // Dark background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted text
)

// Styles contains all UI styles
type Styles struct {
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	QueryInput lipgloss.Style

	Verdict        lipgloss.Style
	VerdictValid   lipgloss.Style
	VerdictInvalid lipgloss.Style

	IssueError   lipgloss.Style
	IssueWarning lipgloss.Style
	IssueParam   lipgloss.Style

	ParsedKey   lipgloss.Style
	ParsedValue lipgloss.Style

	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style
}

// DefaultStyles creates the default style set
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle(),

		Header: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorTextMuted).
			Padding(0, 1),

		QueryInput: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),

		Verdict: lipgloss.NewStyle().
			Bold(true),

		VerdictValid: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		VerdictInvalid: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		IssueError: lipgloss.NewStyle().
			Foreground(ColorError),

		IssueWarning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		IssueParam: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		ParsedKey: lipgloss.NewStyle().
			Foreground(ColorMuted),

		ParsedValue: lipgloss.NewStyle().
			Foreground(ColorText),

		StatusBar: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorTextMuted).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorMuted).
			Padding(0, 1),
	}
}
