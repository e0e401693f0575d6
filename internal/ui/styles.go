package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Blue      = lipgloss.Color("#3B82F6")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Yellow    = lipgloss.Color("#F59E0B")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Picker styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Blue).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Italic(true)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Blue).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Blue)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Success renders a completed-action message
func Success(msg string) string {
	return SuccessStyle.Render(msg)
}

// Error renders a diagnostic
func Error(msg string) string {
	return ErrorStyle.Render(msg)
}

// Warning renders a cautionary message
func Warning(msg string) string {
	return WarningStyle.Render(msg)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
