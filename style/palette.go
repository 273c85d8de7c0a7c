package style

import "github.com/charmbracelet/lipgloss"

// Colors of the watch screen.
var (
	Base  = lipgloss.Color("#1e1e2e")
	Text  = lipgloss.Color("#cdd6f4")
	Peach = lipgloss.Color("#fab387")

	AccentColor  = lipgloss.Color("#cba6f7")
	SuccessColor = lipgloss.Color("#a6e3a1")
	ErrorColor   = lipgloss.Color("#f38ba8")
	HiRed        = ErrorColor
)
