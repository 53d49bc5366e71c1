package watch

import "github.com/charmbracelet/lipgloss"

// Status colors.
var (
	colorPass    = lipgloss.Color("#10b981") // green-500
	colorFail    = lipgloss.Color("#ef4444") // red-500
	colorWarn    = lipgloss.Color("#eab308") // yellow-500
	colorRunning = lipgloss.Color("#06b6d4") // cyan-500

	colorDim    = lipgloss.Color("#6b7280") // gray-500
	colorMuted  = lipgloss.Color("#9ca3af") // gray-400
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
)

// Styles holds the lipgloss styles shared by the TUI and the styled
// plain formatter.
type Styles struct {
	// Status badges
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Warn    lipgloss.Style
	Running lipgloss.Style

	// Text styles
	Dim      lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Path     lipgloss.Style
	Duration lipgloss.Style

	// Symbols
	SymbolPass    string
	SymbolFail    string
	SymbolWarn    string
	SymbolPending string
}

// DefaultStyles returns the default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Pass:    lipgloss.NewStyle().Foreground(colorPass).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(colorFail).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
		Running: lipgloss.NewStyle().Foreground(colorRunning).Bold(true),

		Dim:      lipgloss.NewStyle().Foreground(colorDim),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Bold:     lipgloss.NewStyle().Bold(true),
		Path:     lipgloss.NewStyle().Foreground(colorAccent),
		Duration: lipgloss.NewStyle().Foreground(colorDim),

		SymbolPass:    "✓",
		SymbolFail:    "✗",
		SymbolWarn:    "!",
		SymbolPending: "·",
	}
}

// SpinnerFrames returns the braille spinner animation frames.
func SpinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}
