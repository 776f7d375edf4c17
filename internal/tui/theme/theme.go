// Package theme defines the color palette for the TUI and maps host
// theme tokens onto it.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary    string // lipgloss.Color is a string type
	Secondary  string
	ButtonText string

	// Background hierarchy
	BgBase    string
	BgSurface string

	// Foreground hierarchy (dim→bright)
	FgMuted string
	FgBase  string

	// Status colors
	Success string
	Error   string
	Info    string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// Styles contains the pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	Subtitle    lipgloss.Style

	Option         lipgloss.Style
	OptionSelected lipgloss.Style

	CardTitle lipgloss.Style
	CardMeta  lipgloss.Style

	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
	HintSep  lipgloss.Style

	ErrorText lipgloss.Style
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		Option: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)).
			Padding(0, 2),
		OptionSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.ButtonText)).
			Background(lipgloss.Color(t.Primary)).
			Bold(true).
			Padding(0, 2),
		CardTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)).
			Bold(true),
		CardMeta: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HintSep: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface)),
		ErrorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
	}
}

var (
	mu      sync.Mutex
	current *Theme
)

// Current returns the active theme, defaulting to the built-in dark
// palette.
func Current() *Theme {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = NewDefaultDark()
	}
	return current
}

// Set replaces the active theme. Called once at startup, before the
// program runs.
func Set(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}
