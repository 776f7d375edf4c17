package theme

import "github.com/avtomat-app/avtomat/internal/bridge"

// FromTokens builds a theme from host theme tokens. Tokens the host
// did not send keep the built-in dark palette values, so a partial
// token set never produces unreadable output.
func FromTokens(tokens bridge.ThemeTokens) *Theme {
	t := NewDefaultDark()
	t.Name = "host"

	if tokens.Background != "" {
		t.BgBase = tokens.Background
		t.IsDark = isDark(tokens.Background)
	}
	if tokens.SecondaryBackground != "" {
		t.BgSurface = tokens.SecondaryBackground
	}
	if tokens.Text != "" {
		t.FgBase = tokens.Text
	}
	if tokens.Hint != "" {
		t.FgMuted = tokens.Hint
	}
	if tokens.Button != "" {
		t.Primary = tokens.Button
	}
	if tokens.ButtonText != "" {
		t.ButtonText = tokens.ButtonText
	}
	if tokens.Link != "" {
		t.Info = tokens.Link
		t.Secondary = tokens.Link
	}
	return t
}

// isDark reports whether a hex color reads as a dark background,
// using the ITU-R BT.601 luma weights.
func isDark(hex string) bool {
	r, g, b := ParseHexColor(hex)
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return luma < 128
}
