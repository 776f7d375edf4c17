package theme

// NewDefaultDark creates the built-in dark theme. It is used when the
// host provides no theme tokens, and fills the gaps when it provides
// only some.
func NewDefaultDark() *Theme {
	return &Theme{
		Name:   "avtomat-dark",
		IsDark: true,

		// Semantic colors
		Primary:    "#5288c1", // Telegram-ish blue
		Secondary:  "#8774e1",
		ButtonText: "#ffffff",

		// Background hierarchy
		BgBase:    "#17212b",
		BgSurface: "#232e3c",

		// Foreground hierarchy
		FgMuted: "#708499",
		FgBase:  "#f5f5f5",

		// Status colors
		Success: "#4fae4e",
		Error:   "#e53935",
		Info:    "#6ab3f3",
	}
}
