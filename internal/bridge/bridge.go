// Package bridge adapts host chat-platform capabilities (user identity,
// theming, native dialogs, haptic feedback) into a small interface the
// wizard can depend on. All operations are advisory: a bridge never
// returns errors into wizard logic and degrades to no-ops when the host
// platform is absent.
package bridge

// Identity is the host-supplied user, read once at startup.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// ThemeTokens maps the host theme's color roles to hex values.
// Zero-value fields mean "no host preference".
type ThemeTokens struct {
	Background          string `json:"bg_color,omitempty"`
	SecondaryBackground string `json:"secondary_bg_color,omitempty"`
	Text                string `json:"text_color,omitempty"`
	Hint                string `json:"hint_color,omitempty"`
	Link                string `json:"link_color,omitempty"`
	Button              string `json:"button_color,omitempty"`
	ButtonText          string `json:"button_text_color,omitempty"`
}

// NotifyKind selects the modal variant.
type NotifyKind int

const (
	// Info shows a single-button alert; the ack callback fires
	// unconditionally on dismissal with confirmed=true.
	Info NotifyKind = iota
	// Confirm shows an OK/Cancel pair; the ack callback receives the
	// user's choice.
	Confirm
)

// HapticEvent selects the feedback pattern.
type HapticEvent int

const (
	HapticSelection HapticEvent = iota
	HapticSuccess
	HapticError
)

// Bridge is the capability surface the wizard sees.
type Bridge interface {
	// Identity returns the host user. ok is false before the host is
	// ready or when it is unavailable.
	Identity() (id Identity, ok bool)

	// ThemeTokens returns the host theme. Called once at startup.
	ThemeTokens() ThemeTokens

	// Notify shows a modal to the user. ack may be nil. Never blocks.
	Notify(kind NotifyKind, message string, ack func(confirmed bool))

	// Haptic is best-effort; failures are swallowed.
	Haptic(event HapticEvent)
}

// Notifier presents modal dialogs on behalf of a bridge. The TUI
// registers itself as the sink so the wizard never touches presentation.
type Notifier interface {
	Present(kind NotifyKind, message string, ack func(confirmed bool))
}
