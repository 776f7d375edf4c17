package bridge

// unavailableBridge is the degraded mode used when the host platform is
// absent: no identity, no theme, notifications routed per alert mode.
type unavailableBridge struct {
	alerts   string
	notifier Notifier
}

// Unavailable returns a bridge for a process running outside the host
// platform. The wizard stays usable: identity defaults to guest, theme to
// the built-in palette.
func Unavailable(alerts string) Bridge {
	return &unavailableBridge{alerts: alerts}
}

// SetNotifier registers the modal sink. Even a degraded bridge can show
// dialogs once the TUI is up; only identity and theme stay empty.
func (u *unavailableBridge) SetNotifier(n Notifier) { u.notifier = n }

func (u *unavailableBridge) Identity() (Identity, bool) {
	return Identity{}, false
}

func (u *unavailableBridge) ThemeTokens() ThemeTokens {
	return ThemeTokens{}
}

func (u *unavailableBridge) Notify(kind NotifyKind, message string, ack func(confirmed bool)) {
	if u.notifier != nil {
		u.notifier.Present(kind, message, ack)
		return
	}
	fallbackNotify(u.alerts, kind, message, ack)
}

func (u *unavailableBridge) Haptic(HapticEvent) {}

// NotifierSetter is implemented by bridges that can have a modal sink
// attached after construction.
type NotifierSetter interface {
	SetNotifier(Notifier)
}
