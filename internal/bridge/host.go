package bridge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/avtomat-app/avtomat/internal/config"
	"github.com/avtomat-app/avtomat/internal/logger"
)

// HostBridge is a Bridge backed by Telegram Web App init data. Identity
// and theme are fixed at construction; dialogs are delegated to a
// registered Notifier (the TUI) and fall back to the configured alert
// mode when none is present.
type HostBridge struct {
	identity Identity
	hasUser  bool
	tokens   ThemeTokens
	alerts   string
	notifier Notifier
}

// Detect builds a bridge from configuration. When init data is absent or
// does not parse, a degraded bridge is returned instead; the process runs
// in that mode for its whole life, there is no retry.
func Detect(cfg *config.Config) Bridge {
	if cfg.InitData == "" {
		logger.Info("no init data configured, bridge unavailable")
		return Unavailable(cfg.Alerts)
	}

	id, err := ParseInitData(cfg.InitData, cfg.BotToken)
	if err != nil {
		logger.Warn("init data rejected: %v", err)
		return Unavailable(cfg.Alerts)
	}

	h := &HostBridge{
		identity: *id,
		hasUser:  true,
		alerts:   cfg.Alerts,
	}
	if cfg.ThemeParams != "" {
		if err := json.Unmarshal([]byte(cfg.ThemeParams), &h.tokens); err != nil {
			logger.Warn("theme params ignored: %v", err)
			h.tokens = ThemeTokens{}
		}
	}
	return h
}

// SetNotifier registers the modal sink. Called once when the TUI starts.
func (h *HostBridge) SetNotifier(n Notifier) { h.notifier = n }

// Identity implements Bridge.
func (h *HostBridge) Identity() (Identity, bool) {
	return h.identity, h.hasUser
}

// ThemeTokens implements Bridge.
func (h *HostBridge) ThemeTokens() ThemeTokens {
	return h.tokens
}

// Notify implements Bridge.
func (h *HostBridge) Notify(kind NotifyKind, message string, ack func(confirmed bool)) {
	if h.notifier != nil {
		h.notifier.Present(kind, message, ack)
		return
	}
	fallbackNotify(h.alerts, kind, message, ack)
}

// Haptic implements Bridge. The terminal has no vibration motor; ring the
// bell for success/error and swallow everything else.
func (h *HostBridge) Haptic(event HapticEvent) {
	if event == HapticSelection {
		return
	}
	// Bell goes to the controlling terminal, not the TUI buffer.
	fmt.Print("\a")
}

// fallbackNotify routes a notification when no modal surface exists.
// Info acks fire unconditionally, Confirm acks answer false: without a
// surface the user cannot consent.
func fallbackNotify(alerts string, kind NotifyKind, message string, ack func(confirmed bool)) {
	if alerts != config.AlertsSilent {
		logger.Info("notify: %s", message)
	}
	if ack != nil {
		ack(kind == Info)
	}
}

// ParseInitData parses a Telegram Web App init-data query string and
// returns the embedded user. When botToken is non-empty the hash member
// is verified with the WebAppData HMAC scheme; a bad or missing signature
// is an error so an untrusted identity is never used.
func ParseInitData(initData, botToken string) (*Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("parsing init data: %w", err)
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("init data has no user member")
	}

	if botToken != "" {
		if err := verifyInitData(values, botToken); err != nil {
			return nil, err
		}
	}

	var id Identity
	if err := json.Unmarshal([]byte(userJSON), &id); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	if id.ID == 0 {
		return nil, fmt.Errorf("user has no id")
	}
	return &id, nil
}

// verifyInitData checks the hash member against the data-check string:
// sorted key=value lines joined by newlines, HMAC-SHA256 keyed with
// HMAC-SHA256("WebAppData", botToken).
func verifyInitData(values url.Values, botToken string) error {
	received := values.Get("hash")
	if received == "" {
		return fmt.Errorf("init data has no hash member")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(received)) {
		return fmt.Errorf("init data signature mismatch")
	}
	return nil
}
