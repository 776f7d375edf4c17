package bridge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/avtomat-app/avtomat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TEST-TOKEN"

// signInitData builds a query string signed the way Telegram signs
// Web App init data.
func signInitData(t *testing.T, members map[string]string, botToken string) string {
	t.Helper()

	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+members[k])
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))

	values := url.Values{}
	for k, v := range members {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestParseInitData_NoToken(t *testing.T) {
	initData := url.Values{
		"user":      {`{"id":99,"first_name":"Ivan","username":"ivan_kz"}`},
		"auth_date": {"1700000000"},
	}.Encode()

	id, err := ParseInitData(initData, "")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id.ID)
	assert.Equal(t, "Ivan", id.FirstName)
	assert.Equal(t, "ivan_kz", id.Username)
}

func TestParseInitData_ValidSignature(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"user":      `{"id":42,"first_name":"Aia"}`,
		"auth_date": "1700000000",
		"query_id":  "AAE1",
	}, testBotToken)

	id, err := ParseInitData(initData, testBotToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
}

func TestParseInitData_BadSignature(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"user":      `{"id":42,"first_name":"Aia"}`,
		"auth_date": "1700000000",
	}, "other-token")

	_, err := ParseInitData(initData, testBotToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestParseInitData_MissingPieces(t *testing.T) {
	_, err := ParseInitData("auth_date=1700000000", "")
	assert.Error(t, err, "no user member")

	_, err = ParseInitData("user=%7B%22id%22%3A1%7D", testBotToken)
	assert.Error(t, err, "signed parse requires hash")

	_, err = ParseInitData("user=%7B%22first_name%22%3A%22x%22%7D", "")
	assert.Error(t, err, "user without id is rejected")
}

func TestDetect_HostBridge(t *testing.T) {
	cfg := &config.Config{
		Alerts: config.AlertsModal,
		InitData: url.Values{
			"user": {`{"id":7,"first_name":"Dana","last_name":"S"}`},
		}.Encode(),
		ThemeParams: `{"bg_color":"#1c1c1c","text_color":"#eeeeee","button_color":"#2481cc"}`,
	}

	br := Detect(cfg)

	id, ok := br.Identity()
	require.True(t, ok)
	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, "Dana", id.FirstName)

	tokens := br.ThemeTokens()
	assert.Equal(t, "#1c1c1c", tokens.Background)
	assert.Equal(t, "#2481cc", tokens.Button)
}

func TestDetect_DegradesWithoutInitData(t *testing.T) {
	br := Detect(&config.Config{Alerts: config.AlertsSilent})

	_, ok := br.Identity()
	assert.False(t, ok)
	assert.Equal(t, ThemeTokens{}, br.ThemeTokens())
}

func TestDetect_DegradesOnBadSignature(t *testing.T) {
	cfg := &config.Config{
		Alerts:   config.AlertsSilent,
		BotToken: testBotToken,
		InitData: signInitData(t, map[string]string{
			"user": `{"id":7,"first_name":"Dana"}`,
		}, "wrong-token"),
	}

	br := Detect(cfg)
	_, ok := br.Identity()
	assert.False(t, ok, "untrusted identity must not be exposed")
}

func TestDetect_BadThemeParamsIgnored(t *testing.T) {
	cfg := &config.Config{
		Alerts:      config.AlertsModal,
		InitData:    url.Values{"user": {`{"id":7,"first_name":"Dana"}`}}.Encode(),
		ThemeParams: "{not json",
	}

	br := Detect(cfg)
	_, ok := br.Identity()
	assert.True(t, ok)
	assert.Equal(t, ThemeTokens{}, br.ThemeTokens())
}

type recordingNotifier struct {
	kind    NotifyKind
	message string
	ack     func(bool)
	calls   int
}

func (r *recordingNotifier) Present(kind NotifyKind, message string, ack func(confirmed bool)) {
	r.kind = kind
	r.message = message
	r.ack = ack
	r.calls++
}

func TestNotify_DelegatesToNotifier(t *testing.T) {
	br := Detect(&config.Config{
		Alerts:   config.AlertsModal,
		InitData: url.Values{"user": {`{"id":7,"first_name":"Dana"}`}}.Encode(),
	})

	sink := &recordingNotifier{}
	br.(NotifierSetter).SetNotifier(sink)

	var confirmed *bool
	br.Notify(Confirm, "Удалить заявку?", func(c bool) { confirmed = &c })

	require.Equal(t, 1, sink.calls)
	assert.Equal(t, Confirm, sink.kind)
	assert.Equal(t, "Удалить заявку?", sink.message)

	// Dialog dismissal fires the ack with the user's choice
	sink.ack(true)
	require.NotNil(t, confirmed)
	assert.True(t, *confirmed)
}

func TestNotify_FallbackAckSemantics(t *testing.T) {
	br := Unavailable(config.AlertsSilent)

	var infoAck, confirmAck *bool
	br.Notify(Info, "done", func(c bool) { infoAck = &c })
	br.Notify(Confirm, "sure?", func(c bool) { confirmAck = &c })

	// Info acks unconditionally, Confirm cannot consent without a surface
	require.NotNil(t, infoAck)
	assert.True(t, *infoAck)
	require.NotNil(t, confirmAck)
	assert.False(t, *confirmAck)
}

func TestHaptic_NeverPanics(t *testing.T) {
	for _, br := range []Bridge{
		Unavailable(config.AlertsSilent),
		Detect(&config.Config{
			Alerts:   config.AlertsSilent,
			InitData: url.Values{"user": {`{"id":7,"first_name":"Dana"}`}}.Encode(),
		}),
	} {
		br.Haptic(HapticSelection)
		br.Haptic(HapticSuccess)
		br.Haptic(HapticError)
	}
}
