package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
)

// Dialog represents a modal dialog overlay. It is the presentation sink
// for bridge notifications: the bridge decides that a modal is needed,
// the dialog owns how it looks and when the ack fires.
type Dialog struct {
	kind       bridge.NotifyKind
	message    string
	visible    bool
	confirmSel bool // true = OK focused, false = Cancel (Confirm kind only)
	ack        func(confirmed bool)
	dialogArea uv.Rectangle // Screen area where dialog is drawn (for mouse hit detection)
}

// NewDialog creates a new dialog
func NewDialog() *Dialog {
	return &Dialog{}
}

// Present implements bridge.Notifier. A new notification replaces any
// visible one; the replaced dialog's ack never fires.
func (d *Dialog) Present(kind bridge.NotifyKind, message string, ack func(confirmed bool)) {
	d.kind = kind
	d.message = message
	d.visible = true
	d.confirmSel = true
	d.ack = ack
}

// IsVisible returns whether the dialog is visible
func (d *Dialog) IsVisible() bool {
	return d.visible
}

// Update handles dialog input. While visible the dialog captures all
// key events.
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch d.kind {
	case bridge.Confirm:
		switch keyMsg.String() {
		case "left", "right", "tab", "h", "l":
			d.confirmSel = !d.confirmSel
		case "enter", " ":
			return d.dismiss(d.confirmSel)
		case "esc":
			return d.dismiss(false)
		}
	default:
		switch keyMsg.String() {
		case "enter", " ", "esc":
			return d.dismiss(true)
		}
	}
	return nil
}

// HandleClick processes a mouse click. Clicking anywhere dismisses an
// info dialog; a confirm dialog treats it as the focused choice.
func (d *Dialog) HandleClick(x, y int) tea.Cmd {
	if !d.visible {
		return nil
	}
	if d.kind == bridge.Confirm {
		return d.dismiss(d.confirmSel)
	}
	return d.dismiss(true)
}

func (d *Dialog) dismiss(confirmed bool) tea.Cmd {
	d.visible = false
	ack := d.ack
	d.ack = nil
	if ack != nil {
		ack(confirmed)
	}
	return func() tea.Msg {
		return dialogDismissedMsg{}
	}
}

// Draw renders the dialog centered on screen
func (d *Dialog) Draw(scr uv.Screen, area uv.Rectangle) {
	if !d.visible {
		return
	}

	t := theme.Current()

	contentWidth := lipgloss.Width(d.message)
	if contentWidth < 20 {
		contentWidth = 20
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Width(contentWidth).
		Align(lipgloss.Center)

	activeButton := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.ButtonText)).
		Background(lipgloss.Color(t.Primary)).
		Padding(0, 2)
	idleButton := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgSurface)).
		Padding(0, 2)

	var buttons string
	if d.kind == bridge.Confirm {
		ok, cancel := idleButton, idleButton
		if d.confirmSel {
			ok = activeButton
		} else {
			cancel = activeButton
		}
		buttons = ok.Render("OK") + "  " + cancel.Render("Отмена")
	} else {
		buttons = activeButton.Render("OK")
	}

	buttonLine := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(buttons)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		messageStyle.Render(d.message),
		"",
		buttonLine,
	)

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Primary)).
		Padding(1, 3)

	dialog := dialogStyle.Render(content)

	dialogWidth := lipgloss.Width(dialog)
	dialogHeight := lipgloss.Height(dialog)
	x := (area.Dx() - dialogWidth) / 2
	y := (area.Dy() - dialogHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	d.dialogArea = uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + dialogWidth, Y: area.Min.Y + y + dialogHeight},
	}

	uv.NewStyledString(dialog).Draw(scr, d.dialogArea)
}
