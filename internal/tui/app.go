// Package tui is the terminal front end: a full-screen bubbletea
// program over the flow selector and the active wizard machine. All
// flow logic lives below it; the TUI translates key presses into wizard
// events and runs the resulting effects as commands.
package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	lipglossv2 "charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/config"
	"github.com/avtomat-app/avtomat/internal/flow"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
	"github.com/avtomat-app/avtomat/internal/wizard"
)

type screenID int

const (
	screenStart screenID = iota
	screenCertificate
	screenFlow
)

// App is the root bubbletea model.
type App struct {
	selector *flow.Selector

	screen   screenID
	start    *StartPage
	cert     *CertificatePage
	flowView *FlowView

	dialog *Dialog

	width    int
	height   int
	quitting bool
}

// NewApp wires the selector and registers the dialog as the bridge's
// modal sink. In log/silent alert modes the bridge keeps its fallback
// and no modals are ever shown.
func NewApp(cfg *config.Config, br bridge.Bridge, dir wizard.Directory) *App {
	a := &App{
		selector: flow.New(br, dir),
		screen:   screenStart,
		start:    NewStartPage(),
		cert:     NewCertificatePage(),
		dialog:   NewDialog(),
		width:    80,
		height:   24,
	}
	if cfg.Alerts == config.AlertsModal {
		if setter, ok := br.(bridge.NotifierSetter); ok {
			setter.SetNotifier(a.dialog)
		}
	}
	return a
}

// Run starts the program and blocks until exit.
func Run(cfg *config.Config, br bridge.Bridge, dir wizard.Directory) error {
	p := tea.NewProgram(NewApp(cfg, br, dir))
	_, err := p.Run()
	return err
}

// effectCmd runs a wizard effect off the main loop and delivers its
// event tagged with the issuing machine.
func effectCmd(m *wizard.Machine, eff wizard.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	return func() tea.Msg {
		return machineEventMsg{machine: m, event: eff(context.Background())}
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case machineEventMsg:
		// Effects can resolve after the user backed out; events for a
		// machine the selector no longer owns are dropped.
		if !a.selector.Owns(msg.machine) {
			return a, nil
		}
		eff := msg.machine.Handle(msg.event)
		cmds := []tea.Cmd{effectCmd(msg.machine, eff)}
		if a.flowView != nil {
			cmds = append(cmds, a.flowView.Sync())
		}
		return a, tea.Batch(cmds...)

	case pathChosenMsg:
		return a.choosePath(msg.kind)

	case unfinishedChosenMsg:
		a.selector.ShowUnfinished()
		return a, nil

	case dialogDismissedMsg:
		// The submit-success ack clears the active machine through the
		// selector; detect that here and fall back to the start screen.
		if a.screen == screenFlow && a.selector.Active() == nil {
			a.flowView = nil
			a.screen = screenStart
			a.start = NewStartPage()
		}
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKey(msg)

	case tea.MouseClickMsg:
		if a.dialog.IsVisible() {
			mouse := msg.Mouse()
			return a, a.dialog.HandleClick(mouse.X, mouse.Y)
		}
		return a, nil
	}

	// Everything else (spinner ticks, cursor blinks) goes to the flow
	// view when one is showing.
	if a.screen == screenFlow && a.flowView != nil {
		events, cmd := a.flowView.Update(msg)
		cmds := a.applyEvents(events)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return a, tea.Quit
	}

	// A visible dialog captures all input.
	if a.dialog.IsVisible() {
		return a, a.dialog.Update(msg)
	}

	if msg.String() == "esc" {
		switch a.screen {
		case screenFlow:
			// Back-navigation discards the run; nothing is kept.
			a.selector.ReturnToStart()
			a.flowView = nil
			a.screen = screenStart
			return a, nil
		case screenCertificate:
			a.screen = screenStart
			return a, nil
		default:
			a.quitting = true
			return a, tea.Quit
		}
	}

	switch a.screen {
	case screenStart:
		return a, a.start.Update(msg)
	case screenCertificate:
		return a, a.cert.Update(msg)
	case screenFlow:
		if a.flowView == nil {
			return a, nil
		}
		events, cmd := a.flowView.Update(msg)
		cmds := a.applyEvents(events)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}
	return a, nil
}

// applyEvents feeds view-produced events through the active machine in
// order, collecting follow-up effects.
func (a *App) applyEvents(events []wizard.Event) []tea.Cmd {
	if len(events) == 0 {
		return nil
	}
	m := a.selector.Active()
	if m == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, ev := range events {
		cmds = append(cmds, effectCmd(m, m.Handle(ev)))
	}
	if a.flowView != nil {
		cmds = append(cmds, a.flowView.Sync())
	}
	return cmds
}

func (a *App) choosePath(kind flow.Kind) (tea.Model, tea.Cmd) {
	switch kind {
	case flow.KindCertificate:
		a.cert = NewCertificatePage()
		a.screen = screenCertificate
		return a, nil

	case flow.KindSchool, flow.KindInstructor:
		wk := wizard.FlowSchool
		if kind == flow.KindInstructor {
			wk = wizard.FlowInstructor
		}
		m, eff := a.selector.Select(wk)
		a.flowView = NewFlowView(m)
		a.screen = screenFlow
		return a, tea.Batch(a.flowView.Init(), effectCmd(m, eff))
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		view.AltScreen = false
		view.MouseMode = 0
		view.Content = lipglossv2.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	area := canvas.Bounds()

	switch a.screen {
	case screenStart:
		a.start.Draw(canvas, area)
	case screenCertificate:
		a.cert.Draw(canvas, area)
	case screenFlow:
		if a.flowView != nil {
			a.flowView.Draw(canvas, area)
		}
	}
	a.dialog.Draw(canvas, area)

	view.Content = lipglossv2.NewLayer(canvas.Render())
	view.BackgroundColor = lipglossv2.Color(theme.Current().BgBase)
	return view
}
