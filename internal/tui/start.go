package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/avtomat-app/avtomat/internal/flow"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
)

// pathChosenMsg is emitted by the start page and the certificate
// chooser when the user picks a top-level path.
type pathChosenMsg struct {
	kind flow.Kind
}

type startOption struct {
	kind     flow.Kind
	icon     string
	title    string
	subtitle string
}

// StartPage is the entry screen: a welcome header and the three
// top-level paths.
type StartPage struct {
	options []startOption
	cursor  int
}

func NewStartPage() *StartPage {
	return &StartPage{
		options: []startOption{
			{flow.KindSchool, "🚗", "Нет водительских прав", "Хочу стать водителем"},
			{flow.KindInstructor, "👨‍🏫", "Есть водительские права", "Хочу практику с инструктором"},
			{flow.KindCertificate, "📜", "Есть сертификат", "Выберите опцию"},
		},
	}
}

// Update handles keyboard navigation on the start page.
func (p *StartPage) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case "enter", " ":
		kind := p.options[p.cursor].kind
		return func() tea.Msg {
			return pathChosenMsg{kind: kind}
		}
	}
	return nil
}

// Draw renders the start page into the given area.
func (p *StartPage) Draw(scr uv.Screen, area uv.Rectangle) {
	t := theme.Current()
	s := t.S()

	var b strings.Builder
	b.WriteString(s.HeaderTitle.Render("👋 Добро пожаловать в AvtoMat!"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Выберите подходящий вариант:"))
	b.WriteString("\n\n")

	for i, opt := range p.options {
		line := opt.icon + "  " + opt.title
		sub := "   " + opt.subtitle
		if i == p.cursor {
			b.WriteString(s.OptionSelected.Render(line))
			b.WriteString("\n")
			b.WriteString(s.Option.Foreground(lipgloss.Color(t.FgMuted)).Render(sub))
		} else {
			b.WriteString(s.Option.Render(line))
			b.WriteString("\n")
			b.WriteString(s.Option.Foreground(lipgloss.Color(t.FgMuted)).Render(sub))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(RenderHintBar(KeyUpDownJK, "навигация", KeyEnter, "выбрать", KeyCtrlC, "выход"))

	uv.NewStyledString(b.String()).Draw(scr, area)
}
