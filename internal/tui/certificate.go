package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/avtomat-app/avtomat/internal/flow"
	"github.com/avtomat-app/avtomat/internal/tui/theme"
)

// unfinishedChosenMsg is emitted for the certificate chooser's
// not-yet-built option.
type unfinishedChosenMsg struct{}

type certOption struct {
	label string
	// kind is zero for the placeholder option.
	kind flow.Kind
}

// CertificatePage is the static chooser behind the "Есть сертификат"
// path. Two options re-dispatch into a wizard flow, the third is a
// placeholder.
type CertificatePage struct {
	options []certOption
	cursor  int
}

func NewCertificatePage() *CertificatePage {
	return &CertificatePage{
		options: []certOption{
			{label: "Полный курс обучения", kind: flow.KindSchool},
			{label: "Только практика", kind: flow.KindInstructor},
			{label: "Только тесты"},
		},
	}
}

// Update handles keyboard navigation on the certificate chooser.
func (p *CertificatePage) Update(msg tea.Msg) tea.Cmd {
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
		opt := p.options[p.cursor]
		if opt.kind == 0 {
			return func() tea.Msg {
				return unfinishedChosenMsg{}
			}
		}
		return func() tea.Msg {
			return pathChosenMsg{kind: opt.kind}
		}
	}
	return nil
}

// Draw renders the certificate chooser into the given area.
func (p *CertificatePage) Draw(scr uv.Screen, area uv.Rectangle) {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(s.HeaderTitle.Render("📜 Выберите опцию"))
	b.WriteString("\n\n")

	for i, opt := range p.options {
		if i == p.cursor {
			b.WriteString(s.OptionSelected.Render(opt.label))
		} else {
			b.WriteString(s.Option.Render(opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHintBar(KeyUpDownJK, "навигация", KeyEnter, "выбрать", KeyEsc, "назад"))

	uv.NewStyledString(b.String()).Draw(scr, area)
}
