package tui

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/avtomat-app/avtomat/internal/tui/theme"
	"github.com/avtomat-app/avtomat/internal/wizard"
)

// FlowView renders the active wizard machine and turns key presses into
// wizard events. It owns only presentation state (cursor position, input
// focus, spinner frame); all flow state lives in the machine.
type FlowView struct {
	machine *wizard.Machine

	cursor   int
	lastStep wizard.Step

	nameInput  textinput.Model
	phoneInput textinput.Model
	focusIndex int // 0=name, 1=phone

	spinner Spinner
	ticking bool
}

// NewFlowView creates a view over a freshly started machine.
func NewFlowView(m *wizard.Machine) *FlowView {
	t := theme.Current()

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Ваше имя"
	nameInput.Prompt = "> "
	nameInput.SetStyles(styles)
	nameInput.SetWidth(40)
	nameInput.SetValue(m.Selection().Name)

	phoneInput := textinput.New()
	phoneInput.Placeholder = "Номер телефона (+7XXXXXXXXXX)"
	phoneInput.Prompt = "> "
	phoneInput.SetStyles(styles)
	phoneInput.SetWidth(40)

	return &FlowView{
		machine:    m,
		lastStep:   m.Step(),
		nameInput:  nameInput,
		phoneInput: phoneInput,
		spinner:    NewDefaultSpinner(),
	}
}

// Init starts the spinner for the machine's eager city fetch.
func (v *FlowView) Init() tea.Cmd {
	v.ticking = true
	return v.spinner.Tick()
}

// Sync reconciles presentation state after machine events: the cursor
// resets when the step changes and the contact inputs take focus on
// entering the form.
func (v *FlowView) Sync() tea.Cmd {
	var cmds []tea.Cmd

	if step := v.machine.Step(); step != v.lastStep {
		v.lastStep = step
		v.cursor = 0
		if step == wizard.StepContact {
			v.focusIndex = 0
			v.nameInput.SetValue(v.machine.Selection().Name)
			v.phoneInput.SetValue(v.machine.Selection().Phone)
			v.phoneInput.Blur()
			cmds = append(cmds, v.nameInput.Focus())
		}
	}

	if v.loading() && !v.ticking {
		v.ticking = true
		cmds = append(cmds, v.spinner.Tick())
	}

	return tea.Batch(cmds...)
}

func (v *FlowView) loading() bool {
	return v.machine.Fetch() == wizard.FetchInFlight || v.machine.Step() == wizard.StepSubmitting
}

// Update handles one message and returns the wizard events it produced,
// in order, plus any presentation commands.
func (v *FlowView) Update(msg tea.Msg) ([]wizard.Event, tea.Cmd) {
	if cmd := v.updateSpinner(msg); cmd != nil {
		return nil, cmd
	}

	if v.machine.Step() == wizard.StepContact {
		return v.updateContact(msg)
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, nil
	}

	options := v.optionCount()
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < options-1 {
			v.cursor++
		}
	case "enter", " ":
		if ev := v.chosenEvent(); ev != nil {
			return []wizard.Event{ev}, nil
		}
	}
	return nil, nil
}

// updateSpinner keeps the tick chain alive while loading. It consumes
// only the spinner's own tick messages.
func (v *FlowView) updateSpinner(msg tea.Msg) tea.Cmd {
	if !v.loading() {
		v.ticking = false
		return nil
	}
	return v.spinner.Update(msg)
}

func (v *FlowView) optionCount() int {
	m := v.machine
	switch m.Step() {
	case wizard.StepCity:
		return len(m.Cities())
	case wizard.StepCategory:
		return len(wizard.Categories)
	case wizard.StepFormat:
		return len(wizard.Formats)
	case wizard.StepAutoType:
		return len(wizard.AutoTypes)
	case wizard.StepProvider:
		if m.Flow() == wizard.FlowInstructor {
			return len(m.Instructors())
		}
		return len(m.Schools())
	default:
		return 0
	}
}

// chosenEvent maps the cursor position to a selection event for the
// current step. Loading and out-of-range states produce nothing; the
// machine would ignore the event anyway, this just avoids building it.
func (v *FlowView) chosenEvent() wizard.Event {
	m := v.machine
	if v.cursor >= v.optionCount() {
		return nil
	}
	switch m.Step() {
	case wizard.StepCity:
		if m.Fetch() != wizard.FetchIdle {
			return nil
		}
		return wizard.SelectCity{City: m.Cities()[v.cursor]}
	case wizard.StepCategory:
		return wizard.SelectCategory{Category: wizard.Categories[v.cursor]}
	case wizard.StepFormat:
		return wizard.SelectFormat{Format: wizard.Formats[v.cursor].Value}
	case wizard.StepAutoType:
		return wizard.SelectAutoType{AutoType: wizard.AutoTypes[v.cursor].Value}
	case wizard.StepProvider:
		if m.Fetch() == wizard.FetchInFlight {
			return nil
		}
		if m.Flow() == wizard.FlowInstructor {
			return wizard.SelectInstructor{Instructor: m.Instructors()[v.cursor]}
		}
		return wizard.SelectSchool{School: m.Schools()[v.cursor]}
	default:
		return nil
	}
}

func (v *FlowView) updateContact(msg tea.Msg) ([]wizard.Event, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			v.setContactFocus((v.focusIndex + 1) % 2)
			return nil, v.focusedInput().Focus()
		case "shift+tab", "up":
			v.setContactFocus((v.focusIndex + 1) % 2)
			return nil, v.focusedInput().Focus()
		case "enter":
			if v.focusIndex == 0 {
				v.setContactFocus(1)
				return nil, v.phoneInput.Focus()
			}
			// Submit goes through the machine; an incomplete form comes
			// back as a fill-all-fields modal, not a silent no-op.
			return []wizard.Event{
				wizard.SetContact{
					Name:  strings.TrimSpace(v.nameInput.Value()),
					Phone: strings.TrimSpace(v.phoneInput.Value()),
				},
				wizard.Submit{},
			}, nil
		}
	}

	var cmd tea.Cmd
	if v.focusIndex == 0 {
		v.nameInput, cmd = v.nameInput.Update(msg)
	} else {
		v.phoneInput, cmd = v.phoneInput.Update(msg)
	}
	return nil, cmd
}

func (v *FlowView) setContactFocus(idx int) {
	v.focusIndex = idx
	if idx == 0 {
		v.phoneInput.Blur()
	} else {
		v.nameInput.Blur()
	}
}

func (v *FlowView) focusedInput() *textinput.Model {
	if v.focusIndex == 0 {
		return &v.nameInput
	}
	return &v.phoneInput
}

// Draw renders the current step into the given area.
func (v *FlowView) Draw(scr uv.Screen, area uv.Rectangle) {
	var b strings.Builder

	switch v.machine.Step() {
	case wizard.StepCity:
		v.drawCity(&b)
	case wizard.StepCategory:
		v.drawOptions(&b, "🚗 Выберите категорию прав", categoryLabels())
	case wizard.StepFormat:
		v.drawOptions(&b, "📚 Выберите формат обучения", optionLabels(wizard.Formats))
	case wizard.StepAutoType:
		v.drawOptions(&b, "🚗 Выберите тип автомобиля", optionLabels(wizard.AutoTypes))
	case wizard.StepProvider:
		v.drawProviders(&b)
	case wizard.StepContact:
		v.drawContact(&b)
	case wizard.StepSubmitting:
		v.drawSubmitting(&b)
	case wizard.StepCompleted:
		v.drawCompleted(&b)
	}

	uv.NewStyledString(b.String()).Draw(scr, area)
}

func categoryLabels() []string {
	return wizard.Categories
}

func optionLabels(opts []wizard.Option) []string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return labels
}

func (v *FlowView) drawCity(b *strings.Builder) {
	s := theme.Current().S()
	b.WriteString(s.HeaderTitle.Render("🏙 Выберите город"))
	b.WriteString("\n\n")

	switch v.machine.Fetch() {
	case wizard.FetchInFlight:
		b.WriteString(v.spinner.View() + " " + s.Subtitle.Render("Загрузка..."))
		b.WriteString("\n")
		return
	case wizard.FetchFailed:
		b.WriteString(s.ErrorText.Render("Ошибка загрузки данных"))
		b.WriteString("\n\n")
		b.WriteString(RenderHintBar(KeyEsc, "назад"))
		return
	}

	for i, city := range v.machine.Cities() {
		if i == v.cursor {
			b.WriteString(s.OptionSelected.Render(city.DisplayName()))
		} else {
			b.WriteString(s.Option.Render(city.DisplayName()))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderHintBar(KeyUpDownJK, "навигация", KeyEnter, "выбрать", KeyEsc, "назад"))
}

func (v *FlowView) drawOptions(b *strings.Builder, title string, labels []string) {
	s := theme.Current().S()
	b.WriteString(s.HeaderTitle.Render(title))
	b.WriteString("\n\n")

	for i, label := range labels {
		if i == v.cursor {
			b.WriteString(s.OptionSelected.Render(label))
		} else {
			b.WriteString(s.Option.Render(label))
		}
		b.WriteString("\n")
	}

	if v.machine.Fetch() == wizard.FetchInFlight {
		b.WriteString("\n" + v.spinner.View() + " " + s.Subtitle.Render("Загрузка..."))
	}
	b.WriteString("\n")
	b.WriteString(RenderHintBar(KeyUpDownJK, "навигация", KeyEnter, "выбрать", KeyEsc, "назад"))
}

func (v *FlowView) drawProviders(b *strings.Builder) {
	s := theme.Current().S()
	instructorFlow := v.machine.Flow() == wizard.FlowInstructor

	if instructorFlow {
		b.WriteString(s.HeaderTitle.Render("👨‍🏫 Доступные инструкторы"))
	} else {
		b.WriteString(s.HeaderTitle.Render("🏫 Доступные автошколы"))
	}
	b.WriteString("\n\n")

	if v.machine.Fetch() == wizard.FetchFailed {
		b.WriteString(s.ErrorText.Render("Ошибка загрузки данных"))
		b.WriteString("\n\n")
		b.WriteString(RenderHintBar(KeyEsc, "назад"))
		return
	}

	if v.optionCount() == 0 {
		if instructorFlow {
			b.WriteString(s.Subtitle.Render("В этом городе пока нет доступных инструкторов"))
		} else {
			b.WriteString(s.Subtitle.Render("В этом городе пока нет доступных автошкол"))
		}
		b.WriteString("\n\n")
		b.WriteString(RenderHintBar(KeyEsc, "назад"))
		return
	}

	if instructorFlow {
		for i, ins := range v.machine.Instructors() {
			v.drawCard(b, i, ins.Name,
				"⭐ "+ins.Rating,
				"🚗 "+ins.AutoTypeDisplay,
				"📞 "+ins.Phone,
			)
		}
	} else {
		for i, school := range v.machine.Schools() {
			v.drawCard(b, i, school.Name,
				"⭐ "+school.Rating,
				"📍 "+school.Address,
			)
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderHintBar(KeyUpDownJK, "навигация", KeyEnter, "выбрать", KeyEsc, "назад"))
}

func (v *FlowView) drawCard(b *strings.Builder, idx int, title string, meta ...string) {
	s := theme.Current().S()
	if idx == v.cursor {
		b.WriteString(s.OptionSelected.Render(title))
	} else {
		b.WriteString(s.CardTitle.Padding(0, 2).Render(title))
	}
	b.WriteString("\n")
	for _, line := range meta {
		b.WriteString(s.CardMeta.Padding(0, 2).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (v *FlowView) drawContact(b *strings.Builder) {
	s := theme.Current().S()
	b.WriteString(s.HeaderTitle.Render("📝 Заполните заявку"))
	b.WriteString("\n\n")

	b.WriteString(s.Subtitle.Render("Имя"))
	b.WriteString("\n")
	b.WriteString(v.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(s.Subtitle.Render("Телефон"))
	b.WriteString("\n")
	b.WriteString(v.phoneInput.View())
	b.WriteString("\n\n")
	b.WriteString(RenderHintBar(KeyTab, "поле", KeyEnter, "отправить", KeyEsc, "назад"))
}

func (v *FlowView) drawSubmitting(b *strings.Builder) {
	s := theme.Current().S()
	b.WriteString(s.HeaderTitle.Render("📝 Заполните заявку"))
	b.WriteString("\n\n")
	b.WriteString(v.spinner.View() + " " + s.Subtitle.Render("Отправка..."))
	b.WriteString("\n")
}

func (v *FlowView) drawCompleted(b *strings.Builder) {
	s := theme.Current().S()
	b.WriteString(s.HeaderTitle.Render(wizard.MsgSubmitOK))
	b.WriteString("\n")
	if rec := v.machine.Record(); rec != nil && rec.ID != 0 {
		b.WriteString(s.Subtitle.Render("Номер заявки: " + strconv.FormatInt(rec.ID, 10)))
		b.WriteString("\n")
	}
}
