// Package wizard implements the finite-state machines behind the
// enrollment flows. A Machine owns one run of one flow: the ordered step
// sequence, the accumulated selection, and the loading/error overlay for
// the current step. It is pure event-driven logic with no rendering:
// user actions and gateway results come in as Events, asynchronous work
// goes out as Effects for the caller to execute.
package wizard

import "github.com/avtomat-app/avtomat/internal/models"

// FlowKind identifies which wizard variant a Machine runs.
type FlowKind int

const (
	// FlowSchool: city → category → format → school → contact.
	FlowSchool FlowKind = iota + 1
	// FlowInstructor: city → transmission type → instructor → contact.
	FlowInstructor
)

func (f FlowKind) String() string {
	switch f {
	case FlowSchool:
		return "school"
	case FlowInstructor:
		return "instructor"
	default:
		return "unknown"
	}
}

// Step is the machine's top-level state. StepCategory and StepFormat
// exist only in the school flow, StepAutoType only in the instructor
// flow.
type Step int

const (
	StepCity Step = iota
	StepCategory
	StepFormat
	StepAutoType
	StepProvider
	StepContact
	StepSubmitting
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepCity:
		return "city"
	case StepCategory:
		return "category"
	case StepFormat:
		return "format"
	case StepAutoType:
		return "auto_type"
	case StepProvider:
		return "provider"
	case StepContact:
		return "contact"
	case StepSubmitting:
		return "submitting"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// FetchState is an overlay on the current step, not a step of its own.
// FetchFailed distinguishes "zero results because the fetch failed" from
// "genuinely none".
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchInFlight
	FetchFailed
)

// Option is a fixed selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// Categories are the license categories offered by schools.
var Categories = []string{"A", "B", "BE", "C", "CE", "D", "DE", "A1", "C1", "D1"}

// Formats are the learning formats for the school course.
var Formats = []Option{
	{Value: models.FormatOnline, Label: "Онлайн"},
	{Value: models.FormatOffline, Label: "Оффлайн"},
	{Value: models.FormatHybrid, Label: "Гибрид"},
}

// AutoTypes are the vehicle transmission types for instructor practice.
var AutoTypes = []Option{
	{Value: models.AutoTypeAutomatic, Label: "Автомат"},
	{Value: models.AutoTypeManual, Label: "Механика"},
}

// User-facing dialog messages, verbatim from the mini app.
const (
	MsgFillAllFields = "Пожалуйста, заполните все поля"
	MsgSubmitOK      = "✅ Заявка успешно отправлена!"
	MsgSubmitFailed  = "Ошибка при отправке заявки"
)
