// Package flow dispatches the top-level paths a user can take: it starts
// a wizard instance for a chosen flow kind and tears it down on
// back-navigation or completion.
package flow

import (
	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/logger"
	"github.com/avtomat-app/avtomat/internal/wizard"
)

// Kind is a top-level path, a superset of the wizard flows: the
// certificate path is a static chooser that re-dispatches into one of
// the two wizards.
type Kind int

const (
	KindSchool Kind = iota + 1
	KindInstructor
	KindCertificate
)

func (k Kind) String() string {
	switch k {
	case KindSchool:
		return "school"
	case KindInstructor:
		return "instructor"
	case KindCertificate:
		return "certificate"
	default:
		return "unknown"
	}
}

// MsgInDevelopment is shown for the certificate chooser's unfinished
// "tests only" option.
const MsgInDevelopment = "Функция в разработке"

// Selector owns the single active wizard instance. Switching flow kinds
// is only reachable through ReturnToStart; there is no direct
// school→instructor transition.
type Selector struct {
	bridge bridge.Bridge
	dir    wizard.Directory

	active *wizard.Machine
}

// New creates a selector over the given bridge and gateway.
func New(br bridge.Bridge, dir wizard.Directory) *Selector {
	return &Selector{bridge: br, dir: dir}
}

// Select discards any active machine and starts a fresh one for the
// given wizard flow. The returned effect is the machine's eager city
// fetch.
func (s *Selector) Select(kind wizard.FlowKind) (*wizard.Machine, wizard.Effect) {
	logger.Info("starting %s flow", kind)
	var m *wizard.Machine
	m, eff := wizard.New(kind, s.bridge, s.dir, func() {
		// Completion ack fires through the modal; by then the user may
		// already have backed out and started another run.
		s.completeIf(m)
	})
	s.active = m
	return m, eff
}

// Active returns the current machine, nil when the start screen is
// showing.
func (s *Selector) Active() *wizard.Machine { return s.active }

// Owns reports whether machine events should still be applied. Effects
// resolved after the user navigated away deliver events for a discarded
// machine; callers drop those.
func (s *Selector) Owns(m *wizard.Machine) bool {
	return m != nil && m == s.active
}

// ReturnToStart discards the active instance. Nothing is persisted: the
// next Select starts with a freshly empty selection.
func (s *Selector) ReturnToStart() {
	if s.active != nil {
		logger.Info("leaving %s flow at step %s", s.active.Flow(), s.active.Step())
	}
	s.active = nil
}

// ShowUnfinished routes the certificate chooser's placeholder option
// through the bridge.
func (s *Selector) ShowUnfinished() {
	s.bridge.Notify(bridge.Info, MsgInDevelopment, nil)
}

func (s *Selector) completeIf(m *wizard.Machine) {
	if s.Owns(m) {
		s.active = nil
	}
}
