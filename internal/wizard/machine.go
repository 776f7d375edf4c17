package wizard

import (
	"context"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/logger"
	"github.com/avtomat-app/avtomat/internal/models"
)

// Directory is the gateway surface the machine depends on.
type Directory interface {
	ListCities(ctx context.Context) ([]models.City, error)
	ListSchools(ctx context.Context, city string) ([]models.School, error)
	ListInstructors(ctx context.Context, city, autoType string) ([]models.Instructor, error)
	CreateApplication(ctx context.Context, payload models.ApplicationCreate) (*models.Application, error)
}

// providerKey is the filter a provider fetch was issued for. Results are
// applied only when the issued key still matches the wanted one.
type providerKey struct {
	city     string
	autoType string
}

// Machine runs one wizard flow from city selection to a submitted
// application. One instance per run; it is discarded on back-navigation
// or completion and never reused.
type Machine struct {
	flow       FlowKind
	bridge     bridge.Bridge
	dir        Directory
	onComplete func()

	step  Step
	fetch FetchState
	seq   int // id of the outstanding async op; stale results carry older values

	wantKey   providerKey
	issuedKey providerKey

	cities      []models.City
	schools     []models.School
	instructors []models.Instructor
	sel         Selection
	record      *models.Application
}

// New creates a machine for the given flow and returns it together with
// the eager city-list fetch. The contact name is pre-seeded from the host
// identity once, here; it is not re-applied if identity changes later.
func New(flow FlowKind, br bridge.Bridge, dir Directory, onComplete func()) (*Machine, Effect) {
	m := &Machine{
		flow:       flow,
		bridge:     br,
		dir:        dir,
		onComplete: onComplete,
		step:       StepCity,
		fetch:      FetchInFlight,
		seq:        1,
	}
	if id, ok := br.Identity(); ok {
		m.sel.Name = id.FirstName
	}

	seq := m.seq
	return m, func(ctx context.Context) Event {
		cities, err := dir.ListCities(ctx)
		return CitiesLoaded{Seq: seq, Cities: cities, Err: err}
	}
}

// Flow returns the machine's flow kind.
func (m *Machine) Flow() FlowKind { return m.flow }

// Step returns the current top-level state.
func (m *Machine) Step() Step { return m.step }

// Fetch returns the loading/error overlay for the current step.
func (m *Machine) Fetch() FetchState { return m.fetch }

// Cities returns the loaded city list.
func (m *Machine) Cities() []models.City { return m.cities }

// Schools returns the loaded school list (school flow).
func (m *Machine) Schools() []models.School { return m.schools }

// Instructors returns the loaded instructor list (instructor flow).
func (m *Machine) Instructors() []models.Instructor { return m.instructors }

// Selection returns a copy of the accumulated selection.
func (m *Machine) Selection() Selection { return m.sel }

// Record returns the backend acknowledgement once completed.
func (m *Machine) Record() *models.Application { return m.record }

// Handle applies one event and returns the follow-up effect, if any.
// Events that do not fit the current step are ignored: the machine never
// lets a later step's field be set while an earlier one is empty.
func (m *Machine) Handle(ev Event) Effect {
	switch ev := ev.(type) {
	case CitiesLoaded:
		return m.onCitiesLoaded(ev)
	case SelectCity:
		return m.onSelectCity(ev)
	case SelectCategory:
		return m.onSelectCategory(ev)
	case SelectFormat:
		return m.onSelectFormat(ev)
	case SelectAutoType:
		return m.onSelectAutoType(ev)
	case ProvidersLoaded:
		return m.onProvidersLoaded(ev)
	case SelectSchool:
		return m.onSelectSchool(ev)
	case SelectInstructor:
		return m.onSelectInstructor(ev)
	case SetContact:
		return m.onSetContact(ev)
	case Submit:
		return m.onSubmit()
	case SubmitFinished:
		return m.onSubmitFinished(ev)
	default:
		return nil
	}
}

func (m *Machine) onCitiesLoaded(ev CitiesLoaded) Effect {
	if ev.Seq != m.seq || m.step != StepCity {
		return nil
	}
	if ev.Err != nil {
		// No hard failure, no retry: an empty list with a failed overlay
		// is still navigable (back to start).
		logger.Error("loading cities: %v", ev.Err)
		m.fetch = FetchFailed
		return nil
	}
	m.cities = ev.Cities
	m.fetch = FetchIdle
	return nil
}

func (m *Machine) onSelectCity(ev SelectCity) Effect {
	if m.step != StepCity || m.fetch == FetchInFlight {
		return nil
	}
	m.sel.City = &ev.City
	m.bridge.Haptic(bridge.HapticSelection)
	if m.flow == FlowInstructor {
		m.step = StepAutoType
	} else {
		m.step = StepCategory
	}
	return nil
}

func (m *Machine) onSelectCategory(ev SelectCategory) Effect {
	if m.flow != FlowSchool || m.step != StepCategory {
		return nil
	}
	m.sel.Category = ev.Category
	m.bridge.Haptic(bridge.HapticSelection)
	m.step = StepFormat
	return nil
}

func (m *Machine) onSelectFormat(ev SelectFormat) Effect {
	if m.flow != FlowSchool || m.step != StepFormat {
		return nil
	}
	m.sel.Format = ev.Format
	m.bridge.Haptic(bridge.HapticSelection)
	return m.requestProviders()
}

func (m *Machine) onSelectAutoType(ev SelectAutoType) Effect {
	if m.flow != FlowInstructor || m.step != StepAutoType {
		return nil
	}
	m.sel.AutoType = ev.AutoType
	m.bridge.Haptic(bridge.HapticSelection)
	return m.requestProviders()
}

// requestProviders wants a provider fetch for the current selection. The
// step does not advance yet: the provider list is entered only once the
// fetch resolves, with a loading overlay in the meantime. At most one
// fetch is outstanding; a re-selection while one is in flight re-targets
// the want key, and the stale result triggers the follow-up fetch instead
// of being applied.
func (m *Machine) requestProviders() Effect {
	m.wantKey = providerKey{city: m.sel.City.Name, autoType: m.sel.AutoType}
	if m.fetch == FetchInFlight {
		return nil
	}
	return m.issueProviderFetch()
}

func (m *Machine) issueProviderFetch() Effect {
	m.fetch = FetchInFlight
	m.seq++
	m.issuedKey = m.wantKey

	seq := m.seq
	key := m.issuedKey
	flow := m.flow
	dir := m.dir
	return func(ctx context.Context) Event {
		if flow == FlowInstructor {
			instructors, err := dir.ListInstructors(ctx, key.city, key.autoType)
			return ProvidersLoaded{Seq: seq, Instructors: instructors, Err: err}
		}
		schools, err := dir.ListSchools(ctx, key.city)
		return ProvidersLoaded{Seq: seq, Schools: schools, Err: err}
	}
}

func (m *Machine) onProvidersLoaded(ev ProvidersLoaded) Effect {
	if ev.Seq != m.seq {
		return nil
	}
	if m.issuedKey != m.wantKey {
		// Selection changed while the fetch was outstanding; discard the
		// stale result and fetch for the latest key.
		return m.issueProviderFetch()
	}

	m.step = StepProvider
	if ev.Err != nil {
		// Left in the provider step with zero options; a failed overlay
		// marks it apart from a genuinely empty list.
		logger.Error("loading providers for %s: %v", m.flow, ev.Err)
		m.fetch = FetchFailed
		m.schools = nil
		m.instructors = nil
		return nil
	}
	m.fetch = FetchIdle
	m.schools = ev.Schools
	m.instructors = ev.Instructors
	return nil
}

func (m *Machine) onSelectSchool(ev SelectSchool) Effect {
	if m.flow != FlowSchool || m.step != StepProvider || m.fetch == FetchInFlight {
		return nil
	}
	m.sel.School = &ev.School
	m.bridge.Haptic(bridge.HapticSelection)
	m.step = StepContact
	m.fetch = FetchIdle
	return nil
}

func (m *Machine) onSelectInstructor(ev SelectInstructor) Effect {
	if m.flow != FlowInstructor || m.step != StepProvider || m.fetch == FetchInFlight {
		return nil
	}
	m.sel.Instructor = &ev.Instructor
	m.bridge.Haptic(bridge.HapticSelection)
	m.step = StepContact
	m.fetch = FetchIdle
	return nil
}

func (m *Machine) onSetContact(ev SetContact) Effect {
	if m.step != StepContact {
		return nil
	}
	m.sel.Name = ev.Name
	m.sel.Phone = ev.Phone
	return nil
}

func (m *Machine) onSubmit() Effect {
	if m.step != StepContact {
		return nil
	}
	if !m.sel.ReadyToSubmit(m.flow) {
		m.bridge.Notify(bridge.Info, MsgFillAllFields, nil)
		return nil
	}

	var telegramID int64
	if id, ok := m.bridge.Identity(); ok {
		telegramID = id.ID
	}
	payload := m.sel.Submission(m.flow, telegramID)

	m.step = StepSubmitting
	m.fetch = FetchInFlight
	m.seq++

	seq := m.seq
	dir := m.dir
	return func(ctx context.Context) Event {
		record, err := dir.CreateApplication(ctx, payload)
		return SubmitFinished{Seq: seq, Record: record, Err: err}
	}
}

func (m *Machine) onSubmitFinished(ev SubmitFinished) Effect {
	if ev.Seq != m.seq || m.step != StepSubmitting {
		return nil
	}
	m.fetch = FetchIdle
	if ev.Err != nil {
		// Not terminal: the filled form is kept so the user can retry.
		logger.Error("creating application: %v", ev.Err)
		m.step = StepContact
		m.bridge.Haptic(bridge.HapticError)
		m.bridge.Notify(bridge.Info, MsgSubmitFailed, nil)
		return nil
	}

	m.step = StepCompleted
	m.record = ev.Record
	m.bridge.Haptic(bridge.HapticSuccess)
	done := m.onComplete
	m.bridge.Notify(bridge.Info, MsgSubmitOK, func(bool) {
		if done != nil {
			done()
		}
	})
	return nil
}
