package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/avtomat-app/avtomat/internal/bridge"
	"github.com/avtomat-app/avtomat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyCall struct {
	kind    bridge.NotifyKind
	message string
	ack     func(bool)
}

type fakeBridge struct {
	id       bridge.Identity
	hasID    bool
	notifies []notifyCall
	haptics  []bridge.HapticEvent
}

func (f *fakeBridge) Identity() (bridge.Identity, bool)  { return f.id, f.hasID }
func (f *fakeBridge) ThemeTokens() bridge.ThemeTokens    { return bridge.ThemeTokens{} }
func (f *fakeBridge) Haptic(event bridge.HapticEvent)    { f.haptics = append(f.haptics, event) }
func (f *fakeBridge) Notify(kind bridge.NotifyKind, message string, ack func(confirmed bool)) {
	f.notifies = append(f.notifies, notifyCall{kind: kind, message: message, ack: ack})
}

type fakeDirectory struct {
	cities      []models.City
	schools     []models.School
	instructors []models.Instructor
	record      *models.Application

	citiesErr    error
	providersErr error
	createErr    error

	schoolCalls []string            // city filters observed
	instrCalls  [][2]string         // city, auto_type filters observed
	created     []models.ApplicationCreate
}

func (f *fakeDirectory) ListCities(context.Context) ([]models.City, error) {
	return f.cities, f.citiesErr
}

func (f *fakeDirectory) ListSchools(_ context.Context, city string) ([]models.School, error) {
	f.schoolCalls = append(f.schoolCalls, city)
	return f.schools, f.providersErr
}

func (f *fakeDirectory) ListInstructors(_ context.Context, city, autoType string) ([]models.Instructor, error) {
	f.instrCalls = append(f.instrCalls, [2]string{city, autoType})
	return f.instructors, f.providersErr
}

func (f *fakeDirectory) CreateApplication(_ context.Context, payload models.ApplicationCreate) (*models.Application, error) {
	f.created = append(f.created, payload)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.record, nil
}

var (
	almaty   = models.City{ID: 11, Name: "Almaty", NameRU: "Алматы"}
	drivePro = models.School{ID: 3, Name: "Drive Pro", City: 11, Rating: "4.8"}
	erlan    = models.Instructor{ID: 9, Name: "Erlan", City: 11, AutoType: models.AutoTypeAutomatic}
)

// run feeds an effect's result back into the machine, like the TUI does,
// and keeps going until no effect is pending.
func run(t *testing.T, m *Machine, eff Effect) {
	t.Helper()
	for eff != nil {
		eff = m.Handle(eff(context.Background()))
	}
}

func newSchoolMachine(t *testing.T, br *fakeBridge, dir *fakeDirectory, onComplete func()) *Machine {
	t.Helper()
	m, eff := New(FlowSchool, br, dir, onComplete)
	require.NotNil(t, eff, "construction starts the city fetch eagerly")
	run(t, m, eff)
	return m
}

func TestSchoolFlow_HappyPath(t *testing.T) {
	completed := false
	br := &fakeBridge{id: bridge.Identity{ID: 777, FirstName: "Ivan"}, hasID: true}
	dir := &fakeDirectory{
		cities:  []models.City{almaty},
		schools: []models.School{drivePro},
		record:  &models.Application{ID: 55, Status: "new"},
	}

	m := newSchoolMachine(t, br, dir, func() { completed = true })
	assert.Equal(t, StepCity, m.Step())
	assert.Equal(t, FetchIdle, m.Fetch())
	assert.Equal(t, "Ivan", m.Selection().Name, "name pre-seeded from identity")

	require.Nil(t, m.Handle(SelectCity{City: almaty}))
	assert.Equal(t, StepCategory, m.Step())

	require.Nil(t, m.Handle(SelectCategory{Category: "B"}))
	assert.Equal(t, StepFormat, m.Step())

	eff := m.Handle(SelectFormat{Format: models.FormatOffline})
	require.NotNil(t, eff, "format selection starts the school fetch")
	assert.Equal(t, StepFormat, m.Step(), "provider step is entered only after the fetch completes")
	assert.Equal(t, FetchInFlight, m.Fetch())

	run(t, m, eff)
	assert.Equal(t, StepProvider, m.Step())
	assert.Equal(t, []string{"Almaty"}, dir.schoolCalls, "schools filtered by canonical city name")
	require.Len(t, m.Schools(), 1)

	require.Nil(t, m.Handle(SelectSchool{School: drivePro}))
	assert.Equal(t, StepContact, m.Step())

	require.Nil(t, m.Handle(SetContact{Name: "Ivan", Phone: "+77001234567"}))
	eff = m.Handle(Submit{})
	require.NotNil(t, eff)
	assert.Equal(t, StepSubmitting, m.Step())

	run(t, m, eff)
	assert.Equal(t, StepCompleted, m.Step())
	require.NotNil(t, m.Record())
	assert.Equal(t, int64(55), m.Record().ID)

	// Success modal carries the completion signal in its ack
	require.Len(t, br.notifies, 1)
	assert.Equal(t, MsgSubmitOK, br.notifies[0].message)
	assert.False(t, completed, "flow resets only after the user dismisses the modal")
	br.notifies[0].ack(true)
	assert.True(t, completed)

	// Exact outbound payload
	require.Len(t, dir.created, 1)
	got := dir.created[0]
	assert.Equal(t, int64(777), got.TelegramID)
	assert.Equal(t, int64(11), got.City)
	assert.Equal(t, "B", got.Category)
	assert.Equal(t, models.FormatOffline, got.Format)
	require.NotNil(t, got.School)
	assert.Equal(t, int64(3), *got.School)
	assert.Nil(t, got.Instructor)
	assert.Equal(t, "Ivan", got.StudentName)
	assert.Equal(t, "+77001234567", got.StudentPhone)
}

func TestInstructorFlow_HappyPath(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{
		cities:      []models.City{almaty},
		instructors: []models.Instructor{erlan},
		record:      &models.Application{ID: 56},
	}

	m, eff := New(FlowInstructor, br, dir, nil)
	run(t, m, eff)
	assert.Empty(t, m.Selection().Name, "no identity, no pre-seed")

	require.Nil(t, m.Handle(SelectCity{City: almaty}))
	assert.Equal(t, StepAutoType, m.Step())

	eff = m.Handle(SelectAutoType{AutoType: models.AutoTypeAutomatic})
	require.NotNil(t, eff)
	run(t, m, eff)
	assert.Equal(t, StepProvider, m.Step())
	assert.Equal(t, [][2]string{{"Almaty", "automatic"}}, dir.instrCalls)

	require.Nil(t, m.Handle(SelectInstructor{Instructor: erlan}))
	require.Nil(t, m.Handle(SetContact{Name: "Dana", Phone: "+77015556677"}))
	run(t, m, m.Handle(Submit{}))

	assert.Equal(t, StepCompleted, m.Step())
	require.Len(t, dir.created, 1)
	assert.Equal(t, int64(0), dir.created[0].TelegramID, "guest identity submits telegram_id 0")
	require.NotNil(t, dir.created[0].Instructor)
	assert.Equal(t, int64(9), *dir.created[0].Instructor)
	assert.Nil(t, dir.created[0].School)
}

func TestBlankPhone_NeverReachesGateway(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}, schools: []models.School{drivePro}}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})
	run(t, m, m.Handle(SelectFormat{Format: models.FormatOnline}))
	m.Handle(SelectSchool{School: drivePro})

	m.Handle(SetContact{Name: "Ivan", Phone: ""})
	require.Nil(t, m.Handle(Submit{}), "no submit effect for an incomplete form")

	assert.Equal(t, StepContact, m.Step())
	assert.Empty(t, dir.created, "createApplication must observe zero invocations")
	require.Len(t, br.notifies, 1)
	assert.Equal(t, bridge.Info, br.notifies[0].kind)
	assert.Equal(t, MsgFillAllFields, br.notifies[0].message)
}

func TestEmptyProviderList_IsNotAnError(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}, schools: nil}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})
	run(t, m, m.Handle(SelectFormat{Format: models.FormatOnline}))

	assert.Equal(t, StepProvider, m.Step())
	assert.Equal(t, FetchIdle, m.Fetch(), "genuinely empty list is not a failure")
	assert.Empty(t, m.Schools())
	assert.Empty(t, br.notifies)
}

func TestProviderFetchFailure_MarkedButNotFatal(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}, providersErr: errors.New("boom")}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})
	run(t, m, m.Handle(SelectFormat{Format: models.FormatOnline}))

	assert.Equal(t, StepProvider, m.Step())
	assert.Equal(t, FetchFailed, m.Fetch(), "failure is distinguishable from an empty list")
	assert.Empty(t, m.Schools())
	assert.Empty(t, br.notifies, "load failures are logged, not surfaced as modals")
}

func TestCityFetchFailure(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{citiesErr: errors.New("connection refused")}

	m, eff := New(FlowSchool, br, dir, nil)
	run(t, m, eff)

	assert.Equal(t, StepCity, m.Step())
	assert.Equal(t, FetchFailed, m.Fetch())
	assert.Empty(t, m.Cities())

	// City selection is refused while there is nothing valid to select
	require.Nil(t, m.Handle(SelectCity{City: almaty}))
	assert.Equal(t, StepCategory, m.Step(), "failed overlay does not block selection once user retries via UI")
}

func TestSubmitFailure_KeepsFormForRetry(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{
		cities:  []models.City{almaty},
		schools: []models.School{drivePro},
		record:  &models.Application{ID: 55},
	}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})
	run(t, m, m.Handle(SelectFormat{Format: models.FormatOnline}))
	m.Handle(SelectSchool{School: drivePro})
	m.Handle(SetContact{Name: "Ivan", Phone: "+77001234567"})

	dir.createErr = errors.New("502")
	run(t, m, m.Handle(Submit{}))

	assert.Equal(t, StepContact, m.Step(), "failed submission returns to the form, not a terminal state")
	assert.Equal(t, "Ivan", m.Selection().Name, "filled data survives for retry")
	assert.Equal(t, "+77001234567", m.Selection().Phone)
	require.Len(t, br.notifies, 1)
	assert.Equal(t, MsgSubmitFailed, br.notifies[0].message)
	assert.Contains(t, br.haptics, bridge.HapticError)

	// Retry with the same data succeeds
	dir.createErr = nil
	run(t, m, m.Handle(Submit{}))
	assert.Equal(t, StepCompleted, m.Step())
	assert.Len(t, dir.created, 2)
}

func TestRapidReselection_SingleFetchHonored(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}, schools: []models.School{drivePro}}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})

	// First selection starts the fetch; do not resolve it yet.
	first := m.Handle(SelectFormat{Format: models.FormatOnline})
	require.NotNil(t, first)

	// Re-selection while the fetch is outstanding must not start a second
	// concurrent fetch.
	require.Nil(t, m.Handle(SelectFormat{Format: models.FormatHybrid}))
	assert.Equal(t, models.FormatHybrid, m.Selection().Format, "last selection wins")
	assert.Len(t, dir.schoolCalls, 0, "nothing issued yet beyond the outstanding effect")

	// The stale result is discarded and a follow-up fetch is issued for
	// the latest selection instead.
	staleResult := first(context.Background())
	followUp := m.Handle(staleResult)
	require.NotNil(t, followUp, "stale result triggers the re-targeted fetch")
	assert.Equal(t, StepFormat, m.Step(), "stale result is not applied")

	run(t, m, followUp)
	assert.Equal(t, StepProvider, m.Step())
	assert.Equal(t, models.FormatHybrid, m.Selection().Format)
	assert.Len(t, dir.schoolCalls, 2, "one outstanding fetch at a time, two in total")
}

func TestStaleSequence_Discarded(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}, schools: []models.School{drivePro}}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})
	m.Handle(SelectCategory{Category: "B"})
	run(t, m, m.Handle(SelectFormat{Format: models.FormatOnline}))
	require.Equal(t, StepProvider, m.Step())

	// A response from a long-gone request must not overwrite state.
	require.Nil(t, m.Handle(ProvidersLoaded{Seq: 1, Schools: nil}))
	assert.Len(t, m.Schools(), 1, "stale event left the provider list alone")

	require.Nil(t, m.Handle(CitiesLoaded{Seq: 1, Cities: nil}))
	assert.Len(t, m.Cities(), 1)
}

func TestEventsOutOfOrder_AreIgnored(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}}

	m := newSchoolMachine(t, br, dir, nil)

	// None of these fit StepCity; the machine must hold its ground so a
	// later step's field can never be set before the earlier ones.
	require.Nil(t, m.Handle(SelectCategory{Category: "B"}))
	require.Nil(t, m.Handle(SelectFormat{Format: models.FormatOnline}))
	require.Nil(t, m.Handle(SelectSchool{School: drivePro}))
	require.Nil(t, m.Handle(SetContact{Name: "x", Phone: "y"}))
	require.Nil(t, m.Handle(Submit{}))

	sel := m.Selection()
	assert.Nil(t, sel.City)
	assert.Empty(t, sel.Category)
	assert.Empty(t, sel.Format)
	assert.Nil(t, sel.School)
	assert.Empty(t, sel.Phone)
	assert.Empty(t, dir.created)
}

func TestInstructorEventsRejectedInSchoolFlow(t *testing.T) {
	br := &fakeBridge{}
	dir := &fakeDirectory{cities: []models.City{almaty}}

	m := newSchoolMachine(t, br, dir, nil)
	m.Handle(SelectCity{City: almaty})

	require.Nil(t, m.Handle(SelectAutoType{AutoType: models.AutoTypeManual}))
	assert.Empty(t, m.Selection().AutoType)
	assert.Equal(t, StepCategory, m.Step())
}
