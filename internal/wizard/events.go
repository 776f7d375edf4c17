package wizard

import (
	"context"

	"github.com/avtomat-app/avtomat/internal/models"
)

// Event is a single input to Machine.Handle: either a user action or the
// result of an Effect the machine issued earlier.
type Event interface{ isEvent() }

// Effect is asynchronous work the machine wants done. The caller runs it
// off the event loop and feeds the returned Event back into Handle. A nil
// Effect means nothing to do.
type Effect func(ctx context.Context) Event

// User actions.

// SelectCity records the city chosen on the first step.
type SelectCity struct{ City models.City }

// SelectCategory records the license category (school flow).
type SelectCategory struct{ Category string }

// SelectFormat records the learning format and triggers the school fetch
// (school flow).
type SelectFormat struct{ Format string }

// SelectAutoType records the transmission type and triggers the
// instructor fetch (instructor flow).
type SelectAutoType struct{ AutoType string }

// SelectSchool records the chosen school.
type SelectSchool struct{ School models.School }

// SelectInstructor records the chosen instructor.
type SelectInstructor struct{ Instructor models.Instructor }

// SetContact updates the contact form fields.
type SetContact struct{ Name, Phone string }

// Submit asks the machine to validate and send the application.
type Submit struct{}

// Results of effects. Seq ties a result to the fetch that produced it so
// a stale response for an abandoned request is discarded, never applied.

// CitiesLoaded delivers the city list requested at construction.
type CitiesLoaded struct {
	Seq    int
	Cities []models.City
	Err    error
}

// ProvidersLoaded delivers the provider list for the current filter.
// Exactly one of Schools or Instructors is populated, by flow.
type ProvidersLoaded struct {
	Seq         int
	Schools     []models.School
	Instructors []models.Instructor
	Err         error
}

// SubmitFinished delivers the outcome of createApplication.
type SubmitFinished struct {
	Seq    int
	Record *models.Application
	Err    error
}

func (SelectCity) isEvent()       {}
func (SelectCategory) isEvent()   {}
func (SelectFormat) isEvent()     {}
func (SelectAutoType) isEvent()   {}
func (SelectSchool) isEvent()     {}
func (SelectInstructor) isEvent() {}
func (SetContact) isEvent()       {}
func (Submit) isEvent()           {}
func (CitiesLoaded) isEvent()     {}
func (ProvidersLoaded) isEvent()  {}
func (SubmitFinished) isEvent()   {}
