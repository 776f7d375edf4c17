package wizard

import "github.com/avtomat-app/avtomat/internal/models"

// Selection accumulates one field per completed step. The machine only
// ever sets a field once all earlier ones are populated, so a later field
// being non-empty implies the whole prefix is.
type Selection struct {
	City       *models.City
	Category   string
	Format     string
	AutoType   string
	School     *models.School
	Instructor *models.Instructor
	Name       string
	Phone      string
}

// upstreamComplete reports whether everything before the contact step is
// selected for the given flow.
func (s Selection) upstreamComplete(flow FlowKind) bool {
	if s.City == nil {
		return false
	}
	switch flow {
	case FlowSchool:
		return s.Category != "" && s.Format != "" && s.School != nil
	case FlowInstructor:
		return s.AutoType != "" && s.Instructor != nil
	default:
		return false
	}
}

// ReadyToSubmit is the gate for the contact → submitting transition:
// contact fields filled and the whole upstream selection present.
func (s Selection) ReadyToSubmit(flow FlowKind) bool {
	return s.Name != "" && s.Phone != "" && s.upstreamComplete(flow)
}

// Submission builds the outbound payload. Callers must have checked
// ReadyToSubmit; telegramID is 0 when the host identity is unavailable.
func (s Selection) Submission(flow FlowKind, telegramID int64) models.ApplicationCreate {
	payload := models.ApplicationCreate{
		TelegramID:   telegramID,
		City:         s.City.ID,
		StudentName:  s.Name,
		StudentPhone: s.Phone,
	}
	switch flow {
	case FlowSchool:
		id := s.School.ID
		payload.School = &id
		payload.Category = s.Category
		payload.Format = s.Format
	case FlowInstructor:
		id := s.Instructor.ID
		payload.Instructor = &id
	}
	return payload
}
