// Package models defines the wire types shared with the AvtoMat backend.
package models

// City is a selectable city. Read-only reference data.
type City struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	NameRU   string `json:"name_ru,omitempty"`
	IsActive bool   `json:"is_active"`
}

// DisplayName returns the localized name when present, otherwise the
// canonical one.
func (c City) DisplayName() string {
	if c.NameRU != "" {
		return c.NameRU
	}
	return c.Name
}

// School is a driving school offering the full theory+practice course.
type School struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	City            int64  `json:"city"`
	CityName        string `json:"city_name"`
	Address         string `json:"address"`
	Rating          string `json:"rating"`
	TrustIndex      string `json:"trust_index"`
	Whatsapp        string `json:"whatsapp,omitempty"`
	TelegramContact string `json:"telegram_contact,omitempty"`
	PaymentKaspi    string `json:"payment_link_kaspi,omitempty"`
	PaymentHalyk    string `json:"payment_link_halyk,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// Vehicle transmission types offered by instructors.
const (
	AutoTypeAutomatic = "automatic"
	AutoTypeManual    = "manual"
)

// Instructor is an independent driving instructor for practice lessons.
type Instructor struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	City            int64  `json:"city"`
	CityName        string `json:"city_name"`
	AutoType        string `json:"auto_type"`
	AutoTypeDisplay string `json:"auto_type_display"`
	Phone           string `json:"phone"`
	Rating          string `json:"rating"`
	PaymentKaspi    string `json:"payment_link_kaspi,omitempty"`
	PaymentHalyk    string `json:"payment_link_halyk,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// Learning formats for the school course.
const (
	FormatOnline  = "online"
	FormatOffline = "offline"
	FormatHybrid  = "hybrid"
)

// ApplicationCreate is the outbound payload for POST /applications/.
// Exactly one of School or Instructor is set, depending on the flow.
type ApplicationCreate struct {
	TelegramID   int64  `json:"telegram_id"`
	School       *int64 `json:"school,omitempty"`
	Instructor   *int64 `json:"instructor,omitempty"`
	City         int64  `json:"city"`
	Category     string `json:"category,omitempty"`
	Format       string `json:"format,omitempty"`
	TimeSlot     string `json:"time_slot,omitempty"`
	StudentName  string `json:"student_name"`
	StudentPhone string `json:"student_phone"`
}

// Application is the backend's acknowledgement of a created submission.
type Application struct {
	ID             int64  `json:"id"`
	Student        int64  `json:"student"`
	School         *int64 `json:"school,omitempty"`
	SchoolName     string `json:"school_name,omitempty"`
	Instructor     *int64 `json:"instructor,omitempty"`
	InstructorName string `json:"instructor_name,omitempty"`
	City           int64  `json:"city"`
	CityName       string `json:"city_name"`
	Category       string `json:"category,omitempty"`
	Format         string `json:"format,omitempty"`
	FormatDisplay  string `json:"format_display,omitempty"`
	TimeSlot       string `json:"time_slot,omitempty"`
	Status         string `json:"status"`
	StatusDisplay  string `json:"status_display"`
	StudentName    string `json:"student_name"`
	StudentPhone   string `json:"student_phone"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
