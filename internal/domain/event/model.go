package event

import (
	"errors"
	"time"

	"eventreg/internal/domain/fieldrule"
)

// DateLayout is the storage and wire format for all event dates.
const DateLayout = "2006-01-02"

// Category values. Stored verbatim in event_detail.category.
const (
	CategoryTechnical    = "Technical"
	CategoryNonTechnical = "Non-Technical"
	CategoryHackathon    = "Hackathon"
	CategoryWorkshop     = "Workshop"
	CategoryConference   = "Conference"
)

// Categories lists the closed category enumeration in display order.
var Categories = []string{
	CategoryTechnical,
	CategoryNonTechnical,
	CategoryHackathon,
	CategoryWorkshop,
	CategoryConference,
}

// CategoryLabels maps each category to its display label.
var CategoryLabels = map[string]string{
	CategoryTechnical:    "Technical",
	CategoryNonTechnical: "Non-Technical",
	CategoryHackathon:    "Hackathon",
	CategoryWorkshop:     "One-day Workshop",
	CategoryConference:   "Conference",
}

// Domain errors
var (
	ErrNotFound            = errors.New("event not found")
	ErrInvalidName         = errors.New("event name contains illegal characters")
	ErrInvalidCategory     = errors.New("category must be one of the configured categories")
	ErrInvalidEventDate    = errors.New("event date must be a valid YYYY-MM-DD date")
	ErrInvalidRegStart     = errors.New("registration start date must be a valid YYYY-MM-DD date")
	ErrInvalidRegEnd       = errors.New("registration end date must be a valid YYYY-MM-DD date")
	ErrRegWindowReversed   = errors.New("registration end date cannot be before the start date")
	ErrEmptyID             = errors.New("event ID is required")
	ErrMissingCreationTime = errors.New("created_at must be set")
)

// EventDetail is a configured event attendees can register for.
// Immutable once created.
type EventDetail struct {
	ID           string
	EventName    string
	Category     string
	EventDate    string
	RegStartDate string
	RegEndDate   string
	CreatedAt    time.Time
}

// IsCategory reports whether c belongs to the category enumeration.
func IsCategory(c string) bool {
	_, ok := CategoryLabels[c]
	return ok
}

// CategoryLabel returns the display label for c, or c itself when unknown.
func CategoryLabel(c string) string {
	if label, ok := CategoryLabels[c]; ok {
		return label
	}
	return c
}

// Validate checks that the EventDetail has valid data.
// PRE: EventDetail struct is populated
// POST: Returns nil if valid, otherwise the first rule violated
// INVARIANT: RegStartDate <= RegEndDate
func (e *EventDetail) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if !fieldrule.IsPlainText(e.EventName) || fieldrule.IsBlank(e.EventName) {
		return ErrInvalidName
	}
	if !IsCategory(e.Category) {
		return ErrInvalidCategory
	}
	if _, err := time.Parse(DateLayout, e.EventDate); err != nil {
		return ErrInvalidEventDate
	}
	start, err := time.Parse(DateLayout, e.RegStartDate)
	if err != nil {
		return ErrInvalidRegStart
	}
	end, err := time.Parse(DateLayout, e.RegEndDate)
	if err != nil {
		return ErrInvalidRegEnd
	}
	if end.Before(start) {
		return ErrRegWindowReversed
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreationTime
	}
	return nil
}

// RegistrationOpen reports whether day falls inside the registration window.
// INVARIANT: EventDetail is not mutated
func (e *EventDetail) RegistrationOpen(day time.Time) bool {
	d := day.Format(DateLayout)
	return d >= e.RegStartDate && d <= e.RegEndDate
}
