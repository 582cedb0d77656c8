package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"eventreg/internal/domain/event"
)

// EventSaver persists a new event.
type EventSaver interface {
	Save(ctx context.Context, e event.EventDetail) error
}

// CreateEventInput carries the admin event configuration form.
type CreateEventInput struct {
	EventName    string
	Category     string
	EventDate    string
	RegStartDate string
	RegEndDate   string
}

// CreateEventDeps holds dependencies for CreateEvent.
type CreateEventDeps struct {
	EventStore EventSaver
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteCreateEvent validates and stores a new event.
// PRE: none
// POST: EventDetail persisted with a fresh ID, or the first rule violated returned
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.EventDetail, error) {
	e := event.EventDetail{
		ID:           deps.GenerateID(),
		EventName:    strings.Trim(input.EventName, " "),
		Category:     strings.TrimSpace(input.Category),
		EventDate:    strings.TrimSpace(input.EventDate),
		RegStartDate: strings.TrimSpace(input.RegStartDate),
		RegEndDate:   strings.TrimSpace(input.RegEndDate),
		CreatedAt:    deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return event.EventDetail{}, err
	}
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.EventDetail{}, err
	}
	slog.Info("event_config", "event", "event_created", "event_id", e.ID, "category", e.Category, "event_date", e.EventDate)
	return e, nil
}
