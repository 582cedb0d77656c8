package projections

import (
	"context"
	"time"

	domainEvent "eventreg/internal/domain/event"
)

// EventListItem is one configured event as shown to the admin.
type EventListItem struct {
	ID               string
	EventName        string
	Category         string
	CategoryLabel    string
	EventDate        string
	RegStartDate     string
	RegEndDate       string
	RegistrationOpen bool
}

// EventListDeps holds dependencies for EventList.
type EventListDeps struct {
	EventStore EventCatalog
	Now        func() time.Time
}

// QueryEventList lists configured events soonest first with their window state.
// INVARIANT: Store state is not mutated
func QueryEventList(ctx context.Context, deps EventListDeps) ([]EventListItem, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return nil, err
	}
	today := deps.Now()
	out := make([]EventListItem, 0, len(events))
	for _, e := range events {
		out = append(out, EventListItem{
			ID:               e.ID,
			EventName:        e.EventName,
			Category:         e.Category,
			CategoryLabel:    domainEvent.CategoryLabel(e.Category),
			EventDate:        e.EventDate,
			RegStartDate:     e.RegStartDate,
			RegEndDate:       e.RegEndDate,
			RegistrationOpen: e.RegistrationOpen(today),
		})
	}
	return out, nil
}
