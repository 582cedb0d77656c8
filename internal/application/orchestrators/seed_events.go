package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"eventreg/internal/domain/event"
)

// EventStoreForSeed defines the store interface needed by SeedEvents.
type EventStoreForSeed interface {
	EventSaver
	Count(ctx context.Context) (int, error)
}

// SeedEventsDeps holds dependencies for SeedEvents.
type SeedEventsDeps struct {
	EventStore EventStoreForSeed
	Now        func() time.Time
	GenerateID func() string
}

// sampleEvent is offset in days from the seed time.
type sampleEvent struct {
	name      string
	category  string
	eventDays int
}

var sampleEvents = []sampleEvent{
	{"Code Sprint", event.CategoryHackathon, 21},
	{"Hack Night", event.CategoryHackathon, 21},
	{"Summer Hack", event.CategoryHackathon, 42},
	{"Paper Presentation", event.CategoryTechnical, 14},
	{"Debugging Duel", event.CategoryTechnical, 28},
	{"Quiz Bowl", event.CategoryNonTechnical, 14},
	{"Go Basics", event.CategoryWorkshop, 35},
	{"Cloud Summit", event.CategoryConference, 56},
}

// ExecuteSeedEvents creates sample events for development when the catalog is empty.
// PRE: none
// POST: Catalog unchanged if it had events, otherwise sample events saved
func ExecuteSeedEvents(ctx context.Context, deps SeedEventsDeps) error {
	n, err := deps.EventStore.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := deps.Now()
	for _, s := range sampleEvents {
		eventDay := now.AddDate(0, 0, s.eventDays)
		e := event.EventDetail{
			ID:           deps.GenerateID(),
			EventName:    s.name,
			Category:     s.category,
			EventDate:    eventDay.Format(event.DateLayout),
			RegStartDate: now.Format(event.DateLayout),
			RegEndDate:   eventDay.AddDate(0, 0, -1).Format(event.DateLayout),
			CreatedAt:    now,
		}
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return err
		}
	}
	slog.Info("event_config", "event", "events_seeded", "count", len(sampleEvents))
	return nil
}
