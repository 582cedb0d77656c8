package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventreg/internal/domain/event"
)

func TestExecuteCreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateEventInput
		wantErr error
	}{
		{
			name:  "valid",
			input: CreateEventInput{EventName: "Code Sprint", Category: "Hackathon", EventDate: "2024-05-01", RegStartDate: "2024-04-01", RegEndDate: "2024-04-30"},
		},
		{
			name:    "illegal name",
			input:   CreateEventInput{EventName: "Code-Sprint!", Category: "Hackathon", EventDate: "2024-05-01", RegStartDate: "2024-04-01", RegEndDate: "2024-04-30"},
			wantErr: event.ErrInvalidName,
		},
		{
			name:    "unknown category",
			input:   CreateEventInput{EventName: "Code Sprint", Category: "Sports", EventDate: "2024-05-01", RegStartDate: "2024-04-01", RegEndDate: "2024-04-30"},
			wantErr: event.ErrInvalidCategory,
		},
		{
			name:    "reversed window",
			input:   CreateEventInput{EventName: "Code Sprint", Category: "Hackathon", EventDate: "2024-05-01", RegStartDate: "2024-04-30", RegEndDate: "2024-04-01"},
			wantErr: event.ErrRegWindowReversed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockEventStore()
			got, err := ExecuteCreateEvent(context.Background(), tt.input, CreateEventDeps{
				EventStore: store,
				Now:        func() time.Time { return fixedNow },
				GenerateID: func() string { return "ev-new" },
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(store.events) != 0 {
					t.Error("invalid event must not be stored")
				}
				return
			}
			if got.ID != "ev-new" || store.events["ev-new"].EventName != "Code Sprint" {
				t.Errorf("stored = %+v", store.events)
			}
		})
	}
}

func TestExecuteSeedEvents(t *testing.T) {
	store := newMockEventStore()
	n := 0
	deps := SeedEventsDeps{
		EventStore: store,
		Now:        func() time.Time { return fixedNow },
		GenerateID: func() string { n++; return "seed-" + string(rune('a'+n)) },
	}
	if err := ExecuteSeedEvents(context.Background(), deps); err != nil {
		t.Fatalf("ExecuteSeedEvents: %v", err)
	}
	if len(store.events) != len(sampleEvents) {
		t.Fatalf("seeded %d events, want %d", len(store.events), len(sampleEvents))
	}
	for _, e := range store.events {
		if err := e.Validate(); err != nil {
			t.Errorf("seeded event %s invalid: %v", e.EventName, err)
		}
	}

	if err := ExecuteSeedEvents(context.Background(), deps); err != nil {
		t.Fatalf("second ExecuteSeedEvents: %v", err)
	}
	if len(store.events) != len(sampleEvents) {
		t.Error("seeding must be skipped when events exist")
	}
}
