package projections

import (
	"context"
	"slices"
	"sort"

	"eventreg/internal/adapters/storage/registration"
	domainEvent "eventreg/internal/domain/event"
	domainRegistration "eventreg/internal/domain/registration"
)

type mockEventCatalog struct {
	events []domainEvent.EventDetail
	err    error
}

func (m *mockEventCatalog) List(_ context.Context) ([]domainEvent.EventDetail, error) {
	return m.events, m.err
}

func (m *mockEventCatalog) ListDatesByCategory(_ context.Context, category string) ([]string, error) {
	return m.dates(func(e domainEvent.EventDetail) bool { return e.Category == category }), m.err
}

func (m *mockEventCatalog) ListByCategoryAndDate(_ context.Context, category, eventDate string) ([]domainEvent.EventDetail, error) {
	return m.filter(func(e domainEvent.EventDetail) bool { return e.Category == category && e.EventDate == eventDate }), m.err
}

func (m *mockEventCatalog) ListDates(_ context.Context) ([]string, error) {
	return m.dates(func(domainEvent.EventDetail) bool { return true }), m.err
}

func (m *mockEventCatalog) ListByDate(_ context.Context, eventDate string) ([]domainEvent.EventDetail, error) {
	return m.filter(func(e domainEvent.EventDetail) bool { return e.EventDate == eventDate }), m.err
}

func (m *mockEventCatalog) dates(keep func(domainEvent.EventDetail) bool) []string {
	out := []string{}
	for _, e := range m.events {
		if keep(e) && !slices.Contains(out, e.EventDate) {
			out = append(out, e.EventDate)
		}
	}
	sort.Strings(out)
	return out
}

func (m *mockEventCatalog) filter(keep func(domainEvent.EventDetail) bool) []domainEvent.EventDetail {
	out := []domainEvent.EventDetail{}
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// mockRegistrationLister keeps listings in insertion order (oldest first).
type mockRegistrationLister struct {
	listings  []domainRegistration.Listing
	err       error
	lastQuery registration.ListFilter
}

func (m *mockRegistrationLister) matching(f registration.ListFilter) []domainRegistration.Listing {
	var out []domainRegistration.Listing
	for _, l := range m.listings {
		if f.EventDate != "" && l.EventDate != f.EventDate {
			continue
		}
		if f.EventID != "" && l.EventID != f.EventID {
			continue
		}
		out = append(out, l)
	}
	if f.NewestFirst {
		slices.Reverse(out)
	}
	return out
}

func (m *mockRegistrationLister) List(_ context.Context, f registration.ListFilter) ([]domainRegistration.Listing, error) {
	m.lastQuery = f
	if m.err != nil {
		return nil, m.err
	}
	out := m.matching(f)
	if f.Offset >= len(out) {
		return []domainRegistration.Listing{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockRegistrationLister) Count(_ context.Context, f registration.ListFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.matching(f)), nil
}

func (m *mockRegistrationLister) Each(_ context.Context, f registration.ListFilter, fn func(domainRegistration.Listing) error) error {
	m.lastQuery = f
	if m.err != nil {
		return m.err
	}
	for _, l := range m.matching(f) {
		if err := fn(l); err != nil {
			return err
		}
	}
	return nil
}
