package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventreg/internal/domain/event"
	"eventreg/internal/domain/notification"
	"eventreg/internal/domain/registration"
	"eventreg/internal/domain/settings"
)

// --- Mock event store ---

type mockEventStore struct {
	events  map[string]event.EventDetail
	getErr  error
	getHits int
}

func newMockEventStore(events ...event.EventDetail) *mockEventStore {
	m := &mockEventStore{events: make(map[string]event.EventDetail)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (event.EventDetail, error) {
	m.getHits++
	if m.getErr != nil {
		return event.EventDetail{}, m.getErr
	}
	e, ok := m.events[id]
	if !ok {
		return event.EventDetail{}, fmt.Errorf("event %s: %w", id, event.ErrNotFound)
	}
	return e, nil
}

func (m *mockEventStore) Save(_ context.Context, e event.EventDetail) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) Count(_ context.Context) (int, error) {
	return len(m.events), nil
}

// --- Mock registration store ---

type mockRegistrationStore struct {
	mu      sync.Mutex
	rows    []registration.Registration
	saveErr error
	// uniqueIndex makes Save reject duplicates the way the schema does.
	uniqueIndex bool
	// hideExisting makes the pre-insert check miss, simulating a lost race.
	hideExisting bool
}

func (m *mockRegistrationStore) ExistsByEmailAndEvent(_ context.Context, email, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideExisting {
		return false, nil
	}
	for _, r := range m.rows {
		if r.Email == email && r.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistrationStore) Save(_ context.Context, r registration.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.uniqueIndex {
		for _, existing := range m.rows {
			if existing.Email == r.Email && existing.EventID == r.EventID {
				return fmt.Errorf("save event_registration: %w", registration.ErrDuplicateRegistration)
			}
		}
	}
	m.rows = append(m.rows, r)
	return nil
}

// --- Mock settings store ---

type mockSettingsStore struct {
	value  settings.Settings
	saved  bool
	getErr error
}

func (m *mockSettingsStore) Get(_ context.Context) (settings.Settings, error) {
	if m.getErr != nil {
		return settings.Settings{}, m.getErr
	}
	return m.value, nil
}

func (m *mockSettingsStore) Save(_ context.Context, s settings.Settings) error {
	m.value = s
	m.saved = true
	return nil
}

func (m *mockSettingsStore) Exists(_ context.Context) (bool, error) {
	return m.saved, nil
}

// --- Mock notifier ---

type sentEmail struct {
	templateID string
	recipient  string
	params     notification.Params
}

type mockNotifier struct {
	sent  []sentEmail
	err   error
	panic bool
}

func (m *mockNotifier) Send(_ context.Context, templateID, recipient, _ string, params notification.Params) error {
	if m.panic {
		panic("transport exploded")
	}
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{templateID: templateID, recipient: recipient, params: params})
	return nil
}

var errTransport = errors.New("transport unavailable")
