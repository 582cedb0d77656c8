package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"eventreg/internal/domain/event"
	"eventreg/internal/domain/notification"
	"eventreg/internal/domain/registration"
	"eventreg/internal/domain/settings"
)

var fixedNow = time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

func hackathonEvent() event.EventDetail {
	return event.EventDetail{
		ID:           "ev-a",
		EventName:    "Code Sprint",
		Category:     event.CategoryHackathon,
		EventDate:    "2024-05-01",
		RegStartDate: "2024-04-01",
		RegEndDate:   "2024-04-30",
		CreatedAt:    fixedNow,
	}
}

func validInput() RegistrationInput {
	return RegistrationInput{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		College:    "City College",
		Department: "Mathematics",
		Category:   event.CategoryHackathon,
		EventDate:  "2024-05-01",
		EventID:    "ev-a",
	}
}

type fixture struct {
	events   *mockEventStore
	regs     *mockRegistrationStore
	settings *mockSettingsStore
	notifier *mockNotifier
	logs     *bytes.Buffer
	deps     SubmitRegistrationDeps
}

func newFixture() *fixture {
	second := hackathonEvent()
	second.ID, second.EventName = "ev-b", "Hack Night"
	f := &fixture{
		events:   newMockEventStore(hackathonEvent(), second),
		regs:     &mockRegistrationStore{uniqueIndex: true},
		settings: &mockSettingsStore{},
		notifier: &mockNotifier{},
		logs:     &bytes.Buffer{},
	}
	ids := 0
	f.deps = SubmitRegistrationDeps{
		RegistrationStore: f.regs,
		EventStore:        f.events,
		SettingsStore:     f.settings,
		Notifier:          f.notifier,
		Now:               func() time.Time { return fixedNow },
		GenerateID: func() string {
			ids++
			return "reg-" + string(rune('0'+ids))
		},
		Logger: slog.New(slog.NewTextHandler(f.logs, nil)),
	}
	return f
}

func TestSubmitRegistration_Success(t *testing.T) {
	f := newFixture()
	res, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
	if err != nil {
		t.Fatalf("ExecuteSubmitRegistration() error: %v", err)
	}
	if res.Message != RegistrationSuccessMessage || res.EventName != "Code Sprint" {
		t.Errorf("result = %+v", res)
	}
	if len(f.regs.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(f.regs.rows))
	}
	stored := f.regs.rows[0]
	if stored.ID != "reg-1" || !stored.CreatedAt.Equal(fixedNow) {
		t.Errorf("stored = %+v", stored)
	}
	if !res.ConfirmationSent || res.AdminNotified {
		t.Errorf("ConfirmationSent=%v AdminNotified=%v", res.ConfirmationSent, res.AdminNotified)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].templateID != notification.TemplateRegistrationConfirm {
		t.Fatalf("sent = %+v", f.notifier.sent)
	}
	p := f.notifier.sent[0].params
	if p.Name != "Ada Lovelace" || p.EventName != "Code Sprint" || p.Category != "Hackathon" || p.Date != "2024-05-01" {
		t.Errorf("params = %+v", p)
	}
}

func TestSubmitRegistration_AdminNotification(t *testing.T) {
	f := newFixture()
	f.settings.value = settings.Settings{EnableNotifications: true, AdminEmail: "admin@example.com"}

	res, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !res.AdminNotified || len(f.notifier.sent) != 2 {
		t.Fatalf("sent = %+v", f.notifier.sent)
	}
	admin := f.notifier.sent[1]
	if admin.templateID != notification.TemplateAdminNotification || admin.recipient != "admin@example.com" {
		t.Errorf("admin email = %+v", admin)
	}
}

// TestSubmitRegistration_SpecialCharacterField checks that only the offending field fails.
func TestSubmitRegistration_SpecialCharacterField(t *testing.T) {
	for _, field := range []string{registration.FieldFullName, registration.FieldCollege, registration.FieldDepartment} {
		t.Run(field, func(t *testing.T) {
			f := newFixture()
			in := validInput()
			switch field {
			case registration.FieldFullName:
				in.FullName = "Ada@Home"
			case registration.FieldCollege:
				in.College = "City-College"
			case registration.FieldDepartment:
				in.Department = "Maths\tDept"
			}
			_, err := ExecuteSubmitRegistration(context.Background(), in, f.deps)
			var verrs registration.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error = %v, want ValidationErrors", err)
			}
			if len(verrs) != 1 || verrs[0].Field != field || !errors.Is(verrs[0], registration.ErrInvalidFieldFormat) {
				t.Errorf("errors = %v, want only %s format error", verrs, field)
			}
			if len(f.regs.rows) != 0 || len(f.notifier.sent) != 0 {
				t.Error("nothing may be stored or sent on validation failure")
			}
		})
	}
}

// TestSubmitRegistration_DuplicateGuard checks the (email, event) pair is the key.
func TestSubmitRegistration_DuplicateGuard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := ExecuteSubmitRegistration(ctx, validInput(), f.deps); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	again := validInput()
	again.FullName = "Someone Else"
	again.College = "Other College"
	again.Category = event.CategoryWorkshop
	again.EventDate = "2030-01-01"
	for i := 0; i < 2; i++ {
		_, err := ExecuteSubmitRegistration(ctx, again, f.deps)
		if !errors.Is(err, registration.ErrDuplicateRegistration) {
			t.Fatalf("attempt %d error = %v, want ErrDuplicateRegistration", i, err)
		}
		var verrs registration.ValidationErrors
		errors.As(err, &verrs)
		if !verrs.Has(registration.FieldEmail) {
			t.Errorf("duplicate should be attached to email, got %v", verrs)
		}
	}

	other := validInput()
	other.EventID = "ev-b"
	if _, err := ExecuteSubmitRegistration(ctx, other, f.deps); err != nil {
		t.Fatalf("same email on a different event: %v", err)
	}
	if len(f.regs.rows) != 2 {
		t.Errorf("stored %d rows, want 2", len(f.regs.rows))
	}
}

// TestSubmitRegistration_DuplicateRaceOnInsert checks a unique-index rejection is
// reported as a duplicate, not a storage failure.
func TestSubmitRegistration_DuplicateRaceOnInsert(t *testing.T) {
	f := newFixture()
	f.regs.rows = append(f.regs.rows, registration.Registration{ID: "winner", Email: "ada@example.com", EventID: "ev-a"})
	f.regs.hideExisting = true

	_, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
	if !errors.Is(err, registration.ErrDuplicateRegistration) || errors.Is(err, registration.ErrStorageFailure) {
		t.Fatalf("error = %v, want DuplicateRegistration only", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Error("no notification on a lost race")
	}
}

func TestSubmitRegistration_MissingEvent(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.EventID = ""
	_, err := ExecuteSubmitRegistration(context.Background(), in, f.deps)
	var verrs registration.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has(registration.FieldEventID) || !errors.Is(err, registration.ErrRequired) {
		t.Fatalf("error = %v, want event_id required", err)
	}
}

func TestSubmitRegistration_UnknownEvent(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.EventID = "ev-gone"
	_, err := ExecuteSubmitRegistration(context.Background(), in, f.deps)
	if !errors.Is(err, registration.ErrUnknownEvent) {
		t.Fatalf("error = %v, want ErrUnknownEvent", err)
	}
}

func TestSubmitRegistration_CollectsAllErrors(t *testing.T) {
	f := newFixture()
	in := RegistrationInput{FullName: "Ada!", Email: "bad", College: "", Department: "Ok", EventID: ""}
	_, err := ExecuteSubmitRegistration(context.Background(), in, f.deps)
	var verrs registration.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v", err)
	}
	got := strings.Join(verrs.Fields(), ",")
	if got != "college,email,event_id,full_name" {
		t.Errorf("failing fields = %s", got)
	}
}

// TestSubmitRegistration_NotificationFailureStillSucceeds covers best-effort dispatch.
func TestSubmitRegistration_NotificationFailureStillSucceeds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"transport error", func(f *fixture) { f.notifier.err = errTransport }},
		{"panic", func(f *fixture) { f.notifier.panic = true }},
		{"settings unreadable", func(f *fixture) { f.settings.getErr = errors.New("settings table locked") }},
		{"admin email missing", func(f *fixture) { f.settings.value = settings.Settings{EnableNotifications: true} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)
			res, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
			if err != nil {
				t.Fatalf("error = %v, want success", err)
			}
			if res.Message != RegistrationSuccessMessage {
				t.Errorf("Message = %q", res.Message)
			}
			if len(f.regs.rows) != 1 {
				t.Errorf("stored %d rows, want 1", len(f.regs.rows))
			}
			if !strings.Contains(f.logs.String(), "notification_failed") {
				t.Errorf("expected notification_failed log, got:\n%s", f.logs.String())
			}
		})
	}
}

// TestSubmitRegistration_StorageFailure checks nothing is stored or sent.
func TestSubmitRegistration_StorageFailure(t *testing.T) {
	f := newFixture()
	f.regs.saveErr = errors.New("disk I/O error")

	_, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
	if !errors.Is(err, registration.ErrStorageFailure) {
		t.Fatalf("error = %v, want ErrStorageFailure", err)
	}
	if !strings.Contains(err.Error(), "disk I/O error") {
		t.Errorf("store message should be surfaced, got %q", err.Error())
	}
	if len(f.regs.rows) != 0 {
		t.Error("no row may be stored")
	}
	if len(f.notifier.sent) != 0 {
		t.Error("notification must not be attempted")
	}
}

// TestSubmitRegistration_LookupFailureFallsBack uses submitted values in the email.
func TestSubmitRegistration_LookupFailureFallsBack(t *testing.T) {
	f := newFixture()
	lookups := 0
	f.deps.EventStore = lookupFailsAfter{inner: f.events, ok: 1, calls: &lookups}

	res, err := ExecuteSubmitRegistration(context.Background(), validInput(), f.deps)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if res.EventName != "" {
		t.Errorf("EventName = %q, want empty on lookup failure", res.EventName)
	}
	p := f.notifier.sent[0].params
	if p.EventName != "" || p.Category != "Hackathon" || p.Date != "2024-05-01" {
		t.Errorf("params = %+v", p)
	}
	if !strings.Contains(f.logs.String(), "lookup_failed") {
		t.Error("expected lookup_failed log")
	}
}

func TestSubmitRegistration_TrimsEmail(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Email = "  ada@example.com \n"
	if _, err := ExecuteSubmitRegistration(context.Background(), in, f.deps); err != nil {
		t.Fatalf("error = %v", err)
	}
	if f.regs.rows[0].Email != "ada@example.com" {
		t.Errorf("Email = %q", f.regs.rows[0].Email)
	}
}

// lookupFailsAfter lets the first ok lookups through and fails the rest.
type lookupFailsAfter struct {
	inner EventLookup
	ok    int
	calls *int
}

func (l lookupFailsAfter) GetByID(ctx context.Context, id string) (event.EventDetail, error) {
	*l.calls++
	if *l.calls > l.ok {
		return event.EventDetail{}, errors.New("connection reset")
	}
	return l.inner.GetByID(ctx, id)
}
