package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventreg/internal/domain/event"
	"eventreg/internal/domain/notification"
	"eventreg/internal/domain/registration"
	"eventreg/internal/domain/settings"
)

// RegistrationSuccessMessage is shown once a registration is stored.
const RegistrationSuccessMessage = "Registration successful!"

// RegistrationStore persists registrations and answers the duplicate guard.
type RegistrationStore interface {
	DuplicateChecker
	Save(ctx context.Context, r registration.Registration) error
}

// SettingsReader reads the module settings.
type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Notifier delivers one templated email.
type Notifier interface {
	Send(ctx context.Context, templateID, recipient, locale string, params notification.Params) error
}

// SubmitRegistrationDeps holds dependencies for SubmitRegistration.
type SubmitRegistrationDeps struct {
	RegistrationStore RegistrationStore
	EventStore        EventLookup
	SettingsStore     SettingsReader
	Notifier          Notifier
	Now               func() time.Time
	GenerateID        func() string
	Logger            *slog.Logger
	// Locale selects the template variant; empty means notification.DefaultLocale.
	Locale string
}

// SubmitRegistrationResult reports what happened after a successful insert.
type SubmitRegistrationResult struct {
	Registration     registration.Registration
	EventName        string
	ConfirmationSent bool
	AdminNotified    bool
	Message          string
}

// ExecuteSubmitRegistration validates, stores and announces a registration.
// PRE: none
// POST: On nil error exactly one Registration was stored. Notification and
// lookup problems are logged and never returned.
// INVARIANT: A failed insert never triggers a notification
func ExecuteSubmitRegistration(ctx context.Context, input RegistrationInput, deps SubmitRegistrationDeps) (SubmitRegistrationResult, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r, err := ExecuteValidateRegistration(ctx, input, ValidateRegistrationDeps{
		RegistrationStore: deps.RegistrationStore,
		EventStore:        deps.EventStore,
	})
	if err != nil {
		return SubmitRegistrationResult{}, err
	}

	r.ID = deps.GenerateID()
	r.CreatedAt = deps.Now()
	if err := deps.RegistrationStore.Save(ctx, r); err != nil {
		if errors.Is(err, registration.ErrDuplicateRegistration) {
			logger.Info("registration_event", "event", "duplicate_on_insert", "event_id", r.EventID)
			return SubmitRegistrationResult{}, registration.ValidationErrors{
				{Field: registration.FieldEmail, Err: registration.ErrDuplicateRegistration},
			}
		}
		logger.Error("registration_event", "event", "insert_failed", "event_id", r.EventID, "error", err)
		return SubmitRegistrationResult{}, fmt.Errorf("%w: %w", registration.ErrStorageFailure, err)
	}
	logger.Info("registration_event", "event", "registration_created", "registration_id", r.ID, "event_id", r.EventID)

	params := notification.Params{
		Name:     r.FullName,
		Email:    r.Email,
		Category: event.CategoryLabel(input.Category),
		Date:     input.EventDate,
	}
	ev, err := deps.EventStore.GetByID(ctx, r.EventID)
	if err != nil {
		logger.Warn("registration_event", "event", "lookup_failed", "event_id", r.EventID,
			"error", fmt.Errorf("%w: %w", registration.ErrLookupFailure, err))
	} else {
		params.EventName = ev.EventName
		params.Category = event.CategoryLabel(ev.Category)
		params.Date = ev.EventDate
	}

	result := SubmitRegistrationResult{
		Registration: r,
		EventName:    params.EventName,
		Message:      RegistrationSuccessMessage,
	}
	locale := deps.Locale
	if locale == "" {
		locale = notification.DefaultLocale
	}
	result.ConfirmationSent = dispatch(ctx, deps.Notifier, logger, notification.TemplateRegistrationConfirm, r.Email, locale, params)

	cfg, err := deps.SettingsStore.Get(ctx)
	switch {
	case err != nil:
		logger.Warn("registration_event", "event", "notification_failed", "template", notification.TemplateAdminNotification,
			"error", fmt.Errorf("%w: read settings: %w", registration.ErrNotificationFailure, err))
	case cfg.EnableNotifications && cfg.AdminEmail == "":
		logger.Warn("registration_event", "event", "notification_failed", "template", notification.TemplateAdminNotification,
			"error", fmt.Errorf("%w: admin email not configured", registration.ErrNotificationFailure))
	case cfg.NotifyAdmin():
		result.AdminNotified = dispatch(ctx, deps.Notifier, logger, notification.TemplateAdminNotification, cfg.AdminEmail, locale, params)
	}
	return result, nil
}

// dispatch sends one email and swallows every failure, panics included.
func dispatch(ctx context.Context, n Notifier, logger *slog.Logger, templateID, recipient, locale string, params notification.Params) (sent bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("registration_event", "event", "notification_failed", "template", templateID,
				"error", fmt.Errorf("%w: panic: %v", registration.ErrNotificationFailure, rec))
			sent = false
		}
	}()
	if n == nil {
		return false
	}
	if err := n.Send(ctx, templateID, recipient, locale, params); err != nil {
		logger.Warn("registration_event", "event", "notification_failed", "template", templateID,
			"error", fmt.Errorf("%w: %w", registration.ErrNotificationFailure, err))
		return false
	}
	return true
}
