package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventreg/internal/domain/event"
	"eventreg/internal/domain/registration"
)

// EventLookup reads a single configured event.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (event.EventDetail, error)
}

// DuplicateChecker answers the (email, event) duplicate guard.
type DuplicateChecker interface {
	ExistsByEmailAndEvent(ctx context.Context, email, eventID string) (bool, error)
}

// RegistrationInput carries the submitted registration form.
// Category and EventDate drive the cascade only; the guard trusts EventID.
type RegistrationInput struct {
	FullName   string
	Email      string
	College    string
	Department string
	Category   string
	EventDate  string
	EventID    string
}

// ValidateRegistrationDeps holds dependencies for ValidateRegistration.
type ValidateRegistrationDeps struct {
	RegistrationStore DuplicateChecker
	EventStore        EventLookup
}

// normalize trims surrounding spaces from the text fields and surrounding
// whitespace from the email. Tabs and newlines inside text fields are kept so
// the format rule can reject them.
func (in RegistrationInput) normalize() registration.Registration {
	return registration.Registration{
		FullName:   strings.Trim(in.FullName, " "),
		Email:      strings.TrimSpace(in.Email),
		College:    strings.Trim(in.College, " "),
		Department: strings.Trim(in.Department, " "),
		EventID:    strings.TrimSpace(in.EventID),
	}
}

// ExecuteValidateRegistration runs every submission rule and collects all
// field failures.
// PRE: none
// POST: Returns the normalized, unsaved Registration and nil, or a
// registration.ValidationErrors, or an ErrStorageFailure when a lookup failed
// INVARIANT: Store state is not mutated
func ExecuteValidateRegistration(ctx context.Context, input RegistrationInput, deps ValidateRegistrationDeps) (registration.Registration, error) {
	r := input.normalize()
	errs := r.ValidateFields()

	eventKnown := false
	if r.EventID != "" {
		_, err := deps.EventStore.GetByID(ctx, r.EventID)
		switch {
		case errors.Is(err, event.ErrNotFound):
			errs = append(errs, registration.FieldError{Field: registration.FieldEventID, Err: registration.ErrUnknownEvent})
		case err != nil:
			return registration.Registration{}, fmt.Errorf("%w: %w", registration.ErrStorageFailure, err)
		default:
			eventKnown = true
		}
	}

	if eventKnown && !errs.Has(registration.FieldEmail) {
		exists, err := deps.RegistrationStore.ExistsByEmailAndEvent(ctx, r.Email, r.EventID)
		if err != nil {
			return registration.Registration{}, fmt.Errorf("%w: %w", registration.ErrStorageFailure, err)
		}
		if exists {
			errs = append(errs, registration.FieldError{Field: registration.FieldEmail, Err: registration.ErrDuplicateRegistration})
		}
	}

	if len(errs) > 0 {
		return r, errs
	}
	return r, nil
}
