package registration

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"eventreg/internal/domain/fieldrule"
)

// Field names as submitted by the registration form.
const (
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldCollege    = "college"
	FieldDepartment = "department"
	FieldEventID    = "event_id"
)

// FieldLabels maps field names to their display labels.
var FieldLabels = map[string]string{
	FieldFullName:   "Full Name",
	FieldEmail:      "Email Address",
	FieldCollege:    "College Name",
	FieldDepartment: "Department",
	FieldEventID:    "Event Name",
}

// plainTextFields are checked against the letters/digits/spaces rule, in form order.
var plainTextFields = []string{FieldFullName, FieldCollege, FieldDepartment}

// Domain errors
var (
	ErrInvalidFieldFormat    = errors.New("invalid field format")
	ErrRequired              = errors.New("field is required")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrUnknownEvent          = errors.New("selected event does not exist")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrStorageFailure        = errors.New("storage failure")
	ErrNotificationFailure   = errors.New("notification failure")
	ErrLookupFailure         = errors.New("lookup failure")
	ErrEmptyID               = errors.New("registration ID is required")
	ErrMissingCreationTime   = errors.New("created_at must be set")
)

// Registration is a single attendee sign-up for one event.
// Created once per successful submission; never updated.
type Registration struct {
	ID         string
	FullName   string
	Email      string
	College    string
	Department string
	EventID    string
	CreatedAt  time.Time
}

// Listing is a Registration joined with the event it references.
type Listing struct {
	Registration
	EventName string
	EventDate string
	Category  string
}

// FieldError attaches a validation failure to a single form field.
type FieldError struct {
	Field string
	Err   error
}

// Error returns the user-facing message for the field.
func (e FieldError) Error() string {
	label := FieldLabels[e.Field]
	if label == "" {
		label = e.Field
	}
	switch {
	case errors.Is(e.Err, ErrInvalidFieldFormat):
		return label + " cannot contain special characters."
	case errors.Is(e.Err, ErrRequired):
		return label + " is required."
	case errors.Is(e.Err, ErrInvalidEmail):
		return label + " must be a valid email address."
	case errors.Is(e.Err, ErrUnknownEvent):
		return "The selected event is not available."
	case errors.Is(e.Err, ErrDuplicateRegistration):
		return "This email address is already registered for this event."
	default:
		return fmt.Sprintf("%s: %v", label, e.Err)
	}
}

// Unwrap exposes the underlying sentinel.
func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every field failure of one submission.
type ValidationErrors []FieldError

// Error joins all field messages.
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, " ")
}

// Unwrap lets errors.Is match any collected sentinel.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// ByField returns one message per field. When a field failed more than once the
// first failure wins.
func (v ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Error()
		}
	}
	return out
}

// Has reports whether field has at least one failure.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the sorted set of failing field names.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(v))
	var out []string
	for _, fe := range v {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateFields applies the format rules to every submitted field and returns
// all failures together. The duplicate and event-existence checks need the
// store and live in the orchestrator.
// PRE: none
// POST: Returns nil when every field is well-formed
func (r *Registration) ValidateFields() ValidationErrors {
	var errs ValidationErrors
	values := map[string]string{
		FieldFullName:   r.FullName,
		FieldCollege:    r.College,
		FieldDepartment: r.Department,
	}
	for _, field := range plainTextFields {
		v := values[field]
		switch {
		case v == "":
			errs = append(errs, FieldError{Field: field, Err: ErrRequired})
		case !fieldrule.IsPlainText(v):
			errs = append(errs, FieldError{Field: field, Err: ErrInvalidFieldFormat})
		case fieldrule.IsBlank(v):
			errs = append(errs, FieldError{Field: field, Err: ErrRequired})
		}
	}

	switch {
	case r.Email == "":
		errs = append(errs, FieldError{Field: FieldEmail, Err: ErrRequired})
	case !fieldrule.IsEmail(r.Email):
		errs = append(errs, FieldError{Field: FieldEmail, Err: ErrInvalidEmail})
	}

	if r.EventID == "" {
		errs = append(errs, FieldError{Field: FieldEventID, Err: ErrRequired})
	}
	return errs
}

// Validate checks a fully built Registration before it is persisted.
// PRE: Registration struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Registration) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if errs := r.ValidateFields(); len(errs) > 0 {
		return errs
	}
	if r.CreatedAt.IsZero() {
		return ErrMissingCreationTime
	}
	return nil
}
