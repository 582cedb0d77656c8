package settings

import (
	"errors"
	"strings"
	"time"

	"eventreg/internal/domain/fieldrule"
)

// Domain errors
var (
	ErrAdminEmailRequired = errors.New("admin email is required when notifications are enabled")
	ErrInvalidAdminEmail  = errors.New("admin email is not a valid address")
)

// Settings is the module-level configuration edited by the admin.
// There is exactly one row.
type Settings struct {
	EnableNotifications bool
	AdminEmail          string
	UpdatedAt           time.Time
}

// Default returns the settings used before the admin saves anything.
func Default() Settings {
	return Settings{}
}

// Normalize trims surrounding whitespace from the admin address.
func (s *Settings) Normalize() {
	s.AdminEmail = strings.TrimSpace(s.AdminEmail)
}

// Validate checks the settings before they are stored.
// PRE: Normalize has been called
// POST: Returns nil if valid, error otherwise
// INVARIANT: a non-empty AdminEmail is always syntactically valid
func (s *Settings) Validate() error {
	if s.AdminEmail != "" && !fieldrule.IsEmail(s.AdminEmail) {
		return ErrInvalidAdminEmail
	}
	if s.EnableNotifications && s.AdminEmail == "" {
		return ErrAdminEmailRequired
	}
	return nil
}

// NotifyAdmin reports whether a submission should trigger the admin email.
func (s Settings) NotifyAdmin() bool {
	return s.EnableNotifications && s.AdminEmail != ""
}
