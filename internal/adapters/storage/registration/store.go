package registration

import (
	"context"

	domain "eventreg/internal/domain/registration"
)

// ListFilter narrows the admin listing and export.
// Empty fields do not filter.
type ListFilter struct {
	EventDate   string
	EventID     string
	NewestFirst bool
	Limit       int
	Offset      int
}

// Store persists Registration state. Registrations are insert-only.
type Store interface {
	Save(ctx context.Context, value domain.Registration) error
	ExistsByEmailAndEvent(ctx context.Context, email, eventID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Listing, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Each(ctx context.Context, filter ListFilter, fn func(domain.Listing) error) error
}
