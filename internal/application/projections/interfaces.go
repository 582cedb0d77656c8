package projections

import (
	"context"

	"eventreg/internal/adapters/storage/registration"
	domainEvent "eventreg/internal/domain/event"
	domainRegistration "eventreg/internal/domain/registration"
)

// EventCatalog interface for the event lookups behind the cascading selects.
type EventCatalog interface {
	List(ctx context.Context) ([]domainEvent.EventDetail, error)
	ListDatesByCategory(ctx context.Context, category string) ([]string, error)
	ListByCategoryAndDate(ctx context.Context, category, eventDate string) ([]domainEvent.EventDetail, error)
	ListDates(ctx context.Context) ([]string, error)
	ListByDate(ctx context.Context, eventDate string) ([]domainEvent.EventDetail, error)
}

// RegistrationLister interface for registration listing and export.
type RegistrationLister interface {
	List(ctx context.Context, filter registration.ListFilter) ([]domainRegistration.Listing, error)
	Count(ctx context.Context, filter registration.ListFilter) (int, error)
	Each(ctx context.Context, filter registration.ListFilter, fn func(domainRegistration.Listing) error) error
}
