package event

import (
	"context"

	domain "eventreg/internal/domain/event"
)

// Store persists EventDetail state and answers the catalog lookups of the
// cascading form.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.EventDetail, error)
	Save(ctx context.Context, value domain.EventDetail) error
	List(ctx context.Context) ([]domain.EventDetail, error)
	Count(ctx context.Context) (int, error)
	ListDatesByCategory(ctx context.Context, category string) ([]string, error)
	ListByCategoryAndDate(ctx context.Context, category, eventDate string) ([]domain.EventDetail, error)
	ListDates(ctx context.Context) ([]string, error)
	ListByDate(ctx context.Context, eventDate string) ([]domain.EventDetail, error)
}
