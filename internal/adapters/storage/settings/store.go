package settings

import (
	"context"

	domain "eventreg/internal/domain/settings"
)

// Store persists the single module settings row.
type Store interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, value domain.Settings) error
	Exists(ctx context.Context) (bool, error)
}
