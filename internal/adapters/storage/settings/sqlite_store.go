package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventreg/internal/adapters/storage"
	domain "eventreg/internal/domain/settings"
)

// SQLiteStore implements Store using SQLite (or Postgres through TimedDB).
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the stored settings, or domain.Default when none were saved.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context) (domain.Settings, error) {
	var enabled int
	var out domain.Settings
	var updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT enable_notifications, admin_email, updated_at FROM module_settings WHERE id = 1",
	).Scan(&enabled, &out.AdminEmail, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Default(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get module_settings: %w", err)
	}
	out.EnableNotifications = enabled != 0
	out.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return out, nil
}

// Exists reports whether settings were ever saved.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM module_settings").Scan(&n); err != nil {
		return false, fmt.Errorf("count module_settings: %w", err)
	}
	return n > 0, nil
}

// Save upserts the settings row.
// PRE: value has been validated
// POST: The single row holds value
func (s *SQLiteStore) Save(ctx context.Context, value domain.Settings) error {
	if err := value.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO module_settings (id, enable_notifications, admin_email, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			enable_notifications = excluded.enable_notifications,
			admin_email = excluded.admin_email,
			updated_at = excluded.updated_at`,
		boolToInt(value.EnableNotifications), value.AdminEmail, value.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save module_settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
