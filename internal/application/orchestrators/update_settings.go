package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"eventreg/internal/domain/settings"
)

// SettingsStore reads and writes the module settings.
type SettingsStore interface {
	SettingsReader
	Save(ctx context.Context, s settings.Settings) error
	Exists(ctx context.Context) (bool, error)
}

// UpdateSettingsInput carries the admin settings form.
type UpdateSettingsInput struct {
	EnableNotifications bool
	AdminEmail          string
}

// UpdateSettingsDeps holds dependencies for UpdateSettings and SeedSettings.
type UpdateSettingsDeps struct {
	SettingsStore SettingsStore
	Now           func() time.Time
}

// ExecuteUpdateSettings validates and stores the module settings.
// PRE: none
// POST: Settings persisted, or a settings validation error returned
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) (settings.Settings, error) {
	s := settings.Settings{
		EnableNotifications: input.EnableNotifications,
		AdminEmail:          input.AdminEmail,
		UpdatedAt:           deps.Now(),
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	if err := deps.SettingsStore.Save(ctx, s); err != nil {
		return settings.Settings{}, err
	}
	slog.Info("settings_event", "event", "settings_updated", "notifications", s.EnableNotifications)
	return s, nil
}

// ExecuteSeedSettings stores initial settings from configuration when none exist.
// An empty or invalid address leaves the store untouched.
// PRE: none
// POST: Settings row exists if input was valid and no row existed before
func ExecuteSeedSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) error {
	exists, err := deps.SettingsStore.Exists(ctx)
	if err != nil {
		return err
	}
	if exists || input.AdminEmail == "" {
		return nil
	}
	if _, err := ExecuteUpdateSettings(ctx, input, deps); err != nil {
		slog.Warn("settings_event", "event", "seed_skipped", "error", err)
	}
	return nil
}
