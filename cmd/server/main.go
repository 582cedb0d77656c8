package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	emailPkg "eventreg/internal/adapters/email"
	web "eventreg/internal/adapters/http"
	"eventreg/internal/adapters/http/middleware"
	"eventreg/internal/adapters/http/perf"
	"eventreg/internal/adapters/storage"
	eventStore "eventreg/internal/adapters/storage/event"
	registrationStore "eventreg/internal/adapters/storage/registration"
	settingsStore "eventreg/internal/adapters/storage/settings"
	"eventreg/internal/application/orchestrators"
	"eventreg/internal/config"
	"eventreg/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect := cfg.Dialect()
	db, err := storage.Open(dialect, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := storage.MigrateDB(db, dialect); err != nil {
		return err
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, dialect, collector, cfg.Database.SlowQueryMs)

	stores := web.Stores{
		EventStore:        eventStore.NewSQLiteStore(timedDB),
		RegistrationStore: registrationStore.NewSQLiteStore(timedDB),
		SettingsStore:     settingsStore.NewSQLiteStore(timedDB),
	}

	settingsDeps := orchestrators.UpdateSettingsDeps{SettingsStore: stores.SettingsStore, Now: time.Now}
	seedInput := orchestrators.UpdateSettingsInput{
		EnableNotifications: cfg.Seed.EnableNotifications,
		AdminEmail:          cfg.Seed.AdminEmail,
	}
	if err := orchestrators.ExecuteSeedSettings(ctx, seedInput, settingsDeps); err != nil {
		return err
	}

	if !cfg.IsProduction() && cfg.Seed.SampleEvents {
		seedDeps := orchestrators.SeedEventsDeps{
			EventStore: stores.EventStore,
			Now:        func() time.Time { return time.Now().In(loc) },
			GenerateID: func() string { return uuid.New().String() },
		}
		if err := orchestrators.ExecuteSeedEvents(ctx, seedDeps); err != nil {
			return err
		}
	}

	var sender emailPkg.Sender
	if cfg.Email.ResendAPIKey != "" {
		sender = emailPkg.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From)
		slog.Info("email_sender", "transport", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender", "transport", "noop", "detail", "EVENTREG_RESEND_API_KEY is not set; notifications are not delivered")
		} else {
			slog.Info("email_sender", "transport", "noop")
		}
	}
	mailer := emailPkg.NewMailer(sender, cfg.Email.From, cfg.Email.ReplyTo)

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	if csrfKey == nil {
		// Validate rejects this in production; dev sessions get a per-process key.
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return err
		}
		slog.Warn("csrf_key_generated", "detail", "set EVENTREG_CSRF_KEY to keep tokens valid across restarts")
	}

	handler := web.NewMux(ctx, stores, mailer, collector, timedDB, web.Options{
		StaticDir: cfg.Server.StaticDir,
		CSRFKey:   csrfKey,
		CSRF: middleware.CSRFOptions{
			Secure:         cfg.IsProduction(),
			TrustedOrigins: cfg.Security.TrustedOrigins,
		},
		RateLimitPerSecond: cfg.Security.RateLimitPerSecond,
		SlowRequestMs:      cfg.Server.SlowRequestMs,
		Location:           loc,
		Locale:             cfg.Email.Locale,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start",
			"version", version,
			"addr", cfg.Server.Addr,
			"env", cfg.Env,
			"driver", string(dialect),
			"schema", storage.LatestSchemaVersion(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
