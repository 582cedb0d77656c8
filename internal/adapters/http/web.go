package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"eventreg/internal/adapters/http/middleware"
	"eventreg/internal/adapters/http/perf"
	eventStore "eventreg/internal/adapters/storage/event"
	registrationStore "eventreg/internal/adapters/storage/registration"
	settingsStore "eventreg/internal/adapters/storage/settings"
	"eventreg/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	EventStore        eventStore.Store
	RegistrationStore registrationStore.Store
	SettingsStore     settingsStore.Store
}

// Pinger reports database liveness for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the HTTP surface.
type Options struct {
	StaticDir string
	// CSRFKey is 32 bytes. A nil key disables CSRF protection (tests only).
	CSRFKey            []byte
	CSRF               middleware.CSRFOptions
	RateLimitPerSecond int
	SlowRequestMs      int
	// Location is the zone submission timestamps are displayed in.
	Location *time.Location
	// Locale selects notification template variants.
	Locale string
}

// app carries the dependencies every handler needs.
type app struct {
	stores    Stores
	notifier  orchestrators.Notifier
	collector *perf.Collector
	db        Pinger
	opts      Options
	views     *views
	now       func() time.Time
	newID     func() string
}

// NewMux wires HTTP handlers for the app. ctx bounds background work such as
// the rate limiter sweep.
func NewMux(ctx context.Context, s Stores, notifier orchestrators.Notifier, collector *perf.Collector, db Pinger, opts Options) http.Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 10
	}
	a := &app{
		stores:    s,
		notifier:  notifier,
		collector: collector,
		db:        db,
		opts:      opts,
		views:     mustParseViews(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	return a.routes(ctx)
}

func (a *app) routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Timing(a.collector, a.opts.SlowRequestMs))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(ctx, a.opts.RateLimitPerSecond, time.Second)))
	if a.opts.CSRFKey != nil {
		r.Use(middleware.CSRF(a.opts.CSRFKey, a.opts.CSRF))
	}
	r.Use(middleware.SecurityHeaders)

	if a.opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(a.opts.StaticDir))))
	}
	r.Get("/healthz", a.handleHealth)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	})

	r.Route("/register", func(r chi.Router) {
		r.Get("/", a.handleRegisterForm)
		r.Post("/", a.handleRegisterSubmit)
		r.Get("/dates", a.handleRegisterFragment)
		r.Get("/events", a.handleRegisterFragment)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/registrations", http.StatusSeeOther)
		})
		r.Get("/events", a.handleAdminEvents)
		r.Post("/events", a.handleAdminCreateEvent)
		r.Get("/settings", a.handleAdminSettings)
		r.Post("/settings", a.handleAdminUpdateSettings)
		r.Get("/registrations", a.handleAdminRegistrations)
		r.Get("/registrations/events", a.handleAdminRegistrationEvents)
		r.Get("/registrations/table", a.handleAdminRegistrationTable)
		r.Get("/registrations/export.csv", a.handleAdminExport)
		r.Get("/perf", a.handleAdminPerf)
	})
	return r
}

// handleHealth reports liveness and database reachability.
func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			status, code = "database unavailable", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{"status": status})
}
