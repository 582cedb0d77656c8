package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"eventreg/internal/application/listutil"
	"eventreg/internal/application/orchestrators"
	"eventreg/internal/application/projections"
	"eventreg/internal/domain/event"
	"eventreg/internal/domain/export"
	"eventreg/internal/domain/settings"
	"eventreg/internal/logging"
)

// eventFormMessages maps event validation failures to form messages.
var eventFormMessages = []struct {
	err error
	msg string
}{
	{event.ErrInvalidName, "Event Name contains illegal characters."},
	{event.ErrInvalidCategory, "Please choose a category."},
	{event.ErrInvalidEventDate, "Event Date must be a valid date."},
	{event.ErrInvalidRegStart, "Registration start date must be a valid date."},
	{event.ErrInvalidRegEnd, "Registration end date must be a valid date."},
	{event.ErrRegWindowReversed, "Registration end date cannot be before the start date."},
}

func eventFormMessage(err error) (string, bool) {
	for _, m := range eventFormMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}
	return "", false
}

// adminEventsView is the data behind admin_events.html.
type adminEventsView struct {
	Flash  string
	Error  string
	Input  orchestrators.CreateEventInput
	Events []projections.EventListItem
}

// handleAdminEvents handles GET /admin/events.
func (a *app) handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	view := adminEventsView{}
	if r.URL.Query().Get("status") == "created" {
		view.Flash = "Event saved."
	}
	a.renderEvents(w, r, http.StatusOK, view)
}

func (a *app) renderEvents(w http.ResponseWriter, r *http.Request, status int, view adminEventsView) {
	items, err := projections.QueryEventList(r.Context(), projections.EventListDeps{EventStore: a.stores.EventStore, Now: a.now})
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	view.Events = items
	if wantsJSON(r) {
		if view.Error != "" {
			writeJSON(w, status, map[string]string{"error": view.Error})
			return
		}
		writeJSON(w, status, items)
		return
	}
	a.render(w, r, status, "admin_events.html", "Event Configuration", view)
}

// handleAdminCreateEvent handles POST /admin/events.
func (a *app) handleAdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.CreateEventInput{
		EventName:    r.PostForm.Get("event_name"),
		Category:     r.PostForm.Get("category"),
		EventDate:    r.PostForm.Get("event_date"),
		RegStartDate: r.PostForm.Get("reg_start_date"),
		RegEndDate:   r.PostForm.Get("reg_end_date"),
	}
	created, err := orchestrators.ExecuteCreateEvent(r.Context(), input, orchestrators.CreateEventDeps{
		EventStore: a.stores.EventStore,
		Now:        a.now,
		GenerateID: a.newID,
	})
	if err != nil {
		if msg, ok := eventFormMessage(err); ok {
			a.renderEvents(w, r, http.StatusUnprocessableEntity, adminEventsView{Error: msg, Input: input})
			return
		}
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
		return
	}
	http.Redirect(w, r, "/admin/events?status=created", http.StatusSeeOther)
}

// adminSettingsView is the data behind admin_settings.html.
type adminSettingsView struct {
	Flash    string
	Error    string
	Settings settings.Settings
}

// handleAdminSettings handles GET /admin/settings.
func (a *app) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	s, err := a.stores.SettingsStore.Get(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, s)
		return
	}
	view := adminSettingsView{Settings: s}
	if r.URL.Query().Get("status") == "saved" {
		view.Flash = "The configuration options have been saved."
	}
	a.render(w, r, http.StatusOK, "admin_settings.html", "Registration Settings", view)
}

// handleAdminUpdateSettings handles POST /admin/settings.
func (a *app) handleAdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.UpdateSettingsInput{
		EnableNotifications: r.PostForm.Get("enable_notifications") != "",
		AdminEmail:          r.PostForm.Get("admin_email"),
	}
	saved, err := orchestrators.ExecuteUpdateSettings(r.Context(), input, orchestrators.UpdateSettingsDeps{
		SettingsStore: a.stores.SettingsStore,
		Now:           a.now,
	})
	var msg string
	switch {
	case errors.Is(err, settings.ErrInvalidAdminEmail):
		msg = "Admin Email must be a valid email address."
	case errors.Is(err, settings.ErrAdminEmailRequired):
		msg = "Admin Email is required when notifications are enabled."
	case err != nil:
		a.internalError(w, r, err)
		return
	}
	if msg != "" {
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": msg})
			return
		}
		view := adminSettingsView{Error: msg, Settings: settings.Settings{EnableNotifications: input.EnableNotifications, AdminEmail: input.AdminEmail}}
		a.render(w, r, http.StatusUnprocessableEntity, "admin_settings.html", "Registration Settings", view)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, saved)
		return
	}
	http.Redirect(w, r, "/admin/settings?status=saved", http.StatusSeeOther)
}

func (a *app) registrationList(r *http.Request) (projections.RegistrationListResult, error) {
	q := r.URL.Query()
	return projections.QueryRegistrationList(r.Context(), projections.RegistrationListQuery{
		EventDate: q.Get("event_date"),
		EventID:   q.Get("event_id"),
		Page:      listutil.ParsePageParams(q),
	}, projections.RegistrationListDeps{
		EventStore:        a.stores.EventStore,
		RegistrationStore: a.stores.RegistrationStore,
		Location:          a.opts.Location,
	})
}

// handleAdminRegistrations handles GET /admin/registrations.
func (a *app) handleAdminRegistrations(w http.ResponseWriter, r *http.Request) {
	res, err := a.registrationList(r)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, res)
		return
	}
	a.render(w, r, http.StatusOK, "admin_registrations.html", "Event Registrations", res)
}

// handleAdminRegistrationEvents handles GET /admin/registrations/events: the
// event filter for the chosen date plus an out-of-band table refresh.
func (a *app) handleAdminRegistrationEvents(w http.ResponseWriter, r *http.Request) {
	res, err := a.registrationList(r)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"event_date": res.EventDate, "events": res.Events})
		return
	}
	a.renderBlock(w, r, "admin_registrations.html", "event_filter_oob", res)
}

// handleAdminRegistrationTable handles GET /admin/registrations/table.
func (a *app) handleAdminRegistrationTable(w http.ResponseWriter, r *http.Request) {
	res, err := a.registrationList(r)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"total": res.Total, "rows": res.Rows, "page_info": res.PageInfo})
		return
	}
	a.renderBlock(w, r, "admin_registrations.html", "registrations_table", res)
}

// handleAdminExport handles GET /admin/registrations/export.csv.
func (a *app) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	n, err := projections.ExportRegistrations(r.Context(), projections.ExportRegistrationsQuery{
		EventDate: q.Get("event_date"),
		EventID:   q.Get("event_id"),
	}, w, projections.ExportRegistrationsDeps{
		RegistrationStore: a.stores.RegistrationStore,
		Location:          a.opts.Location,
	})
	logger := logging.FromContext(r.Context())
	if err != nil {
		// Headers are already sent; the truncated file is all we can do.
		logger.Error("export_event", "event", "export_failed", "rows", n, "error", err)
		return
	}
	logger.Info("export_event", "event", "export_completed", "rows", n)
}

// handleAdminPerf handles GET /admin/perf.
func (a *app) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if a.collector == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	since := time.Time{}
	if d, err := time.ParseDuration(r.URL.Query().Get("window")); err == nil && d > 0 {
		since = a.now().Add(-d)
	}
	writeJSON(w, http.StatusOK, a.collector.Snapshot(since, 10))
}
