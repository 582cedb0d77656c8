package web

import (
	"errors"
	"net/http"
	"net/url"

	"eventreg/internal/application/orchestrators"
	"eventreg/internal/application/projections"
	"eventreg/internal/domain/regform"
	"eventreg/internal/domain/registration"
	"eventreg/internal/logging"
)

// registerView is the data behind register.html and its blocks.
type registerView struct {
	Flash     string
	FormError string
	Errors    map[string]string
	Leading   []regform.Descriptor
	Date      regform.Descriptor
	Event     regform.Descriptor
	Submit    regform.Descriptor
}

func newRegisterView(form regform.Form) registerView {
	v := registerView{Errors: map[string]string{}}
	for _, d := range form.Fields {
		switch d.Name {
		case regform.FieldEventDate:
			v.Date = d
		case regform.FieldEventID:
			v.Event = d
		case regform.FieldSubmit:
			v.Submit = d
		default:
			v.Leading = append(v.Leading, d)
		}
	}
	return v
}

// stateFromValues reads the form snapshot from query or form values.
func stateFromValues(v url.Values) regform.State {
	return regform.State{
		FullName:   v.Get(regform.FieldFullName),
		Email:      v.Get(regform.FieldEmail),
		College:    v.Get(regform.FieldCollege),
		Department: v.Get(regform.FieldDepartment),
		Category:   v.Get(regform.FieldCategory),
		EventDate:  v.Get(regform.FieldEventDate),
		EventID:    v.Get(regform.FieldEventID),
	}
}

func (a *app) formDeps() projections.RegistrationFormDeps {
	return projections.RegistrationFormDeps{EventStore: a.stores.EventStore}
}

// handleRegisterForm handles GET /register. The snapshot comes from the query
// so a reload keeps the current selections.
func (a *app) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	form, err := projections.QueryRegistrationForm(r.Context(), projections.RegistrationFormQuery{State: stateFromValues(r.URL.Query())}, a.formDeps())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, form)
		return
	}
	view := newRegisterView(form)
	if r.URL.Query().Get("status") == "registered" {
		view.Flash = orchestrators.RegistrationSuccessMessage
	}
	a.render(w, r, http.StatusOK, "register.html", "Event Registration", view)
}

// handleRegisterFragment handles GET /register/dates and /register/events,
// returning only the block that depends on the changed select.
func (a *app) handleRegisterFragment(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	// Only the upstream selections count; everything below the changed select resets.
	state := regform.State{}.With(regform.FieldCategory, values.Get(regform.FieldCategory))
	target, block := regform.DateWrapperID, "date_block"
	if r.URL.Path == "/register/events" {
		target, block = regform.EventWrapperID, "event_block"
		state = state.With(regform.FieldEventDate, values.Get(regform.FieldEventDate))
	}
	q := projections.RegistrationFragmentQuery{State: state, TargetID: target}
	frag, err := projections.QueryRegistrationFragment(r.Context(), q, a.formDeps())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, frag)
		return
	}
	view := registerView{Errors: map[string]string{}}
	for _, d := range frag.Fields {
		switch d.Name {
		case regform.FieldEventDate:
			view.Date = d
		case regform.FieldEventID:
			view.Event = d
		}
	}
	a.renderBlock(w, r, "register.html", block, view)
}

// handleRegisterSubmit handles POST /register.
func (a *app) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	state := stateFromValues(r.PostForm)
	input := orchestrators.RegistrationInput{
		FullName:   state.FullName,
		Email:      state.Email,
		College:    state.College,
		Department: state.Department,
		Category:   state.Category,
		EventDate:  state.EventDate,
		EventID:    state.EventID,
	}
	deps := orchestrators.SubmitRegistrationDeps{
		RegistrationStore: a.stores.RegistrationStore,
		EventStore:        a.stores.EventStore,
		SettingsStore:     a.stores.SettingsStore,
		Notifier:          a.notifier,
		Now:               a.now,
		GenerateID:        a.newID,
		Logger:            logging.FromContext(ctx),
		Locale:            a.opts.Locale,
	}
	result, err := orchestrators.ExecuteSubmitRegistration(ctx, input, deps)

	var verrs registration.ValidationErrors
	switch {
	case err == nil:
		if wantsJSON(r) {
			writeJSON(w, http.StatusCreated, map[string]any{
				"id":                result.Registration.ID,
				"event_name":        result.EventName,
				"message":           result.Message,
				"confirmation_sent": result.ConfirmationSent,
			})
			return
		}
		http.Redirect(w, r, "/register?status=registered", http.StatusSeeOther)
	case errors.As(err, &verrs):
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs.ByField()})
			return
		}
		a.rerenderRegister(w, r, state, http.StatusUnprocessableEntity, verrs.ByField(), "")
	default:
		logging.FromContext(ctx).Error("registration_submit_failed", "error", err)
		if wantsJSON(r) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		a.rerenderRegister(w, r, state, http.StatusInternalServerError, nil, err.Error())
	}
}

// rerenderRegister shows the submitted values again with their messages.
func (a *app) rerenderRegister(w http.ResponseWriter, r *http.Request, state regform.State, status int, errs map[string]string, formError string) {
	form, err := projections.QueryRegistrationForm(r.Context(), projections.RegistrationFormQuery{State: state}, a.formDeps())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	view := newRegisterView(form)
	if errs != nil {
		view.Errors = errs
	}
	view.FormError = formError
	a.render(w, r, status, "register.html", "Event Registration", view)
}
