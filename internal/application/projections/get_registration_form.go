package projections

import (
	"context"
	"slices"

	domainEvent "eventreg/internal/domain/event"
	"eventreg/internal/domain/regform"
)

// RegistrationFormQuery carries the current form snapshot.
type RegistrationFormQuery struct {
	State regform.State
}

// RegistrationFragmentQuery carries the snapshot and the block to re-render.
type RegistrationFragmentQuery struct {
	State    regform.State
	TargetID string
}

// RegistrationFormDeps holds dependencies for the registration form queries.
type RegistrationFormDeps struct {
	EventStore EventCatalog
}

// QueryRegistrationForm recomputes every option set for the snapshot.
// PRE: none
// POST: Returns the form with stale selections pruned
// INVARIANT: Store state is not mutated
func QueryRegistrationForm(ctx context.Context, query RegistrationFormQuery, deps RegistrationFormDeps) (regform.Form, error) {
	opts, err := loadFormOptions(ctx, query.State, deps.EventStore)
	if err != nil {
		return regform.Form{}, err
	}
	return regform.Compute(query.State, opts), nil
}

// QueryRegistrationFragment returns only the block identified by TargetID.
// PRE: TargetID is regform.DateWrapperID or regform.EventWrapperID
// POST: Returns the fragment or regform.ErrUnknownFragment
func QueryRegistrationFragment(ctx context.Context, query RegistrationFragmentQuery, deps RegistrationFormDeps) (regform.Fragment, error) {
	form, err := QueryRegistrationForm(ctx, RegistrationFormQuery{State: query.State}, deps)
	if err != nil {
		return regform.Fragment{}, err
	}
	return form.Fragment(query.TargetID)
}

// loadFormOptions reads date options for the category and, once a listed date
// is chosen, event options for the category and date.
func loadFormOptions(ctx context.Context, state regform.State, catalog EventCatalog) (regform.Options, error) {
	var opts regform.Options
	if state.Category == "" || !domainEvent.IsCategory(state.Category) {
		return opts, nil
	}
	dates, err := catalog.ListDatesByCategory(ctx, state.Category)
	if err != nil {
		return opts, err
	}
	opts.Dates = dates
	if state.EventDate == "" || !slices.Contains(dates, state.EventDate) {
		return opts, nil
	}
	events, err := catalog.ListByCategoryAndDate(ctx, state.Category, state.EventDate)
	if err != nil {
		return opts, err
	}
	for _, e := range events {
		opts.Events = append(opts.Events, regform.EventOption{ID: e.ID, Name: e.EventName})
	}
	return opts, nil
}
