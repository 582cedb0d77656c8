// Package regform models the cascading registration form: category selects the
// available dates, date selects the available events. Everything here is pure;
// option sets come from the event catalog via the projections layer.
package regform

import (
	"errors"
	"slices"

	"eventreg/internal/domain/event"
)

// Field names, matching the submitted form keys.
const (
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldCollege    = "college"
	FieldDepartment = "department"
	FieldCategory   = "category"
	FieldEventDate  = "event_date"
	FieldEventID    = "event_id"
	FieldSubmit     = "submit"
)

// Stable element identifiers for the re-rendered blocks.
const (
	DateWrapperID  = "date-wrapper"
	EventWrapperID = "event-name-wrapper"
)

// EmptyOptionLabel is shown as the placeholder entry of every select.
const EmptyOptionLabel = "- Select -"

// ErrUnknownFragment is returned when a fragment target has no block.
var ErrUnknownFragment = errors.New("unknown fragment target")

// Stage is the position in the category → date → event cascade.
type Stage int

const (
	StageNoCategory Stage = iota
	StageCategoryChosen
	StageDateChosen
	StageEventChosen
)

func (s Stage) String() string {
	switch s {
	case StageCategoryChosen:
		return "category_chosen"
	case StageDateChosen:
		return "date_chosen"
	case StageEventChosen:
		return "event_chosen"
	default:
		return "no_category"
	}
}

// Kind is the input type of a field.
type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindSelect Kind = "select"
	KindSubmit Kind = "submit"
)

// Option is one entry of a select.
type Option struct {
	Value string
	Label string
}

// Descriptor declares how one field is rendered.
type Descriptor struct {
	Name     string
	Kind     Kind
	Label    string
	Required bool
	Options  []Option
	// EmptyOption is the placeholder label of a select; empty for other kinds.
	EmptyOption string
	// WrapperID is the element re-rendered when an upstream field changes.
	WrapperID string
	// OnChangeRecomputes names the wrapper to refresh when this field changes.
	OnChangeRecomputes string
	Visible            bool
	Value              string
}

// State is an immutable snapshot of the form values.
type State struct {
	FullName   string
	Email      string
	College    string
	Department string
	Category   string
	EventDate  string
	EventID    string
}

// Stage derives the cascade position from the selections.
// INVARIANT: a downstream selection without its upstream one is ignored.
func (s State) Stage() Stage {
	switch {
	case s.Category == "":
		return StageNoCategory
	case s.EventDate == "":
		return StageCategoryChosen
	case s.EventID == "":
		return StageDateChosen
	default:
		return StageEventChosen
	}
}

// Get returns the value of a field by name.
func (s State) Get(field string) string {
	switch field {
	case FieldFullName:
		return s.FullName
	case FieldEmail:
		return s.Email
	case FieldCollege:
		return s.College
	case FieldDepartment:
		return s.Department
	case FieldCategory:
		return s.Category
	case FieldEventDate:
		return s.EventDate
	case FieldEventID:
		return s.EventID
	}
	return ""
}

// With returns a copy of s with field set to value.
// PRE: none
// POST: changing category clears date and event; changing date clears event;
// setting a field to its current value returns s unchanged
func (s State) With(field, value string) State {
	if s.Get(field) == value {
		return s
	}
	next := s
	switch field {
	case FieldFullName:
		next.FullName = value
	case FieldEmail:
		next.Email = value
	case FieldCollege:
		next.College = value
	case FieldDepartment:
		next.Department = value
	case FieldCategory:
		next.Category = value
		next.EventDate = ""
		next.EventID = ""
	case FieldEventDate:
		next.EventDate = value
		next.EventID = ""
	case FieldEventID:
		next.EventID = value
	}
	return next
}

// EventOption is an event selectable for the chosen category and date.
type EventOption struct {
	ID   string
	Name string
}

// Options are the option sets recomputed from the catalog for a State.
type Options struct {
	Dates  []string
	Events []EventOption
}

// Form is the computed form: the pruned state and every field descriptor.
type Form struct {
	State  State
	Fields []Descriptor
}

// Fragment is a partial re-render of one wrapper block.
type Fragment struct {
	TargetID string
	Fields   []Descriptor
}

// Compute prunes stale selections against opts and builds the descriptors.
// PRE: opts were computed for state's category and date
// POST: every selection in Form.State is present in its option set
func Compute(state State, opts Options) Form {
	if state.Category != "" && !event.IsCategory(state.Category) {
		state.Category, state.EventDate, state.EventID = "", "", ""
	}
	if state.Category == "" {
		opts = Options{}
	}
	if state.EventDate != "" && !slices.Contains(opts.Dates, state.EventDate) {
		state.EventDate, state.EventID = "", ""
	}
	if state.EventDate == "" {
		opts.Events = nil
	}
	if state.EventID != "" && !slices.ContainsFunc(opts.Events, func(o EventOption) bool { return o.ID == state.EventID }) {
		state.EventID = ""
	}

	categories := make([]Option, 0, len(event.Categories))
	for _, c := range event.Categories {
		categories = append(categories, Option{Value: c, Label: event.CategoryLabel(c)})
	}
	dates := make([]Option, 0, len(opts.Dates))
	for _, d := range opts.Dates {
		dates = append(dates, Option{Value: d, Label: d})
	}
	events := make([]Option, 0, len(opts.Events))
	for _, e := range opts.Events {
		events = append(events, Option{Value: e.ID, Label: e.Name})
	}

	return Form{
		State: state,
		Fields: []Descriptor{
			{Name: FieldFullName, Kind: KindText, Label: "Full Name", Required: true, Visible: true, Value: state.FullName},
			{Name: FieldEmail, Kind: KindEmail, Label: "Email Address", Required: true, Visible: true, Value: state.Email},
			{Name: FieldCollege, Kind: KindText, Label: "College Name", Required: true, Visible: true, Value: state.College},
			{Name: FieldDepartment, Kind: KindText, Label: "Department", Required: true, Visible: true, Value: state.Department},
			{
				Name:               FieldCategory,
				Kind:               KindSelect,
				Label:              "Category of the event",
				Required:           true,
				Options:            categories,
				EmptyOption:        EmptyOptionLabel,
				OnChangeRecomputes: DateWrapperID,
				Visible:            true,
				Value:              state.Category,
			},
			{
				Name:               FieldEventDate,
				Kind:               KindSelect,
				Label:              "Event Date",
				Required:           true,
				Options:            dates,
				EmptyOption:        EmptyOptionLabel,
				WrapperID:          DateWrapperID,
				OnChangeRecomputes: EventWrapperID,
				Visible:            len(dates) > 0,
				Value:              state.EventDate,
			},
			{
				Name:        FieldEventID,
				Kind:        KindSelect,
				Label:       "Event Name",
				Required:    true,
				Options:     events,
				EmptyOption: EmptyOptionLabel,
				WrapperID:   EventWrapperID,
				Visible:     len(events) > 0,
				Value:       state.EventID,
			},
			{Name: FieldSubmit, Kind: KindSubmit, Label: "Register", Visible: true},
		},
	}
}

// Field returns the descriptor for name.
func (f Form) Field(name string) (Descriptor, bool) {
	for _, d := range f.Fields {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Fragment returns the block replaced in place when an upstream field changes.
// The date block carries the event field too so a category change resets it.
func (f Form) Fragment(targetID string) (Fragment, error) {
	var names []string
	switch targetID {
	case DateWrapperID:
		names = []string{FieldEventDate, FieldEventID}
	case EventWrapperID:
		names = []string{FieldEventID}
	default:
		return Fragment{}, ErrUnknownFragment
	}
	frag := Fragment{TargetID: targetID}
	for _, n := range names {
		d, _ := f.Field(n)
		frag.Fields = append(frag.Fields, d)
	}
	return frag, nil
}
