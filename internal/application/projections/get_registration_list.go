package projections

import (
	"context"
	"slices"
	"time"

	"eventreg/internal/adapters/storage/registration"
	"eventreg/internal/application/listutil"
	domainRegistration "eventreg/internal/domain/registration"
)

// ListedLayout is how submission times appear in the admin table.
const ListedLayout = "2006-01-02 15:04"

// RegistrationListQuery carries the admin filters and paging.
type RegistrationListQuery struct {
	EventDate string
	EventID   string
	Page      listutil.PageParams
}

// FilterOption is one entry of an admin filter select.
type FilterOption struct {
	Value string
	Label string
}

// RegistrationRow is one row of the admin table.
type RegistrationRow struct {
	Name      string
	Email     string
	College   string
	Event     string
	Submitted string
}

// RegistrationListResult carries the filter options, count and rows.
type RegistrationListResult struct {
	Dates     []string
	Events    []FilterOption
	EventDate string
	EventID   string
	Total     int
	Rows      []RegistrationRow
	PageInfo  listutil.PageInfo
}

// RegistrationListDeps holds dependencies for RegistrationList.
type RegistrationListDeps struct {
	EventStore        EventCatalog
	RegistrationStore RegistrationLister
	Location          *time.Location
}

// QueryRegistrationList builds the admin listing: date filter, event filter for
// the chosen date (any category), participant count and the current page.
// PRE: none
// POST: Total counts every matching registration; Rows holds one page, newest first
// INVARIANT: Store state is not mutated
func QueryRegistrationList(ctx context.Context, query RegistrationListQuery, deps RegistrationListDeps) (RegistrationListResult, error) {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	dates, err := deps.EventStore.ListDates(ctx)
	if err != nil {
		return RegistrationListResult{}, err
	}
	res := RegistrationListResult{Dates: dates}

	if query.EventDate != "" && slices.Contains(dates, query.EventDate) {
		res.EventDate = query.EventDate
		events, err := deps.EventStore.ListByDate(ctx, query.EventDate)
		if err != nil {
			return RegistrationListResult{}, err
		}
		for _, e := range events {
			res.Events = append(res.Events, FilterOption{Value: e.ID, Label: e.EventName})
			if e.ID == query.EventID {
				res.EventID = e.ID
			}
		}
	}

	filter := registration.ListFilter{EventDate: res.EventDate, EventID: res.EventID, NewestFirst: true}
	total, err := deps.RegistrationStore.Count(ctx, filter)
	if err != nil {
		return RegistrationListResult{}, err
	}
	res.Total = total

	perPage := query.Page.PerPage
	if perPage == 0 {
		perPage = listutil.DefaultPerPage
	}
	res.PageInfo = listutil.NewPageInfo(query.Page.Page, perPage, total)
	filter.Limit = res.PageInfo.PerPage
	filter.Offset = res.PageInfo.Offset()

	listings, err := deps.RegistrationStore.List(ctx, filter)
	if err != nil {
		return RegistrationListResult{}, err
	}
	res.Rows = make([]RegistrationRow, 0, len(listings))
	for _, l := range listings {
		res.Rows = append(res.Rows, toRow(l, loc))
	}
	return res, nil
}

func toRow(l domainRegistration.Listing, loc *time.Location) RegistrationRow {
	return RegistrationRow{
		Name:      l.FullName,
		Email:     l.Email,
		College:   l.College,
		Event:     l.EventName,
		Submitted: l.CreatedAt.In(loc).Format(ListedLayout),
	}
}
