package projections

import (
	"context"
	"io"
	"time"

	"eventreg/internal/adapters/storage/registration"
	"eventreg/internal/domain/export"
	domainRegistration "eventreg/internal/domain/registration"
)

// ExportRegistrationsQuery carries the optional admin filters.
type ExportRegistrationsQuery struct {
	EventDate string
	EventID   string
}

// ExportRegistrationsDeps holds dependencies for ExportRegistrations.
type ExportRegistrationsDeps struct {
	RegistrationStore RegistrationLister
	Location          *time.Location
}

// ExportRegistrations streams matching registrations as CSV to w, oldest first.
// PRE: w is writable
// POST: Header row always written; returns the number of data rows
// INVARIANT: Store state is not mutated
func ExportRegistrations(ctx context.Context, query ExportRegistrationsQuery, w io.Writer, deps ExportRegistrationsDeps) (int, error) {
	cw := export.NewCSVWriter(w, deps.Location)
	if err := cw.WriteHeader(); err != nil {
		return 0, err
	}
	filter := registration.ListFilter{EventDate: query.EventDate, EventID: query.EventID}
	err := deps.RegistrationStore.Each(ctx, filter, func(l domainRegistration.Listing) error {
		return cw.Write(l)
	})
	if cerr := cw.Close(); err == nil {
		err = cerr
	}
	return cw.Rows(), err
}
