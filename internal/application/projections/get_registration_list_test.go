package projections

import (
	"context"
	"testing"

	"eventreg/internal/application/listutil"
	domainRegistration "eventreg/internal/domain/registration"
)

func sampleListings() *mockRegistrationLister {
	return &mockRegistrationLister{listings: []domainRegistration.Listing{
		listing(1, "ev-a", "Code Sprint", "2024-05-01"),
		listing(2, "ev-b", "Hack Night", "2024-05-01"),
		listing(3, "ev-c", "Summer Hack", "2024-06-01"),
		listing(4, "ev-a", "Code Sprint", "2024-05-01"),
	}}
}

// TestQueryRegistrationList_Unfiltered verifies all rows newest first with the total.
func TestQueryRegistrationList_Unfiltered(t *testing.T) {
	deps := RegistrationListDeps{EventStore: sampleCatalog(), RegistrationStore: sampleListings()}
	res, err := QueryRegistrationList(context.Background(), RegistrationListQuery{}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.Total != 4 || len(res.Rows) != 4 {
		t.Fatalf("Total=%d rows=%d, want 4/4", res.Total, len(res.Rows))
	}
	if res.Rows[0].Name != "Person 4" {
		t.Errorf("first row = %q, want newest", res.Rows[0].Name)
	}
	if res.Rows[0].Submitted != "2024-04-02 09:04" {
		t.Errorf("Submitted = %q", res.Rows[0].Submitted)
	}
	if len(res.Dates) != 2 || len(res.Events) != 0 {
		t.Errorf("Dates=%v Events=%v", res.Dates, res.Events)
	}
}

// TestQueryRegistrationList_DateAndEvent verifies the event filter narrows within the date.
func TestQueryRegistrationList_DateAndEvent(t *testing.T) {
	deps := RegistrationListDeps{EventStore: sampleCatalog(), RegistrationStore: sampleListings()}
	res, err := QueryRegistrationList(context.Background(), RegistrationListQuery{EventDate: "2024-05-01"}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("date Total = %d, want 3", res.Total)
	}
	// Events on the date span every category.
	if len(res.Events) != 3 {
		t.Errorf("Events = %+v, want 3 options", res.Events)
	}

	res, err = QueryRegistrationList(context.Background(), RegistrationListQuery{EventDate: "2024-05-01", EventID: "ev-a"}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.Total != 2 || res.EventID != "ev-a" {
		t.Errorf("Total=%d EventID=%q, want 2/ev-a", res.Total, res.EventID)
	}
}

// TestQueryRegistrationList_StaleFilters verifies unknown selections are ignored.
func TestQueryRegistrationList_StaleFilters(t *testing.T) {
	deps := RegistrationListDeps{EventStore: sampleCatalog(), RegistrationStore: sampleListings()}
	res, err := QueryRegistrationList(context.Background(), RegistrationListQuery{EventDate: "2024-06-01", EventID: "ev-a"}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.EventID != "" || res.Total != 1 {
		t.Errorf("EventID=%q Total=%d, want event filter dropped", res.EventID, res.Total)
	}

	res, err = QueryRegistrationList(context.Background(), RegistrationListQuery{EventDate: "1999-01-01"}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.EventDate != "" || res.Total != 4 {
		t.Errorf("EventDate=%q Total=%d, want unfiltered", res.EventDate, res.Total)
	}
}

func TestQueryRegistrationList_Paging(t *testing.T) {
	store := &mockRegistrationLister{}
	for i := 0; i < 30; i++ {
		store.listings = append(store.listings, listing(i, "ev-a", "Code Sprint", "2024-05-01"))
	}
	deps := RegistrationListDeps{EventStore: sampleCatalog(), RegistrationStore: store}
	q := RegistrationListQuery{Page: listutil.PageParams{Page: 2, PerPage: 25}}
	res, err := QueryRegistrationList(context.Background(), q, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.Total != 30 || len(res.Rows) != 5 {
		t.Errorf("Total=%d rows=%d, want 30/5", res.Total, len(res.Rows))
	}
	if store.lastQuery.Offset != 25 || store.lastQuery.Limit != 25 || !store.lastQuery.NewestFirst {
		t.Errorf("filter = %+v", store.lastQuery)
	}
}

func TestQueryRegistrationList_Empty(t *testing.T) {
	deps := RegistrationListDeps{EventStore: &mockEventCatalog{}, RegistrationStore: &mockRegistrationLister{}}
	res, err := QueryRegistrationList(context.Background(), RegistrationListQuery{}, deps)
	if err != nil {
		t.Fatalf("QueryRegistrationList() error: %v", err)
	}
	if res.Total != 0 || res.Rows == nil || len(res.Rows) != 0 {
		t.Errorf("res = %+v, want empty non-nil rows", res)
	}
}
