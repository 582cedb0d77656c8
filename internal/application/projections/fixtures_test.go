package projections

import (
	"fmt"
	"time"

	domainEvent "eventreg/internal/domain/event"
	domainRegistration "eventreg/internal/domain/registration"
)

func sampleCatalog() *mockEventCatalog {
	mk := func(id, name, category, date string) domainEvent.EventDetail {
		return domainEvent.EventDetail{ID: id, EventName: name, Category: category, EventDate: date, RegStartDate: "2024-04-01", RegEndDate: "2024-04-30"}
	}
	return &mockEventCatalog{events: []domainEvent.EventDetail{
		mk("ev-a", "Code Sprint", domainEvent.CategoryHackathon, "2024-05-01"),
		mk("ev-b", "Hack Night", domainEvent.CategoryHackathon, "2024-05-01"),
		mk("ev-c", "Summer Hack", domainEvent.CategoryHackathon, "2024-06-01"),
		mk("ev-d", "Go Basics", domainEvent.CategoryWorkshop, "2024-05-01"),
	}}
}

func listing(n int, eventID, eventName, eventDate string) domainRegistration.Listing {
	return domainRegistration.Listing{
		Registration: domainRegistration.Registration{
			ID:         fmt.Sprintf("reg-%d", n),
			FullName:   fmt.Sprintf("Person %d", n),
			Email:      fmt.Sprintf("p%d@example.com", n),
			College:    "Tech College",
			Department: "CS",
			EventID:    eventID,
			CreatedAt:  time.Date(2024, 4, 2, 9, n, 0, 0, time.UTC),
		},
		EventName: eventName,
		EventDate: eventDate,
		Category:  domainEvent.CategoryHackathon,
	}
}
