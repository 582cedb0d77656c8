package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"eventreg/internal/domain/export"
	"eventreg/internal/domain/registration"
)

func listing(name string) registration.Listing {
	return registration.Listing{
		Registration: registration.Registration{
			ID:         "reg-" + name,
			FullName:   name,
			Email:      name + "@example.com",
			College:    "City College",
			Department: "Physics",
			EventID:    "ev-1",
			CreatedAt:  time.Date(2024, 4, 2, 9, 30, 15, 0, time.UTC),
		},
		EventName: "Code Sprint",
		EventDate: "2024-05-01",
		Category:  "Hackathon",
	}
}

func TestCSVWriter_WritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf, nil)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader() error: %v", err)
	}
	for _, n := range []string{"ada", "grace"} {
		if err := w.Write(listing(n)); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, h := range export.Header {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	want := []string{"ada", "ada@example.com", "City College", "Physics", "Code Sprint", "2024-05-01", "Hackathon", "2024-04-02 09:30:15"}
	for i := range want {
		if records[1][i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, records[1][i], want[i])
		}
	}
	if w.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", w.Rows())
	}
}

func TestCSVWriter_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf, nil)
	_ = w.WriteHeader()
	_ = w.Close()
	if got := buf.String(); got != "Name,Email,College,Department,Event,Date,Category,Submitted\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCSVWriter_RequiresHeader(t *testing.T) {
	w := export.NewCSVWriter(&bytes.Buffer{}, nil)
	if err := w.Write(listing("ada")); !errors.Is(err, export.ErrHeaderNotWritten) {
		t.Errorf("Write() error = %v, want ErrHeaderNotWritten", err)
	}
	_ = w.Close()
	if err := w.WriteHeader(); !errors.Is(err, export.ErrClosed) {
		t.Errorf("WriteHeader() after Close error = %v, want ErrClosed", err)
	}
}

func TestRecord_QuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf, nil)
	_ = w.WriteHeader()
	l := listing("ada")
	l.EventName = "Sprint, Day 1"
	_ = w.Write(l)
	_ = w.Close()
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if records[1][4] != "Sprint, Day 1" {
		t.Errorf("event column = %q", records[1][4])
	}
}
