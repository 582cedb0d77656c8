package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"eventreg/internal/domain/registration"
)

// Format and file naming for registration exports.
const (
	FormatCSV       = "csv"
	ContentType     = "text/csv"
	Filename        = "registrations.csv"
	SubmittedLayout = "2006-01-02 15:04:05"
)

// Header is the column contract of the CSV export.
var Header = []string{"Name", "Email", "College", "Department", "Event", "Date", "Category", "Submitted"}

// Domain errors.
var (
	ErrHeaderNotWritten = errors.New("export header not written")
	ErrClosed           = errors.New("export writer closed")
)

// Record converts a joined registration into one CSV record.
// PRE: l is a joined registration row
// POST: Returns len(Header) values in Header order
func Record(l registration.Listing, loc *time.Location) []string {
	submitted := l.CreatedAt
	if loc != nil {
		submitted = submitted.In(loc)
	}
	return []string{
		l.FullName,
		l.Email,
		l.College,
		l.Department,
		l.EventName,
		l.EventDate,
		l.Category,
		submitted.Format(SubmittedLayout),
	}
}

// CSVWriter streams export rows to an io.Writer.
type CSVWriter struct {
	w      *csv.Writer
	loc    *time.Location
	header bool
	closed bool
	rows   int
}

// NewCSVWriter wraps w. Submitted timestamps are rendered in loc (UTC when nil).
func NewCSVWriter(w io.Writer, loc *time.Location) *CSVWriter {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVWriter{w: csv.NewWriter(w), loc: loc}
}

// WriteHeader writes the header row. It must be called once before Write.
func (c *CSVWriter) WriteHeader() error {
	if c.closed {
		return ErrClosed
	}
	if err := c.w.Write(Header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	c.header = true
	return nil
}

// Write appends one registration. Rows are flushed in batches by encoding/csv.
func (c *CSVWriter) Write(l registration.Listing) error {
	if c.closed {
		return ErrClosed
	}
	if !c.header {
		return ErrHeaderNotWritten
	}
	if err := c.w.Write(Record(l, c.loc)); err != nil {
		return fmt.Errorf("write export row: %w", err)
	}
	c.rows++
	return nil
}

// Close flushes buffered rows and reports any write error.
func (c *CSVWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.w.Flush()
	return c.w.Error()
}

// Rows returns the number of data rows written.
func (c *CSVWriter) Rows() int {
	return c.rows
}
