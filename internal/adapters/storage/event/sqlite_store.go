package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventreg/internal/adapters/storage"
	domain "eventreg/internal/domain/event"
)

const eventColumns = "id, event_name, category, event_date, reg_start_date, reg_end_date, created_at"

// SQLiteStore implements Store using SQLite (or Postgres through TimedDB).
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an EventDetail by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.EventDetail, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM event_detail WHERE id = ?", id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EventDetail{}, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.EventDetail{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return e, nil
}

// Save inserts a new EventDetail.
// PRE: entity has been validated
// POST: Entity is persisted; events are never updated in place
func (s *SQLiteStore) Save(ctx context.Context, e domain.EventDetail) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO event_detail ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.EventName, e.Category, e.EventDate, e.RegStartDate, e.RegEndDate, e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save event_detail: %w", err)
	}
	return nil
}

// List returns every event, soonest first.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) List(ctx context.Context) ([]domain.EventDetail, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM event_detail ORDER BY event_date, event_name")
}

// Count returns the number of configured events.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event_detail").Scan(&n); err != nil {
		return 0, fmt.Errorf("count event_detail: %w", err)
	}
	return n, nil
}

// ListDatesByCategory returns the distinct event dates of a category in ascending order.
// PRE: category is non-empty
// POST: Returns an empty slice when the category has no events
func (s *SQLiteStore) ListDatesByCategory(ctx context.Context, category string) ([]string, error) {
	return s.queryDates(ctx, "SELECT DISTINCT event_date FROM event_detail WHERE category = ? ORDER BY event_date", category)
}

// ListByCategoryAndDate returns the events of a category on one date, by name.
// PRE: category and eventDate are non-empty
// POST: Returns an empty slice when nothing matches
func (s *SQLiteStore) ListByCategoryAndDate(ctx context.Context, category, eventDate string) ([]domain.EventDetail, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM event_detail WHERE category = ? AND event_date = ? ORDER BY event_name, id",
		category, eventDate)
}

// ListDates returns every distinct event date in ascending order.
func (s *SQLiteStore) ListDates(ctx context.Context) ([]string, error) {
	return s.queryDates(ctx, "SELECT DISTINCT event_date FROM event_detail ORDER BY event_date")
}

// ListByDate returns all events on one date regardless of category, by name.
func (s *SQLiteStore) ListByDate(ctx context.Context, eventDate string) ([]domain.EventDetail, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM event_detail WHERE event_date = ? ORDER BY event_name, id", eventDate)
}

func (s *SQLiteStore) queryDates(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list event dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...any) ([]domain.EventDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []domain.EventDetail{}
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(scan func(dest ...any) error) (domain.EventDetail, error) {
	var e domain.EventDetail
	var created string
	if err := scan(&e.ID, &e.EventName, &e.Category, &e.EventDate, &e.RegStartDate, &e.RegEndDate, &created); err != nil {
		return domain.EventDetail{}, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, nil
}
