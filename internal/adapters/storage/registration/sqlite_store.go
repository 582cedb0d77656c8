package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventreg/internal/adapters/storage"
	domain "eventreg/internal/domain/registration"
)

// SQLiteStore implements Store using SQLite (or Postgres through TimedDB).
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new registration store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a Registration.
// PRE: value has been validated
// POST: Row inserted; a second row for the same (email, event_id) returns
// domain.ErrDuplicateRegistration
func (s *SQLiteStore) Save(ctx context.Context, r domain.Registration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_registration (id, full_name, email, college, department, event_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.FullName, r.Email, r.College, r.Department, r.EventID, r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("save event_registration: %w", domain.ErrDuplicateRegistration)
	}
	if err != nil {
		return fmt.Errorf("save event_registration: %w", err)
	}
	return nil
}

// ExistsByEmailAndEvent reports whether email is already registered for eventID.
// PRE: email and eventID are non-empty
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) ExistsByEmailAndEvent(ctx context.Context, email, eventID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_registration WHERE email = ? AND event_id = ?", email, eventID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check duplicate registration: %w", err)
	}
	return n > 0, nil
}

// List returns joined registrations matching filter.
// PRE: filter has valid parameters
// POST: Returns at most filter.Limit rows when Limit > 0
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := s.Each(ctx, filter, func(l domain.Listing) error {
		out = append(out, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of registrations matching filter, ignoring paging.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM event_registration r
		JOIN event_detail e ON e.id = r.event_id`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count event_registration: %w", err)
	}
	return n, nil
}

// Each streams joined registrations matching filter to fn, stopping at the
// first error fn returns.
// PRE: fn does not query the store
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Each(ctx context.Context, filter ListFilter, fn func(domain.Listing) error) error {
	where, args := whereClause(filter)
	order := " ORDER BY r.created_at, r.id"
	if filter.NewestFirst {
		order = " ORDER BY r.created_at DESC, r.id DESC"
	}
	page := ""
	if filter.Limit > 0 {
		page = " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.full_name, r.email, r.college, r.department, r.event_id, r.created_at,
			e.event_name, e.event_date, e.category
		FROM event_registration r
		JOIN event_detail e ON e.id = r.event_id`+where+order+page, args...)
	if err != nil {
		return fmt.Errorf("list event_registration: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Listing
		var created string
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.College, &l.Department, &l.EventID, &created,
			&l.EventName, &l.EventDate, &l.Category); err != nil {
			return err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, created)
		if err := fn(l); err != nil {
			return err
		}
	}
	return rows.Err()
}

func whereClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.EventDate != "" {
		conds = append(conds, "e.event_date = ?")
		args = append(args, filter.EventDate)
	}
	if filter.EventID != "" {
		conds = append(conds, "r.event_id = ?")
		args = append(args, filter.EventID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
