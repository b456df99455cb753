package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
)

// fakeResult implements sql.Result for the fake querier.
type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// errQueryStop aborts listing queries after the statement has been recorded.
var errQueryStop = errors.New("query recorded")

// fakeQuerier records every statement so tests can assert on the SQL the
// repository issues without a live database.
type fakeQuerier struct {
	execs   []string
	queries []string
	result  fakeResult
}

func (f *fakeQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs = append(f.execs, query)
	return f.result, nil
}

func (f *fakeQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	f.queries = append(f.queries, query)
	return nil, errQueryStop
}

func (f *fakeQuerier) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	f.queries = append(f.queries, query)
	return nil
}

func TestSeed_AdvancesSequencePastHighestAssignedID(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	repo := &BookingRepository{q: q}

	err := repo.Seed(context.Background(), []*domain.Booking{
		{ID: "1", UserID: "1", Status: domain.BookingStatusCompleted},
		{ID: "2", UserID: "1", Status: domain.BookingStatusPending},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(q.execs) != 3 {
		t.Fatalf("expected 2 inserts + 1 setval, got %d statements", len(q.execs))
	}

	setval := q.execs[len(q.execs)-1]
	if !strings.Contains(setval, "setval") {
		t.Fatalf("expected final statement to adjust the sequence, got %q", setval)
	}
	// The sequence must advance past the highest assigned id, never to the
	// row count: after ids have gaps, a count-based reset would rewind the
	// sequence and make the next create collide with an existing key.
	if !strings.Contains(setval, "MAX(id::bigint)") {
		t.Errorf("expected setval from MAX(id::bigint), got %q", setval)
	}
	if strings.Contains(setval, "COUNT(") {
		t.Errorf("setval must not derive from row count, got %q", setval)
	}
}

func TestUserSeed_AdvancesSequencePastHighestAssignedID(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	repo := &UserRepository{q: q}

	err := repo.Seed(context.Background(), []*domain.Principal{
		{ID: "1", Name: "John Doe", Email: "user@example.com", Role: domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	setval := q.execs[len(q.execs)-1]
	if !strings.Contains(setval, "MAX(id::bigint)") {
		t.Errorf("expected setval from MAX(id::bigint), got %q", setval)
	}
	if strings.Contains(setval, "COUNT(") {
		t.Errorf("setval must not derive from row count, got %q", setval)
	}
}

func TestListings_OrderByNumericID(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	repo := &BookingRepository{q: q}
	ctx := context.Background()

	_, _ = repo.GetAll(ctx)
	_, _ = repo.GetByUserID(ctx, "1")
	_, _ = repo.GetByDriverID(ctx, "2")

	if len(q.queries) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(q.queries))
	}
	for _, query := range q.queries {
		if !strings.Contains(query, "ORDER BY id::bigint") {
			t.Errorf("expected numeric id ordering, got %q", query)
		}
	}
}

func TestUpdate_UnknownBookingReturnsNotFound(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{result: fakeResult{rows: 0}}
	repo := &BookingRepository{q: q}

	err := repo.Update(context.Background(), &domain.Booking{
		ID:     "999",
		Status: domain.BookingStatusConfirmed,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_OnlyTouchesStatusAndDriver(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{result: fakeResult{rows: 1}}
	repo := &BookingRepository{q: q}

	err := repo.Update(context.Background(), &domain.Booking{
		ID:       "1",
		Status:   domain.BookingStatusInProgress,
		DriverID: "2",
		Fare:     130,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stmt := q.execs[0]
	if !strings.Contains(stmt, "SET status") || !strings.Contains(stmt, "driver_id") {
		t.Errorf("expected status and driver_id update, got %q", stmt)
	}
	// The fare is computed once at creation and must stay immutable.
	if strings.Contains(stmt, "fare") {
		t.Errorf("update must not rewrite the fare, got %q", stmt)
	}
}
