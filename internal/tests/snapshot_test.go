package tests

import (
	"context"
	"errors"
	"testing"

	"cabbook/internal/domain"
	"cabbook/internal/repository/memory"
)

// ──────────────────────────────────────────────
// 6. SNAPSHOT PERSISTENCE AND REHYDRATION
// ──────────────────────────────────────────────

func TestMemoryStore_SeedsWhenNeverPersisted(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	seed := []*domain.Booking{
		{ID: "1", UserID: "1", Status: domain.BookingStatusCompleted},
		{ID: "2", UserID: "1", Status: domain.BookingStatusPending},
	}

	repo, err := memory.NewBookingRepository(context.Background(), snap, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 seeded bookings, got %d", len(all))
	}

	// The seed is written through to the snapshot slot immediately.
	if snap.SaveCallCount != 1 {
		t.Errorf("expected 1 save, got %d", snap.SaveCallCount)
	}
	if snap.StoredCount() != 2 {
		t.Errorf("expected snapshot of 2 bookings, got %d", snap.StoredCount())
	}
}

func TestMemoryStore_RehydratesFromSnapshot(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	snap.SetStored([]*domain.Booking{
		{ID: "1", UserID: "1", Status: domain.BookingStatusCancelled},
		{ID: "2", UserID: "1", Status: domain.BookingStatusConfirmed},
		{ID: "3", UserID: "2", Status: domain.BookingStatusPending},
	})

	// Seed must be ignored when a snapshot exists.
	seed := []*domain.Booking{{ID: "9", UserID: "9", Status: domain.BookingStatusPending}}
	repo, err := memory.NewBookingRepository(context.Background(), snap, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rehydrated bookings, got %d", len(all))
	}
	for i, want := range []string{"1", "2", "3"} {
		if all[i].ID != want {
			t.Errorf("position %d: expected id %s, got %s", i, want, all[i].ID)
		}
	}
	if all[0].Status != domain.BookingStatusCancelled {
		t.Errorf("expected rehydrated status cancelled, got %s", all[0].Status)
	}
}

func TestMemoryStore_CreateWritesThrough(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	repo, err := memory.NewBookingRepository(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saves := snap.SaveCallCount

	booking := &domain.Booking{UserID: "1", Status: domain.BookingStatusPending}
	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID != "1" {
		t.Errorf("expected id 1, got %s", booking.ID)
	}
	if snap.SaveCallCount != saves+1 {
		t.Errorf("expected a snapshot save on create, got %d", snap.SaveCallCount-saves)
	}
	if snap.StoredCount() != 1 {
		t.Errorf("expected snapshot of 1 booking, got %d", snap.StoredCount())
	}
}

func TestMemoryStore_UpdateWritesThrough(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	seed := []*domain.Booking{{ID: "1", UserID: "1", Status: domain.BookingStatusPending}}
	repo, err := memory.NewBookingRepository(context.Background(), snap, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking, err := repo.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	booking.Status = domain.BookingStatusConfirmed
	if err := repo.Update(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh store over the same snapshotter sees the update.
	reopened, err := memory.NewBookingRepository(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := reopened.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected persisted status confirmed, got %s", got.Status)
	}
}

func TestMemoryStore_FailedSnapshotRollsBackCreate(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	repo, err := memory.NewBookingRepository(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap.SaveError = errors.New("redis down")
	if err := repo.Create(context.Background(), &domain.Booking{UserID: "1", Status: domain.BookingStatusPending}); err == nil {
		t.Fatal("expected create to fail when the snapshot write fails")
	}

	// The errored create must not be visible.
	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty collection after rollback, got %d", len(all))
	}

	// The next create reuses the rolled-back id.
	snap.SaveError = nil
	booking := &domain.Booking{UserID: "1", Status: domain.BookingStatusPending}
	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID != "1" {
		t.Errorf("expected id 1 after rollback, got %s", booking.ID)
	}
}

func TestMemoryStore_FailedSnapshotRollsBackUpdate(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	seed := []*domain.Booking{{ID: "1", UserID: "1", Status: domain.BookingStatusPending}}
	repo, err := memory.NewBookingRepository(context.Background(), snap, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking, _ := repo.GetByID(context.Background(), "1")
	booking.Status = domain.BookingStatusCancelled

	snap.SaveError = errors.New("redis down")
	if err := repo.Update(context.Background(), booking); err == nil {
		t.Fatal("expected update to fail when the snapshot write fails")
	}

	got, _ := repo.GetByID(context.Background(), "1")
	if got.Status != domain.BookingStatusPending {
		t.Errorf("expected status restored to pending, got %s", got.Status)
	}
}

func TestMemoryStore_ReadsReturnCopies(t *testing.T) {
	t.Parallel()

	snap := NewMockSnapshotter()
	seed := []*domain.Booking{{ID: "1", UserID: "1", Status: domain.BookingStatusPending}}
	repo, err := memory.NewBookingRepository(context.Background(), snap, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking, _ := repo.GetByID(context.Background(), "1")
	booking.Status = domain.BookingStatusCompleted

	// Mutating the returned copy must not touch the store.
	again, _ := repo.GetByID(context.Background(), "1")
	if again.Status != domain.BookingStatusPending {
		t.Errorf("expected store unchanged at pending, got %s", again.Status)
	}
}
