package wizard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dealdesk/internal/domain"
	"dealdesk/internal/wizard"
)

type memoryStore struct {
	mu  sync.Mutex
	rec *domain.RecoveryRecord
}

func (m *memoryStore) SaveRecovery(ctx context.Context, rec domain.RecoveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

func (m *memoryStore) GetRecovery(ctx context.Context, key string) (domain.RecoveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil || m.rec.Key != key {
		return domain.RecoveryRecord{}, errors.New("not found")
	}
	return *m.rec, nil
}

func (m *memoryStore) ClearRecovery(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

func (m *memoryStore) stored() *domain.RecoveryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

func TestFlushWritesPendingSnapshot(t *testing.T) {
	store := &memoryStore{}
	a := wizard.NewAutosaver(store)
	a.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	snap := domain.DefaultSnapshot()
	snap.Title = "Draft in progress"
	a.Schedule("", snap)
	if err := a.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	rec := store.stored()
	if rec == nil {
		t.Fatalf("expected record written")
	}
	if rec.Key != wizard.RecoveryKey {
		t.Fatalf("unexpected key %s", rec.Key)
	}
	if rec.Snapshot.Title != "Draft in progress" {
		t.Fatalf("snapshot not carried")
	}
	if rec.EngagementID != nil {
		t.Fatalf("new draft must not carry an engagement id")
	}
	if rec.SavedAt != "2024-03-01T10:00:00Z" {
		t.Fatalf("unexpected saved_at %s", rec.SavedAt)
	}
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	store := &memoryStore{}
	a := wizard.NewAutosaver(store)
	if err := a.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if store.stored() != nil {
		t.Fatalf("nothing should be written")
	}
	// a second flush after a successful one is also a no-op
	a.Schedule("eng-1", domain.DefaultSnapshot())
	_ = a.Flush(context.Background())
	first := store.stored()
	_ = a.Flush(context.Background())
	if store.stored() != first {
		t.Fatalf("second flush must not rewrite")
	}
}

func TestScheduleDebounces(t *testing.T) {
	store := &memoryStore{}
	a := wizard.NewAutosaver(store)
	snap := domain.DefaultSnapshot()
	snap.Title = "first"
	a.Schedule("", snap)
	snap.Title = "second"
	a.Schedule("", snap)
	// nothing written before the debounce window elapses
	if store.stored() != nil {
		t.Fatalf("debounce should delay the write")
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	rec := store.stored()
	if rec == nil || rec.Snapshot.Title != "second" {
		t.Fatalf("expected the latest snapshot to win")
	}
}

func TestCancelDropsPendingWrite(t *testing.T) {
	store := &memoryStore{}
	a := wizard.NewAutosaver(store)
	snap := domain.DefaultSnapshot()
	snap.Title = "about to be persisted"
	a.Schedule("", snap)
	a.Cancel()
	if err := a.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if store.stored() != nil {
		t.Fatalf("cancelled write must not land")
	}
}

func TestRestorableRules(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// no record at all
	if _, ok := wizard.Restorable(ctx, &memoryStore{}, now); ok {
		t.Fatalf("expected no restore without a record")
	}

	fresh := &memoryStore{rec: &domain.RecoveryRecord{
		Key:     wizard.RecoveryKey,
		SavedAt: now.Add(-10 * time.Minute).UTC().Format(time.RFC3339),
	}}
	if _, ok := wizard.Restorable(ctx, fresh, now); !ok {
		t.Fatalf("expected fresh unpersisted record restorable")
	}

	// records tied to a persisted engagement are never offered
	engID := "eng-1"
	persisted := &memoryStore{rec: &domain.RecoveryRecord{
		Key:          wizard.RecoveryKey,
		EngagementID: &engID,
		SavedAt:      now.Add(-10 * time.Minute).UTC().Format(time.RFC3339),
	}}
	if _, ok := wizard.Restorable(ctx, persisted, now); ok {
		t.Fatalf("persisted drafts must not be offered")
	}

	// stale records are rejected
	stale := &memoryStore{rec: &domain.RecoveryRecord{
		Key:     wizard.RecoveryKey,
		SavedAt: now.Add(-2 * time.Hour).UTC().Format(time.RFC3339),
	}}
	if _, ok := wizard.Restorable(ctx, stale, now); ok {
		t.Fatalf("stale records must not be offered")
	}

	// unparseable timestamps are rejected
	garbage := &memoryStore{rec: &domain.RecoveryRecord{
		Key:     wizard.RecoveryKey,
		SavedAt: "yesterday",
	}}
	if _, ok := wizard.Restorable(ctx, garbage, now); ok {
		t.Fatalf("bad timestamps must not be offered")
	}
}
