package wizard

import (
	"context"
	"sync"
	"time"

	"dealdesk/internal/domain"
)

// DebounceInterval is how long the autosaver waits after the last edit
// before writing a recovery record.
const DebounceInterval = 2 * time.Second

// RecoveryMaxAge bounds how old a recovery record may be before Restore
// refuses to offer it.
const RecoveryMaxAge = time.Hour

// RecoveryKey is the single slot used for wizard crash recovery.
const RecoveryKey = "engagement_wizard_autosave"

// RecoveryStore persists the one keyed autosave record.
type RecoveryStore interface {
	SaveRecovery(ctx context.Context, rec domain.RecoveryRecord) error
	GetRecovery(ctx context.Context, key string) (domain.RecoveryRecord, error)
	ClearRecovery(ctx context.Context, key string) error
}

// Autosaver debounces snapshot writes to a RecoveryStore. Each new edit
// replaces the pending timer; Flush writes synchronously. Write failures
// are swallowed: the next edit retries.
type Autosaver struct {
	Store RecoveryStore
	Now   func() time.Time

	mu       sync.Mutex
	timer    *time.Timer
	pending  *domain.Snapshot
	engageID string
}

func NewAutosaver(store RecoveryStore) *Autosaver {
	return &Autosaver{Store: store, Now: time.Now}
}

// Schedule records the latest snapshot and (re)starts the debounce timer.
func (a *Autosaver) Schedule(engagementID string, snapshot domain.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &snapshot
	a.engageID = engagementID
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(DebounceInterval, func() {
		_ = a.Flush(context.Background())
	})
}

// Cancel drops any pending write and stops the timer. Used once the
// draft has been persisted for real and the recovery copy is obsolete.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
	a.engageID = ""
}

// Flush writes any pending record immediately and cancels the timer.
// Called on navigation-away so the last edit is not lost.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	snapshot := a.pending
	engagementID := a.engageID
	a.pending = nil
	a.mu.Unlock()

	if snapshot == nil {
		return nil
	}
	now := a.Now
	if now == nil {
		now = time.Now
	}
	rec := domain.RecoveryRecord{
		Key:      RecoveryKey,
		Snapshot: *snapshot,
		SavedAt:  now().UTC().Format(time.RFC3339),
	}
	if engagementID != "" {
		id := engagementID
		rec.EngagementID = &id
	}
	return a.Store.SaveRecovery(ctx, rec)
}

// Close flushes a pending write; part of session teardown.
func (a *Autosaver) Close(ctx context.Context) error {
	return a.Flush(ctx)
}

// Restorable returns the stored recovery record if a brand-new draft may
// resume from it: the record must not belong to a persisted engagement and
// must have been saved within RecoveryMaxAge. This guards against
// resurrecting stale or already-persisted drafts.
func Restorable(ctx context.Context, store RecoveryStore, now time.Time) (domain.RecoveryRecord, bool) {
	rec, err := store.GetRecovery(ctx, RecoveryKey)
	if err != nil {
		return domain.RecoveryRecord{}, false
	}
	if rec.EngagementID != nil {
		return domain.RecoveryRecord{}, false
	}
	savedAt, err := time.Parse(time.RFC3339, rec.SavedAt)
	if err != nil {
		return domain.RecoveryRecord{}, false
	}
	if now.Sub(savedAt) > RecoveryMaxAge {
		return domain.RecoveryRecord{}, false
	}
	return rec, true
}
