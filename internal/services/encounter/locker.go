package encounter

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// encounterLocker serializes mutations per encounter ID. Operations on
// different encounters never contend; operations on the same encounter are
// strictly ordered. Acquisition is context-aware so a caller timeout aborts
// the wait instead of piling up behind a stuck encounter.
type encounterLocker struct {
	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

func newEncounterLocker() *encounterLocker {
	return &encounterLocker{
		locks: make(map[string]*semaphore.Weighted),
	}
}

// acquire blocks until the encounter's lock is held or ctx is done. The
// returned release function must be called exactly once.
func (l *encounterLocker) acquire(ctx context.Context, encounterID string) (release func(), err error) {
	l.mu.Lock()
	sem, ok := l.locks[encounterID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[encounterID] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, engerr.Wrapf(err, "failed to lock encounter %s", encounterID)
	}

	return func() { sem.Release(1) }, nil
}
