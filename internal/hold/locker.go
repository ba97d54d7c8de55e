package hold

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrSlotBusy means another caller holds the lock for an overlapping
// slot key right now. It is expected control flow, not a failure.
var ErrSlotBusy = errors.New("slot lock busy")

// SlotLocker serializes the check-then-insert window of hold creation.
// A plain read-then-write on the store is racy under concurrency, so
// every hold acquisition must pass through one of these first.
type SlotLocker interface {
	Acquire(ctx context.Context, keys []string) (release func(), err error)
}

// MemoryLocker is the in-process locker for single-replica
// deployments and tests. Keys are locked in sorted order so two
// callers acquiring overlapping key sets cannot deadlock.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MemoryLocker) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

func (l *MemoryLocker) Acquire(ctx context.Context, keys []string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		m := l.get(k)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}, nil
}
