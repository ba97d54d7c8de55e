package hold

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLockerSerializesSameKey(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, []string{"hold:t1:s7"})
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	entered := make(chan struct{})
	go func() {
		r2, err := l.Acquire(ctx, []string{"hold:t1:s7"})
		if err != nil {
			t.Errorf("second acquire failed: %v", err)
			return
		}
		close(entered)
		r2()
	}()

	select {
	case <-entered:
		t.Fatal("second acquire entered while key was held")
	case <-time.After(30 * time.Millisecond):
	}

	release()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second acquire never entered after release")
	}
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	r1, err := l.Acquire(ctx, []string{"hold:t1:s7"})
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer r1()

	done := make(chan struct{})
	go func() {
		r2, err := l.Acquire(ctx, []string{"hold:t1:s8"})
		if err != nil {
			t.Errorf("acquire failed: %v", err)
			return
		}
		r2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked")
	}
}

// Overlapping key sets acquired in opposite insertion order must not
// deadlock; the locker sorts before locking.
func TestMemoryLockerNoDeadlockOnKeySets(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	done := make(chan struct{}, 2)
	for _, keys := range [][]string{
		{"hold:t1:s7", "hold:t1:r1"},
		{"hold:t1:r1", "hold:t1:s7"},
	} {
		go func(keys []string) {
			for i := 0; i < 50; i++ {
				release, err := l.Acquire(ctx, keys)
				if err != nil {
					t.Errorf("acquire failed: %v", err)
					return
				}
				release()
			}
			done <- struct{}{}
		}(keys)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("lockers deadlocked")
		}
	}
}
