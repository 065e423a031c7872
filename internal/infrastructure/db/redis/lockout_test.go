package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTracker(t *testing.T, threshold int, window time.Duration) (*LockoutTracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLockoutTracker(client, threshold, window), mr
}

func TestLockoutTracker_LocksAtThreshold(t *testing.T) {
	tracker, _ := newTestTracker(t, 3, time.Minute)
	ctx := context.Background()

	locked, err := tracker.Locked(ctx, "fernando")
	if err != nil || locked {
		t.Fatalf("fresh account must not be locked: locked=%v err=%v", locked, err)
	}

	for i := 1; i <= 3; i++ {
		crossed, err := tracker.RecordFailure(ctx, "fernando")
		if err != nil {
			t.Fatalf("record failure %d: %v", i, err)
		}
		if crossed != (i == 3) {
			t.Fatalf("failure %d: crossed=%v", i, crossed)
		}
	}

	locked, err = tracker.Locked(ctx, "fernando")
	if err != nil {
		t.Fatalf("locked check: %v", err)
	}
	if !locked {
		t.Fatalf("account should be locked after 3 failures")
	}

	// Other accounts are unaffected.
	locked, err = tracker.Locked(ctx, "gissy")
	if err != nil || locked {
		t.Fatalf("unrelated account locked: locked=%v err=%v", locked, err)
	}
}

func TestLockoutTracker_ResetClearsCounter(t *testing.T) {
	tracker, _ := newTestTracker(t, 2, time.Minute)
	ctx := context.Background()

	_, _ = tracker.RecordFailure(ctx, "hugo")
	_, _ = tracker.RecordFailure(ctx, "hugo")
	if locked, _ := tracker.Locked(ctx, "hugo"); !locked {
		t.Fatalf("expected lock after threshold")
	}

	if err := tracker.Reset(ctx, "hugo"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if locked, _ := tracker.Locked(ctx, "hugo"); locked {
		t.Fatalf("reset should unlock the account")
	}
}

func TestLockoutTracker_WindowExpires(t *testing.T) {
	tracker, mr := newTestTracker(t, 2, time.Minute)
	ctx := context.Background()

	_, _ = tracker.RecordFailure(ctx, "brian")
	_, _ = tracker.RecordFailure(ctx, "brian")
	if locked, _ := tracker.Locked(ctx, "brian"); !locked {
		t.Fatalf("expected lock after threshold")
	}

	mr.FastForward(2 * time.Minute)

	if locked, _ := tracker.Locked(ctx, "brian"); locked {
		t.Fatalf("lock should expire with the window")
	}
}
