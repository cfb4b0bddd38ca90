package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner(2)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestDoReturnsValue(t *testing.T) {
	r := newTestRunner(t)

	got, err := Do(context.Background(), r, time.Second, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestDoPropagatesError(t *testing.T) {
	r := newTestRunner(t)

	boom := errors.New("boom")
	_, err := Do(context.Background(), r, time.Second, func(ctx context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestDoTimesOut(t *testing.T) {
	r := newTestRunner(t)

	start := time.Now()
	_, err := Do(context.Background(), r, 20*time.Millisecond, func(ctx context.Context) (int, error) {
		select {
		case <-time.After(5 * time.Second):
			return 1, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Do did not return promptly on timeout")
	}
}

func TestDoTimesOutWhileQueued(t *testing.T) {
	r, err := NewRunner(1)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(r.Close)

	// Occupy the only slot.
	started := make(chan struct{})
	release := make(chan struct{})
	go Do(context.Background(), r, 10*time.Second, func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	})
	<-started

	var ran atomic.Bool
	start := time.Now()
	_, err = Do(context.Background(), r, 50*time.Millisecond, func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 2, nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("queued call held past its deadline: %v", elapsed)
	}

	// Free the slot; the abandoned call must be skipped, not run late.
	close(release)
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Error("abandoned call still ran")
	}
}

func TestDoCancelled(t *testing.T) {
	r := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, r, time.Second, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
