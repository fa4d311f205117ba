package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_GoAndShutdown(t *testing.T) {
	r := NewRunner()

	var ran atomic.Bool
	done := make(chan struct{})
	r.Go("test-task", func(ctx context.Context) {
		ran.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown err=%v", err)
	}
	if !ran.Load() {
		t.Error("expected task to have run")
	}
}

func TestRunner_ShutdownCancelsTasks(t *testing.T) {
	r := NewRunner()

	stopped := make(chan struct{})
	r.Go("long-task", func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown err=%v", err)
	}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("task did not observe cancellation")
	}
}

func TestRunner_ShutdownTimesOut(t *testing.T) {
	r := NewRunner()

	release := make(chan struct{})
	r.Go("stuck-task", func(ctx context.Context) {
		<-release // ignores cancellation
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := r.Shutdown(ctx)
	close(release)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestRunner_AbsorbsPanic(t *testing.T) {
	r := NewRunner()

	done := make(chan struct{})
	r.Go("panicking-task", func(ctx context.Context) {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never finished")
	}

	// Shutdown must still complete cleanly.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown err=%v", err)
	}
}
