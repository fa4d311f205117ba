package sync

import "testing"

func TestChannelGuard_TryLock(t *testing.T) {
	g := newChannelGuard()

	if !g.TryLock(1) {
		t.Fatalf("first TryLock(1) = false, want true")
	}
	if g.TryLock(1) {
		t.Errorf("second TryLock(1) = true, want false while held")
	}
	// Other channels are independent.
	if !g.TryLock(2) {
		t.Errorf("TryLock(2) = false, want true")
	}

	g.Unlock(1)
	if !g.TryLock(1) {
		t.Errorf("TryLock(1) after Unlock = false, want true")
	}
}

func TestChannelGuard_UnlockUnheldIsNoop(t *testing.T) {
	g := newChannelGuard()
	g.Unlock(42)
	if !g.TryLock(42) {
		t.Errorf("TryLock(42) = false after stray Unlock, want true")
	}
}
