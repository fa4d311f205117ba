package sync

import "sync"

// channelGuard enforces that no two sync passes for the same channel run
// concurrently. A caller that fails to acquire the slot must skip the pass
// for this tick rather than block.
type channelGuard struct {
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func newChannelGuard() *channelGuard {
	return &channelGuard{inFlight: make(map[int64]struct{})}
}

// TryLock reserves the sync slot for a channel. It returns false without
// blocking when a sync for that channel is already in flight.
func (g *channelGuard) TryLock(channelID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[channelID]; busy {
		return false
	}
	g.inFlight[channelID] = struct{}{}
	return true
}

// Unlock releases the sync slot for a channel.
func (g *channelGuard) Unlock(channelID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, channelID)
}
