package missions

import "sync"

// playerLocks serializes mutating operations per player while leaving
// cross-player operations fully parallel. Entries are never evicted; one
// mutex per active player is cheap relative to the player's rows.
type playerLocks struct {
	locks sync.Map
}

func (pl *playerLocks) lock(playerID string) func() {
	entry, _ := pl.locks.LoadOrStore(playerID, &sync.Mutex{})
	mu := entry.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
