package concurrency

import (
	"strconv"
	"sync"
)

// LockManager handles named locks. The wager and payment ledgers use it
// to serialize state-changing operations per record, so a manual settle
// and a scheduled matcher pass can never both succeed on the same wager.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the named lock.
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// WagerKey builds the lock key for one wager id.
func WagerKey(id string) string { return "wager:" + id }

// ObligationKey builds the lock key for one payment obligation id.
func ObligationKey(id string) string { return "obligation:" + id }

// PayoutKey builds the lock key for one season's payout generation.
func PayoutKey(season int) string { return "payout:" + strconv.Itoa(season) }
