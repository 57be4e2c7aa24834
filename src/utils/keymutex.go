package utils

import (
	"sync"
)

// KeyedMutex serializes work per string key. The ledger uses it to run one
// trade at a time per (user, symbol) on top of the store's transaction.
type KeyedMutex struct {
	locks map[string]*sync.Mutex
	mutex sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: map[string]*sync.Mutex{},
	}
}

// Lock acquires the mutex for key and returns the corresponding unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	k.mutex.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mutex.Unlock()

	lock.Lock()
	return lock.Unlock
}
