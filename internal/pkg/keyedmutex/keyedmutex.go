// Package keyedmutex provides a mutex per key, so unrelated compos or
// events can be worked on concurrently while work on the same one
// serializes.
package keyedmutex

import "sync"

type KeyedMutex struct {
	locks sync.Map // uint -> *sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{}
}

func (m *KeyedMutex) Lock(key uint) {
	mu, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (m *KeyedMutex) Unlock(key uint) {
	mu, ok := m.locks.Load(key)
	if !ok {
		return
	}
	mu.(*sync.Mutex).Unlock()
}
