package billing

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes orchestrator operations per subscription id.
// Operations on different subscriptions run in parallel; two operations
// racing on the same subscription/invoice pair would otherwise
// interleave their ledger reads and writes.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[uuid.UUID]*entry),
	}
}

// Lock acquires the mutex for key and returns its unlock function.
// Entries are reference-counted and removed once unused, so the map
// does not grow with the number of subscriptions ever touched.
func (k *keyedMutex) Lock(key uuid.UUID) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
