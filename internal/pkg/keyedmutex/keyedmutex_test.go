package keyedmutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	m := New()

	var counters [2]int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, key := range []uint{1, 2} {
			wg.Add(1)
			go func(key uint) {
				defer wg.Done()
				m.Lock(key)
				defer m.Unlock(key)
				counters[key-1]++
			}(key)
		}
	}
	wg.Wait()

	assert.Equal(t, 100, counters[0])
	assert.Equal(t, 100, counters[1])
}

func TestKeyedMutex_UnlockUnknownKeyIsNoop(t *testing.T) {
	m := New()

	assert.NotPanics(t, func() {
		m.Unlock(42)
	})
}
