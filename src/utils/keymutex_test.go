package utils_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stocksim/src/utils"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := utils.NewKeyedMutex()

	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("1:AAPL")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := utils.NewKeyedMutex()

	unlockA := km.Lock("1:AAPL")
	defer unlockA()

	// A different key must not block behind the first.
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("1:MSFT")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on an independent key blocked")
	}
}

func TestKeyedMutexReacquire(t *testing.T) {
	km := utils.NewKeyedMutex()

	unlock := km.Lock("key")
	unlock()

	// Lock must be reacquirable after release.
	unlock = km.Lock("key")
	unlock()
}
