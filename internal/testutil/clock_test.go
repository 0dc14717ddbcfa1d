package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_Sequence(t *testing.T) {
	clock := NewStepClock()
	assert.Equal(t, int64(0), clock.Current())

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestStepClock_ConcurrentNextIsUnique(t *testing.T) {
	clock := NewStepClock()

	const workers, perWorker = 8, 100
	seen := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seen <- clock.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{})
	for n := range seen {
		unique[n] = struct{}{}
	}
	assert.Len(t, unique, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), clock.Current())
}
