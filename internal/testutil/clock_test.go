package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestStepClock_FirstCallReturnsStart(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(epoch, 250*time.Millisecond)

	clock.Now()
	assert.Equal(t, epoch.Add(250*time.Millisecond), clock.Now())
	assert.Equal(t, epoch.Add(500*time.Millisecond), clock.Peek())
	// Peek does not advance
	assert.Equal(t, epoch.Add(500*time.Millisecond), clock.Now())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(epoch, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	seen := make(chan time.Time, numGoroutines*callsPerGoroutine)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				seen <- clock.Now()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		assert.False(t, unique[ts], "duplicate timestamp %v", ts)
		unique[ts] = true
	}
	assert.Len(t, unique, numGoroutines*callsPerGoroutine)
}

func TestSequenceIDs(t *testing.T) {
	ids := NewSequenceIDs("a", "b")
	assert.Equal(t, "a", ids.Generate())
	assert.Equal(t, "b", ids.Generate())
	assert.Equal(t, "run-3", ids.Generate())
}
