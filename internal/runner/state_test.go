package runner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateInit, StateImporting, true},
		{StateInit, StateExportingConfig, true},
		{StateInit, StateFailed, true},
		{StateInit, StateDone, false},
		{StateImporting, StateExportingConfig, true},
		{StateImporting, StateFailed, true},
		{StateImporting, StateDone, false},
		{StateExportingConfig, StateDone, true},
		{StateExportingConfig, StateFailed, true},
		{StateExportingConfig, StateImporting, false},
		{StateDone, StateFailed, false},
		{StateFailed, StateInit, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateInit.Terminal())
	assert.False(t, StateImporting.Terminal())
	assert.False(t, StateExportingConfig.Terminal())
}

func TestClock_Next(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClock_ThreadSafe(t *testing.T) {
	c := NewClock()
	const goroutines = 50
	const calls = 100

	var wg sync.WaitGroup
	seqs := make(chan int64, goroutines*calls)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				seqs <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seqs)

	seen := make(map[int64]bool)
	for s := range seqs {
		assert.False(t, seen[s], "seq %d generated twice", s)
		seen[s] = true
	}
	assert.Len(t, seen, goroutines*calls)
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: StateDone, To: StateImporting}
	assert.Equal(t, "invalid transition done -> importing", err.Error())
}
