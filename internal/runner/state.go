package runner

import (
	"fmt"
	"sync/atomic"
)

// State is a run lifecycle state.
type State string

const (
	StateInit            State = "init"
	StateImporting       State = "importing"
	StateExportingConfig State = "exporting-config"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

var transitions = map[State][]State{
	StateInit:            {StateImporting, StateExportingConfig, StateFailed},
	StateImporting:       {StateExportingConfig, StateFailed},
	StateExportingConfig: {StateDone, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether s -> to is a legal move.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned for a move the lifecycle does not allow.
type InvalidTransitionError struct {
	From, To State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// Clock is a monotonic logical clock for transition ordering.
//
// Transitions are stamped with seq from this clock, so their order in the
// ledger never depends on wall time.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
