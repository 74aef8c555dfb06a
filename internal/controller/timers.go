package controller

import (
	"sync"
	"time"
)

// Clock schedules delayed work.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending task created by a Clock.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules work on the runtime timer.
var SystemClock Clock = realClock{}

// Delayed-task flows.
const (
	flowNotice   = "notice"
	flowCooldown = "cooldown"
)

// flowTimers runs at most one live task per flow. Each schedule or
// invalidate bumps the flow's generation; a task that fires with an older
// generation does nothing.
//
// Tasks run with mu held, the same mutex that guards the owner's state.
type flowTimers struct {
	clock Clock
	mu    *sync.Mutex

	gens    map[string]uint64
	pending map[string]Timer
}

func newFlowTimers(clock Clock, mu *sync.Mutex) *flowTimers {
	return &flowTimers{
		clock:   clock,
		mu:      mu,
		gens:    make(map[string]uint64),
		pending: make(map[string]Timer),
	}
}

// schedule replaces any pending task of flow with f. Caller holds mu.
func (t *flowTimers) schedule(flow string, d time.Duration, f func()) {
	gen := t.bump(flow)
	t.pending[flow] = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gens[flow] != gen {
			return
		}
		delete(t.pending, flow)
		f()
	})
}

// invalidate drops the pending tasks of the given flows. Caller holds mu.
func (t *flowTimers) invalidate(flows ...string) {
	for _, flow := range flows {
		t.bump(flow)
	}
}

func (t *flowTimers) bump(flow string) uint64 {
	if timer, ok := t.pending[flow]; ok {
		timer.Stop()
		delete(t.pending, flow)
	}
	t.gens[flow]++
	return t.gens[flow]
}
