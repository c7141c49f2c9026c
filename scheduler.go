package cervus

import (
	"slices"
	"time"
)

// Timer is a one-shot callback scheduled on simulation time.
type Timer struct {
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
	fired    bool
}

// Cancel prevents the callback from running. No-op once it has fired.
func (t *Timer) Cancel() {
	t.canceled = true
}

// Fired reports whether the callback has run.
func (t *Timer) Fired() bool {
	return t.fired
}

// timerQueue keeps pending timers ordered by due time, then by scheduling order.
type timerQueue struct {
	timers []*Timer
	seq    uint64
}

func (q *timerQueue) push(due time.Duration, fn func()) *Timer {
	q.seq++
	t := &Timer{due: due, seq: q.seq, fn: fn}
	i, _ := slices.BinarySearchFunc(q.timers, t, func(a, b *Timer) int {
		if a.due != b.due {
			if a.due < b.due {
				return -1
			}
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		return 1
	})
	q.timers = slices.Insert(q.timers, i, t)
	return t
}

// runDue fires every timer due at or before now. Timers scheduled by a firing
// callback run in the same pass if they are already due.
func (q *timerQueue) runDue(now time.Duration) {
	for len(q.timers) > 0 && q.timers[0].due <= now {
		t := q.timers[0]
		q.timers[0] = nil
		q.timers = q.timers[1:]
		if t.canceled {
			continue
		}
		t.fired = true
		t.fn()
	}
}

func (q *timerQueue) len() int {
	return len(q.timers)
}

// After schedules fn to run at the start of the first tick whose simulation
// time is at least delay past the current tick. Each timer is independent of
// the others and of the loop beyond its due time.
func (g *Game) After(delay time.Duration, fn func()) *Timer {
	if fn == nil {
		panic("cervus: nil timer callback")
	}
	return g.timers.push(g.lastTick+delay, fn)
}
