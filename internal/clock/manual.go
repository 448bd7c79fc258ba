// README: Deterministic manual clock for tests.
package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called. Due
// callbacks run synchronously on the advancing goroutine, in timestamp order,
// with scheduling order breaking ties. Callbacks may schedule further timers;
// those fire too if they fall inside the advanced window.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *Manual
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

// NewManual returns a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{clock: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer due within the
// window before returning.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.popDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		if t.at.After(m.now) {
			m.now = t.at
		}
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}
}

// popDue removes and returns the earliest live timer at or before target.
// Caller holds m.mu.
func (m *Manual) popDue(target time.Time) *manualTimer {
	best := -1
	for i, t := range m.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if best == -1 || t.at.Before(m.timers[best].at) ||
			(t.at.Equal(m.timers[best].at) && t.seq < m.timers[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	t := m.timers[best]
	t.stopped = true
	m.timers = append(m.timers[:best], m.timers[best+1:]...)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range t.clock.timers {
		if other == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			return true
		}
	}
	return false
}
