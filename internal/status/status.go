// Package status provides a thread-safe snapshot of controller state. It
// feeds telemetry payloads and the startup log line.
package status

import (
	"sync"
	"time"
)

// Counts tracks controller activity since boot.
type Counts struct {
	Presses   int
	Wakes     int
	Sleeps    int
	Shutdowns int
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	ScreenOn bool

	// BatteryPercent is the last rendered percentage, -1 before the first
	// reading.
	BatteryPercent int

	WakeCause string
	Counts    Counts
	StartTime time.Time
	Now       time.Time
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and wake cause.
func NewTracker(startTime time.Time, wakeCause string) *Tracker {
	return &Tracker{
		snap: Snapshot{
			BatteryPercent: -1,
			WakeCause:      wakeCause,
			StartTime:      startTime,
		},
	}
}

// RecordScreen sets the screen state, counting off→on transitions as wakes.
func (t *Tracker) RecordScreen(on bool) {
	t.mu.Lock()
	if on && !t.snap.ScreenOn {
		t.snap.Counts.Wakes++
	}
	t.snap.ScreenOn = on
	t.mu.Unlock()
}

// RecordBattery sets the last rendered battery percentage.
func (t *Tracker) RecordBattery(percent uint8) {
	t.mu.Lock()
	t.snap.BatteryPercent = int(percent)
	t.mu.Unlock()
}

// RecordPress counts a knob press.
func (t *Tracker) RecordPress() {
	t.mu.Lock()
	t.snap.Counts.Presses++
	t.mu.Unlock()
}

// RecordSleep counts a sleep transition.
func (t *Tracker) RecordSleep() {
	t.mu.Lock()
	t.snap.Counts.Sleeps++
	t.mu.Unlock()
}

// RecordShutdown counts a shutdown transition.
func (t *Tracker) RecordShutdown() {
	t.mu.Lock()
	t.snap.Counts.Shutdowns++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
