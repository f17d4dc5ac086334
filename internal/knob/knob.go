// Package knob delivers gesture events from the device's single rotary press
// button. The real driver watches a GPIO line via the Linux character device;
// the fake driver feeds scripted events.
package knob

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Event is a knob gesture event.
type Event uint8

const (
	// PressDown fires when the knob is pressed.
	PressDown Event = iota

	// PressUp fires when the knob is released.
	PressUp

	// LongPressStart fires once when a press is held past the long-press
	// threshold. A PressUp still follows on release.
	LongPressStart
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case PressDown:
		return "press-down"
	case PressUp:
		return "press-up"
	case LongPressStart:
		return "long-press-start"
	}
	return "unknown"
}

// Driver-level gesture thresholds. The decision core never consults these;
// it consumes classified events only.
const (
	DefaultLongPress = 1500 * time.Millisecond
	DefaultDebounce  = 180 * time.Millisecond
)

// Driver emits knob events. For one press cycle the order is PressDown, then
// LongPressStart if held past the threshold, then PressUp. Events for the
// same button are never delivered concurrently.
type Driver interface {
	// Events returns the channel events are delivered on. Closed by Close.
	Events() <-chan Event

	// Close stops the driver and releases the GPIO line.
	Close() error
}

// classifier turns raw press/release transitions into gesture events. It arms
// the long-press timer on press and disarms it on release, so a release after
// LongPressStart still yields its trailing PressUp.
//
// Emission happens under the mutex, and each press cycle carries a
// generation number: a timer callback racing a release at exactly the
// threshold either wins the lock and emits LongPressStart before PressUp, or
// finds its generation stale and emits nothing. LongPressStart can therefore
// never follow PressUp.
type classifier struct {
	clock     clockwork.Clock
	threshold time.Duration
	emit      func(Event)

	mu    sync.Mutex
	gen   uint64
	timer clockwork.Timer
}

func newClassifier(clock clockwork.Clock, threshold time.Duration, emit func(Event)) *classifier {
	return &classifier{clock: clock, threshold: threshold, emit: emit}
}

// press delivers PressDown before the long-press timer is armed, so the
// latch-clearing handler always runs first for this cycle.
func (c *classifier) press() {
	c.mu.Lock()
	c.emit(PressDown)
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.threshold, func() { c.longPress(gen) })
	c.mu.Unlock()
}

func (c *classifier) release() {
	c.mu.Lock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.emit(PressUp)
	c.mu.Unlock()
}

func (c *classifier) longPress(gen uint64) {
	c.mu.Lock()
	if gen == c.gen {
		c.timer = nil
		c.emit(LongPressStart)
	}
	c.mu.Unlock()
}
