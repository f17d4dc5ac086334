//go:build linux

package knob

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/warthog618/go-gpiocdev"
)

// GPIODriver reads the knob line through the Linux GPIO character device.
// The line is active-low (pressed grounds it); kernel debounce filters
// contact bounce before classification.
type GPIODriver struct {
	line   *gpiocdev.Line
	cls    *classifier
	events chan Event
	done   chan struct{}
}

// NewGPIODriver requests the knob line on the given chip and starts
// delivering events. The clock is injectable so the long-press threshold can
// be tested without real time.
func NewGPIODriver(chip string, offset int, longPress, debounce time.Duration, clock clockwork.Clock) (*GPIODriver, error) {
	d := &GPIODriver{
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}
	d.cls = newClassifier(clock, longPress, d.deliver)

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(d.handleEdge))
	if err != nil {
		return nil, fmt.Errorf("request knob line %s:%d: %w", chip, offset, err)
	}
	d.line = line

	return d, nil
}

// handleEdge runs on the gpiocdev event goroutine. With the line active-low,
// a rising edge is the press and a falling edge is the release.
func (d *GPIODriver) handleEdge(evt gpiocdev.LineEvent) {
	switch evt.Type {
	case gpiocdev.LineEventRisingEdge:
		d.cls.press()
	case gpiocdev.LineEventFallingEdge:
		d.cls.release()
	}
}

func (d *GPIODriver) deliver(e Event) {
	select {
	case <-d.done:
	case d.events <- e:
	}
}

// Events returns the event channel.
func (d *GPIODriver) Events() <-chan Event {
	return d.events
}

// Close releases the GPIO line and closes the event channel.
func (d *GPIODriver) Close() error {
	close(d.done)
	err := d.line.Close()
	close(d.events)
	if err != nil {
		return fmt.Errorf("close knob line: %w", err)
	}
	return nil
}
