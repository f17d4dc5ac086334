//go:build !linux

package knob

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// GPIODriver is not available on non-Linux platforms.
type GPIODriver struct{}

// NewGPIODriver returns an error on non-Linux platforms.
func NewGPIODriver(chip string, offset int, longPress, debounce time.Duration, clock clockwork.Clock) (*GPIODriver, error) {
	return nil, errors.New("knob: not supported on this platform (requires Linux)")
}

// Events is not implemented on non-Linux platforms.
func (d *GPIODriver) Events() <-chan Event {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (d *GPIODriver) Close() error {
	return nil
}
