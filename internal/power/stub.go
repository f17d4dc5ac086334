//go:build !linux

package power

import "errors"

// Expander is not available on non-Linux platforms.
type Expander struct{}

// NewExpander returns an error on non-Linux platforms.
func NewExpander(addr uint8, bus int) (*Expander, error) {
	return nil, errors.New("power: expander not supported on this platform (requires Linux)")
}

// SetLevel is not implemented on non-Linux platforms.
func (e *Expander) SetLevel(mask RailMask, level Level) error {
	return errors.New("power: not supported")
}

// Close is not implemented on non-Linux platforms.
func (e *Expander) Close() error {
	return nil
}
