// Package power controls the switchable peripheral power rails behind the
// device's I2C IO expander. The real implementation drives the expander's
// output registers; the fake implementation allows testing without hardware.
package power

import "fmt"

// Rail is a single switchable power domain.
type Rail uint16

// Device profile rails, one bit per expander output.
const (
	RailAIChip     Rail = 1 << 0 // auxiliary AI compute module
	RailGrove      Rail = 1 << 1 // expansion port
	RailSDCard     Rail = 1 << 2
	RailCodecPA    Rail = 1 << 3 // audio amplifier
	RailBatteryADC Rail = 1 << 4 // battery sense divider
)

// RailMask is a set of rails addressed by a single SetLevel call.
type RailMask uint16

// Level is a rail output level.
type Level uint8

const (
	Off Level = 0
	On  Level = 1
)

// AlwaysOff is the set of rails kept disabled for the device's whole lifetime
// in standby mode. Only the display and the knob wake path are preserved.
const AlwaysOff = RailMask(RailAIChip | RailGrove | RailSDCard | RailCodecPA)

// Mask returns the single-rail mask for r.
func (r Rail) Mask() RailMask {
	return RailMask(r)
}

// Contains reports whether every rail in sub is present in m.
func (m RailMask) Contains(sub RailMask) bool {
	return m&sub == sub
}

// Controller sets rail levels. Implementations must be safe for use from the
// event loop and the refresh path.
type Controller interface {
	// SetLevel drives every rail in mask to the given level.
	SetLevel(mask RailMask, level Level) error

	// Close releases the underlying bus.
	Close() error
}

// ApplyStaticPolicy forces every rail in AlwaysOff low. Idempotent; it runs at
// boot and again before both sleep and shutdown. A failure is fatal to the
// caller; the power budget cannot be guaranteed with a rail in an unknown
// state.
func ApplyStaticPolicy(c Controller) error {
	if err := c.SetLevel(AlwaysOff, Off); err != nil {
		return fmt.Errorf("apply static power policy: %w", err)
	}
	return nil
}
