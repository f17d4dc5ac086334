// Package battery reads the pack charge percentage. The real implementation
// reads the kernel's power_supply class; the fake returns scripted values.
package battery

// Reader reads the battery charge percentage.
type Reader interface {
	// Percent returns the current charge (0-100). Non-blocking.
	Percent() (uint8, error)

	// Close releases the underlying source.
	Close() error
}
