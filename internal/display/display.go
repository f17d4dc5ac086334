// Package display defines the narrow surface the standby controller needs
// from the UI stack: backlight, panel power, the battery label, pointer input
// and the UI exclusive-access lock. Widget construction and rendering live
// outside this process's responsibility.
package display

import "log"

// Backlight sets the panel backlight brightness.
type Backlight interface {
	// SetBrightness sets the backlight to percent (0-100).
	SetBrightness(percent uint8) error
}

// Panel switches the physical display panel on or off.
type Panel interface {
	SetPower(on bool) error
}

// Label is the battery percentage widget.
type Label interface {
	SetText(text string)
	Center()
}

// Pointer enables or disables the touch input device.
type Pointer interface {
	SetEnabled(enabled bool)
}

// Locker is the UI exclusive-access lock. It is held only across discrete UI
// mutations, never across rail I/O or settle delays. A sync.Mutex satisfies
// it.
type Locker interface {
	Lock()
	Unlock()
}

// LogLabel writes label updates to the process log. It stands in for the real
// widget on builds without a display stack.
type LogLabel struct{}

// SetText logs the new label text.
func (LogLabel) SetText(text string) {
	log.Printf("battery label: %s", text)
}

// Center is a no-op for the log label.
func (LogLabel) Center() {}

// NopPointer satisfies Pointer when no touch controller is attached.
type NopPointer struct{}

// SetEnabled is a no-op.
func (NopPointer) SetEnabled(bool) {}
