// Package system performs the terminal power actions: deep sleep, shutdown
// and restart. The fake records invocations so tests can assert which action
// ran.
package system

// Sleeper enters the low-power sleep mode.
type Sleeper interface {
	// EnterDeepSleep suspends execution, preserving only the knob wake
	// source. The call blocks across the suspend; a nil return means the
	// system resumed and the caller must re-enter the startup path.
	EnterDeepSleep() error
}

// Restarter requests a full power-off or a process restart.
type Restarter interface {
	// Shutdown requests a full power-off. With external USB power present
	// the hardware may not actually cut power, which is why callers arm a
	// restart fallback.
	Shutdown() error

	// Restart performs a full restart. Does not return on real hardware.
	Restart() error
}
