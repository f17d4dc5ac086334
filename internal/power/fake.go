package power

// SetLevelCall records one SetLevel invocation.
type SetLevelCall struct {
	Mask  RailMask
	Level Level
}

// FakeController records rail writes and tracks the resulting levels.
type FakeController struct {
	// Calls contains every SetLevel invocation in order.
	Calls []SetLevelCall

	// SetError, if set, will be returned by SetLevel.
	SetError error

	// Closed tracks if Close was called.
	Closed bool

	levels map[Rail]Level
}

// NewFakeController creates a FakeController with every rail off.
func NewFakeController() *FakeController {
	return &FakeController{levels: make(map[Rail]Level)}
}

// SetLevel records the call and applies it to the tracked levels.
func (f *FakeController) SetLevel(mask RailMask, level Level) error {
	if f.SetError != nil {
		return f.SetError
	}

	f.Calls = append(f.Calls, SetLevelCall{Mask: mask, Level: level})
	for bit := Rail(1); bit != 0; bit <<= 1 {
		if mask.Contains(bit.Mask()) {
			f.levels[bit] = level
		}
	}
	return nil
}

// Level returns the tracked level of a single rail.
func (f *FakeController) Level(r Rail) Level {
	return f.levels[r]
}

// Close marks the controller as closed.
func (f *FakeController) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded calls and levels.
func (f *FakeController) Reset() {
	f.Calls = nil
	f.levels = make(map[Rail]Level)
	f.SetError = nil
	f.Closed = false
}
