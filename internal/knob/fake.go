package knob

// FakeDriver delivers scripted events for tests and the simulator path.
type FakeDriver struct {
	// Closed tracks if Close was called.
	Closed bool

	events chan Event
}

// NewFakeDriver creates a FakeDriver with a buffered event channel.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{events: make(chan Event, 16)}
}

// Emit queues an event for delivery.
func (f *FakeDriver) Emit(e Event) {
	f.events <- e
}

// Events returns the event channel.
func (f *FakeDriver) Events() <-chan Event {
	return f.events
}

// Close closes the event channel.
func (f *FakeDriver) Close() error {
	f.Closed = true
	close(f.events)
	return nil
}
