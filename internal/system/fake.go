package system

// FakePower records terminal actions instead of performing them. Unlike the
// real implementation every call returns, so tests can observe what happened
// after a "terminal" action.
type FakePower struct {
	// SleepCalls counts EnterDeepSleep invocations.
	SleepCalls int

	// ShutdownCalls counts Shutdown invocations.
	ShutdownCalls int

	// RestartCalls counts Restart invocations.
	RestartCalls int

	// SleepError, if set, will be returned by EnterDeepSleep.
	SleepError error

	// ShutdownError, if set, will be returned by Shutdown.
	ShutdownError error

	// RestartError, if set, will be returned by Restart.
	RestartError error
}

// NewFakePower creates a FakePower for testing.
func NewFakePower() *FakePower {
	return &FakePower{}
}

// EnterDeepSleep records the invocation.
func (f *FakePower) EnterDeepSleep() error {
	if f.SleepError != nil {
		return f.SleepError
	}
	f.SleepCalls++
	return nil
}

// Shutdown records the invocation.
func (f *FakePower) Shutdown() error {
	if f.ShutdownError != nil {
		return f.ShutdownError
	}
	f.ShutdownCalls++
	return nil
}

// Restart records the invocation.
func (f *FakePower) Restart() error {
	if f.RestartError != nil {
		return f.RestartError
	}
	f.RestartCalls++
	return nil
}

// Reset clears recorded invocations.
func (f *FakePower) Reset() {
	*f = FakePower{}
}
