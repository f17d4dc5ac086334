package knob

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func testClassifier(clock clockwork.Clock) (*classifier, chan Event) {
	events := make(chan Event, 16)
	cls := newClassifier(clock, DefaultLongPress, func(e Event) { events <- e })
	return cls, events
}

func nextEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return 0
	}
}

func assertNoEvent(t *testing.T, ch chan Event) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestShortPress(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cls, events := testClassifier(clock)

	cls.press()
	if e := nextEvent(t, events); e != PressDown {
		t.Errorf("got %v, want press-down", e)
	}

	// Released before the threshold: no long-press event.
	clock.Advance(DefaultLongPress - time.Millisecond)
	cls.release()
	if e := nextEvent(t, events); e != PressUp {
		t.Errorf("got %v, want press-up", e)
	}
	assertNoEvent(t, events)
}

func TestLongPress(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cls, events := testClassifier(clock)

	cls.press()
	if e := nextEvent(t, events); e != PressDown {
		t.Errorf("got %v, want press-down", e)
	}

	clock.BlockUntil(1) // long-press timer armed
	clock.Advance(DefaultLongPress)
	if e := nextEvent(t, events); e != LongPressStart {
		t.Errorf("got %v, want long-press-start", e)
	}

	// The trailing release still fires, after LongPressStart.
	cls.release()
	if e := nextEvent(t, events); e != PressUp {
		t.Errorf("got %v, want press-up", e)
	}
	assertNoEvent(t, events)
}

func TestRepeatedShortPresses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cls, events := testClassifier(clock)

	for i := 0; i < 3; i++ {
		cls.press()
		clock.Advance(100 * time.Millisecond)
		cls.release()

		if e := nextEvent(t, events); e != PressDown {
			t.Fatalf("cycle %d: got %v, want press-down", i, e)
		}
		if e := nextEvent(t, events); e != PressUp {
			t.Fatalf("cycle %d: got %v, want press-up", i, e)
		}
	}

	// Time passing after release must not fire a stale long-press timer.
	clock.Advance(10 * DefaultLongPress)
	assertNoEvent(t, events)
}

func TestLateLongPressTimerDropped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cls, events := testClassifier(clock)

	cls.press()
	if e := nextEvent(t, events); e != PressDown {
		t.Errorf("got %v, want press-down", e)
	}

	// A release landing exactly at the threshold can lose the race to
	// Stop: the timer callback then delivers after PressUp, carrying the
	// finished press cycle. It must emit nothing.
	cls.mu.Lock()
	gen := cls.gen
	cls.mu.Unlock()

	cls.release()
	if e := nextEvent(t, events); e != PressUp {
		t.Errorf("got %v, want press-up", e)
	}

	cls.longPress(gen)
	assertNoEvent(t, events)

	// The next cycle still classifies a held press normally.
	cls.press()
	if e := nextEvent(t, events); e != PressDown {
		t.Errorf("got %v, want press-down", e)
	}
	clock.BlockUntil(1)
	clock.Advance(DefaultLongPress)
	if e := nextEvent(t, events); e != LongPressStart {
		t.Errorf("got %v, want long-press-start", e)
	}
	cls.release()
	if e := nextEvent(t, events); e != PressUp {
		t.Errorf("got %v, want press-up", e)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{PressDown, "press-down"},
		{PressUp, "press-up"},
		{LongPressStart, "long-press-start"},
		{Event(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("%d: got %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestFakeDriver(t *testing.T) {
	f := NewFakeDriver()

	f.Emit(PressDown)
	f.Emit(PressUp)

	if e := <-f.Events(); e != PressDown {
		t.Errorf("got %v, want press-down", e)
	}
	if e := <-f.Events(); e != PressUp {
		t.Errorf("got %v, want press-up", e)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if _, ok := <-f.Events(); ok {
		t.Error("event channel should be closed")
	}
}
