// Package standby implements the power-state decision core: the screen
// on/off state machine, the knob gesture interpreter, the battery label
// refresher and the two terminal actions (deep sleep and shutdown). All
// hardware is reached through the narrow interfaces in the sibling packages,
// so the whole core runs against fakes in tests.
package standby

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/robenyang/watcher-standby/internal/battery"
	"github.com/robenyang/watcher-standby/internal/display"
	"github.com/robenyang/watcher-standby/internal/knob"
	"github.com/robenyang/watcher-standby/internal/power"
	"github.com/robenyang/watcher-standby/internal/status"
	"github.com/robenyang/watcher-standby/internal/system"
	"github.com/robenyang/watcher-standby/internal/telemetry"
)

const (
	// DefaultOnBrightness is the backlight level applied when the screen
	// turns on.
	DefaultOnBrightness uint8 = 50

	// Settle delays after rail changes, before the terminal action runs.
	sleepSettle    = 30 * time.Millisecond
	shutdownSettle = 100 * time.Millisecond

	// restartFallback is the hold-off before the forced restart when a
	// shutdown request does not cut power (external USB power present).
	restartFallback = 2000 * time.Millisecond

	// percentUnknown sits outside 0-100 so the first reading always
	// renders.
	percentUnknown = -1
)

// ErrResumed reports that EnterDeepSleep returned, meaning the system
// suspended and woke up again. The caller must re-enter the startup path:
// tear the stack down and bring it up as if freshly booted.
var ErrResumed = errors.New("resumed from deep sleep")

// Deps are the collaborators the controller drives. Telemetry and Status are
// optional; everything else is required.
type Deps struct {
	Rails     power.Controller
	Backlight display.Backlight
	Panel     display.Panel
	Label     display.Label
	Pointer   display.Pointer
	UILock    display.Locker
	Battery   battery.Reader
	Sleeper   system.Sleeper
	Restarter system.Restarter
	Clock     clockwork.Clock
	Telemetry telemetry.Publisher
	Status    *status.Tracker
}

// Controller owns all standby state: the committed screen flag, the
// long-press latch, the cached battery percentage and the refresher pause
// flag. It is not safe for concurrent use; the event loop is its single
// caller, and the UI lock only guards the UI-owning resources shared with
// the display stack.
type Controller struct {
	deps         Deps
	onBrightness uint8

	screenOn        bool
	longPressActive bool
	refreshPaused   bool
	lastPercent     int16
}

// New creates a Controller in the screen-off state with the refresher paused,
// so the first SetScreenEnabled(true) performs full initialization of every
// dependent subsystem.
func New(deps Deps, onBrightness uint8) *Controller {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if onBrightness == 0 {
		onBrightness = DefaultOnBrightness
	}
	return &Controller{
		deps:          deps,
		onBrightness:  onBrightness,
		refreshPaused: true,
		lastPercent:   percentUnknown,
	}
}

// ScreenOn reports the committed screen state.
func (c *Controller) ScreenOn() bool {
	return c.screenOn
}

// SetScreenEnabled drives the screen state machine. Calling it with the
// current state is a no-op with zero side effects. Any I/O failure aborts the
// transition immediately; there is no rollback and the caller must treat it
// as fatal.
func (c *Controller) SetScreenEnabled(target bool) error {
	if target == c.screenOn {
		return nil
	}

	if target {
		// Battery sense powers up before the refresher can run again,
		// so a tick never reads a dead sensor.
		if err := c.deps.Rails.SetLevel(power.RailBatteryADC.Mask(), power.On); err != nil {
			return fmt.Errorf("enable battery sense: %w", err)
		}

		c.deps.UILock.Lock()
		c.deps.Pointer.SetEnabled(true)
		c.refreshPaused = false
		c.deps.UILock.Unlock()

		c.screenOn = true
		if err := c.deps.Backlight.SetBrightness(c.onBrightness); err != nil {
			return fmt.Errorf("backlight on: %w", err)
		}

		// Forced render so the screen never shows stale data right
		// after waking, even if the percentage has not changed.
		c.deps.UILock.Lock()
		err := c.renderBattery(true)
		c.deps.UILock.Unlock()
		if err != nil {
			return err
		}

		if c.deps.Status != nil {
			c.deps.Status.RecordScreen(true)
		}
		c.emit(telemetry.EventWake)
		return nil
	}

	// Quiesce the UI before cutting battery sense, so nothing writes to a
	// disabled input device or reads a powered-down sensor.
	c.deps.UILock.Lock()
	c.deps.Pointer.SetEnabled(false)
	c.refreshPaused = true
	c.deps.UILock.Unlock()

	if err := c.deps.Rails.SetLevel(power.RailBatteryADC.Mask(), power.Off); err != nil {
		return fmt.Errorf("disable battery sense: %w", err)
	}

	c.screenOn = false
	if err := c.deps.Backlight.SetBrightness(0); err != nil {
		return fmt.Errorf("backlight off: %w", err)
	}

	if c.deps.Status != nil {
		c.deps.Status.RecordScreen(false)
	}
	return nil
}

// RefreshTick runs once per refresh period. While the screen is off it does
// nothing at all, no battery read and no UI work, which is the main
// idle-power saving for the UI subsystem.
func (c *Controller) RefreshTick() error {
	if !c.screenOn || c.refreshPaused {
		return nil
	}

	c.deps.UILock.Lock()
	err := c.renderBattery(false)
	c.deps.UILock.Unlock()
	return err
}

// renderBattery reads the pack percentage and updates the label. The caller
// holds the UI lock. force bypasses change suppression (wake path only).
func (c *Controller) renderBattery(force bool) error {
	pct, err := c.deps.Battery.Percent()
	if err != nil {
		return fmt.Errorf("read battery: %w", err)
	}

	if !force && int16(pct) == c.lastPercent {
		return nil
	}

	c.lastPercent = int16(pct)
	c.deps.Label.SetText(fmt.Sprintf("%d%%", pct))
	c.deps.Label.Center()

	if c.deps.Status != nil {
		c.deps.Status.RecordBattery(pct)
	}
	return nil
}

// HandleEvent dispatches one knob event. The driver guarantees the per-cycle
// order PressDown → [LongPressStart] → PressUp and never delivers events for
// the same button concurrently.
func (c *Controller) HandleEvent(ev knob.Event) error {
	switch ev {
	case knob.PressDown:
		// Runs before the long-press timer can fire for this cycle, so
		// the latch starts clean.
		c.longPressActive = false
		if c.deps.Status != nil {
			c.deps.Status.RecordPress()
		}
		return nil

	case knob.LongPressStart:
		return c.shutdown()

	case knob.PressUp:
		if c.longPressActive {
			// The long-press path already shut the device down; the
			// trailing release must not also trigger sleep.
			c.longPressActive = false
			return nil
		}
		return c.sleep()
	}
	return fmt.Errorf("unhandled knob event %v", ev)
}

// AnnounceStartup publishes the boot event with the wake cause.
func (c *Controller) AnnounceStartup(wakeCause string) {
	if c.deps.Telemetry == nil {
		return
	}
	err := c.deps.Telemetry.Publish(telemetry.Event{
		Timestamp:      c.deps.Clock.Now(),
		Type:           telemetry.EventStartup,
		ScreenOn:       c.screenOn,
		BatteryPercent: int(c.lastPercent),
		WakeCause:      wakeCause,
	})
	if err != nil {
		log.Printf("telemetry publish: %v", err)
	}
}

// sleep is the short-press action: screen off, panel off, static rail policy,
// settle, then deep sleep. On Linux the suspend write blocks and then returns
// once the knob wakes the system, so a nil result from EnterDeepSleep is a
// resume and is reported as ErrResumed.
func (c *Controller) sleep() error {
	if c.screenOn {
		if err := c.SetScreenEnabled(false); err != nil {
			return err
		}
	}

	if err := c.deps.Panel.SetPower(false); err != nil {
		return fmt.Errorf("panel off: %w", err)
	}

	if err := power.ApplyStaticPolicy(c.deps.Rails); err != nil {
		return err
	}

	if c.deps.Status != nil {
		c.deps.Status.RecordSleep()
	}
	c.emit(telemetry.EventSleep)
	c.closeTelemetry()

	c.deps.Clock.Sleep(sleepSettle)
	if err := c.deps.Sleeper.EnterDeepSleep(); err != nil {
		return fmt.Errorf("enter deep sleep: %w", err)
	}
	return ErrResumed
}

// shutdown is the long-press action. It runs to completion here rather than
// flagging intent: quiesce the screen, apply the rail policy, request
// power-off, and if power is still up after the fallback window (USB-C
// supply), restart so repeated standby runs always start from a known state.
func (c *Controller) shutdown() error {
	c.longPressActive = true

	if c.screenOn {
		if err := c.SetScreenEnabled(false); err != nil {
			return err
		}
	}

	if err := power.ApplyStaticPolicy(c.deps.Rails); err != nil {
		return err
	}

	if c.deps.Status != nil {
		c.deps.Status.RecordShutdown()
	}
	c.emit(telemetry.EventShutdown)
	c.closeTelemetry()

	c.deps.Clock.Sleep(shutdownSettle)
	if err := c.deps.Restarter.Shutdown(); err != nil {
		return fmt.Errorf("request shutdown: %w", err)
	}

	c.deps.Clock.Sleep(restartFallback)
	if err := c.deps.Restarter.Restart(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

// emit publishes a lifecycle event. Telemetry failures are logged, never
// propagated; they must not abort a power transition.
func (c *Controller) emit(t telemetry.EventType) {
	if c.deps.Telemetry == nil {
		return
	}
	err := c.deps.Telemetry.Publish(telemetry.Event{
		Timestamp:      c.deps.Clock.Now(),
		Type:           t,
		ScreenOn:       c.screenOn,
		BatteryPercent: int(c.lastPercent),
	})
	if err != nil {
		log.Printf("telemetry publish: %v", err)
	}
}

// closeTelemetry flushes and disconnects the publisher before a terminal
// action, so the radio is never held up during the idle window.
func (c *Controller) closeTelemetry() {
	if c.deps.Telemetry == nil {
		return
	}
	if err := c.deps.Telemetry.Close(); err != nil {
		log.Printf("telemetry close: %v", err)
	}
	c.deps.Telemetry = nil
}
