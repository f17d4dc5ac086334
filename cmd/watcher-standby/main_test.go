package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/robenyang/watcher-standby/internal/battery"
	"github.com/robenyang/watcher-standby/internal/config"
	"github.com/robenyang/watcher-standby/internal/display"
	"github.com/robenyang/watcher-standby/internal/knob"
	"github.com/robenyang/watcher-standby/internal/power"
	"github.com/robenyang/watcher-standby/internal/standby"
	"github.com/robenyang/watcher-standby/internal/system"
)

func TestWakeCause(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "nope")
	if got := wakeCause(missing); got != "cold-boot" {
		t.Errorf("missing file: got %q, want %q", got, "cold-boot")
	}

	irqFile := filepath.Join(dir, "pm_wakeup_irq")
	if err := os.WriteFile(irqFile, []byte("42\n"), 0o644); err != nil {
		t.Fatalf("write irq file: %v", err)
	}
	if got := wakeCause(irqFile); got != "irq 42" {
		t.Errorf("irq file: got %q, want %q", got, "irq 42")
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}
	if got := wakeCause(empty); got != "cold-boot" {
		t.Errorf("empty file: got %q, want %q", got, "cold-boot")
	}
}

func TestConfigureLogging(t *testing.T) {
	for _, level := range []string{"INFO", "ERROR", "WARN", "WARNING", "NOTICE", "DEBUG", "FATAL"} {
		if err := configureLogging(config.Logging{Level: level}); err != nil {
			t.Errorf("%s: unexpected error: %v", level, err)
		}
	}
	if err := configureLogging(config.Logging{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRunLoopStopsWhenDriverCloses(t *testing.T) {
	sys := system.NewFakePower()
	ui := display.NewFakeUI()
	ctrl := standby.New(standby.Deps{
		Rails:     power.NewFakeController(),
		Backlight: ui,
		Panel:     ui,
		Label:     ui,
		Pointer:   ui,
		UILock:    &sync.Mutex{},
		Battery:   battery.NewFakeReader([]uint8{64}),
		Sleeper:   sys,
		Restarter: sys,
		Clock:     clockwork.NewRealClock(),
	}, 0)

	// The loop drains the buffered press before it observes the closed
	// channel.
	driver := knob.NewFakeDriver()
	driver.Emit(knob.PressDown)
	driver.Close()

	err := runLoop(ctrl, driver.Events(), make(chan time.Time, 1), make(chan os.Signal))
	if err == nil || errors.Is(err, standby.ErrResumed) {
		t.Fatalf("got %v, want a driver failure", err)
	}
	if sys.SleepCalls != 0 {
		t.Errorf("sleep calls: got %d, want 0", sys.SleepCalls)
	}
}

func TestRunLoopRebootsAfterResume(t *testing.T) {
	rails := power.NewFakeController()
	ui := display.NewFakeUI()
	sys := system.NewFakePower()
	bat := battery.NewFakeReader([]uint8{64})

	newController := func() *standby.Controller {
		return standby.New(standby.Deps{
			Rails:     rails,
			Backlight: ui,
			Panel:     ui,
			Label:     ui,
			Pointer:   ui,
			UILock:    &sync.Mutex{},
			Battery:   bat,
			Sleeper:   sys,
			Restarter: sys,
			Clock:     clockwork.NewRealClock(),
		}, 0)
	}

	// sleepCycle is one run() pass: boot, wake the screen, then a short
	// press that suspends. The fake's EnterDeepSleep returns, which
	// models the Linux suspend write unblocking when the knob wakes the
	// system.
	sleepCycle := func() error {
		ctrl := newController()
		if err := ctrl.SetScreenEnabled(true); err != nil {
			t.Fatalf("initial wake: %v", err)
		}
		driver := knob.NewFakeDriver()
		driver.Emit(knob.PressDown)
		driver.Emit(knob.PressUp)
		driver.Close()
		return runLoop(ctrl, driver.Events(), make(chan time.Time, 1), make(chan os.Signal))
	}

	if err := sleepCycle(); !errors.Is(err, standby.ErrResumed) {
		t.Fatalf("first cycle: got %v, want ErrResumed", err)
	}

	// The entrypoint reacts to a resume by booting again: the screen must
	// come back fully usable, not stay dark with the refresher paused.
	ctrl := newController()
	if err := ctrl.SetScreenEnabled(true); err != nil {
		t.Fatalf("wake after resume: %v", err)
	}
	if !ctrl.ScreenOn() {
		t.Error("screen should be on after the post-resume boot")
	}
	if ui.Brightness != 50 {
		t.Errorf("backlight: got %d, want 50", ui.Brightness)
	}
	if ui.LastText() != "64%" {
		t.Errorf("label: got %q, want %q", ui.LastText(), "64%")
	}
	if rails.Level(power.RailBatteryADC) != power.On {
		t.Error("battery sense rail should be on after the post-resume boot")
	}

	// And the next press cycle suspends again.
	if err := sleepCycle(); !errors.Is(err, standby.ErrResumed) {
		t.Fatalf("second cycle: got %v, want ErrResumed", err)
	}
	if sys.SleepCalls != 2 {
		t.Errorf("sleep calls: got %d, want 2", sys.SleepCalls)
	}
}

func TestRunLoopExitsOnSignal(t *testing.T) {
	sys := system.NewFakePower()
	ui := display.NewFakeUI()
	ctrl := standby.New(standby.Deps{
		Rails:     power.NewFakeController(),
		Backlight: ui,
		Panel:     ui,
		Label:     ui,
		Pointer:   ui,
		UILock:    &sync.Mutex{},
		Battery:   battery.NewFakeReader([]uint8{64}),
		Sleeper:   sys,
		Restarter: sys,
		Clock:     clockwork.NewRealClock(),
	}, 0)

	driver := knob.NewFakeDriver()
	defer driver.Close()

	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	done := make(chan error, 1)
	go func() { done <- runLoop(ctrl, driver.Events(), make(chan time.Time), sig) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runLoop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runLoop did not exit on signal")
	}
}
