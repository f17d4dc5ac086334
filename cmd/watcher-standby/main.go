// Command watcher-standby is the standby power-state controller for the
// watcher device: it keeps the static rail policy applied, drives the screen
// state machine, and turns knob gestures into sleep or shutdown.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/d2r2/go-logger"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"

	"github.com/robenyang/watcher-standby/internal/battery"
	"github.com/robenyang/watcher-standby/internal/config"
	"github.com/robenyang/watcher-standby/internal/display"
	"github.com/robenyang/watcher-standby/internal/knob"
	"github.com/robenyang/watcher-standby/internal/power"
	"github.com/robenyang/watcher-standby/internal/standby"
	"github.com/robenyang/watcher-standby/internal/status"
	"github.com/robenyang/watcher-standby/internal/system"
	"github.com/robenyang/watcher-standby/internal/telemetry"
)

var log = logger.NewPackageLogger("main", logger.InfoLevel)

const wakeIRQPath = "/sys/power/pm_wakeup_irq"

func main() {
	app := &cli.App{
		Name:  "watcher-standby",
		Usage: "standby power-state controller",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "set config file",
			},
		},
		Action: func(c *cli.Context) error {
			// A resume from deep sleep tears the whole stack down and
			// boots it again, same as a cold start.
			for {
				err := run(c.String("config"))
				if !errors.Is(err, standby.ErrResumed) {
					return err
				}
			}
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configureLogging(l config.Logging) error {
	var level logger.LogLevel
	switch l.Level {
	case "INFO":
		level = logger.InfoLevel
	case "ERROR":
		level = logger.ErrorLevel
	case "WARN", "WARNING":
		level = logger.WarnLevel
	case "NOTICE":
		level = logger.NotifyLevel
	case "DEBUG":
		level = logger.DebugLevel
	case "FATAL":
		level = logger.FatalLevel
	default:
		return fmt.Errorf("log level not understood: %s", l.Level)
	}
	return logger.ChangePackageLogLevel("main", level)
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := configureLogging(cfg.Logging); err != nil {
		return err
	}

	cause := wakeCause(wakeIRQPath)
	log.Infof("Wakeup cause: %s", cause)

	rails, err := power.NewExpander(cfg.Power.Addr, cfg.Power.Bus)
	if err != nil {
		return fmt.Errorf("init rails: %w", err)
	}
	defer rails.Close()

	// A rail in an unknown state voids the whole measurement; bail out
	// rather than run with a broken power budget.
	if err := power.ApplyStaticPolicy(rails); err != nil {
		return err
	}

	backlight, err := display.NewSysfsBacklight(cfg.Screen.Backlight)
	if err != nil {
		return fmt.Errorf("init backlight: %w", err)
	}

	bat, err := battery.NewSysfsReader(cfg.Battery.Supply)
	if err != nil {
		return fmt.Errorf("init battery: %w", err)
	}
	defer bat.Close()

	clock := clockwork.NewRealClock()

	knobDriver, err := knob.NewGPIODriver(cfg.Knob.Chip, cfg.Knob.Line, cfg.Knob.LongPress(), cfg.Knob.Debounce(), clock)
	if err != nil {
		return fmt.Errorf("init knob: %w", err)
	}
	defer knobDriver.Close()

	var pub telemetry.Publisher
	if cfg.Telemetry.Broker != "" {
		p, err := telemetry.NewRealPublisher(cfg.Telemetry.Broker)
		if err != nil {
			// The broker is observability, not a power dependency.
			log.Errorf("telemetry disabled: %s", err)
		} else {
			pub = p
			log.Infof("telemetry on %s", cfg.Telemetry.Broker)
		}
	}

	tracker := status.NewTracker(time.Now(), cause)

	ctrl := standby.New(standby.Deps{
		Rails:     rails,
		Backlight: backlight,
		Panel:     backlight,
		Label:     display.LogLabel{},
		Pointer:   display.NopPointer{},
		UILock:    &sync.Mutex{},
		Battery:   bat,
		Sleeper:   &system.LinuxPower{WakeSourcePath: cfg.Knob.WakeSource},
		Restarter: &system.LinuxPower{},
		Clock:     clock,
		Telemetry: pub,
		Status:    tracker,
	}, cfg.Screen.OnBrightness)

	ctrl.AnnounceStartup(cause)

	// Boot starts in the off state; the first enable brings up every
	// dependent subsystem deterministically.
	if err := ctrl.SetScreenEnabled(true); err != nil {
		return fmt.Errorf("initial wake: %w", err)
	}

	snap := tracker.Snapshot()
	log.Infof("started: battery=%d%% brightness=%d update=%s",
		snap.BatteryPercent, cfg.Screen.OnBrightness, cfg.Battery.UpdatePeriod())

	ticker := time.NewTicker(cfg.Battery.UpdatePeriod())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, knobDriver.Events(), ticker.C, sigCh)
}

func runLoop(ctrl *standby.Controller, events <-chan knob.Event, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			return nil

		case ev, ok := <-events:
			if !ok {
				return errors.New("knob driver stopped")
			}
			log.Debugf("knob event: %s", ev)
			if err := ctrl.HandleEvent(ev); err != nil {
				if errors.Is(err, standby.ErrResumed) {
					log.Infof("resumed from deep sleep, restarting")
					return err
				}
				return fmt.Errorf("handle %s: %w", ev, err)
			}

		case <-tick:
			if err := ctrl.RefreshTick(); err != nil {
				// One missed reading is not worth dropping the
				// power state over.
				log.Errorf("refresh: %s", err)
			}
		}
	}
}

// wakeCause reports why the system resumed, best effort.
func wakeCause(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "cold-boot"
	}
	irq := strings.TrimSpace(string(raw))
	if irq == "" {
		return "cold-boot"
	}
	return "irq " + irq
}
