// Package config loads the controller's TOML configuration. Defaults mirror
// the device profile, so an empty file (or no file) is a valid configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full daemon configuration.
type Config struct {
	Logging   Logging
	Power     Power
	Screen    Screen
	Knob      Knob
	Battery   Battery
	Telemetry Telemetry
}

// Logging configures the log level.
type Logging struct {
	Level string
}

// Power addresses the IO expander. The always-off rail set itself is a
// compile-time constant of the device profile, not configuration.
type Power struct {
	Bus  int
	Addr uint8
}

// Screen configures the backlight.
type Screen struct {
	OnBrightness uint8  // backlight percent while on, 1-100
	Backlight    string // sysfs backlight device name
}

// Knob configures the button GPIO line and gesture thresholds.
type Knob struct {
	Chip        string
	Line        int
	LongPressMs int
	DebounceMs  int
	WakeSource  string // sysfs wakeup attribute path, optional
}

// LongPress returns the long-press threshold as a duration.
func (k Knob) LongPress() time.Duration {
	return time.Duration(k.LongPressMs) * time.Millisecond
}

// Debounce returns the debounce period as a duration.
func (k Knob) Debounce() time.Duration {
	return time.Duration(k.DebounceMs) * time.Millisecond
}

// Battery configures the charge source and refresh period.
type Battery struct {
	Supply   string
	UpdateMs int
}

// UpdatePeriod returns the refresh period as a duration.
func (b Battery) UpdatePeriod() time.Duration {
	return time.Duration(b.UpdateMs) * time.Millisecond
}

// Telemetry configures the optional MQTT publisher. An empty broker disables
// it.
type Telemetry struct {
	Broker string
}

// Default returns the device profile defaults.
func Default() Config {
	return Config{
		Logging: Logging{Level: "INFO"},
		Power: Power{
			Bus:  1,
			Addr: 0x20,
		},
		Screen: Screen{
			OnBrightness: 50,
			Backlight:    "panel-backlight",
		},
		Knob: Knob{
			Chip:        "gpiochip0",
			Line:        6,
			LongPressMs: 1500,
			DebounceMs:  180,
		},
		Battery: Battery{
			Supply:   "battery",
			UpdateMs: 1000,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	dec := toml.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	// Zero would render the screen unreadable while nominally on; the
	// off state cuts the backlight through the state machine instead.
	if c.Screen.OnBrightness < 1 || c.Screen.OnBrightness > 100 {
		return fmt.Errorf("screen brightness %d out of range 1-100", c.Screen.OnBrightness)
	}
	if c.Knob.LongPressMs <= c.Knob.DebounceMs {
		return fmt.Errorf("long press threshold %dms must exceed debounce %dms", c.Knob.LongPressMs, c.Knob.DebounceMs)
	}
	if c.Battery.UpdateMs <= 0 {
		return fmt.Errorf("battery update period %dms must be positive", c.Battery.UpdateMs)
	}
	return nil
}
