package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// bl_power values from the kernel's fb blanking levels.
const (
	blankUnblank   = "0"
	blankPowerdown = "4"
)

// SysfsBacklight drives a Linux backlight class device through its sysfs
// attributes. It implements both Backlight and Panel.
type SysfsBacklight struct {
	dir string
	max int
}

// NewSysfsBacklight opens /sys/class/backlight/<name> and reads its
// brightness range.
func NewSysfsBacklight(name string) (*SysfsBacklight, error) {
	dir := filepath.Join("/sys/class/backlight", name)

	raw, err := os.ReadFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return nil, fmt.Errorf("open backlight %s: %w", name, err)
	}
	max, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || max <= 0 {
		return nil, fmt.Errorf("backlight %s: bad max_brightness %q", name, raw)
	}

	return &SysfsBacklight{dir: dir, max: max}, nil
}

// SetBrightness scales percent into the device's brightness range and writes
// it. Percent above 100 is an error, not clamped; the caller owns the range.
func (b *SysfsBacklight) SetBrightness(percent uint8) error {
	if percent > 100 {
		return fmt.Errorf("backlight: brightness %d out of range", percent)
	}
	value := int(percent) * b.max / 100
	if err := os.WriteFile(filepath.Join(b.dir, "brightness"), []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("set backlight brightness: %w", err)
	}
	return nil
}

// SetPower blanks or unblanks the panel via bl_power.
func (b *SysfsBacklight) SetPower(on bool) error {
	value := blankPowerdown
	if on {
		value = blankUnblank
	}
	if err := os.WriteFile(filepath.Join(b.dir, "bl_power"), []byte(value), 0o644); err != nil {
		return fmt.Errorf("set panel power: %w", err)
	}
	return nil
}
