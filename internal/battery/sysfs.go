package battery

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SysfsReader reads the charge percentage from a power_supply class device.
type SysfsReader struct {
	path string
}

// NewSysfsReader opens /sys/class/power_supply/<supply> and verifies the
// capacity attribute is readable.
func NewSysfsReader(supply string) (*SysfsReader, error) {
	path := filepath.Join("/sys/class/power_supply", supply, "capacity")
	if _, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("open battery supply %s: %w", supply, err)
	}
	return &SysfsReader{path: path}, nil
}

// Percent reads the capacity attribute, clamped to 0-100.
func (r *SysfsReader) Percent() (uint8, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("read battery capacity: %w", err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("battery capacity %q: %w", raw, err)
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return uint8(value), nil
}

// Close is a no-op for the sysfs reader.
func (r *SysfsReader) Close() error {
	return nil
}
