package system

import (
	"fmt"
	"os"
	"os/exec"
)

const powerStatePath = "/sys/power/state"

// LinuxPower implements Sleeper and Restarter on a Linux host using the
// kernel's suspend interface and systemd.
type LinuxPower struct {
	// WakeSourcePath, if set, is the device wakeup attribute enabled
	// before suspending (e.g. the knob GPIO controller's power/wakeup).
	WakeSourcePath string
}

// EnterDeepSleep arms the knob wake source and writes "mem" to
// /sys/power/state. The write blocks until the system resumes.
func (p *LinuxPower) EnterDeepSleep() error {
	if p.WakeSourcePath != "" {
		if err := os.WriteFile(p.WakeSourcePath, []byte("enabled"), 0o644); err != nil {
			return fmt.Errorf("enable wake source: %w", err)
		}
	}
	if err := os.WriteFile(powerStatePath, []byte("mem"), 0o200); err != nil {
		return fmt.Errorf("enter deep sleep: %w", err)
	}
	return nil
}

// Shutdown requests a full power-off via systemd.
func (p *LinuxPower) Shutdown() error {
	return runSystemctl("poweroff")
}

// Restart reboots via systemd.
func (p *LinuxPower) Restart() error {
	return runSystemctl("reboot")
}

func runSystemctl(verb string) error {
	cmd := exec.Command("systemctl", verb)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("systemctl %s: %w (%s)", verb, err, out)
	}
	return nil
}
