package display

import "fmt"

// FakeUI is a test double implementing Backlight, Panel, Label, Pointer and
// Locker. Every call is appended to Journal so tests can assert ordering and
// lock discipline.
type FakeUI struct {
	// Journal contains one entry per call, in call order.
	Journal []string

	// Brightness is the last value passed to SetBrightness.
	Brightness uint8

	// PanelOn is the last value passed to SetPower.
	PanelOn bool

	// PointerEnabled is the last value passed to SetEnabled.
	PointerEnabled bool

	// Texts contains every label text that was set.
	Texts []string

	// Centered counts Center calls.
	Centered int

	// Locked tracks whether the UI lock is currently held.
	Locked bool

	// BacklightError, if set, will be returned by SetBrightness.
	BacklightError error

	// PanelError, if set, will be returned by SetPower.
	PanelError error
}

// NewFakeUI creates a FakeUI for testing.
func NewFakeUI() *FakeUI {
	return &FakeUI{}
}

// Lock records acquiring the UI lock.
func (u *FakeUI) Lock() {
	u.Locked = true
	u.Journal = append(u.Journal, "lock")
}

// Unlock records releasing the UI lock.
func (u *FakeUI) Unlock() {
	u.Locked = false
	u.Journal = append(u.Journal, "unlock")
}

// SetBrightness records the backlight level.
func (u *FakeUI) SetBrightness(percent uint8) error {
	if u.BacklightError != nil {
		return u.BacklightError
	}
	u.Brightness = percent
	u.Journal = append(u.Journal, fmt.Sprintf("backlight=%d", percent))
	return nil
}

// SetPower records the panel power state.
func (u *FakeUI) SetPower(on bool) error {
	if u.PanelError != nil {
		return u.PanelError
	}
	u.PanelOn = on
	u.Journal = append(u.Journal, fmt.Sprintf("panel=%v", on))
	return nil
}

// SetText records the label text.
func (u *FakeUI) SetText(text string) {
	u.Texts = append(u.Texts, text)
	u.Journal = append(u.Journal, "text="+text)
}

// Center records a label re-center.
func (u *FakeUI) Center() {
	u.Centered++
	u.Journal = append(u.Journal, "center")
}

// SetEnabled records the pointer input state.
func (u *FakeUI) SetEnabled(enabled bool) {
	u.PointerEnabled = enabled
	u.Journal = append(u.Journal, fmt.Sprintf("pointer=%v", enabled))
}

// Renders returns the number of label updates.
func (u *FakeUI) Renders() int {
	return len(u.Texts)
}

// LastText returns the most recent label text, or "" if none was set.
func (u *FakeUI) LastText() string {
	if len(u.Texts) == 0 {
		return ""
	}
	return u.Texts[len(u.Texts)-1]
}

// Reset clears the journal and recorded state.
func (u *FakeUI) Reset() {
	*u = FakeUI{}
}
