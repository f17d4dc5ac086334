package power

import (
	"errors"
	"testing"
)

func TestApplyStaticPolicy(t *testing.T) {
	f := NewFakeController()

	if err := ApplyStaticPolicy(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Calls) != 1 {
		t.Fatalf("expected 1 SetLevel call, got %d", len(f.Calls))
	}
	if f.Calls[0].Mask != AlwaysOff {
		t.Errorf("mask: got %#04x, want %#04x", uint16(f.Calls[0].Mask), uint16(AlwaysOff))
	}
	if f.Calls[0].Level != Off {
		t.Errorf("level: got %d, want %d", f.Calls[0].Level, Off)
	}

	for _, r := range []Rail{RailAIChip, RailGrove, RailSDCard, RailCodecPA} {
		if f.Level(r) != Off {
			t.Errorf("rail %#04x: expected off", uint16(r))
		}
	}
}

func TestApplyStaticPolicyIdempotent(t *testing.T) {
	f := NewFakeController()

	// Battery sense on first; the static policy must not touch it.
	if err := f.SetLevel(RailBatteryADC.Mask(), On); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ApplyStaticPolicy(f); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := make(map[Rail]Level)
	for _, r := range []Rail{RailAIChip, RailGrove, RailSDCard, RailCodecPA, RailBatteryADC} {
		first[r] = f.Level(r)
	}

	if err := ApplyStaticPolicy(f); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	for r, want := range first {
		if got := f.Level(r); got != want {
			t.Errorf("rail %#04x: level changed from %d to %d on second apply", uint16(r), want, got)
		}
	}

	if f.Level(RailBatteryADC) != On {
		t.Error("static policy must not disable the battery sense rail")
	}
}

func TestApplyStaticPolicyError(t *testing.T) {
	f := NewFakeController()
	f.SetError = errors.New("bus write failed")

	if err := ApplyStaticPolicy(f); err == nil {
		t.Fatal("expected error when the rail write fails")
	}
}

func TestAlwaysOffExcludesBatterySense(t *testing.T) {
	if AlwaysOff.Contains(RailBatteryADC.Mask()) {
		t.Error("battery sense rail must not be in the always-off set")
	}
}

func TestFakeControllerTracksMaskedRails(t *testing.T) {
	f := NewFakeController()

	if err := f.SetLevel(RailMask(RailAIChip|RailSDCard), On); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Level(RailAIChip) != On || f.Level(RailSDCard) != On {
		t.Error("masked rails should be on")
	}
	if f.Level(RailGrove) != Off {
		t.Error("unmasked rail should stay off")
	}
}
