package irt

import "testing"

func TestSegmentContinuumDisabledIsZero(t *testing.T) {
	enabled := map[ContinuumModel]bool{}
	got := SegmentContinuum(enabled, 667.0, 1000.0, 250.0, 1.0e-4, 1.0e20, 1.0)
	if got != 0 {
		t.Errorf("SegmentContinuum with no models enabled = %g, want 0", got)
	}
}

func TestSegmentContinuumPositive(t *testing.T) {
	enabled := map[ContinuumModel]bool{ContinuumCO2: true, ContinuumH2O: true, ContinuumN2: true, ContinuumO2: true}
	got := SegmentContinuum(enabled, 667.0, 1000.0, 250.0, 1.0e-4, 1.0e20, 1.0)
	if got <= 0 {
		t.Errorf("SegmentContinuum with all models enabled = %g, want > 0", got)
	}
}

func TestContinuumDecreasesWithPressureAloft(t *testing.T) {
	lo := ContinuumN2Abs(2330.0, 10.0, 220.0)
	hi := ContinuumN2Abs(2330.0, 1013.0, 220.0)
	if lo >= hi {
		t.Errorf("N2 continuum at 10 hPa (%g) should be smaller than at 1013 hPa (%g)", lo, hi)
	}
}
