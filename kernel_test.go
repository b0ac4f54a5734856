package irt

import "testing"

func TestAssembleKernelRejectsEmptyState(t *testing.T) {
	lut, ctl, atm, obs := formodFixture()
	// No RetrievalWindow entries configured: PackState returns an empty
	// StateVector, which must be rejected rather than silently producing
	// a 0-column matrix.
	if _, _, _, err := AssembleKernel(lut, ctl, atm, obs); err == nil {
		t.Error("AssembleKernel with no retrieval window configured should error")
	}
}

func TestAssembleKernelShapeMatchesStateAndMeasurement(t *testing.T) {
	lut, ctl, atm, obs := formodFixture()
	ctl.RetrievalWindow[QuantityTemperature] = [2]float64{0, 100}
	k, sv, y0, err := AssembleKernel(lut, ctl, atm, obs)
	if err != nil {
		t.Fatalf("AssembleKernel: %v", err)
	}
	rows, cols := k.Dims()
	if cols != len(sv.X) {
		t.Errorf("kernel has %d columns, want %d (state size)", cols, len(sv.X))
	}
	if rows != len(y0.Y) {
		t.Errorf("kernel has %d rows, want %d (measurement size)", rows, len(y0.Y))
	}
}

func TestAssembleKernelTemperatureSensitivityIsNonzero(t *testing.T) {
	// formodFixture's LUT has no gas tables, so its path is transparent
	// and radiance does not depend on temperature; use the absorber
	// fixture's LUT (same single channel and gas) so the path absorbs.
	_, ctl, atm, obs := formodFixture()
	lut, _ := buildAbsorberFixture(t)
	ctl.RetrievalWindow[QuantityTemperature] = [2]float64{0, 100}
	k, _, _, err := AssembleKernel(lut, ctl, atm, obs)
	if err != nil {
		t.Fatalf("AssembleKernel: %v", err)
	}
	rows, cols := k.Dims()
	var anyNonzero bool
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if k.At(r, c) != 0 {
				anyNonzero = true
			}
		}
	}
	if !anyNonzero {
		t.Error("kernel is all-zero; expected some nonzero temperature sensitivity")
	}
}
