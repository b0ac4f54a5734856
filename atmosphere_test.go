package irt

import (
	"math"
	"testing"
)

func isothermalAtmosphere() *Atmosphere {
	return &Atmosphere{
		Z: []float64{0, 10, 20, 30, 40},
		P: []float64{1013.25, 265.0, 54.7, 11.97, 2.87},
		T: []float64{250, 250, 250, 250, 250},
		Q: [][]float64{
			{4.0e-4}, {4.0e-4}, {4.0e-4}, {4.0e-4}, {4.0e-4},
		},
		K: [][]float64{{0}, {0}, {0}, {0}, {0}},
	}
}

func TestInterpAtIsothermal(t *testing.T) {
	atm := isothermalAtmosphere()
	_, T, q, _ := atm.InterpAt(15.0)
	if absDifferent(T, 250.0, testTolerance) {
		t.Errorf("T at 15km = %g, want 250", T)
	}
	if absDifferent(q[0], 4.0e-4, 1.0e-10) {
		t.Errorf("q[0] at 15km = %g, want 4e-4", q[0])
	}
}

func TestInterpAtPressureIsLogLinear(t *testing.T) {
	atm := isothermalAtmosphere()
	p, _, _, _ := atm.InterpAt(10.0)
	if absDifferent(p, 265.0, 1.0e-6) {
		t.Errorf("p at an exact sample point = %g, want 265.0", p)
	}
	// Halfway between 10 km and 20 km, log-linear interpolation gives the
	// geometric mean of the two sample pressures.
	p15, _, _, _ := atm.InterpAt(15.0)
	if want := math.Sqrt(265.0 * 54.7); absDifferent(p15, want, 1.0e-6) {
		t.Errorf("p at 15km = %g, want %g (geometric mean of 265.0 and 54.7)", p15, want)
	}
}

func TestEnsureAscendingReordersDescendingProfile(t *testing.T) {
	atm := &Atmosphere{
		Z: []float64{40, 30, 20, 10, 0},
		P: []float64{2.87, 11.97, 54.7, 265.0, 1013.25},
		T: []float64{250, 250, 250, 250, 250},
		Q: [][]float64{{1}, {2}, {3}, {4}, {5}},
		K: [][]float64{{0}, {0}, {0}, {0}, {0}},
	}
	atm.EnsureAscending()
	if !atm.Reversed {
		t.Error("EnsureAscending did not flag a descending profile as reversed")
	}
	if atm.Z[0] != 0 || atm.Z[len(atm.Z)-1] != 40 {
		t.Errorf("Z after EnsureAscending = %v, want ascending from 0 to 40", atm.Z)
	}
	if atm.Q[0][0] != 5 {
		t.Errorf("Q not reordered in lockstep with Z: Q[0][0] = %g, want 5", atm.Q[0][0])
	}
}
