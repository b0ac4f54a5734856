package irt

import "testing"

func rtFixture() (*LUT, *Control, *Atmosphere) {
	lut := NewLUT()
	lut.BuildSourceTable([]float64{667.0}, 16)
	ctl := DefaultControl()
	ctl.ND = 1
	ctl.NG = 1
	ctl.Nu = []float64{667.0}
	ctl.Window = []int{0}
	atm := &Atmosphere{SurfaceT: 288.0, SurfaceEps: []float64{1.0}}
	return lut, ctl, atm
}

func transparentLOS() *LOS {
	pts := []*LOSPoint{
		{Z: 30, P: 1.0, T: 250.0, Q: []float64{0}, K: []float64{0}, DS: 1.0},
		{Z: 29, P: 1.1, T: 250.0, Q: []float64{0}, K: []float64{0}, DS: 1.0},
	}
	return &LOS{Points: pts}
}

func surfaceLOS() *LOS {
	pts := []*LOSPoint{
		{Z: 30, P: 1.0, T: 250.0, Q: []float64{0}, K: []float64{0}, DS: 1.0},
		{Z: 0, P: 1013.0, T: 288.0, Q: []float64{0}, K: []float64{0}, DS: 1.0, Surface: true, SurfaceT: 288.0, SurfaceEps: []float64{1.0}},
	}
	return &LOS{Points: pts}
}

// TestIntegrateRayPathTransmittanceInRange covers the range half of
// property P2: the final path transmittance must lie in [0,1]. It does
// not check monotonicity along the accumulation.
func TestIntegrateRayPathTransmittanceInRange(t *testing.T) {
	lut, ctl, atm := rtFixture()
	los := surfaceLOS()
	obs := &Observation{ObsZ: []float64{100}}
	if err := IntegrateRay(lut, ctl, atm, los, obs, 0); err != nil {
		t.Fatalf("IntegrateRay: %v", err)
	}
	tau := obs.Tau[0][0]
	if tau < 0 || tau > 1 {
		t.Errorf("path tau = %g, want in [0,1]", tau)
	}
}

// TestIntegrateRayTransparentAtmosphereIsZero covers scenario S3: with no
// absorbing gas and a space-terminated LOS, radiance must be ~0.
func TestIntegrateRayTransparentAtmosphereIsZero(t *testing.T) {
	lut, ctl, atm := rtFixture()
	los := transparentLOS()
	obs := &Observation{ObsZ: []float64{100}}
	if err := IntegrateRay(lut, ctl, atm, los, obs, 0); err != nil {
		t.Fatalf("IntegrateRay: %v", err)
	}
	if absDifferent(obs.Rad[0][0], 0, 1.0e-6) {
		t.Errorf("rad = %g, want ~0 for a transparent atmosphere to space", obs.Rad[0][0])
	}
}

// TestIntegrateRayBlackbodySurfaceMatchesPlanck covers scenario S4: a
// transparent atmosphere over a blackbody surface must radiate
// Planck(surfaceT, nu).
func TestIntegrateRayBlackbodySurfaceMatchesPlanck(t *testing.T) {
	lut, ctl, atm := rtFixture()
	los := surfaceLOS()
	// Zero out absorption along the path so only the surface term survives.
	for _, pt := range los.Points {
		pt.Q = []float64{0}
	}
	obs := &Observation{ObsZ: []float64{100}}
	if err := IntegrateRay(lut, ctl, atm, los, obs, 0); err != nil {
		t.Fatalf("IntegrateRay: %v", err)
	}
	want := Planck(atm.SurfaceT, ctl.Nu[0])
	if absDifferent(obs.Rad[0][0], want, 1.0e-9) {
		t.Errorf("rad = %g, want Planck(%g,%g) = %g", obs.Rad[0][0], atm.SurfaceT, ctl.Nu[0], want)
	}
}

// TestFOVConvolveAveragesTwoRays covers scenario S6: with two equally
// weighted FOV rays, the convolved radiance is their mean.
func TestFOVConvolveAveragesTwoRays(t *testing.T) {
	ctl := DefaultControl()
	ctl.ND = 1
	ctl.FOVWeights = []float64{1, 1}
	ctl.FOVDZ = 0.5
	calls := 0
	render := func(offset float64) ([]float64, error) {
		calls++
		if offset < 0 {
			return []float64{10}, nil
		}
		return []float64{20}, nil
	}
	out, err := FOVConvolve(ctl, render)
	if err != nil {
		t.Fatalf("FOVConvolve: %v", err)
	}
	if calls != 2 {
		t.Errorf("render called %d times, want 2", calls)
	}
	if absDifferent(out[0], 15, testTolerance) {
		t.Errorf("convolved rad = %g, want 15 (mean of 10 and 20)", out[0])
	}
}
