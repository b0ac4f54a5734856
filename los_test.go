package irt

import "testing"

func buildTestLOS() (*Control, *LOS) {
	ctl := DefaultControl()
	ctl.NG = 1
	ctl.ND = 1
	ctl.Nu = []float64{667.0}
	ctl.Window = []int{0}
	pts := []*LOSPoint{
		{Z: 30, P: 10.0, T: 250.0, Q: []float64{4.0e-4}, DS: 1.0},
		{Z: 29, P: 11.0, T: 249.0, Q: []float64{4.0e-4}, DS: 1.0},
		{Z: 28, P: 12.1, T: 248.0, Q: []float64{4.0e-4}, DS: 1.0},
	}
	return ctl, &LOS{Points: pts}
}

func TestPrepareLOSCumulativeColumnDensityNonDecreasing(t *testing.T) {
	ctl, los := buildTestLOS()
	PrepareLOS(ctl, los)
	prev := 0.0
	for i, pt := range los.Points {
		if pt.CGU[0] < prev {
			t.Errorf("point %d: CGU = %g, less than running total %g", i, pt.CGU[0], prev)
		}
		prev = pt.CGU[0]
	}
}

func TestPrepareLOSCurtisGodsonWithinBounds(t *testing.T) {
	ctl, los := buildTestLOS()
	PrepareLOS(ctl, los)
	last := los.Points[len(los.Points)-1]
	// The Curtis-Godson mean pressure/temperature must lie within the
	// range of pressures/temperatures actually sampled along the path.
	if last.CGP[0] < 10.0 || last.CGP[0] > 12.1 {
		t.Errorf("CGP = %g, want within [10.0,12.1]", last.CGP[0])
	}
	if last.CGT[0] < 248.0 || last.CGT[0] > 250.0 {
		t.Errorf("CGT = %g, want within [248.0,250.0]", last.CGT[0])
	}
}
