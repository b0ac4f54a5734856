package irt

import "testing"

func TestComputeRelErrorStatsZeroSamplesSentinel(t *testing.T) {
	s := ComputeRelErrorStats(nil, nil)
	if s.N != 0 {
		t.Errorf("N = %d, want 0 for empty input", s.N)
	}
}

func TestComputeRelErrorStatsSkipsZeroReference(t *testing.T) {
	s := ComputeRelErrorStats([]float64{1, 2}, []float64{0, 1})
	if s.N != 1 {
		t.Fatalf("N = %d, want 1 (one zero-reference element skipped)", s.N)
	}
	if absDifferent(s.MRE, 1.0, testTolerance) {
		t.Errorf("MRE = %g, want 1.0", s.MRE)
	}
}

func TestComputeRelErrorStatsMinMax(t *testing.T) {
	s := ComputeRelErrorStats([]float64{1.1, 0.9, 1.0}, []float64{1, 1, 1})
	if s.N != 3 {
		t.Fatalf("N = %d, want 3", s.N)
	}
	if absDifferent(s.MaxRE, 0.1, testTolerance) {
		t.Errorf("MaxRE = %g, want 0.1", s.MaxRE)
	}
	if absDifferent(s.MinRE, -0.1, testTolerance) {
		t.Errorf("MinRE = %g, want -0.1", s.MinRE)
	}
}
