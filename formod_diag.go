package irt

import "gonum.org/v1/gonum/stat"

// RelErrorStats summarizes per-element relative error between a model
// result and a reference, the Go analogue of JURASSIC's
// compute_rel_errors (SPEC_FULL.md §12). N==0 is the documented sentinel
// for "no reference samples" (SPEC_FULL.md §9's resolution of the
// original's unguarded n=0 divide); callers must check N before trusting
// the other fields.
type RelErrorStats struct {
	N               int
	MRE, SDRE       float64 // mean / standard deviation of relative error
	MinRE, MaxRE    float64
}

// ComputeRelErrorStats returns the relative-error statistics of model
// against reference, element by element: re_i = (model_i -
// reference_i)/reference_i. Elements where reference_i == 0 are skipped
// (undefined relative error), consistent with the original's treatment of
// the denominator guard. With zero surviving samples it returns the
// RelErrorStats{N: 0} sentinel rather than dividing by zero.
func ComputeRelErrorStats(model, reference []float64) RelErrorStats {
	n := len(model)
	if len(reference) < n {
		n = len(reference)
	}
	re := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if reference[i] == 0 {
			continue
		}
		re = append(re, (model[i]-reference[i])/reference[i])
	}
	if len(re) == 0 {
		return RelErrorStats{N: 0}
	}

	mean, std := stat.MeanStdDev(re, nil)
	minRE, maxRE := re[0], re[0]
	for _, v := range re {
		if v < minRE {
			minRE = v
		}
		if v > maxRE {
			maxRE = v
		}
	}
	return RelErrorStats{N: len(re), MRE: mean, SDRE: std, MinRE: minRE, MaxRE: maxRE}
}
