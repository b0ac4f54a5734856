package irt

import "gonum.org/v1/gonum/mat"

// KernelStepFrac is the finite-difference relative step size for each
// state element's perturbation (spec §4.10: "perturb each state element
// by a small fraction of its own value").
const KernelStepFrac = 1.0e-3

// AssembleKernel builds the Jacobian dY/dX by one-sided finite
// differences around the current atmosphere (spec §4.10). It packs the
// state with PackState, runs the baseline forward model once, then
// perturbs each retrieved element in turn (in parallel via ParallelFor,
// spec §5's "partition the state-vector column index"), re-running the
// forward model on a cloned atmosphere for each column. It returns a
// BoundsError (spec §7 category 3 / SPEC_FULL.md §12's kernel size guard)
// if either the packed state or packed measurement is empty.
func AssembleKernel(lut *LUT, ctl *Control, atm *Atmosphere, obs *Observation) (*mat.Dense, *StateVector, *Measurement, error) {
	sv := PackState(atm, ctl)
	n := len(sv.X)

	base := cloneObservationGeometry(obs)
	if err := RunForwardModel(lut, ctl, atm, base); err != nil {
		return nil, nil, nil, err
	}
	y0 := PackObs(base, ctl.ND, ctl.WriteBBT)
	m := len(y0.Y)

	if n == 0 || m == 0 {
		return nil, nil, nil, NewBoundsError("kernel state/measurement size", 0, 1)
	}

	k := mat.NewDense(m, n, nil)
	err := ParallelFor(n, func(col int) error {
		perturbed := cloneStateVector(sv)
		step := perturbed.X[col] * KernelStepFrac
		if step == 0 {
			step = KernelStepFrac
		}
		perturbed.X[col] += step

		atmP := cloneAtmosphere(atm)
		UnpackState(perturbed, atmP, ctl)

		obsP := cloneObservationGeometry(obs)
		if err := RunForwardModel(lut, ctl, atmP, obsP); err != nil {
			return err
		}
		yP := PackObs(obsP, ctl.ND, ctl.WriteBBT)

		for row := 0; row < m; row++ {
			k.Set(row, col, (yP.Y[row]-y0.Y[row])/step)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return k, sv, y0, nil
}

func cloneStateVector(sv *StateVector) *StateVector {
	return &StateVector{
		X:    append([]float64(nil), sv.X...),
		Tags: append([]StateTag(nil), sv.Tags...),
	}
}

func cloneAtmosphere(atm *Atmosphere) *Atmosphere {
	clone := *atm
	clone.Z = append([]float64(nil), atm.Z...)
	clone.P = append([]float64(nil), atm.P...)
	clone.T = append([]float64(nil), atm.T...)
	clone.Q = make([][]float64, len(atm.Q))
	for i, row := range atm.Q {
		clone.Q[i] = append([]float64(nil), row...)
	}
	clone.K = make([][]float64, len(atm.K))
	for i, row := range atm.K {
		clone.K[i] = append([]float64(nil), row...)
	}
	clone.CloudK = append([]float64(nil), atm.CloudK...)
	clone.SurfaceEps = append([]float64(nil), atm.SurfaceEps...)
	return &clone
}
