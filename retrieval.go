package irt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// innerTrialMax bounds the Levenberg-Marquardt lambda-search inner loop
// per trial iteration (spec §4.12's "20-iteration inner trial loop").
const innerTrialMax = 20

// RetrievalResult holds the converged state and the post-analysis
// quantities of an optimal-estimation retrieval (spec §4.12).
type RetrievalResult struct {
	State      *StateVector
	Iterations int
	Converged  bool
	Chi2       float64
	Chi2PerDOF float64

	Covariance      *mat.Dense // S_ret, posterior state covariance
	Gain            *mat.Dense // G = S_ret K^T Se^-1
	AveragingKernel *mat.Dense // A = G K
}

// Retrieve runs the damped Gauss-Newton / optimal-estimation loop (spec
// §4.12): starting from the a priori state xa with diagonal a priori
// variances saVar and diagonal measurement-error variances seVar, it
// iterates AssembleKernel/forward-model re-linearization and a
// Cholesky-solved normal-equations update until convergence or
// ctl.ConvIterMax is exhausted.
func Retrieve(lut *LUT, ctl *Control, atm *Atmosphere, obs *Observation, xa *StateVector, saVar, seVar []float64, yMeas []float64) (*RetrievalResult, error) {
	n := len(xa.X)
	m := len(yMeas)
	if n == 0 || m == 0 {
		return nil, NewBoundsError("retrieval state/measurement size", 0, 1)
	}

	x := append([]float64(nil), xa.X...)
	lambda := ctl.LambdaInit

	var k *mat.Dense
	var y0 []float64
	converged := false
	iter := 0

	for ; iter < ctl.ConvIterMax; iter++ {
		if k == nil || iter%ctl.KernelRecomp == 0 {
			atmTrial := cloneAtmosphere(atm)
			UnpackState(&StateVector{X: x, Tags: xa.Tags}, atmTrial, ctl)
			kk, sv, ymm, err := AssembleKernel(lut, ctl, atmTrial, obs)
			if err != nil {
				return nil, err
			}
			k = kk
			y0 = ymm.Y
			_ = sv
		}

		cost0 := chiSquared(yMeas, y0, seVar, x, xa.X, saVar)

		var dx []float64
		var accepted bool
		for trial := 0; trial < innerTrialMax; trial++ {
			candidate := solveLMStep(k, seVar, saVar, x, xa.X, yMeas, y0, lambda)

			xNew := make([]float64, n)
			for i := range xNew {
				xNew[i] = x[i] + candidate[i]
			}

			atmNew := cloneAtmosphere(atm)
			UnpackState(&StateVector{X: xNew, Tags: xa.Tags}, atmNew, ctl)
			obsNew := cloneObservationGeometry(obs)
			if err := RunForwardModel(lut, ctl, atmNew, obsNew); err != nil {
				return nil, err
			}
			yNew := PackObs(obsNew, ctl.ND, ctl.WriteBBT).Y

			costNew := chiSquared(yMeas, yNew, seVar, xNew, xa.X, saVar)
			if costNew < cost0 {
				dx = candidate
				x = xNew
				y0 = yNew
				lambda /= 10
				accepted = true
				break
			}
			lambda *= 10
		}
		if !accepted {
			// No trial improved the cost within innerTrialMax steps: treat
			// the current state as converged rather than diverging further.
			converged = true
			iter++
			break
		}

		dChi2 := normalizedStepSize(k, seVar, saVar, dx, lambda)
		if dChi2 < ctl.ConvDMin {
			converged = true
			iter++
			break
		}
	}

	result := &RetrievalResult{
		State:      &StateVector{X: x, Tags: xa.Tags},
		Iterations: iter,
		Converged:  converged,
		Chi2:       chiSquared(yMeas, y0, seVar, x, xa.X, saVar),
	}
	result.Chi2PerDOF = chi2PerDOF(result.Chi2, len(yMeas), len(x))
	result.Covariance, result.Gain, result.AveragingKernel = posteriorAnalysis(k, seVar, saVar)
	return result, nil
}

// solveLMStep computes one damped Gauss-Newton step (Rodgers 2000 eq.
// 5.36):
//   dx = [(1+lambda)Sa^-1 + K^T Se^-1 K]^-1 { K^T Se^-1 (y - F(x)) - Sa^-1(x - xa) }
func solveLMStep(k *mat.Dense, seVar, saVar, x, xa, yMeas, y0 []float64, lambda float64) []float64 {
	m, n := k.Dims()

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for r := 0; r < m; r++ {
				sum += k.At(r, i) * k.At(r, j) / seVar[r]
			}
			if i == j {
				sum += (1 + lambda) / saVar[i]
			}
			a.SetSym(i, j, sum)
		}
	}

	b := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for r := 0; r < m; r++ {
			sum += k.At(r, i) * (yMeas[r] - y0[r]) / seVar[r]
		}
		sum -= (x[i] - xa[i]) / saVar[i]
		b[i] = sum
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		// Fall back to a steepest-descent step scaled by the diagonal when
		// the normal-equations matrix is not positive definite at this
		// lambda (can happen transiently at very small lambda); a larger
		// lambda on the next trial will restore definiteness.
		dx := make([]float64, n)
		for i := range dx {
			dx[i] = b[i] * saVar[i] / (1 + lambda)
		}
		return dx
	}
	var dxVec mat.VecDense
	if err := chol.SolveVecTo(&dxVec, mat.NewVecDense(n, b)); err != nil {
		dx := make([]float64, n)
		for i := range dx {
			dx[i] = b[i] * saVar[i] / (1 + lambda)
		}
		return dx
	}
	return append([]float64(nil), dxVec.RawVector().Data...)
}

// normalizedStepSize returns the Rodgers "d_i^2" convergence metric:
// dx^T [(1+lambda)Sa^-1 + K^T Se^-1 K] dx / n.
func normalizedStepSize(k *mat.Dense, seVar, saVar, dx []float64, lambda float64) float64 {
	_, n := k.Dims()
	if n == 0 {
		return 0
	}
	a := mat.NewSymDense(n, nil)
	m, _ := k.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for r := 0; r < m; r++ {
				sum += k.At(r, i) * k.At(r, j) / seVar[r]
			}
			if i == j {
				sum += (1 + lambda) / saVar[i]
			}
			a.SetSym(i, j, sum)
		}
	}
	var adx mat.VecDense
	adx.MulVec(a, mat.NewVecDense(n, dx))
	var num float64
	for i := 0; i < n; i++ {
		num += dx[i] * adx.AtVec(i)
	}
	return num / float64(n)
}

// chiSquared returns the combined measurement + a priori cost
// (y-F(x))^T Se^-1 (y-F(x)) + (x-xa)^T Sa^-1 (x-xa).
func chiSquared(yMeas, y []float64, seVar, x, xa, saVar []float64) float64 {
	var cost float64
	for r := range yMeas {
		d := yMeas[r] - y[r]
		cost += d * d / seVar[r]
	}
	for i := range x {
		d := x[i] - xa[i]
		cost += d * d / saVar[i]
	}
	return cost
}

// posteriorAnalysis computes the posterior covariance S_ret = (Sa^-1 +
// K^T Se^-1 K)^-1, the gain matrix G = S_ret K^T Se^-1, and the
// averaging kernel A = G K (spec §4.12's post-analysis quantities).
func posteriorAnalysis(k *mat.Dense, seVar, saVar []float64) (sRet, gain, avgKernel *mat.Dense) {
	m, n := k.Dims()

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum float64
			for r := 0; r < m; r++ {
				sum += k.At(r, i) * k.At(r, j) / seVar[r]
			}
			if i == j {
				sum += 1 / saVar[i]
			}
			a.SetSym(i, j, sum)
		}
	}

	var chol mat.Cholesky
	sRetSym := mat.NewSymDense(n, nil)
	if chol.Factorize(a) {
		var inv mat.Dense
		if chol.InverseTo(&inv) == nil {
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					sRetSym.SetSym(i, j, inv.At(i, j))
				}
			}
		}
	}
	sRet = mat.DenseCopyOf(sRetSym)

	kTSeInv := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for r := 0; r < m; r++ {
			kTSeInv.Set(i, r, k.At(r, i)/seVar[r])
		}
	}
	gain = mat.NewDense(n, m, nil)
	gain.Mul(sRet, kTSeInv)

	avgKernel = mat.NewDense(n, n, nil)
	avgKernel.Mul(gain, k)

	return sRet, gain, avgKernel
}

// chi2PerDOF is a convenience used by CLI/logging callers to report
// reduced chi-squared alongside RetrievalResult.Chi2.
func chi2PerDOF(chi2 float64, m, n int) float64 {
	dof := float64(m - n)
	if dof <= 0 {
		return math.NaN()
	}
	return chi2 / dof
}
