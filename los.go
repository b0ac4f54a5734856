package irt

// PrepareLOS computes, for every point in los, the per-gas column density
// and Curtis-Godson cumulative quantities (spec §4.6). It must be called
// once after Trace and before the absorber-model stage (L6), since CGA
// reads CGP/CGT/CGU and EGA reads U directly.
func PrepareLOS(ctl *Control, los *LOS) {
	ng := ctl.NG
	cgu := make([]float64, ng)
	cgpu := make([]float64, ng) // running sum of p*u, for the weighted mean
	cgtu := make([]float64, ng) // running sum of T*u

	for _, pt := range los.Points {
		pt.U = make([]float64, ng)
		pt.CGP = make([]float64, ng)
		pt.CGT = make([]float64, ng)
		pt.CGU = make([]float64, ng)

		for g := 0; g < ng; g++ {
			// u = q*p/(kB*T)*ds*1e5 (spec §4.6; the 1e5 converts ds from
			// km to cm). p is converted from hPa to Pa here so kB can be
			// used in its SI value; the resulting number density in m^-3
			// is scaled by 1e-6 to cm^-3 so that u is in molec/cm^2.
			u := pt.Q[g] * (pt.P * 100.0) / (kBoltzmann * pt.T) * 1.0e-6 * (pt.DS * 1.0e5)
			u, _ = clamp("column_density", u, UMIN, UMAX)

			cgu[g] += u
			cgpu[g] += pt.P * u
			cgtu[g] += pt.T * u

			pt.U[g] = u
			pt.CGU[g] = cgu[g]
			if cgu[g] > 0 {
				pt.CGP[g] = cgpu[g] / cgu[g]
				pt.CGT[g] = cgtu[g] / cgu[g]
			} else {
				pt.CGP[g] = pt.P
				pt.CGT[g] = pt.T
			}
		}
	}
}

// SegmentContinuumBeta returns the per-channel additive continuum
// contribution beta[d] for one LOS point (spec §4.6, "Continuum
// contribution beta[d] per segment ... used additively").
func SegmentContinuumBeta(ctl *Control, pt *LOSPoint) []float64 {
	beta := make([]float64, ctl.ND)
	var qH2O, uH2O float64
	if ctl.IdxH2O >= 0 {
		qH2O = pt.Q[ctl.IdxH2O]
		uH2O = pt.U[ctl.IdxH2O]
	}
	for d := 0; d < ctl.ND; d++ {
		beta[d] = SegmentContinuum(ctl.Continua, ctl.Nu[d], pt.P, pt.T, qH2O, uH2O, pt.DS)
	}
	return beta
}
