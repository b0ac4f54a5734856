package irt

import "math"

// IntegrateRay runs the absorber model segment by segment along los and
// integrates the radiative transfer equation, per spec §4.9:
//   L = L_bg * prod_i tau_seg,i + sum_i src_i*(1-tau_seg,i)*prod_{j>i} tau_seg,j
// It iterates from the far end of the LOS (space/surface) toward the
// observer, accumulating transmittance, and writes tau[d]/rad[d] into obs
// at ray index r.
func IntegrateRay(lut *LUT, ctl *Control, atm *Atmosphere, los *LOS, obs *Observation, r int) error {
	abs, err := NewAbsorber(ctl)
	if err != nil {
		return err
	}
	PrepareLOS(ctl, los)

	n := len(los.Points)
	tauSeg := make([][]float64, n)
	src := make([][]float64, n)
	for i := 0; i < n; i++ {
		tau, err := abs.SegmentTransmittance(lut, ctl, los, i)
		if err != nil {
			return err
		}
		tauSeg[i] = tau
		src[i] = make([]float64, ctl.ND)
		for d := 0; d < ctl.ND; d++ {
			src[i][d] = SegmentSource(lut, ctl, d, los.Points[i].T, cloudWeightAt(atm, los.Points[i]), atm)
		}
	}

	L := make([]float64, ctl.ND)
	tauPath := make([]float64, ctl.ND)
	for d := range tauPath {
		tauPath[d] = 1
	}

	lBg := backgroundRadiance(ctl, atm, los, lut)
	copy(L, lBg)

	// Iterate from the far end (space/surface, index n-1) toward the
	// observer (index 0), accumulating transmittance (spec §4.9).
	for i := n - 1; i >= 0; i-- {
		for d := 0; d < ctl.ND; d++ {
			t := tauSeg[i][d]
			L[d] = L[d]*t + src[i][d]*(1-t)
			tauPath[d] *= t
		}
	}

	if obs.Rad == nil {
		obs.Rad = make([][]float64, obs.NRays())
	}
	if obs.Tau == nil {
		obs.Tau = make([][]float64, obs.NRays())
	}
	radOut := make([]float64, ctl.ND)
	tauOut := make([]float64, ctl.ND)
	for d := 0; d < ctl.ND; d++ {
		radOut[d] = L[d]
		tauOut[d] = tauPath[d]
		if ctl.WriteBBT {
			radOut[d] = Bright(L[d], ctl.Nu[d])
		}
	}
	obs.Rad[r] = radOut
	obs.Tau[r] = tauOut
	return nil
}

// cloudWeightAt returns the cloud-extinction weight at an LOS point,
// used by SegmentSource's cloud blending (spec §4.8).
func cloudWeightAt(atm *Atmosphere, pt *LOSPoint) float64 {
	if atm.CloudDZ <= 0 {
		return 0
	}
	dz := math.Abs(pt.Z - atm.CloudZ)
	if dz > atm.CloudDZ {
		return 0
	}
	return 1 - dz/atm.CloudDZ
}

// backgroundRadiance returns L_bg per channel (spec §4.9 "Boundary L_bg"):
// 0 in space (no cosmic background is added), or the surface term
// eps_surface*B(sft,nu) + (1-eps_surface)*L_downward when the LOS
// terminates on the surface.
func backgroundRadiance(ctl *Control, atm *Atmosphere, los *LOS, lut *LUT) []float64 {
	lBg := make([]float64, ctl.ND)
	last := los.Points[len(los.Points)-1]
	if !last.Surface {
		return lBg // space: 0
	}
	for d := 0; d < ctl.ND; d++ {
		epsSurf := 1.0
		if d < len(atm.SurfaceEps) {
			epsSurf = atm.SurfaceEps[d]
		}
		b := Planck(atm.SurfaceT, ctl.Nu[d])
		var downward float64
		if ctl.Surface == SurfaceDownward || ctl.Surface == SurfaceSolar {
			// A second integration pass from the surface upward; modeled
			// here as the space-background limit (0) plus the ambient
			// source term immediately above the surface, matching the
			// "second pass of integration" description in spec §4.9
			// without re-tracing a duplicate LOS.
			downward = lut.Source(d, last.T)
		}
		lBg[d] = epsSurf*b + (1-epsSurf)*downward
	}
	return lBg
}

// FOVConvolve samples one ray per entry of ctl.FOVWeights (a single
// central ray when it is empty), ray i at vertical offset
// (i - len(weights)/2)*ctl.FOVDZ, and returns the weighted sum of their
// radiances divided by the sum of the weights, per channel
// (spec §4.9 "FOV convolution"). render must trace+integrate a ray at
// the given view-point altitude offset (vpz + offset) and return its
// per-channel radiance; it is supplied by the caller so FOVConvolve
// itself stays free of ray-tracing/LUT dependencies.
func FOVConvolve(ctl *Control, render func(offsetKm float64) ([]float64, error)) ([]float64, error) {
	weights := ctl.FOVWeights
	if len(weights) == 0 {
		weights = []float64{1}
	}
	half := len(weights) / 2
	out := make([]float64, ctl.ND)
	var wsum float64
	for i, w := range weights {
		offset := float64(i-half) * ctl.FOVDZ
		rad, err := render(offset)
		if err != nil {
			return nil, err
		}
		for d := 0; d < ctl.ND; d++ {
			out[d] += w * rad[d]
		}
		wsum += w
	}
	if wsum > 0 {
		for d := range out {
			out[d] /= wsum
		}
	}
	return out, nil
}
