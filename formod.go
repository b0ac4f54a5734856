package irt

// RunForwardModel traces every ray in obs against atm and integrates the
// RT equation into obs.Rad/obs.Tau, running rays concurrently via
// ParallelFor (spec §4.5-§4.9, tying L4-L8 together). obs must already
// have its geometry fields (ObsZ/ObsLon/ObsLat/VPZ/VPLon/VPLat) filled;
// this is the single entry point both the `formod` CLI subcommand and
// the retrieval loop's per-iteration re-linearization call.
func RunForwardModel(lut *LUT, ctl *Control, atm *Atmosphere, obs *Observation) error {
	n := obs.NRays()
	// Allocate the per-ray output rows up front so the concurrent
	// IntegrateRay calls only write their own ray index.
	if obs.Rad == nil {
		obs.Rad = make([][]float64, n)
	}
	if obs.Tau == nil {
		obs.Tau = make([][]float64, n)
	}
	return ParallelFor(n, func(r int) error {
		los, err := Trace(ctl, atm, obs.ObsZ[r], obs.ObsLon[r], obs.ObsLat[r], obs.VPZ[r], obs.VPLon[r], obs.VPLat[r])
		if err != nil {
			return err
		}
		obs.TPZ[r], obs.TPLon[r], obs.TPLat[r] = los.TangentPoint()
		return IntegrateRay(lut, ctl, atm, los, obs, r)
	})
}

// RunForwardModelSeries runs RunForwardModel once per atmosphere in
// profiles against the same ray geometry template obsTemplate, returning
// one Observation per profile (spec.md's original_source-derived
// "multi-profile / time-series forward runs", SPEC_FULL.md §12). Each
// profile gets its own cloned Observation so callers can compare results
// across the series without aliasing.
func RunForwardModelSeries(lut *LUT, ctl *Control, profiles []*Atmosphere, obsTemplate *Observation) ([]*Observation, error) {
	results := make([]*Observation, len(profiles))
	err := ParallelFor(len(profiles), func(i int) error {
		obs := cloneObservationGeometry(obsTemplate)
		if err := RunForwardModel(lut, ctl, profiles[i], obs); err != nil {
			return err
		}
		results[i] = obs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func cloneObservationGeometry(src *Observation) *Observation {
	return &Observation{
		Time:    append([]float64(nil), src.Time...),
		ObsZ:    append([]float64(nil), src.ObsZ...),
		ObsLon:  append([]float64(nil), src.ObsLon...),
		ObsLat:  append([]float64(nil), src.ObsLat...),
		VPZ:     append([]float64(nil), src.VPZ...),
		VPLon:   append([]float64(nil), src.VPLon...),
		VPLat:   append([]float64(nil), src.VPLat...),
		TPZ:     make([]float64, len(src.ObsZ)),
		TPLon:   make([]float64, len(src.ObsZ)),
		TPLat:   make([]float64, len(src.ObsZ)),
	}
}

// ContributionBreakdown re-runs the forward model once per gas with that
// gas's volume mixing ratio zeroed out, and returns, for each gas name,
// the per-ray per-channel radiance obtained with that gas absent
// (original_source's emitter-contribution breakdown, SPEC_FULL.md §12).
// The caller can subtract each result from the full-gas baseline radiance
// to attribute radiance to individual emitters.
func ContributionBreakdown(lut *LUT, ctl *Control, atm *Atmosphere, obs *Observation) (map[string]*Observation, error) {
	out := make(map[string]*Observation, ctl.NG)
	for g := 0; g < ctl.NG; g++ {
		name := gasLabel(ctl, g)
		zeroed := zeroGasAtmosphere(atm, g)
		zObs := cloneObservationGeometry(obs)
		if err := RunForwardModel(lut, ctl, zeroed, zObs); err != nil {
			return nil, err
		}
		out[name] = zObs
	}
	return out, nil
}

func gasLabel(ctl *Control, g int) string {
	if g < len(ctl.GasNames) {
		return ctl.GasNames[g]
	}
	return "gas"
}

func zeroGasAtmosphere(atm *Atmosphere, g int) *Atmosphere {
	clone := *atm
	clone.Q = make([][]float64, len(atm.Q))
	for i, row := range atm.Q {
		r := append([]float64(nil), row...)
		if g < len(r) {
			r[g] = 0
		}
		clone.Q[i] = r
	}
	return &clone
}
