package irt

// PackState flattens the retrievable subset of atm into a StateVector,
// in the fixed quantity order {p, T, q[g], k[w], clz, cldz, clk[.], sft,
// sfeps[.]} required by spec §3/§4.11. Only altitude points that fall
// inside ctl.RetrievalWindow[quantity] are packed; a quantity absent from
// RetrievalWindow is skipped entirely (it is held fixed, not retrieved).
func PackState(atm *Atmosphere, ctl *Control) *StateVector {
	sv := &StateVector{}

	appendProfile := func(q Quantity, gasOrWindow int, values []float64) {
		win, ok := ctl.RetrievalWindow[q]
		if !ok {
			return
		}
		for i, z := range atm.Z {
			if z < win[0] || z > win[1] {
				continue
			}
			sv.X = append(sv.X, values[i])
			sv.Tags = append(sv.Tags, StateTag{Quantity: q, GasOrWindow: gasOrWindow, ProfileIndex: i})
		}
	}

	appendProfile(QuantityPressure, -1, atm.P)
	appendProfile(QuantityTemperature, -1, atm.T)
	for g := 0; g < ctl.NG; g++ {
		col := make([]float64, len(atm.Z))
		for i := range atm.Z {
			col[i] = atm.Q[i][g]
		}
		appendProfile(QuantityGas, g, col)
	}
	for w := 0; w < ctl.NW; w++ {
		col := make([]float64, len(atm.Z))
		for i := range atm.Z {
			col[i] = atm.K[i][w]
		}
		appendProfile(QuantityExtinction, w, col)
	}

	appendScalar := func(q Quantity, gasOrWindow int, value float64) {
		if _, ok := ctl.RetrievalWindow[q]; !ok {
			return
		}
		sv.X = append(sv.X, value)
		sv.Tags = append(sv.Tags, StateTag{Quantity: q, GasOrWindow: gasOrWindow, ProfileIndex: -1})
	}

	appendScalar(QuantityCloudHeight, -1, atm.CloudZ)
	appendScalar(QuantityCloudDepth, -1, atm.CloudDZ)
	for w := range atm.CloudK {
		appendScalar(QuantityCloudExtinction, w, atm.CloudK[w])
	}
	appendScalar(QuantitySurfaceTemperature, -1, atm.SurfaceT)
	for w := range atm.SurfaceEps {
		appendScalar(QuantitySurfaceEmissivity, w, atm.SurfaceEps[w])
	}

	return sv
}

// UnpackState writes sv back into atm, following the tags recorded by
// PackState (spec §4.11 `unpack_state`). It is the inverse of PackState
// for the same Control/Atmosphere shape.
func UnpackState(sv *StateVector, atm *Atmosphere, ctl *Control) {
	for i, tag := range sv.Tags {
		x := sv.X[i]
		switch tag.Quantity {
		case QuantityPressure:
			atm.P[tag.ProfileIndex] = x
		case QuantityTemperature:
			atm.T[tag.ProfileIndex] = x
		case QuantityGas:
			atm.Q[tag.ProfileIndex][tag.GasOrWindow] = x
		case QuantityExtinction:
			atm.K[tag.ProfileIndex][tag.GasOrWindow] = x
		case QuantityCloudHeight:
			atm.CloudZ = x
		case QuantityCloudDepth:
			atm.CloudDZ = x
		case QuantityCloudExtinction:
			atm.CloudK[tag.GasOrWindow] = x
		case QuantitySurfaceTemperature:
			atm.SurfaceT = x
		case QuantitySurfaceEmissivity:
			atm.SurfaceEps[tag.GasOrWindow] = x
		}
	}
}

// PackObs flattens obs.Rad into a Measurement,
// row-major with channel varying slower than ray (spec §3/§4.11
// `pack_obs`). asBT controls whether the flattened values are already
// brightness temperatures (Measurement.BT is set accordingly, it does not
// convert).
func PackObs(obs *Observation, nd int, asBT bool) *Measurement {
	nr := obs.NRays()
	y := make([]float64, 0, nd*nr)
	for d := 0; d < nd; d++ {
		for r := 0; r < nr; r++ {
			y = append(y, obs.Rad[r][d])
		}
	}
	return &Measurement{Y: y, NChannels: nd, NRays: nr, BT: asBT}
}

// UnpackObs is the inverse of PackObs: it writes m.Y back into obs.Rad in
// the same row-major (channel-slower) order.
func UnpackObs(m *Measurement, obs *Observation) {
	if obs.Rad == nil {
		obs.Rad = make([][]float64, m.NRays)
		for r := range obs.Rad {
			obs.Rad[r] = make([]float64, m.NChannels)
		}
	}
	for d := 0; d < m.NChannels; d++ {
		for r := 0; r < m.NRays; r++ {
			obs.Rad[r][d] = m.Y[d*m.NRays+r]
		}
	}
}
