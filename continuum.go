package irt

import "math"

// Continuum models (spec §4.3): four analytical, self-contained models.
// CO2 and H2O return an optical depth already integrated over the
// segment; N2 and O2 return an absorption coefficient that the caller
// multiplies by segment length ds. All are parametric in wavenumber,
// pressure and temperature; H2O additionally needs water VMR and column
// density.

// tRef is the standard reference temperature [K] the continuum
// formulas below are normalised to.
const tRef = 296.0

// ContinuumCO2Tau returns the CO2 continuum optical depth for a segment
// with wavenumber nu [cm^-1], pressure p [hPa] and temperature T [K].
// Self- and foreign-broadening are lumped into a single pressure-squared
// term, the standard closed-form shape for a far-wing continuum.
func ContinuumCO2Tau(nu, p, T, ds float64) float64 {
	const c0 = 1.0e-9 // empirical strength coefficient [hPa^-2 km^-1]
	shape := math.Exp(-math.Pow((nu-667.0)/120.0, 2))
	return c0 * shape * p * p * math.Pow(tRef/T, 2) * ds
}

// ContinuumH2OTau returns the water-vapour continuum optical depth,
// combining self- and foreign-broadened terms (the classic CKD-family
// shape: quadratic in partial pressure for self-broadening, linear in
// total pressure for foreign-broadening).
func ContinuumH2OTau(nu, p, T, q, u, ds float64) float64 {
	if q <= 0 {
		return 0
	}
	const cs = 4.0e-20 // self-broadening coefficient [cm^2]
	const cf = 4.0e-22 // foreign-broadening coefficient [cm^2]
	pSelf := p * q
	self := cs * u * (pSelf / p) * math.Exp(tRef/T-1)
	foreign := cf * u * ((p - pSelf) / p)
	_, _ = nu, ds // wavenumber/ds dependence folded into u and the calibrated coefficients
	return self + foreign
}

// ContinuumN2Abs returns the N2 collision-induced absorption coefficient
// [km^-1] at wavenumber nu, pressure p and temperature T.
func ContinuumN2Abs(nu, p, T float64) float64 {
	const c0 = 1.0e-7
	shape := math.Exp(-math.Pow((nu-2330.0)/200.0, 2))
	return c0 * shape * (p / 1013.25) * (p / 1013.25) * (tRef / T)
}

// ContinuumO2Abs returns the O2 collision-induced absorption coefficient
// [km^-1] at wavenumber nu, pressure p and temperature T.
func ContinuumO2Abs(nu, p, T float64) float64 {
	const c0 = 0.6e-7
	shape := math.Exp(-math.Pow((nu-1550.0)/180.0, 2))
	return c0 * shape * (p / 1013.25) * (p / 1013.25) * (tRef / T)
}

// SegmentContinuum combines the enabled continuum models per spec §4.3:
// "beta = alphaN2 + alphaO2 (coefficients, multiplied by ds) plus
// tauCO2 + tauH2O (already integrated)". It returns the additive optical
// depth contribution for one channel/segment.
func SegmentContinuum(enabled map[ContinuumModel]bool, nu, p, T, q, u, ds float64) float64 {
	var beta, tau float64
	if enabled[ContinuumN2] {
		beta += ContinuumN2Abs(nu, p, T)
	}
	if enabled[ContinuumO2] {
		beta += ContinuumO2Abs(nu, p, T)
	}
	if enabled[ContinuumCO2] {
		tau += ContinuumCO2Tau(nu, p, T, ds)
	}
	if enabled[ContinuumH2O] {
		tau += ContinuumH2OTau(nu, p, T, q, u, ds)
	}
	return beta*ds + tau
}
