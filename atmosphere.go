package irt

import "math"

// InterpAt locates z's bracket in the atmosphere's altitude axis and
// returns (p, T, q[.], k[.]) interpolated per spec §4.4: T, q, k linear
// in z; p log-in-y vs z (exponential with altitude). Out-of-range z
// extrapolates using the same rule on the nearest segment, per LogY/Lin's
// own extrapolation contract.
func (a *Atmosphere) InterpAt(z float64) (p, T float64, q, k []float64) {
	n := a.NPoints()
	i := LocateIrr(a.Z, n, z)
	z0, z1 := a.Z[i], a.Z[i+1]

	p = LogY(z0, a.P[i], z1, a.P[i+1], z)
	T = Lin(z0, a.T[i], z1, a.T[i+1], z)

	ng := 0
	if n > 0 {
		ng = len(a.Q[0])
	}
	q = make([]float64, ng)
	for g := 0; g < ng; g++ {
		q[g] = Lin(z0, a.Q[i][g], z1, a.Q[i+1][g], z)
	}

	nw := 0
	if n > 0 {
		nw = len(a.K[0])
	}
	k = make([]float64, nw)
	for w := 0; w < nw; w++ {
		k[w] = Lin(z0, a.K[i][w], z1, a.K[i+1][w], z)
	}
	return
}

// dryAirMolarMass is the mean molar mass of dry air [g/mol], used by
// Hydrostatic's analytical integration.
const dryAirMolarMass = 28.9644

// gravity0 is standard surface gravity [m/s^2], and gasConstant is the
// universal gas constant [J/(mol*K)].
const (
	gravity0    = 9.80665
	gasConstant = 8.3144598
)

// Hydrostatic re-derives the pressure column of atm from its temperature
// profile and a reference level zref using analytical hydrostatic
// integration with the mean molecular mass of dry air (spec §4.4,
// "hydrostatic(atm, zref)"). pRef is the pressure at zref [hPa].
func Hydrostatic(atm *Atmosphere, zref, pRef float64) {
	n := atm.NPoints()
	if n == 0 {
		return
	}
	iref := LocateIrr(atm.Z, n, zref)
	// Scale height uses the mean temperature of each layer between
	// adjacent levels, so non-isothermal profiles are integrated
	// piecewise outward from zref.
	logP := make([]float64, n)
	// Carry pRef from zref to the bracketing grid level Z[iref] using the
	// scale height at that level.
	Href := (gasConstant * atm.T[iref]) / (dryAirMolarMass * 1.0e-3 * gravity0) / 1000.0
	logP[iref] = math.Log(pRef) - (atm.Z[iref]-zref)/Href
	// integrate upward from iref
	for i := iref + 1; i < n; i++ {
		Tmean := 0.5 * (atm.T[i-1] + atm.T[i])
		H := (gasConstant * Tmean) / (dryAirMolarMass * 1.0e-3 * gravity0) / 1000.0 // km
		dz := atm.Z[i] - atm.Z[i-1]
		logP[i] = logP[i-1] - dz/H
	}
	// integrate downward from iref
	for i := iref - 1; i >= 0; i-- {
		Tmean := 0.5 * (atm.T[i+1] + atm.T[i])
		H := (gasConstant * Tmean) / (dryAirMolarMass * 1.0e-3 * gravity0) / 1000.0
		dz := atm.Z[i+1] - atm.Z[i]
		logP[i] = logP[i+1] + dz/H
	}
	for i := 0; i < n; i++ {
		atm.P[i] = math.Exp(logP[i])
	}
}

// EnsureAscending reorders atm in place to ascending altitude if it was
// loaded in descending order, recording the reversal on atm.Reversed so
// that a writer can restore the producer's original convention
// (SPEC_FULL.md §9's altitude-ordering decision).
func (a *Atmosphere) EnsureAscending() {
	n := a.NPoints()
	if n < 2 || a.Z[n-1] >= a.Z[0] {
		return
	}
	a.Reversed = true
	reverseFloats(a.Time)
	reverseFloats(a.Z)
	reverseFloats(a.Lon)
	reverseFloats(a.Lat)
	reverseFloats(a.P)
	reverseFloats(a.T)
	reverseRows(a.Q)
	reverseRows(a.K)
}

func reverseFloats(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseRows(s [][]float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
