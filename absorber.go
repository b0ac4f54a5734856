package irt

import (
	"errors"
	"math"
)

var (
	errExternalNotConfigured = errors.New("external forward model selected but no RFM command configured")
	errUnknownForwardModel   = errors.New("unrecognized forward model selector")
)

// Absorber is the polymorphic per-segment transmittance operation
// required by spec §9's re-architecture flag ("Model as a sum type
// {CGA, EGA, External} with a single polymorphic
// segment_transmittance(state, point_index) -> per-channel tau").
type Absorber interface {
	// SegmentTransmittance returns tau_seg[d] for every channel at LOS
	// point index i, given the path traced so far in los.Points[0:i+1].
	SegmentTransmittance(lut *LUT, ctl *Control, los *LOS, i int) ([]float64, error)
}

// bilinearEps interpolates emissivity at (p,T,u) over the four (logP,T)
// corners bracketing p and T on gas table tbl, per spec §4.7's CGA/EGA
// shared bilinear step: "locating the two bracketing pressure levels on
// the (d,g) axis, at each of them locating the two bracketing
// temperatures, at each (p,T) corner interpolating emissivity at u via
// the LUT, then bilinear interpolation in (log p, T)".
func bilinearEps(lut *LUT, d, g int, tbl *GasTable, p, T, u float64) float64 {
	np := len(tbl.P)
	if np == 1 {
		it := bracketTemp(tbl.T[0], T)
		e0 := lut.EpsAt(d, g, 0, it, u)
		e1 := lut.EpsAt(d, g, 0, it+1, u)
		return Lin(tbl.T[0][it], e0, tbl.T[0][it+1], e1, T)
	}
	ip := LocateIrr(tbl.P, np, p)

	it0 := bracketTemp(tbl.T[ip], T)
	e00 := lut.EpsAt(d, g, ip, it0, u)
	e01 := lut.EpsAt(d, g, ip, it0+1, u)
	eLo := Lin(tbl.T[ip][it0], e00, tbl.T[ip][it0+1], e01, T)

	it1 := bracketTemp(tbl.T[ip+1], T)
	e10 := lut.EpsAt(d, g, ip+1, it1, u)
	e11 := lut.EpsAt(d, g, ip+1, it1+1, u)
	eHi := Lin(tbl.T[ip+1][it1], e10, tbl.T[ip+1][it1+1], e11, T)

	return LogX(tbl.P[ip], eLo, tbl.P[ip+1], eHi, p)
}

func bracketTemp(taxis []float64, T float64) int {
	return LocateIrr(taxis, len(taxis), T)
}

// CGAAbsorber implements the Curtis-Godson Approximation (spec §4.7).
type CGAAbsorber struct {
	prevPathTau [][]float64 // [channel][gas] path transmittance at the previous point
}

// NewCGAAbsorber returns a CGAAbsorber ready to walk a LOS from its first
// point (prevPathTau starts at 1, i.e. no absorption).
func NewCGAAbsorber(nd, ng int) *CGAAbsorber {
	prev := make([][]float64, nd)
	for d := range prev {
		prev[d] = make([]float64, ng)
		for g := range prev[d] {
			prev[d][g] = 1
		}
	}
	return &CGAAbsorber{prevPathTau: prev}
}

func (c *CGAAbsorber) SegmentTransmittance(lut *LUT, ctl *Control, los *LOS, i int) ([]float64, error) {
	pt := los.Points[i]
	tauSeg := make([]float64, ctl.ND)
	for d := 0; d < ctl.ND; d++ {
		tauSeg[d] = 1
	}
	for g := 0; g < ctl.NG; g++ {
		for d := 0; d < ctl.ND; d++ {
			tbl := lut.Get(d, g)
			var eps float64
			if tbl != nil {
				eps = bilinearEps(lut, d, g, tbl, pt.CGP[g], pt.CGT[g], pt.CGU[g])
			}
			pathTau := 1 - eps
			prev := c.prevPathTau[d][g]
			var ratio float64
			if prev > 0 {
				ratio = pathTau / prev
			}
			tauSeg[d] *= ratio
			c.prevPathTau[d][g] = pathTau
		}
	}
	applyAerosolAndContinuum(ctl, pt, tauSeg)
	return tauSeg, nil
}

// EGAAbsorber implements the Emissivity Growth Approximation (spec §4.7).
type EGAAbsorber struct {
	uEff    [][]float64 // [channel][gas] running effective column density
	epsPrev [][]float64 // [channel][gas] emissivity at the previous point
	pPrev, tPrev float64
	first   bool
}

// NewEGAAbsorber returns an EGAAbsorber ready to walk a LOS from its
// first point.
func NewEGAAbsorber(nd, ng int) *EGAAbsorber {
	u := make([][]float64, nd)
	e := make([][]float64, nd)
	for d := range u {
		u[d] = make([]float64, ng)
		e[d] = make([]float64, ng)
	}
	return &EGAAbsorber{uEff: u, epsPrev: e, first: true}
}

func (a *EGAAbsorber) SegmentTransmittance(lut *LUT, ctl *Control, los *LOS, i int) ([]float64, error) {
	pt := los.Points[i]
	tauSeg := make([]float64, ctl.ND)
	for d := 0; d < ctl.ND; d++ {
		tauSeg[d] = 1
	}
	for g := 0; g < ctl.NG; g++ {
		for d := 0; d < ctl.ND; d++ {
			tbl := lut.Get(d, g)
			var eps float64
			if tbl != nil {
				if a.first {
					a.uEff[d][g] = pt.U[g]
				} else {
					// Invert the LUT at the table grid point bracketing the
					// previous point's (p,T) from below to get the
					// effective column density that produced the previous
					// emissivity, then add this segment's u.
					ipPrev := LocateIrr(tbl.P, len(tbl.P), a.pPrev)
					itPrev := bracketTemp(tbl.T[ipPrev], a.tPrev)
					uEffPrev := lut.UAt(d, g, ipPrev, itPrev, a.epsPrev[d][g])
					a.uEff[d][g] = uEffPrev + pt.U[g]
				}
				eps = bilinearEps(lut, d, g, tbl, pt.P, pt.T, a.uEff[d][g])
			}
			pathTauPrev := 1 - a.epsPrev[d][g]
			if a.first {
				pathTauPrev = 1
			}
			pathTau := 1 - eps
			var ratio float64
			if pathTauPrev > 0 {
				ratio = pathTau / pathTauPrev
			}
			tauSeg[d] *= ratio
			a.epsPrev[d][g] = eps
		}
	}
	a.first = false
	a.pPrev, a.tPrev = pt.P, pt.T
	applyAerosolAndContinuum(ctl, pt, tauSeg)
	return tauSeg, nil
}

// applyAerosolAndContinuum applies aerosol extinction and continuum
// absorption multiplicatively to tauSeg in place:
// tau_seg[d] *= exp(-k*ds) * exp(-beta[d]), where beta[d] from
// SegmentContinuumBeta is already an optical depth over the segment
// (ds is folded in by SegmentContinuum).
func applyAerosolAndContinuum(ctl *Control, pt *LOSPoint, tauSeg []float64) {
	beta := SegmentContinuumBeta(ctl, pt)
	for d := 0; d < ctl.ND; d++ {
		w := ctl.Window[d]
		var kExt float64
		if w >= 0 && w < len(pt.K) {
			kExt = pt.K[w]
		}
		tauSeg[d] *= math.Exp(-kExt*pt.DS) * math.Exp(-beta[d])
	}
}

// NewAbsorber constructs the configured forward-model's absorber.
func NewAbsorber(ctl *Control) (Absorber, error) {
	switch ctl.Forward {
	case ForwardCGA:
		return NewCGAAbsorber(ctl.ND, ctl.NG), nil
	case ForwardEGA:
		return NewEGAAbsorber(ctl.ND, ctl.NG), nil
	case ForwardExternal:
		return nil, NewConfigError("forward_model", errExternalNotConfigured)
	default:
		return nil, NewConfigError("forward_model", errUnknownForwardModel)
	}
}
