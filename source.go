package irt

import "math"

// Planck-law constants, named after the C1/C2 macros in the source
// model's header: radiance Planck(T, nu) = c1*nu^3 / (exp(c2*nu/T) - 1)
// in W m^-2 sr^-1 (cm^-1)^-1, with nu in cm^-1 and T in K.
const (
	planckC1 = 1.191042953e-5
	planckC2 = 1.4387770
)

// Planck returns the blackbody spectral radiance at temperature T [K]
// and wavenumber nu [cm^-1] (spec §3, "sr equals the analytical Planck
// function at st").
func Planck(T, nu float64) float64 {
	return planckC1 * nu * nu * nu / (math.Exp(planckC2*nu/T) - 1)
}

// Bright inverts Planck: given a radiance and a wavenumber, return the
// brightness temperature (spec §4.9, "inverse Planck formula").
func Bright(rad, nu float64) float64 {
	if rad <= 0 {
		return 0
	}
	return planckC2 * nu / math.Log(planckC1*nu*nu*nu/rad+1)
}

// SegmentSource returns src[d] = source(d, Tseg) per spec §4.8, where
// Tseg is the segment mean temperature, clamped to [TMIN,TMAX]. If the
// channel's window falls inside the configured cloud-layer spectral grid,
// the result is blended with the local-temperature Planck value weighted
// by the cloud extinction profile (clz, cldz, clk), per spec §4.8.
func SegmentSource(lut *LUT, ctl *Control, d int, Tseg float64, cloudWeight float64, atm *Atmosphere) float64 {
	Tc, _ := clamp("source_function_T", Tseg, TMIN, TMAX)
	src := lut.Source(d, Tc)
	if cloudWeight <= 0 {
		return src
	}
	window := ctl.Window[d]
	if window < 0 || window >= len(atm.CloudK) {
		return src
	}
	cloudExt := atm.CloudK[window]
	if cloudExt <= 0 {
		return src
	}
	cloudSrc := Planck(Tc, ctl.Nu[d])
	w := cloudWeight
	if w > 1 {
		w = 1
	}
	return src*(1-w) + cloudSrc*w
}
