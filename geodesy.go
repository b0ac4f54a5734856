package irt

import "math"

// deg2rad and rad2deg convert between degrees and radians, named after the
// DEG2RAD/RAD2DEG macros in the source model's header.
const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// GeoToCart converts (altitude, longitude, latitude) in (km, deg, deg) to
// a Cartesian 3-vector at radius RE+z (spec §4.1 op 1).
func GeoToCart(z, lon, lat float64) (x, y, zc float64) {
	r := RE + z
	lo := lon * deg2rad
	la := lat * deg2rad
	cosLat := math.Cos(la)
	x = r * cosLat * math.Cos(lo)
	y = r * cosLat * math.Sin(lo)
	zc = r * math.Sin(la)
	return
}

// CartToGeo inverts GeoToCart (spec §4.1 op 2).
func CartToGeo(x, y, z float64) (alt, lon, lat float64) {
	r := math.Sqrt(x*x + y*y + z*z)
	alt = r - RE
	lon = math.Atan2(y, x) * rad2deg
	lat = math.Asin(z/r) * rad2deg
	return
}

// LocateIrr returns i such that xx[i] <= x <= xx[i+1] (or the reverse
// bracket, for a descending array), via binary search on a monotone
// array of length n, clamped to [0, n-2] (spec §4.1 op 3).
func LocateIrr(xx []float64, n int, x float64) int {
	if n < 2 {
		return 0
	}
	ascending := xx[n-1] >= xx[0]
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if (xx[mid] <= x) == ascending {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo > n-2 {
		lo = n - 2
	}
	if lo < 0 {
		lo = 0
	}
	return lo
}

// LocateReg is the O(1) bracket lookup for a uniform grid starting at x0
// with spacing dx (spec §4.1 op 4).
func LocateReg(x0, dx float64, n int, x float64) int {
	if dx == 0 {
		return 0
	}
	i := int((x - x0) / dx)
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i
}

// LocateTbl brackets x on the LUT's ascending column-density axis
// (spec §4.1 op 5). The axis is stored as float64 in this implementation
// (the source model's 32-bit float axis is a storage optimisation that
// growable Go containers do not need); the axis is ascending
// (non-decreasing) as the LUT invariant requires.
func LocateTbl(xx []float64, n int, x float64) int {
	return LocateIrr(xx, n, x)
}

// Lin performs linear interpolation/extrapolation between (x0,y0) and
// (x1,y1) at x, holding the segment's slope outside [x0,x1] (spec §4.1 op 6,
// "extrapolate by holding the nearest segment's slope").
func Lin(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// LogX interpolates log-x/linear-y between (x0,y0) and (x1,y1) at x,
// falling back to Lin if any of x0, x1, x is non-positive (spec §4.1 op 6).
func LogX(x0, y0, x1, y1, x float64) float64 {
	if x0 <= 0 || x1 <= 0 || x <= 0 {
		return Lin(x0, y0, x1, y1, x)
	}
	return Lin(math.Log(x0), y0, math.Log(x1), y1, math.Log(x))
}

// LogY interpolates linear-x/log-y between (x0,y0) and (x1,y1) at x,
// falling back to Lin if either endpoint y is non-positive (spec §4.1 op 6).
func LogY(x0, y0, x1, y1, x float64) float64 {
	if y0 <= 0 || y1 <= 0 {
		return Lin(x0, y0, x1, y1, x)
	}
	return math.Exp(Lin(x0, math.Log(y0), x1, math.Log(y1), x))
}
