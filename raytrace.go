package irt

import (
	"errors"
	"math"
)

// refractivityCoeff is the coefficient in n-1 = refractivityCoeff*p/T
// (spec §4.5 step 4).
const refractivityCoeff = 7.753e-5

// refractivity returns n-1 at pressure p [hPa] and temperature T [K].
func refractivity(p, T float64) float64 {
	return refractivityCoeff * p / T
}

// Trace produces a discretised line of sight from the observer to the
// view point through atm, per spec §4.5. ctl supplies rayds/raydz step
// controls and the refraction flag. The returned LOS's Points are in
// travel order (observer first).
func Trace(ctl *Control, atm *Atmosphere, obsZ, obsLon, obsLat, vpZ, vpLon, vpLat float64) (*LOS, error) {
	ox, oy, oz := GeoToCart(obsZ, obsLon, obsLat)
	vx, vy, vz := GeoToCart(vpZ, vpLon, vpLat)
	dx, dy, dz := vx-ox, vy-oy, vz-oz
	norm := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if norm == 0 {
		return nil, NewConfigError("view_point", errSameAsObserver)
	}
	dx, dy, dz = dx/norm, dy/norm, dz/norm

	los := &LOS{Points: make([]*LOSPoint, 0, NLOSDefault)}

	x, y, z := ox, oy, oz
	var prevZ, lastDS float64
	var havePrev bool
	var nPrev float64

	topZ := atm.Z[atm.NPoints()-1]

	for step := 0; ; step++ {
		if len(los.Points) >= NLOSMax {
			return nil, NewBoundsError("LOS points", len(los.Points), NLOSMax)
		}

		ds := ctl.RayDS
		if ctl.Refraction && havePrev {
			curZ, _, _ := CartToGeo(x, y, z)
			dzds := (curZ - prevZ) / lastDS
			if math.Abs(dzds) > 1.0e-9 {
				ds = math.Min(ctl.RayDS, ctl.RayDZ/math.Abs(dzds))
			}
		}

		nx, ny, nz := x+ds*dx, y+ds*dy, z+ds*dz
		alt, lon, lat := CartToGeo(nx, ny, nz)

		p, T, q, k := atm.InterpAt(alt)

		point := &LOSPoint{Z: alt, Lon: lon, Lat: lat, P: p, T: T, Q: q, K: k, DS: ds}

		if ctl.Refraction {
			nCurr := 1 + refractivity(p, T)
			if havePrev {
				// Decompose direction into radial/tangential components
				// at the new point and rescale the tangential part by
				// (n_prev/n_curr), per spec §4.5 step 4.
				rx, ry, rz := nx, ny, nz
				rnorm := math.Sqrt(rx*rx + ry*ry + rz*rz)
				rx, ry, rz = rx/rnorm, ry/rnorm, rz/rnorm
				radialComp := dx*rx + dy*ry + dz*rz
				tx, ty, tz := dx-radialComp*rx, dy-radialComp*ry, dz-radialComp*rz
				scale := nPrev / nCurr
				tx, ty, tz = tx*scale, ty*scale, tz*scale
				ndx, ndy, ndz := radialComp*rx+tx, radialComp*ry+ty, radialComp*rz+tz
				nnorm := math.Sqrt(ndx*ndx + ndy*ndy + ndz*ndz)
				dx, dy, dz = ndx/nnorm, ndy/nnorm, ndz/nnorm
			}
			nPrev = nCurr
		}

		los.Points = append(los.Points, point)
		// Remember the altitude this step started from and its length,
		// so the next step can estimate dz/ds from the last two points.
		prevZ, _, _ = CartToGeo(x, y, z)
		lastDS = ds
		x, y, z = nx, ny, nz
		havePrev = true

		if alt <= 0 {
			point.Z = 0
			point.Surface = true
			los.HitSurface = true
			break
		}
		movingUp := dz_radial(x, y, z, dx, dy, dz) > 0
		if alt >= topZ && movingUp {
			los.ExitToSpace = true
			break
		}
	}

	// Tangent point: the LOS sample of minimum altitude (spec §4.5 step 6).
	minIdx := 0
	for i, pt := range los.Points {
		if pt.Z < los.Points[minIdx].Z {
			minIdx = i
		}
	}
	los.TangentIdx = minIdx
	return los, nil
}

// dz_radial returns the radial component of direction (dx,dy,dz) at
// position (x,y,z): positive means the ray is moving away from Earth's
// centre (upward).
func dz_radial(x, y, z, dx, dy, dz float64) float64 {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0
	}
	return (x*dx + y*dy + z*dz) / r
}

var errSameAsObserver = errors.New("view point coincides with observer position")
