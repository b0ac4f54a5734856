package irt

import (
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/fastrt/irt/internal/hash"
)

// GasTable holds one (channel, gas) emissivity table: a ragged set of
// pressure levels, each with its own temperature axis, each with its own
// ascending column-density/emissivity axis (spec §3 "LUT", §9's
// re-architecture flag replacing the fixed 5-D C array). The innermost
// (u, eps) block is stored as a *sparse.DenseArray per (pressure,
// temperature) pair rather than as parallel [][]float64 slices: the
// backing array is still contiguous and column-major-growable the way
// the teacher's vendored ctessum/sparse.DenseArray is used for gridded
// physical fields, but it gives eps_at/u_at a single bounds-checked
// Get/Set surface instead of hand-rolled nested-slice indexing.
type GasTable struct {
	P  []float64   // pressure levels [hPa], monotone (ascending or descending)
	T  [][]float64 // per-pressure-level temperature axis [K]
	U  [][]*sparse.DenseArray // per (p) index: one 1-D DenseArray of u per T
	Eps [][]*sparse.DenseArray // per (p) index: one 1-D DenseArray of eps per T, paired with U
}

// LUT is the immutable, read-only-after-load lookup table store (spec §4.2).
type LUT struct {
	tables map[[2]int]*GasTable // keyed by (channel, gas)

	// Source-function table (spec §3): a uniform temperature grid with
	// per-channel Planck radiances, used for O(1) lookup by source().
	ST   []float64   // uniform temperature grid [K]
	SR   [][]float64 // [channel][temperature index] radiance
	st0  float64
	stDx float64
}

// NewLUT returns an empty LUT ready to receive GasTable entries via Set
// and a source-function table via BuildSourceTable.
func NewLUT() *LUT {
	return &LUT{tables: make(map[[2]int]*GasTable)}
}

// Set installs the table for (channel d, gas g). If a gas's table is
// never installed for a channel, that gas contributes emissivity 0 for
// the channel (spec §4.2, "transparent" fallback) — eps_at/u_at handle
// the missing-table case directly rather than requiring a sentinel entry.
func (l *LUT) Set(d, g int, tbl *GasTable) {
	l.tables[[2]int{d, g}] = tbl
}

// Get returns the table for (d,g), or nil if none was loaded.
func (l *LUT) Get(d, g int) *GasTable {
	return l.tables[[2]int{d, g}]
}

// Version returns a content hash of every loaded (channel,gas) pressure
// axis, identifying which LUT content a run used without requiring the
// tables themselves to be archived alongside the result (retrieval logs
// and CLI output record this string for provenance).
func (l *LUT) Version() string {
	keys := make([][2]int, 0, len(l.tables))
	for k := range l.tables {
		keys = append(keys, k)
	}
	// Sort for determinism: map iteration order is randomized.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && less2(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	axes := make([][]float64, len(keys))
	for i, k := range keys {
		axes[i] = l.tables[k].P
	}
	return hash.Hash(axes)
}

func less2(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// BuildSourceTable evaluates the Planck law at nt uniform temperatures in
// [TMIN,TMAX] for every channel (spec §4.2 "Initial load").
func (l *LUT) BuildSourceTable(nu []float64, nt int) {
	l.ST = make([]float64, nt)
	l.SR = make([][]float64, len(nu))
	dx := (TMAX - TMIN) / float64(nt-1)
	l.st0 = TMIN
	l.stDx = dx
	for i := 0; i < nt; i++ {
		l.ST[i] = TMIN + float64(i)*dx
	}
	for d := range nu {
		l.SR[d] = make([]float64, nt)
		for i, T := range l.ST {
			l.SR[d][i] = Planck(T, nu[d])
		}
	}
}

// Source returns the interpolated Planck source function at channel d,
// temperature T, using the uniform temperature grid for O(1) lookup and
// clamping to [TMIN,TMAX] (spec §4.2 `source(d, T)`).
func (l *LUT) Source(d int, T float64) float64 {
	Tc, _ := clamp("source_function_T", T, TMIN, TMAX)
	i := LocateReg(l.st0, l.stDx, len(l.ST), Tc)
	return Lin(l.ST[i], l.SR[d][i], l.ST[i+1], l.SR[d][i+1], Tc)
}

// EpsAt returns the interpolated emissivity in [0,1] for channel d, gas g,
// at pressure-level index ip, temperature index it, and column density u
// (spec §4.2 `eps_at`). It brackets u on the ascending axis with
// LocateTbl and interpolates linearly. A missing table returns 0
// (transparent gas, per spec §4.2).
func (l *LUT) EpsAt(d, g, ip, it int, u float64) float64 {
	tbl := l.Get(d, g)
	if tbl == nil {
		return 0
	}
	ua := tbl.U[ip][it]
	epsa := tbl.Eps[ip][it]
	n := ua.GetShape()[0]
	uv := denseVec(ua)
	ev := denseVec(epsa)
	uc, _ := clamp("column_density", u, UMIN, UMAX)
	i := LocateTbl(uv, n, uc)
	e, _ := clamp("emissivity", Lin(uv[i], ev[i], uv[i+1], ev[i+1], uc), 0, 1)
	return e
}

// UAt inverts EpsAt: given an emissivity, return the column density that
// would produce it (spec §4.2 `u_at`, used by EGA). Per SPEC_FULL.md §9's
// resolution of the EGA Open Question, an out-of-range eps is clamped to
// the axis endpoints and flagged via the shared diagnostic counter.
func (l *LUT) UAt(d, g, ip, it int, eps float64) float64 {
	tbl := l.Get(d, g)
	if tbl == nil {
		return 0
	}
	ua := tbl.U[ip][it]
	epsa := tbl.Eps[ip][it]
	n := epsa.GetShape()[0]
	uv := denseVec(ua)
	ev := denseVec(epsa)
	if eps <= ev[0] {
		if eps < ev[0] {
			clamp("emissivity_inverse", eps, ev[0], ev[n-1])
		}
		return uv[0]
	}
	if eps >= ev[n-1] {
		if eps > ev[n-1] {
			clamp("emissivity_inverse", eps, ev[0], ev[n-1])
		}
		return uv[n-1]
	}
	i := LocateTbl(ev, n, eps)
	return Lin(ev[i], uv[i], ev[i+1], uv[i+1], eps)
}

// denseVec flattens a 1-D sparse.DenseArray into a []float64 for use with
// the LocateTbl/Lin primitives, which operate on plain slices.
func denseVec(a *sparse.DenseArray) []float64 {
	n := a.GetShape()[0]
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = a.Get(i)
	}
	return v
}

// NewAxis builds a 1-D sparse.DenseArray of length n from vals, validating
// that vals is monotone non-decreasing as the LUT invariant requires
// (spec §3, "u and eps monotone non-decreasing along the last axis").
func NewAxis(vals []float64) (*sparse.DenseArray, error) {
	if !floats.IsSorted(vals) {
		for i := 1; i < len(vals); i++ {
			if vals[i] < vals[i-1] {
				return nil, fmt.Errorf("irt: LUT axis not monotone non-decreasing at index %d (%g < %g)", i, vals[i], vals[i-1])
			}
		}
	}
	a := sparse.ZerosDense(len(vals))
	for i, v := range vals {
		a.Set(v, i)
	}
	return a, nil
}
