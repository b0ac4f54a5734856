package irt

// Physical and tabulation limits carried over from the compile-time maxima
// of the source model (spec §9): here they are defaults for growable
// containers, not hard caps. Bounds are enforced at the point of growth
// (see BoundsError) rather than by fixed array sizes.
const (
	// TMIN and TMAX bound physically meaningful temperatures [K].
	TMIN = 100.0
	TMAX = 400.0

	// UMIN and UMAX bound column densities passed to LUT lookups
	// [molecules/cm^2].
	UMIN = 1.0e0
	UMAX = 1.0e30

	// NLOSDefault is the default initial capacity (not a hard limit) for
	// a line of sight; exceeding it triggers growth, not failure, unless
	// NLOSMax is also exceeded.
	NLOSDefault = 1024
	// NLOSMax is the hard bound on LOS points per ray; exceeding it is a
	// fatal BoundsError (spec §4.5 step 5c).
	NLOSMax = 4096

	// NFOV is the conventional number of field-of-view rays. FOVConvolve
	// does not read it: it samples one ray per Control.FOVWeights entry.
	NFOV = 5

	// RE is the mean Earth radius [km].
	RE = 6367.421

	// kBoltzmann is the Boltzmann constant [J/K], grounded on
	// github.com/ctessum/atmos/seinfeld's drydep.go constant of the same
	// value, reused here for the column-density formula (spec §4.6).
	kBoltzmann = 1.3806488e-23
)

// Quantity identifies one of the retrievable quantities in the fixed
// state-vector ordering {p, T, q[g], k[w], clz, cldz, clk[.], sft, sfeps[.]}
// (spec §3, "State and measurement vectors").
type Quantity int

// Quantity values, in the fixed packing order required by spec §3.
const (
	QuantityPressure Quantity = iota
	QuantityTemperature
	QuantityGas
	QuantityExtinction
	QuantityCloudHeight
	QuantityCloudDepth
	QuantityCloudExtinction
	QuantitySurfaceTemperature
	QuantitySurfaceEmissivity
)

// SurfaceMode selects how the RT integrator treats the lower boundary
// (spec §3 "Control parameters").
type SurfaceMode int

const (
	SurfaceNone SurfaceMode = iota
	SurfaceEmission
	SurfaceDownward
	SurfaceSolar
)

// ForwardModel selects the absorber-model scheme used to turn per-segment
// gas properties into transmittance (spec §9's required sum type).
type ForwardModel int

const (
	ForwardCGA ForwardModel = iota
	ForwardEGA
	ForwardExternal
)

func (f ForwardModel) String() string {
	switch f {
	case ForwardCGA:
		return "CGA"
	case ForwardEGA:
		return "EGA"
	case ForwardExternal:
		return "External"
	default:
		return "unknown"
	}
}

// ContinuumModel names one of the four analytical continuum absorbers
// (spec §4.3). Control.Continua holds the set of enabled models,
// replacing the source model's four independent boolean flags
// (spec §9 re-architecture flag).
type ContinuumModel int

const (
	ContinuumCO2 ContinuumModel = iota
	ContinuumH2O
	ContinuumN2
	ContinuumO2
)

// Atmosphere is an ordered sequence of altitude sample points plus a
// single cloud layer and surface record (spec §3). Altitudes are kept in
// ascending order in memory (see SPEC_FULL.md §9's altitude-ordering
// decision); Reversed records whether the source file had to be flipped
// to reach that order, so writers can restore the producer's convention.
type Atmosphere struct {
	Time  []float64 // seconds since epoch, one per point
	Z     []float64 // altitude [km]
	Lon   []float64 // degrees
	Lat   []float64 // degrees
	P     []float64 // pressure [hPa]
	T     []float64 // temperature [K]
	Q     [][]float64 // [point][gas] volume mixing ratio [ppv]
	K     [][]float64 // [point][window] extinction

	// Cloud layer (single-valued).
	CloudZ  float64
	CloudDZ float64
	CloudK  []float64 // per cloud-wavenumber extinction

	// Surface (single-valued).
	SurfaceT   float64
	SurfaceEps []float64 // per surface-wavenumber emissivity

	Reversed bool // true if the on-disk order was altitude-descending
}

// NPoints returns the number of altitude sample points.
func (a *Atmosphere) NPoints() int { return len(a.Z) }

// Observation is an ordered sequence of ray descriptors (spec §3).
type Observation struct {
	Time  []float64
	ObsZ, ObsLon, ObsLat []float64 // observer position
	VPZ, VPLon, VPLat    []float64 // view-point position (defines initial direction)
	TPZ, TPLon, TPLat    []float64 // tangent point, filled by the ray tracer

	Tau [][]float64 // [ray][channel] path transmittance
	Rad [][]float64 // [ray][channel] radiance
}

// NRays returns the number of ray descriptors.
func (o *Observation) NRays() int { return len(o.ObsZ) }

// Control holds the control parameters shared read-only across a run
// (spec §3 "Control parameters"). It is safe to share across goroutines
// once loaded: nothing in the forward model or kernel assembler mutates it.
type Control struct {
	ND int       // channel count
	Nu []float64 // per-channel centroid wavenumber [cm^-1]

	NW     int   // spectral window count
	Window []int // per-channel window assignment, in [0,NW)

	NG        int      // gas count
	GasNames  []string
	IdxCO2, IdxH2O, IdxN2, IdxO2 int // gas indices, or -1 if absent

	Surface SurfaceMode

	Continua map[ContinuumModel]bool

	Refraction bool

	RayDS float64 // maximum segment length along path [km]
	RayDZ float64 // maximum altitude change per segment [km]

	FOVWeights []float64 // one weight per FOV ray; ray i sits at offset (i-len/2)*FOVDZ
	FOVDZ      float64   // vertical offset between adjacent FOV rays [km]

	RetrievalWindow map[Quantity][2]float64 // [min,max] altitude [km] per quantity

	Forward ForwardModel

	// Retrieval tuning (spec §4.12).
	LambdaInit    float64
	ConvIterMax   int
	ConvDMin      float64
	KernelRecomp  int
	WriteBBT      bool
}

// DefaultControl returns a Control with the defaults named in spec §4.12
// and §4.9 (LambdaInit=1e-3, 20 inner trials handled in retrieval.go).
func DefaultControl() *Control {
	return &Control{
		Continua:        map[ContinuumModel]bool{},
		RetrievalWindow: map[Quantity][2]float64{},
		IdxCO2:          -1,
		IdxH2O:          -1,
		IdxN2:           -1,
		IdxO2:           -1,
		RayDS:           1.0,
		RayDZ:           1.0,
		LambdaInit:      1.0e-3,
		ConvIterMax:     20,
		ConvDMin:        1.0e-4,
		KernelRecomp:    1,
		Forward:         ForwardCGA,
	}
}

// LOSPoint is one sample point of a traced line of sight (spec §3).
type LOSPoint struct {
	Z, Lon, Lat float64
	P, T        float64
	Q           []float64 // per-gas VMR at this point
	K           []float64 // per-window extinction at this point
	DS          float64   // segment length used to reach this point [km]

	U []float64 // per-gas column density of this segment [molec/cm^2]

	// Curtis-Godson running quantities (spec §4.6), valid for CGA.
	CGP, CGT []float64 // per-gas weighted mean pressure/temperature
	CGU      []float64 // per-gas cumulative column density

	Eps []float64 // per-channel segment emissivity
	Src []float64 // per-channel source function

	// Surface fields, populated only on the terminating point of a ray
	// that hit the surface.
	Surface    bool
	SurfaceT   float64
	SurfaceEps []float64
}

// LOS is the discretised ray produced by the ray tracer (spec §4.5).
type LOS struct {
	Points      []*LOSPoint
	TangentIdx  int // index of the point with minimum altitude
	HitSurface  bool
	ExitToSpace bool
}

// TangentPoint returns the (z,lon,lat) of the LOS's minimum-altitude point.
func (l *LOS) TangentPoint() (z, lon, lat float64) {
	p := l.Points[l.TangentIdx]
	return p.Z, p.Lon, p.Lat
}

// StateTag pairs a packed state-vector element with its quantity and
// profile index (spec §3, "Each element carries two parallel tags").
// ProfileIndex is -1 for scalar quantities (cloud height/depth, surface T).
type StateTag struct {
	Quantity     Quantity
	GasOrWindow  int // which gas/window, for QuantityGas/QuantityExtinction/etc; else -1
	ProfileIndex int
}

// StateVector is the retrievable subset of an atmosphere, flattened
// according to the fixed quantity order (spec §3/§4.11). It is scratch:
// alive only within a retrieval iteration.
type StateVector struct {
	X    []float64
	Tags []StateTag
}

// Measurement is the flattened measurement vector y (spec §3/§4.11):
// per-(channel,ray) radiances, row-major with channel varying slower.
type Measurement struct {
	Y         []float64
	NChannels int
	NRays     int
	BT        bool // true if Y holds brightness temperatures, not radiances
}
