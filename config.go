package irt

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// tomlControl is the on-disk TOML shape of a control file (SPEC_FULL.md
// §6): one table per concern, matching the teacher's TOML-first
// configuration convention. LoadControl converts it into the runtime
// Control used by every other component.
type tomlControl struct {
	Grid struct {
		Channels  []float64 `toml:"wavenumbers"`
		Windows   []int     `toml:"windows"`
		WriteBBT  bool      `toml:"write_brightness_temperature"`
	} `toml:"grid"`

	Gases struct {
		Names []string `toml:"names"` // gas index is the position in this list
	} `toml:"gases"`

	Continuum struct {
		CO2 bool `toml:"co2"`
		H2O bool `toml:"h2o"`
		N2  bool `toml:"n2"`
		O2  bool `toml:"o2"`
	} `toml:"continuum"`

	Raytrace struct {
		Forward    string  `toml:"forward_model"`
		Surface    string  `toml:"surface_mode"`
		Refraction bool    `toml:"refraction"`
		RayDS      float64 `toml:"ray_ds"`
		RayDZ      float64 `toml:"ray_dz"`
		FOVWeights []float64 `toml:"fov_weights"`
		FOVDZ      float64   `toml:"fov_dz"`
	} `toml:"raytrace"`

	Retrieval struct {
		LambdaInit   float64 `toml:"lambda_init"`
		ConvIterMax  int     `toml:"conv_iter_max"`
		ConvDMin     float64 `toml:"conv_d_min"`
		KernelRecomp int     `toml:"kernel_recomp"`
	} `toml:"retrieval"`
}

// LoadControl reads a TOML control file at path and returns the runtime
// Control it describes, seeded with DefaultControl()'s tuning defaults
// for any field the file omits (SPEC_FULL.md §6/§10). Retrieval altitude
// windows are not read from the file: the returned Control's
// RetrievalWindow is empty, so PackState packs no elements.
func LoadControl(path string) (*Control, error) {
	var tc tomlControl
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, NewIOError(path, err)
	}
	return controlFromTOML(tc)
}

// decodeControlTOML parses a TOML document already in memory (used by
// tests, and by callers that have already fetched the control file
// through some other channel than the local filesystem).
func decodeControlTOML(data string) (*Control, error) {
	var tc tomlControl
	if _, err := toml.Decode(data, &tc); err != nil {
		return nil, NewConfigError("control", err)
	}
	return controlFromTOML(tc)
}

func controlFromTOML(tc tomlControl) (*Control, error) {
	ctl := DefaultControl()
	ctl.Nu = tc.Grid.Channels
	ctl.ND = len(ctl.Nu)
	ctl.Window = tc.Grid.Windows
	if len(ctl.Window) > 0 {
		ctl.NW = maxInt(ctl.Window) + 1
	}
	ctl.WriteBBT = tc.Grid.WriteBBT

	ctl.GasNames = tc.Gases.Names
	ctl.NG = len(ctl.GasNames)
	ctl.IdxCO2 = gasIndex(tc.Gases.Names, "co2")
	ctl.IdxH2O = gasIndex(tc.Gases.Names, "h2o")
	ctl.IdxN2 = gasIndex(tc.Gases.Names, "n2")
	ctl.IdxO2 = gasIndex(tc.Gases.Names, "o2")

	ctl.Continua = map[ContinuumModel]bool{
		ContinuumCO2: tc.Continuum.CO2,
		ContinuumH2O: tc.Continuum.H2O,
		ContinuumN2:  tc.Continuum.N2,
		ContinuumO2:  tc.Continuum.O2,
	}

	switch tc.Raytrace.Forward {
	case "EGA":
		ctl.Forward = ForwardEGA
	case "External":
		ctl.Forward = ForwardExternal
	default:
		ctl.Forward = ForwardCGA
	}
	switch tc.Raytrace.Surface {
	case "emission":
		ctl.Surface = SurfaceEmission
	case "downward":
		ctl.Surface = SurfaceDownward
	case "solar":
		ctl.Surface = SurfaceSolar
	default:
		ctl.Surface = SurfaceNone
	}
	ctl.Refraction = tc.Raytrace.Refraction
	if tc.Raytrace.RayDS > 0 {
		ctl.RayDS = tc.Raytrace.RayDS
	}
	if tc.Raytrace.RayDZ > 0 {
		ctl.RayDZ = tc.Raytrace.RayDZ
	}
	ctl.FOVWeights = tc.Raytrace.FOVWeights
	ctl.FOVDZ = tc.Raytrace.FOVDZ

	if tc.Retrieval.LambdaInit > 0 {
		ctl.LambdaInit = tc.Retrieval.LambdaInit
	}
	if tc.Retrieval.ConvIterMax > 0 {
		ctl.ConvIterMax = tc.Retrieval.ConvIterMax
	}
	if tc.Retrieval.ConvDMin > 0 {
		ctl.ConvDMin = tc.Retrieval.ConvDMin
	}
	if tc.Retrieval.KernelRecomp > 0 {
		ctl.KernelRecomp = tc.Retrieval.KernelRecomp
	}

	if err := validateControl(ctl); err != nil {
		return nil, err
	}
	return ctl, nil
}

func validateControl(ctl *Control) error {
	if ctl.ND == 0 {
		return NewConfigError("grid.wavenumbers", fmt.Errorf("at least one channel is required"))
	}
	if len(ctl.Window) != ctl.ND {
		return NewConfigError("grid.windows", fmt.Errorf("windows has %d entries, want %d (one per channel)", len(ctl.Window), ctl.ND))
	}
	return nil
}

func maxInt(v []int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func gasIndex(names []string, name string) int {
	for i, x := range names {
		if x == name {
			return i
		}
	}
	return -1
}
