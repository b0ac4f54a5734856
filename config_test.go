package irt

import "testing"

const testControlTOML = `
[grid]
wavenumbers = [667.0, 1042.0]
windows = [0, 1]

[gases]
names = ["co2", "h2o"]

[continuum]
co2 = true
h2o = true

[raytrace]
forward_model = "EGA"
surface_mode = "emission"
refraction = true
ray_ds = 2.0
ray_dz = 2.0

[retrieval]
lambda_init = 0.01
conv_iter_max = 15
`

func TestDecodeControlTOMLFieldsAndGasIndices(t *testing.T) {
	ctl, err := decodeControlTOML(testControlTOML)
	if err != nil {
		t.Fatalf("decodeControlTOML: %v", err)
	}
	if ctl.ND != 2 {
		t.Errorf("ND = %d, want 2", ctl.ND)
	}
	if ctl.IdxCO2 != 0 || ctl.IdxH2O != 1 {
		t.Errorf("IdxCO2=%d IdxH2O=%d, want 0,1", ctl.IdxCO2, ctl.IdxH2O)
	}
	if ctl.Forward != ForwardEGA {
		t.Errorf("Forward = %v, want EGA", ctl.Forward)
	}
	if ctl.Surface != SurfaceEmission {
		t.Errorf("Surface = %v, want SurfaceEmission", ctl.Surface)
	}
	if !ctl.Refraction {
		t.Error("Refraction = false, want true")
	}
	if ctl.ConvIterMax != 15 {
		t.Errorf("ConvIterMax = %d, want 15", ctl.ConvIterMax)
	}
	if ctl.ConvDMin != DefaultControl().ConvDMin {
		t.Errorf("ConvDMin should fall back to the default when omitted")
	}
}

func TestDecodeControlTOMLRejectsMissingWindows(t *testing.T) {
	_, err := decodeControlTOML(`
[grid]
wavenumbers = [667.0, 1042.0]
`)
	if err == nil {
		t.Error("expected a validation error for mismatched windows length")
	}
}
