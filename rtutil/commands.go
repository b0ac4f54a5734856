package rtutil

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/fastrt/irt"
)

func (cfg *Cfg) loadAtmosphereObservation(ctl *irt.Control, atmPath, obsPath string) (*irt.Atmosphere, *irt.Observation, error) {
	af, err := os.Open(atmPath)
	if err != nil {
		return nil, nil, fmt.Errorf("irt: %w", err)
	}
	defer af.Close()
	atm, err := irt.ReadAtmosphereASCII(af, ctl.NG, ctl.NW)
	if err != nil {
		return nil, nil, err
	}

	of, err := os.Open(obsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("irt: %w", err)
	}
	defer of.Close()
	obs, err := irt.ReadObservationASCII(of)
	if err != nil {
		return nil, nil, err
	}
	return atm, obs, nil
}

func (cfg *Cfg) loadControl() (*irt.Control, error) {
	path := cfg.GetString("config")
	if path == "" {
		return nil, fmt.Errorf("irt: --config is required")
	}
	return irt.LoadControl(path)
}

func (cfg *Cfg) runRaytrace(cmd *cobra.Command, args []string) error {
	atmPath, obsPath, outPath := args[0], args[1], args[2]
	ctl, err := cfg.loadControl()
	if err != nil {
		return err
	}
	atm, obs, err := cfg.loadAtmosphereObservation(ctl, atmPath, obsPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("irt: %w", err)
	}
	defer out.Close()

	for r := 0; r < obs.NRays(); r++ {
		los, err := irt.Trace(ctl, atm, obs.ObsZ[r], obs.ObsLon[r], obs.ObsLat[r], obs.VPZ[r], obs.VPLon[r], obs.VPLat[r])
		if err != nil {
			return err
		}
		z, lon, lat := los.TangentPoint()
		cfg.Log.WithFields(map[string]interface{}{"ray": r, "tangent_z": z}).Info("traced ray")
		fmt.Fprintf(out, "%d %g %g %g\n", r, z, lon, lat)
	}
	return nil
}

func (cfg *Cfg) runForwardModel(cmd *cobra.Command, args []string) error {
	atmPath, obsPath, lutDir, outPath := args[0], args[1], args[2], args[3]
	ctl, err := cfg.loadControl()
	if err != nil {
		return err
	}
	atm, obs, err := cfg.loadAtmosphereObservation(ctl, atmPath, obsPath)
	if err != nil {
		return err
	}
	lut, err := irt.ReadLUTBinary(lutDir, ctl)
	if err != nil {
		return err
	}
	cfg.Log.WithFields(map[string]interface{}{"lut_version": lut.Version()}).Info("loaded LUT")

	if err := irt.RunForwardModel(lut, ctl, atm, obs); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("irt: %w", err)
	}
	defer out.Close()
	return irt.WriteMatrixASCII(out, obs.NRays(), ctl.ND, func(i, j int) float64 { return obs.Rad[i][j] })
}

func (cfg *Cfg) runKernel(cmd *cobra.Command, args []string) error {
	atmPath, obsPath, lutDir, outPath := args[0], args[1], args[2], args[3]
	ctl, err := cfg.loadControl()
	if err != nil {
		return err
	}
	atm, obs, err := cfg.loadAtmosphereObservation(ctl, atmPath, obsPath)
	if err != nil {
		return err
	}
	lut, err := irt.ReadLUTBinary(lutDir, ctl)
	if err != nil {
		return err
	}

	k, sv, y0, err := irt.AssembleKernel(lut, ctl, atm, obs)
	if err != nil {
		return err
	}
	cfg.Log.WithFields(map[string]interface{}{"state_size": len(sv.X), "measurement_size": len(y0.Y)}).Info("assembled kernel")

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("irt: %w", err)
	}
	defer out.Close()
	rows, cols := k.Dims()
	return irt.WriteMatrixASCII(out, rows, cols, k.At)
}

func (cfg *Cfg) runRetrieve(cmd *cobra.Command, args []string) error {
	atmPath, obsPath, lutDir, outPath := args[0], args[1], args[2], args[3]
	ctl, err := cfg.loadControl()
	if err != nil {
		return err
	}
	atm, obs, err := cfg.loadAtmosphereObservation(ctl, atmPath, obsPath)
	if err != nil {
		return err
	}
	lut, err := irt.ReadLUTBinary(lutDir, ctl)
	if err != nil {
		return err
	}

	xa := irt.PackState(atm, ctl)
	if len(xa.X) == 0 {
		return fmt.Errorf("irt: no retrieval windows configured (the control file loader does not read retrieval windows): nothing to retrieve")
	}
	priorSigma, err := cast.ToFloat64E(cfg.Get("prior-sigma"))
	if err != nil {
		return fmt.Errorf("irt: --prior-sigma: %w", err)
	}
	obsSigma, err := cast.ToFloat64E(cfg.Get("obs-sigma"))
	if err != nil {
		return fmt.Errorf("irt: --obs-sigma: %w", err)
	}

	saVar := make([]float64, len(xa.X))
	for i := range saVar {
		saVar[i] = priorSigma * priorSigma
	}
	seVar := make([]float64, ctl.ND*obs.NRays())
	for i := range seVar {
		seVar[i] = obsSigma * obsSigma
	}
	yMeas := irt.PackObs(obs, ctl.ND, ctl.WriteBBT).Y

	result, err := irt.Retrieve(lut, ctl, atm, obs, xa, saVar, seVar, yMeas)
	if err != nil {
		return err
	}
	cfg.Log.WithFields(map[string]interface{}{
		"iterations":   result.Iterations,
		"converged":    result.Converged,
		"chi2":         result.Chi2,
		"chi2_per_dof": result.Chi2PerDOF,
	}).Info("retrieval finished")

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("irt: %w", err)
	}
	defer out.Close()
	for i, x := range result.State.X {
		fmt.Fprintf(out, "%d %g\n", i, x)
	}
	return nil
}
