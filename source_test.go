package irt

import "testing"

// TestBrightRoundTrip is property P4: BRIGHT(PLANCK(T,nu),nu) = T within 1e-8.
func TestBrightRoundTrip(t *testing.T) {
	nus := []float64{667.0, 1042.0, 2349.0}
	for _, nu := range nus {
		for T := TMIN; T <= TMAX; T += 25.0 {
			rad := Planck(T, nu)
			back := Bright(rad, nu)
			if absDifferent(back, T, 1.0e-8*T) {
				t.Errorf("Bright(Planck(%g,%g)) = %g, want %g", T, nu, back, T)
			}
		}
	}
}

func TestPlanckIncreasesWithTemperature(t *testing.T) {
	lo := Planck(220.0, 667.0)
	hi := Planck(300.0, 667.0)
	if hi <= lo {
		t.Errorf("Planck(300) = %g should exceed Planck(220) = %g", hi, lo)
	}
}
