package irt

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadAtmosphereASCIIParsesAndOrders(t *testing.T) {
	data := `# z lon lat p T q k
20 0 0 55 220 4e-4 0
10 0 0 265 223 4e-4 0
0 0 0 1013 288 4e-4 0
`
	atm, err := ReadAtmosphereASCII(strings.NewReader(data), 1, 1)
	if err != nil {
		t.Fatalf("ReadAtmosphereASCII: %v", err)
	}
	if atm.NPoints() != 3 {
		t.Fatalf("NPoints = %d, want 3", atm.NPoints())
	}
	for i := 1; i < atm.NPoints(); i++ {
		if atm.Z[i] < atm.Z[i-1] {
			t.Errorf("altitude not ascending after EnsureAscending: %v", atm.Z)
		}
	}
	if !atm.Reversed {
		t.Error("Reversed should be true: file was altitude-descending")
	}
}

func TestReadAtmosphereASCIIRejectsShortLine(t *testing.T) {
	data := "0 0 0 1013 288\n"
	if _, err := ReadAtmosphereASCII(strings.NewReader(data), 1, 1); err == nil {
		t.Error("expected an IOError for a line missing the gas/window columns")
	}
}

func TestWriteAtmosphereASCIIRoundTrip(t *testing.T) {
	atm, err := ReadAtmosphereASCII(strings.NewReader(`
0 0 0 1013 288 4e-4 0
10 0 0 265 223 4e-4 0
20 0 0 55 220 4e-4 0
`), 1, 1)
	if err != nil {
		t.Fatalf("ReadAtmosphereASCII: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteAtmosphereASCII(&buf, atm); err != nil {
		t.Fatalf("WriteAtmosphereASCII: %v", err)
	}
	atm2, err := ReadAtmosphereASCII(&buf, 1, 1)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	for i := range atm.Z {
		if absDifferent(atm.Z[i], atm2.Z[i], testTolerance) {
			t.Errorf("z[%d] = %g, want %g", i, atm2.Z[i], atm.Z[i])
		}
	}
}

func TestReadObservationASCII(t *testing.T) {
	data := `# obsZ obsLon obsLat vpZ vpLon vpLat
100 0 0 0 0 0.2
100 0 0 30 0 0.3
`
	obs, err := ReadObservationASCII(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadObservationASCII: %v", err)
	}
	if obs.NRays() != 2 {
		t.Fatalf("NRays = %d, want 2", obs.NRays())
	}
	if len(obs.TPZ) != 2 {
		t.Errorf("TPZ not preallocated to NRays")
	}
}

func TestWriteMatrixASCIIShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatrixASCII(&buf, 2, 3, func(i, j int) float64 { return float64(i*3 + j) }); err != nil {
		t.Fatalf("WriteMatrixASCII: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Errorf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}
}
