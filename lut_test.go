package irt

import (
	"testing"

	"github.com/ctessum/sparse"
)

func TestLUTMissingTableIsTransparent(t *testing.T) {
	l := NewLUT()
	if got := l.EpsAt(0, 0, 0, 0, 1.0e20); got != 0 {
		t.Errorf("EpsAt on unloaded (d,g) = %g, want 0 (transparent)", got)
	}
}

func TestLUTEpsAtMonotoneInU(t *testing.T) {
	u, err := NewAxis([]float64{1.0e18, 1.0e19, 1.0e20, 1.0e21})
	if err != nil {
		t.Fatalf("NewAxis(u): %v", err)
	}
	eps, err := NewAxis([]float64{0.01, 0.1, 0.4, 0.9})
	if err != nil {
		t.Fatalf("NewAxis(eps): %v", err)
	}
	tbl := &GasTable{
		P:   []float64{1000.0},
		T:   [][]float64{{250.0}},
		U:   [][]*sparse.DenseArray{{u}},
		Eps: [][]*sparse.DenseArray{{eps}},
	}
	l := NewLUT()
	l.Set(0, 0, tbl)
	prev := -1.0
	for _, uv := range []float64{5.0e18, 5.0e19, 5.0e20, 1.0e21} {
		got := l.EpsAt(0, 0, 0, 0, uv)
		if got < prev {
			t.Errorf("EpsAt not non-decreasing in u: at u=%g got %g, prev %g", uv, got, prev)
		}
		prev = got
	}
}

func TestLUTUAtInvertsEpsAt(t *testing.T) {
	u, _ := NewAxis([]float64{1.0e18, 1.0e19, 1.0e20, 1.0e21})
	eps, _ := NewAxis([]float64{0.01, 0.1, 0.4, 0.9})
	tbl := &GasTable{
		P:   []float64{1000.0},
		T:   [][]float64{{250.0}},
		U:   [][]*sparse.DenseArray{{u}},
		Eps: [][]*sparse.DenseArray{{eps}},
	}
	l := NewLUT()
	l.Set(0, 0, tbl)
	e := l.EpsAt(0, 0, 0, 0, 5.0e19)
	back := l.UAt(0, 0, 0, 0, e)
	if absDifferent(back, 5.0e19, 5.0e19*1.0e-6) {
		t.Errorf("UAt(EpsAt(u)) = %g, want ~5e19", back)
	}
}

func TestLUTUAtClampsOutOfRangeEmissivity(t *testing.T) {
	u, _ := NewAxis([]float64{1.0e18, 1.0e21})
	eps, _ := NewAxis([]float64{0.01, 0.9})
	tbl := &GasTable{
		P:   []float64{1000.0},
		T:   [][]float64{{250.0}},
		U:   [][]*sparse.DenseArray{{u}},
		Eps: [][]*sparse.DenseArray{{eps}},
	}
	l := NewLUT()
	l.Set(0, 0, tbl)
	if got := l.UAt(0, 0, 0, 0, 1.5); got != 1.0e21 {
		t.Errorf("UAt with eps above range = %g, want clamped endpoint 1e21", got)
	}
	if got := l.UAt(0, 0, 0, 0, -1.0); got != 1.0e18 {
		t.Errorf("UAt with eps below range = %g, want clamped endpoint 1e18", got)
	}
}

func TestLUTVersionStableAndSensitiveToContent(t *testing.T) {
	u, _ := NewAxis([]float64{1.0e18, 1.0e21})
	eps, _ := NewAxis([]float64{0.01, 0.9})
	tbl := &GasTable{
		P:   []float64{1000.0},
		T:   [][]float64{{250.0}},
		U:   [][]*sparse.DenseArray{{u}},
		Eps: [][]*sparse.DenseArray{{eps}},
	}
	l1 := NewLUT()
	l1.Set(0, 0, tbl)
	l2 := NewLUT()
	l2.Set(0, 0, tbl)
	if l1.Version() != l2.Version() {
		t.Error("Version() differs for identical LUT content")
	}

	tbl2 := &GasTable{P: []float64{500.0}, T: tbl.T, U: tbl.U, Eps: tbl.Eps}
	l3 := NewLUT()
	l3.Set(0, 0, tbl2)
	if l1.Version() == l3.Version() {
		t.Error("Version() identical for different pressure axes")
	}
}

func TestLUTSourceClampsTemperature(t *testing.T) {
	l := NewLUT()
	l.BuildSourceTable([]float64{667.0}, 16)
	below := l.Source(0, TMIN-50)
	atMin := l.Source(0, TMIN)
	if absDifferent(below, atMin, 1.0e-12) {
		t.Errorf("Source below TMIN = %g, want clamped value %g", below, atMin)
	}
}
