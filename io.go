package irt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// ReadAtmosphereASCII parses a whitespace-delimited atmosphere file: one
// altitude sample per non-comment line, columns `z lon lat p T q[0..NG)
// k[0..NW)` (SPEC_FULL.md §6). Lines starting with '#' are skipped. File
// order is normalized to ascending altitude (Atmosphere.EnsureAscending),
// matching the resolved altitude-ordering Open Question.
func ReadAtmosphereASCII(r io.Reader, ng, nw int) (*Atmosphere, error) {
	atm := &Atmosphere{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		want := 5 + ng + nw
		if len(fields) < want {
			return nil, NewIOError("atmosphere", fmt.Errorf("line %d: got %d fields, want %d", lineNo, len(fields), want))
		}
		vals, err := parseFloats(fields[:want])
		if err != nil {
			return nil, NewIOError("atmosphere", fmt.Errorf("line %d: %w", lineNo, err))
		}

		z, lon, lat, p, T := vals[0], vals[1], vals[2], vals[3], vals[4]
		if err := checkDimension("pressure", p, unit.Pascal); err != nil {
			return nil, NewIOError("atmosphere", fmt.Errorf("line %d: %w", lineNo, err))
		}
		q := append([]float64(nil), vals[5:5+ng]...)
		k := append([]float64(nil), vals[5+ng:5+ng+nw]...)

		atm.Z = append(atm.Z, z)
		atm.Lon = append(atm.Lon, lon)
		atm.Lat = append(atm.Lat, lat)
		atm.P = append(atm.P, p)
		atm.T = append(atm.T, T)
		atm.Q = append(atm.Q, q)
		atm.K = append(atm.K, k)
	}
	if err := sc.Err(); err != nil {
		return nil, NewIOError("atmosphere", err)
	}
	atm.EnsureAscending()
	return atm, nil
}

// WriteAtmosphereASCII writes atm in the same columnar format
// ReadAtmosphereASCII reads, restoring the producer's on-disk altitude
// ordering when atm.Reversed is set.
func WriteAtmosphereASCII(w io.Writer, atm *Atmosphere) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# z lon lat p T q... k...")
	n := atm.NPoints()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if atm.Reversed {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			idx[l], idx[r] = idx[r], idx[l]
		}
	}
	for _, i := range idx {
		fmt.Fprintf(bw, "%g %g %g %g %g", atm.Z[i], atm.Lon[i], atm.Lat[i], atm.P[i], atm.T[i])
		for _, q := range atm.Q[i] {
			fmt.Fprintf(bw, " %g", q)
		}
		for _, k := range atm.K[i] {
			fmt.Fprintf(bw, " %g", k)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadObservationASCII parses a whitespace-delimited observation file:
// one ray per non-comment line, columns
// `obsZ obsLon obsLat vpZ vpLon vpLat` (SPEC_FULL.md §6).
func ReadObservationASCII(r io.Reader) (*Observation, error) {
	obs := &Observation{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, NewIOError("observation", fmt.Errorf("line %d: got %d fields, want 6", lineNo, len(fields)))
		}
		vals, err := parseFloats(fields[:6])
		if err != nil {
			return nil, NewIOError("observation", fmt.Errorf("line %d: %w", lineNo, err))
		}
		obs.ObsZ = append(obs.ObsZ, vals[0])
		obs.ObsLon = append(obs.ObsLon, vals[1])
		obs.ObsLat = append(obs.ObsLat, vals[2])
		obs.VPZ = append(obs.VPZ, vals[3])
		obs.VPLon = append(obs.VPLon, vals[4])
		obs.VPLat = append(obs.VPLat, vals[5])
	}
	if err := sc.Err(); err != nil {
		return nil, NewIOError("observation", err)
	}
	n := obs.NRays()
	obs.TPZ = make([]float64, n)
	obs.TPLon = make([]float64, n)
	obs.TPLat = make([]float64, n)
	return obs, nil
}

// WriteMatrixASCII writes an m-by-n row-major matrix as plain text, one
// row per line, space-separated (SPEC_FULL.md §6 "Matrix output"),
// following the teacher's io.go "open file, write header, loop rows"
// shape used for its vector-GIS writers.
func WriteMatrixASCII(w io.Writer, m, n int, at func(i, j int) float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d %d\n", m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprintf(bw, "%g", at(i, j))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// checkDimension is a narrow sanity check at the file-parsing boundary:
// it rejects negative values and constructs a github.com/ctessum/unit
// value in the expected physical dimension, mirroring the teacher's
// io.go `checkDim` boundary-only use of unit. It does not check
// magnitudes, so a column in the wrong unit of the right dimension (e.g.
// Pa where hPa is expected) is not detected. The core radiative-transfer
// code never touches *unit.Unit; only this loader does.
func checkDimension(name string, value float64, dim unit.Dimensions) error {
	if value < 0 {
		return fmt.Errorf("%s: negative value %g is not physically valid", name, value)
	}
	_ = unit.New(value, dim)
	return nil
}

// lutFileName is the per-(channel,gas) NetCDF-classic file name
// convention used by WriteLUTBinary/ReadLUTBinary.
func lutFileName(dir string, d, g int) string {
	return fmt.Sprintf("%s/lut_d%02d_g%02d.nc", dir, d, g)
}

// WriteLUTBinary writes every loaded (d,g) GasTable in lut to one
// NetCDF-classic file per table under dir, via github.com/ctessum/cdf
// (SPEC_FULL.md §6). Each file has dimensions p/t/u and variables
// pressure/temperature/u/eps, directly matching cdf's header-then-arrays
// data model.
func WriteLUTBinary(dir string, lut *LUT, ctl *Control) error {
	for d := 0; d < ctl.ND; d++ {
		for g := 0; g < ctl.NG; g++ {
			tbl := lut.Get(d, g)
			if tbl == nil {
				continue
			}
			if err := writeGasTableCDF(lutFileName(dir, d, g), tbl); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeGasTableCDF(path string, tbl *GasTable) error {
	np := len(tbl.P)
	if np == 0 {
		return nil
	}
	nt := len(tbl.T[0])
	nu := tbl.U[0][0].GetShape()[0]

	h := cdf.NewHeader(
		[]string{"p", "t", "u"},
		[]int{np, nt, nu},
	)
	h.AddVariable("pressure", []string{"p"}, []float64{0})
	h.AddVariable("temperature", []string{"p", "t"}, []float64{0})
	h.AddVariable("u", []string{"p", "t", "u"}, []float64{0})
	h.AddVariable("eps", []string{"p", "t", "u"}, []float64{0})
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return NewIOError(path, err)
	}
	defer f.Close()

	cf, err := cdf.Create(f, h)
	if err != nil {
		return NewIOError(path, err)
	}

	if err := writeCDFVar(cf, "pressure", tbl.P); err != nil {
		return NewIOError(path, err)
	}
	flatT := make([]float64, 0, np*nt)
	for _, row := range tbl.T {
		flatT = append(flatT, row...)
	}
	if err := writeCDFVar(cf, "temperature", flatT); err != nil {
		return NewIOError(path, err)
	}
	flatU := make([]float64, 0, np*nt*nu)
	flatEps := make([]float64, 0, np*nt*nu)
	for ip := 0; ip < np; ip++ {
		for it := 0; it < nt; it++ {
			flatU = append(flatU, denseVec(tbl.U[ip][it])...)
			flatEps = append(flatEps, denseVec(tbl.Eps[ip][it])...)
		}
	}
	if err := writeCDFVar(cf, "u", flatU); err != nil {
		return NewIOError(path, err)
	}
	if err := writeCDFVar(cf, "eps", flatEps); err != nil {
		return NewIOError(path, err)
	}
	return nil
}

func writeCDFVar(cf *cdf.File, name string, data []float64) error {
	w := cf.Writer(name, nil)
	_, err := w.Write(data)
	return err
}

// ReadLUTBinary reads every (d,g) NetCDF-classic LUT file present under
// dir (per the lutFileName convention) into a new LUT.
func ReadLUTBinary(dir string, ctl *Control) (*LUT, error) {
	lut := NewLUT()
	for d := 0; d < ctl.ND; d++ {
		for g := 0; g < ctl.NG; g++ {
			path := lutFileName(dir, d, g)
			tbl, err := readGasTableCDF(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, err
			}
			lut.Set(d, g, tbl)
		}
	}
	return lut, nil
}

func readGasTableCDF(path string) (*GasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cf, err := cdf.Open(f)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	h := cf.Header
	np := h.Lengths("p")[0]
	nt := h.Lengths("t")[0]
	nuAxis := h.Lengths("u")[0]

	pressure, err := readCDFVar(cf, "pressure", np)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	temperature, err := readCDFVar(cf, "temperature", np*nt)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	uFlat, err := readCDFVar(cf, "u", np*nt*nuAxis)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	epsFlat, err := readCDFVar(cf, "eps", np*nt*nuAxis)
	if err != nil {
		return nil, NewIOError(path, err)
	}

	tbl := &GasTable{
		P: pressure,
		T: make([][]float64, np),
		U: make([][]*sparse.DenseArray, np),
		Eps: make([][]*sparse.DenseArray, np),
	}
	for ip := 0; ip < np; ip++ {
		tbl.T[ip] = temperature[ip*nt : (ip+1)*nt]
		tbl.U[ip] = make([]*sparse.DenseArray, nt)
		tbl.Eps[ip] = make([]*sparse.DenseArray, nt)
		for it := 0; it < nt; it++ {
			off := (ip*nt + it) * nuAxis
			u, err := NewAxis(uFlat[off : off+nuAxis])
			if err != nil {
				return nil, NewIOError(path, err)
			}
			eps, err := NewAxis(epsFlat[off : off+nuAxis])
			if err != nil {
				return nil, NewIOError(path, err)
			}
			tbl.U[ip][it] = u
			tbl.Eps[ip][it] = eps
		}
	}
	return tbl, nil
}

func readCDFVar(cf *cdf.File, name string, n int) ([]float64, error) {
	r := cf.Reader(name, nil)
	buf := make([]float64, n)
	_, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}
