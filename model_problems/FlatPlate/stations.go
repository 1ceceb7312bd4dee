package FlatPlate

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/notargets/rascfd/FV2D"
)

var stationHeader = []string{"x", "Re_x", "gamma_max", "nut_ratio_max"}

// Station is one streamwise column of cells on the plate.
type Station struct {
	X           float64 // Distance from the leading edge
	ReX         float64
	GammaMax    float64
	NutRatioMax float64 // Wall normal maximum of nut/nu
}

type gammaField interface {
	Gamma() *FV2D.ScalarField
}

// Stations reduces every column downstream of the leading edge to its wall
// normal maxima. Closures without intermittency report a zero gamma.
func (fp *FlatPlate) Stations() (st []Station) {
	var (
		ip    = fp.Input
		m     = fp.Mesh
		nut   = fp.Closure.Nut()
		gamma *FV2D.ScalarField
	)
	if gf, ok := fp.Closure.(gammaField); ok {
		gamma = gf.Gamma()
	}
	for i := 0; i < m.Nx; i++ {
		x := m.C[m.CellIndex(i, 0)][0] - ip.Mesh.LeadingEdge
		if x <= 0 {
			continue
		}
		s := Station{X: x, ReX: ip.Uinf * x / ip.Nu}
		for j := 0; j < m.Ny; j++ {
			k := m.CellIndex(i, j)
			s.NutRatioMax = math.Max(s.NutRatioMax, nut.Internal[k]/ip.Nu)
			if gamma != nil {
				s.GammaMax = math.Max(s.GammaMax, gamma.Internal[k])
			}
		}
		st = append(st, s)
	}
	return
}

// Onset is the first station where nut/nu rises above one.
func Onset(st []Station) (s Station, found bool) {
	for _, s = range st {
		if s.NutRatioMax > 1 {
			return s, true
		}
	}
	return Station{}, false
}

func WriteStations(w io.Writer, st []Station) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write(stationHeader); err != nil {
		return
	}
	for _, s := range st {
		rec := []string{
			strconv.FormatFloat(s.X, 'g', 10, 64),
			strconv.FormatFloat(s.ReX, 'g', 10, 64),
			strconv.FormatFloat(s.GammaMax, 'g', 10, 64),
			strconv.FormatFloat(s.NutRatioMax, 'g', 10, 64),
		}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadStations(r io.Reader) (st []Station, err error) {
	var (
		records [][]string
		vals    [4]float64
	)
	if records, err = csv.NewReader(r).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != len(stationHeader) {
			err = fmt.Errorf("station record %d has %d fields, need %d", i, len(rec), len(stationHeader))
			return nil, err
		}
		for n, txt := range rec {
			if vals[n], err = strconv.ParseFloat(txt, 64); err != nil {
				err = fmt.Errorf("station record %d, %s: %w", i, stationHeader[n], err)
				return nil, err
			}
		}
		st = append(st, Station{X: vals[0], ReX: vals[1], GammaMax: vals[2], NutRatioMax: vals[3]})
	}
	return
}
