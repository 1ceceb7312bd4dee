package FlatPlate

import (
	"image/color"
	"math"

	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/rascfd/utils"
)

// stationLines traces log10(nut/nu) in red and gamma in green against Re_x.
func stationLines(st []Station) (lines map[color.RGBA][]float32) {
	lines = make(map[color.RGBA][]float32)
	for i := 1; i < len(st); i++ {
		a, b := st[i-1], st[i]
		utils.AddSegment(a.ReX, logRatio(a.NutRatioMax), b.ReX, logRatio(b.NutRatioMax), utils2.RED, lines)
		utils.AddSegment(a.ReX, a.GammaMax, b.ReX, b.GammaMax, utils2.GREEN, lines)
	}
	return
}

// PlotStations displays the station maxima until the process exits.
func PlotStations(st []Station) {
	if len(st) < 2 {
		return
	}
	utils.PlotLines(stationLines(st), -1, 1)
}

func logRatio(r float64) float64 {
	return math.Log10(math.Max(r, 1.e-3))
}
