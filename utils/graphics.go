package utils

import (
	"image/color"
	"math"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

// AddSegment appends the segment (x1,y1)-(x2,y2) to the line of color col.
func AddSegment(x1, y1, x2, y2 float64, col color.RGBA, lines map[color.RGBA][]float32) {
	lines[col] = append(lines[col],
		float32(x1), float32(y1),
		float32(x2), float32(y2),
	)
}

// LinesBox is the bounding box of every line, widened to include the y range
// [yLo, yHi].
func LinesBox(lines map[color.RGBA][]float32, yLo, yHi float32) (xMin, xMax, yMin, yMax float32) {
	xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	yMin, yMax = yLo, yHi
	for _, line := range lines {
		for i := 0; i < len(line)/2; i++ {
			x, y := line[2*i], line[2*i+1]
			xMin, xMax = min(xMin, x), max(xMax, x)
			yMin, yMax = min(yMin, y), max(yMax, y)
		}
	}
	return
}

// PlotLines opens a chart with every line and blocks while it is displayed.
func PlotLines(lines map[color.RGBA][]float32, yLo, yHi float32) {
	xMin, xMax, yMin, yMax := LinesBox(lines, yLo, yHi)
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	select {}
}
