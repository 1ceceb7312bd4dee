package FV2D

import (
	"fmt"
	"math"

	"github.com/notargets/rascfd/utils"
)

// WallField is a host owned per-cell vector field used to hold wall normals.
type WallField [][2]float64

func (w WallField) Len() int               { return len(w) }
func (w WallField) At(cell int) [2]float64 { return w[cell] }

type DistanceField []float64

func (d DistanceField) Len() int            { return len(d) }
func (d DistanceField) At(cell int) float64 { return d[cell] }

/*
	WallDistance computes the exact distance from each cell centre to the
	nearest face of any wall patch, and the unit normal pointing from that
	wall point into the fluid. Cells are split over pm.
*/
func WallDistance(m *Mesh, pm *utils.PartitionMap) (wv WallView, err error) {
	var (
		segments [][2][2]float64
	)
	for _, p := range m.Patches {
		if p.Kind.IsWall() {
			segments = append(segments, p.Nodes...)
		}
	}
	if len(segments) == 0 {
		err = fmt.Errorf("wall distance: mesh has no wall patch among %v", m.PatchNames())
		return
	}
	if pm == nil {
		pm = utils.NewCellPartitions(0, m.NCells())
	}
	var (
		y = make(DistanceField, m.NCells())
		n = make(WallField, m.NCells())
	)
	pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			y[k], n[k] = nearestSegment(m.C[k], segments)
		}
	})
	wv = NewWallView(y, n)
	return
}

func nearestSegment(c [2]float64, segments [][2][2]float64) (dist float64, normal [2]float64) {
	dist = math.MaxFloat64
	for _, seg := range segments {
		var (
			a, b = seg[0], seg[1]
			ab   = [2]float64{b[0] - a[0], b[1] - a[1]}
			ac   = [2]float64{c[0] - a[0], c[1] - a[1]}
			t    = utils.Clamp(dot(ac, ab)/dot(ab, ab), 0, 1)
			q    = [2]float64{a[0] + t*ab[0], a[1] + t*ab[1]}
			d    = [2]float64{c[0] - q[0], c[1] - q[1]}
			dd   = mag(d)
		)
		if dd < dist {
			dist = dd
			if dd > 0 {
				normal = [2]float64{d[0] / dd, d[1] / dd}
			} else {
				// On the wall, fall back to the segment normal
				l := mag(ab)
				normal = [2]float64{-ab[1] / l, ab[0] / l}
			}
		}
	}
	return
}
