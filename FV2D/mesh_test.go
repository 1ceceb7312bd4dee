package FV2D

import (
	"math"
	"testing"

	"github.com/notargets/rascfd/types"
	"github.com/notargets/rascfd/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plateMesh(t *testing.T, Nx, Ny int, growth float64) (m *Mesh) {
	var err error
	m, err = NewRectilinearMesh(MeshSpec{X0: 0, X1: 1, Height: 1, Nx: Nx, Ny: Ny, GrowthRatio: growth, LeadingEdge: 0.25})
	require.NoError(t, err)
	return
}

func TestRectilinearMesh(t *testing.T) {
	{ // Test bad input
		_, err := NewRectilinearMesh(MeshSpec{X0: 0, X1: 1, Height: 1, Nx: 0, Ny: 2})
		assert.Error(t, err)
		_, err = NewRectilinearMesh(MeshSpec{X0: 1, X1: 1, Height: 1, Nx: 2, Ny: 2})
		assert.Error(t, err)
		_, err = NewRectilinearMesh(MeshSpec{X0: 0, X1: 1, Height: 1, Nx: 2, Ny: 2, GrowthRatio: -1})
		assert.Error(t, err)
	}
	{ // Test counts and volumes
		m := plateMesh(t, 4, 3, 1.3)
		assert.Equal(t, 12, m.NCells())
		assert.Equal(t, 3*3+4*2, m.NFaces())
		var vol float64
		for _, v := range m.V {
			assert.Greater(t, v, 0.)
			vol += v
		}
		assert.InDelta(t, 1., vol, 1.e-12)
		assert.InDelta(t, 1., m.Y[m.Ny], 1.e-15)
		// Geometric growth away from the wall
		assert.InDelta(t, 1.3, (m.Y[2]-m.Y[1])/(m.Y[1]-m.Y[0]), 1.e-12)
	}
	{ // Test patches
		m := plateMesh(t, 4, 3, 1)
		assert.Equal(t, []string{"inlet", "outlet", "top", "symmetry", "wall"}, m.PatchNames())
		ip, err := m.PatchIndex("wall")
		require.NoError(t, err)
		assert.Equal(t, types.BC_Wall, m.Patches[ip].Kind)
		assert.Equal(t, 3, m.Patches[ip].Size())
		ip, _ = m.PatchIndex("symmetry")
		assert.Equal(t, 1, m.Patches[ip].Size())
		_, err = m.PatchIndex("nope")
		assert.Error(t, err)
	}
	{ // Test a plate with no upstream symmetry section
		m, err := NewRectilinearMesh(MeshSpec{X0: 0, X1: 1, Height: 1, Nx: 4, Ny: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"inlet", "outlet", "top", "wall"}, m.PatchNames())
	}
	{ // Test every cell is closed
		m := plateMesh(t, 5, 4, 1.2)
		sum := make([][2]float64, m.NCells())
		for f := range m.Owner {
			P, N := m.Owner[f], m.Neighbour[f]
			sum[P][0] += m.Sf[f][0]
			sum[P][1] += m.Sf[f][1]
			sum[N][0] -= m.Sf[f][0]
			sum[N][1] -= m.Sf[f][1]
			assert.Less(t, P, N)
			assert.True(t, m.Weight[f] > 0 && m.Weight[f] < 1)
		}
		for _, p := range m.Patches {
			for i, P := range p.FaceCells {
				sum[P][0] += p.Sf[i][0]
				sum[P][1] += p.Sf[i][1]
			}
		}
		for k := range sum {
			assert.InDelta(t, 0., math.Hypot(sum[k][0], sum[k][1]), 1.e-14)
		}
	}
}

func TestFields(t *testing.T) {
	m := plateMesh(t, 4, 3, 1)
	{ // Test boundary conditions
		f := NewScalarField("gamma", m, 0.5)
		require.NoError(t, f.SetFixedValue("inlet", 1))
		assert.Error(t, f.SetFixedValue("nope", 1))
		vals := make([]float64, m.NCells())
		for k := range vals {
			vals[k] = float64(k)
		}
		f.Assign(vals)
		ip, _ := m.PatchIndex("inlet")
		assert.Equal(t, FixedValue, f.Boundary[ip].Kind)
		assert.Equal(t, []float64{1, 1, 1}, f.Boundary[ip].Values)
		ip, _ = m.PatchIndex("outlet")
		assert.Equal(t, []float64{3, 7, 11}, f.Boundary[ip].Values)
		assert.Equal(t, "zeroGradient", f.Boundary[ip].Kind.String())
		min, max := f.MinMax()
		assert.Equal(t, 0., min)
		assert.Equal(t, 11., max)
		assert.Panics(t, func() { f.Assign(vals[:3]) })
	}
	{ // Test copies are deep
		f := NewScalarField("Rnu", m, 1)
		c := f.Copy("Rnu_0")
		c.Internal[0] = 5
		c.Boundary[0].Values[0] = 5
		assert.Equal(t, 1., f.Internal[0])
		assert.Equal(t, 1., f.Boundary[0].Values[0])
		assert.Equal(t, "Rnu_0", c.Name)
	}
	{ // Test flux of a uniform velocity is divergence free
		U := NewVectorField("U", m, [2]float64{2, 0.5})
		div := NetOutflow(Flux(U))
		for k := range div {
			assert.InDelta(t, 0., div[k], 1.e-14)
		}
	}
	{ // Test read only views
		var (
			y ReadOnlyScalar = UniformScalar{Value: 2, N: 3}
			n ReadOnlyVector = UniformVector{Value: [2]float64{0, 1}, N: 3}
		)
		wv := NewWallView(y, n)
		assert.True(t, wv.Valid(3))
		assert.False(t, wv.Valid(4))
		assert.False(t, WallView{}.Valid(3))
		assert.Equal(t, 2., wv.Y().At(1))
	}
}

func TestWallDistance(t *testing.T) {
	m := plateMesh(t, 4, 3, 1.2)
	pm := utils.NewCellPartitions(3, m.NCells())
	wv, err := WallDistance(m, pm)
	require.NoError(t, err)
	require.True(t, wv.Valid(m.NCells()))
	for j := 0; j < m.Ny; j++ {
		for i := 0; i < m.Nx; i++ {
			k := m.CellIndex(i, j)
			c := m.C[k]
			if c[0] >= 0.25 {
				assert.InDelta(t, c[1], wv.Y().At(k), 1.e-14)
				n := wv.N().At(k)
				assert.InDeltaSlice(t, []float64{0, 1}, n[:], 1.e-14)
			} else {
				// Upstream of the leading edge the nearest wall point is the edge itself
				d := math.Hypot(c[0]-0.25, c[1])
				assert.InDelta(t, d, wv.Y().At(k), 1.e-14)
				n := wv.N().At(k)
				assert.InDelta(t, 1., math.Hypot(n[0], n[1]), 1.e-14)
				assert.Less(t, n[0], 0.)
			}
		}
	}
	{ // Test mesh without a wall
		m, err := NewRectilinearMesh(MeshSpec{X0: 0, X1: 1, Height: 1, Nx: 2, Ny: 2, LeadingEdge: 5})
		require.NoError(t, err)
		_, err = WallDistance(m, nil)
		assert.Error(t, err)
	}
}
