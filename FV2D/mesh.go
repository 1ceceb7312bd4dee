package FV2D

import (
	"fmt"
	"math"

	"github.com/notargets/rascfd/types"
)

/*
	Rectilinear finite volume mesh of unit depth. Cells are numbered
	k = i + j*Nx, internal faces carry owner/neighbour addressing with
	owner < neighbour and an area vector pointing from owner to neighbour,
	boundary faces carry outward area vectors.
*/
type Mesh struct {
	Nx, Ny int
	X, Y   []float64    // Node coordinates, len Nx+1 and Ny+1
	C      [][2]float64 // Cell centres
	V      []float64    // Cell volumes
	// Internal faces
	Owner, Neighbour []int
	Sf, Cf           [][2]float64
	Weight           []float64 // Owner interpolation weight
	DeltaCoeff       []float64 // 1/|C_N - C_P|
	Patches          []*Patch
	patchIndex       map[string]int
}

type Patch struct {
	Name       string
	Kind       types.BCFLAG
	FaceCells  []int
	Sf, Cf     [][2]float64
	DeltaCoeff []float64 // 1/distance from the owner centre to the face
	Nodes      [][2][2]float64
}

func (p *Patch) Size() int { return len(p.FaceCells) }

type MeshSpec struct {
	X0, X1      float64 // Streamwise extent
	Height      float64
	Nx, Ny      int
	GrowthRatio float64 // Wall-normal cell growth ratio, 1 is uniform
	LeadingEdge float64 // Bottom faces with centre x >= LeadingEdge are wall
}

func NewRectilinearMesh(spec MeshSpec) (m *Mesh, err error) {
	if spec.Nx < 1 || spec.Ny < 1 {
		err = fmt.Errorf("mesh needs at least one cell in each direction, have Nx = %d, Ny = %d",
			spec.Nx, spec.Ny)
		return
	}
	if spec.X1 <= spec.X0 || spec.Height <= 0 {
		err = fmt.Errorf("degenerate mesh extent: x in [%g, %g], height %g", spec.X0, spec.X1, spec.Height)
		return
	}
	if spec.GrowthRatio == 0 {
		spec.GrowthRatio = 1
	}
	if spec.GrowthRatio < 0 {
		err = fmt.Errorf("growth ratio must be positive, have %g", spec.GrowthRatio)
		return
	}
	m = &Mesh{
		Nx:         spec.Nx,
		Ny:         spec.Ny,
		X:          linspace(spec.X0, spec.X1, spec.Nx+1),
		Y:          geometricSpacing(spec.Height, spec.Ny, spec.GrowthRatio),
		patchIndex: make(map[string]int),
	}
	m.computeCells()
	m.computeInternalFaces()
	m.computeBoundaryFaces(spec.LeadingEdge)
	return
}

func linspace(a, b float64, n int) (x []float64) {
	x = make([]float64, n)
	for i := range x {
		x[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return
}

func geometricSpacing(H float64, N int, r float64) (y []float64) {
	var (
		h0 float64
	)
	y = make([]float64, N+1)
	if math.Abs(r-1) < 1.e-12 {
		h0 = H / float64(N)
	} else {
		h0 = H * (r - 1) / (math.Pow(r, float64(N)) - 1)
	}
	h := h0
	for j := 1; j <= N; j++ {
		y[j] = y[j-1] + h
		h *= r
	}
	y[N] = H
	return
}

func (m *Mesh) NCells() int { return m.Nx * m.Ny }

func (m *Mesh) NFaces() int { return len(m.Owner) }

func (m *Mesh) CellIndex(i, j int) int { return i + j*m.Nx }

func (m *Mesh) computeCells() {
	var (
		N = m.NCells()
	)
	m.C = make([][2]float64, N)
	m.V = make([]float64, N)
	for j := 0; j < m.Ny; j++ {
		for i := 0; i < m.Nx; i++ {
			k := m.CellIndex(i, j)
			m.C[k] = [2]float64{0.5 * (m.X[i] + m.X[i+1]), 0.5 * (m.Y[j] + m.Y[j+1])}
			m.V[k] = (m.X[i+1] - m.X[i]) * (m.Y[j+1] - m.Y[j])
		}
	}
}

func (m *Mesh) addInternalFace(P, N int, Sf, Cf [2]float64) {
	var (
		d    = [2]float64{m.C[N][0] - m.C[P][0], m.C[N][1] - m.C[P][1]}
		magD = math.Hypot(d[0], d[1])
		dPf  = math.Hypot(Cf[0]-m.C[P][0], Cf[1]-m.C[P][1])
		wOwn = 1 - dPf/magD
	)
	m.Owner = append(m.Owner, P)
	m.Neighbour = append(m.Neighbour, N)
	m.Sf = append(m.Sf, Sf)
	m.Cf = append(m.Cf, Cf)
	m.Weight = append(m.Weight, wOwn)
	m.DeltaCoeff = append(m.DeltaCoeff, 1/magD)
}

func (m *Mesh) computeInternalFaces() {
	for j := 0; j < m.Ny; j++ {
		dy := m.Y[j+1] - m.Y[j]
		yc := 0.5 * (m.Y[j] + m.Y[j+1])
		for i := 0; i < m.Nx; i++ {
			k := m.CellIndex(i, j)
			if i < m.Nx-1 {
				m.addInternalFace(k, k+1, [2]float64{dy, 0}, [2]float64{m.X[i+1], yc})
			}
			if j < m.Ny-1 {
				dx := m.X[i+1] - m.X[i]
				m.addInternalFace(k, k+m.Nx, [2]float64{0, dx}, [2]float64{0.5 * (m.X[i] + m.X[i+1]), m.Y[j+1]})
			}
		}
	}
}

// patch returns the named patch, creating it with the kind its name maps to.
func (m *Mesh) patch(name string) (p *Patch) {
	if ip, ok := m.patchIndex[name]; ok {
		return m.Patches[ip]
	}
	kind, err := types.NewBCFLAG(name)
	if err != nil {
		panic(err)
	}
	p = &Patch{Name: name, Kind: kind}
	m.patchIndex[name] = len(m.Patches)
	m.Patches = append(m.Patches, p)
	return
}

func (p *Patch) addFace(cell int, Sf, Cf [2]float64, dist float64, n0, n1 [2]float64) {
	p.FaceCells = append(p.FaceCells, cell)
	p.Sf = append(p.Sf, Sf)
	p.Cf = append(p.Cf, Cf)
	p.DeltaCoeff = append(p.DeltaCoeff, 1/dist)
	p.Nodes = append(p.Nodes, [2][2]float64{n0, n1})
}

func (m *Mesh) computeBoundaryFaces(leadingEdge float64) {
	var (
		inlet  = m.patch("inlet")
		outlet = m.patch("outlet")
		top    = m.patch("top")
	)
	var symmetry, wall *Patch
	if m.X[0] < leadingEdge {
		symmetry = m.patch("symmetry")
	}
	if m.X[m.Nx] > leadingEdge {
		wall = m.patch("wall")
	}
	for j := 0; j < m.Ny; j++ {
		dy := m.Y[j+1] - m.Y[j]
		yc := 0.5 * (m.Y[j] + m.Y[j+1])
		kin, kout := m.CellIndex(0, j), m.CellIndex(m.Nx-1, j)
		inlet.addFace(kin, [2]float64{-dy, 0}, [2]float64{m.X[0], yc}, m.C[kin][0]-m.X[0],
			[2]float64{m.X[0], m.Y[j+1]}, [2]float64{m.X[0], m.Y[j]})
		outlet.addFace(kout, [2]float64{dy, 0}, [2]float64{m.X[m.Nx], yc}, m.X[m.Nx]-m.C[kout][0],
			[2]float64{m.X[m.Nx], m.Y[j]}, [2]float64{m.X[m.Nx], m.Y[j+1]})
	}
	for i := 0; i < m.Nx; i++ {
		dx := m.X[i+1] - m.X[i]
		xc := 0.5 * (m.X[i] + m.X[i+1])
		kb, kt := m.CellIndex(i, 0), m.CellIndex(i, m.Ny-1)
		bottom := wall
		if xc < leadingEdge {
			bottom = symmetry
		}
		bottom.addFace(kb, [2]float64{0, -dx}, [2]float64{xc, 0}, m.C[kb][1],
			[2]float64{m.X[i], 0}, [2]float64{m.X[i+1], 0})
		top.addFace(kt, [2]float64{0, dx}, [2]float64{xc, m.Y[m.Ny]}, m.Y[m.Ny]-m.C[kt][1],
			[2]float64{m.X[i+1], m.Y[m.Ny]}, [2]float64{m.X[i], m.Y[m.Ny]})
	}
	// A leading edge that falls inside the first or last bottom cell can leave a patch empty
	for ip := len(m.Patches) - 1; ip >= 0; ip-- {
		if m.Patches[ip].Size() == 0 {
			m.removePatch(ip)
		}
	}
}

func (m *Mesh) removePatch(ip int) {
	m.Patches = append(m.Patches[:ip], m.Patches[ip+1:]...)
	m.patchIndex = make(map[string]int, len(m.Patches))
	for i, p := range m.Patches {
		m.patchIndex[p.Name] = i
	}
}

// PatchIndex returns the position of the named patch in m.Patches.
func (m *Mesh) PatchIndex(name string) (ip int, err error) {
	var ok bool
	if ip, ok = m.patchIndex[name]; !ok {
		err = fmt.Errorf("no patch named \"%s\"", name)
	}
	return
}

func (m *Mesh) PatchNames() (names []string) {
	for _, p := range m.Patches {
		names = append(names, p.Name)
	}
	return
}

func mag(v [2]float64) float64 { return math.Hypot(v[0], v[1]) }

func dot(a, b [2]float64) float64 { return a[0]*b[0] + a[1]*b[1] }
