package FV2D

import (
	"fmt"

	"github.com/notargets/rascfd/utils"
)

type BoundaryKind uint8

const (
	ZeroGradient BoundaryKind = iota
	FixedValue
)

func (bk BoundaryKind) String() string {
	switch bk {
	case FixedValue:
		return "fixedValue"
	default:
		return "zeroGradient"
	}
}

// ReadOnlyScalar is a borrowed per-cell scalar, the holder can not mutate it
// through this view.
type ReadOnlyScalar interface {
	Len() int
	At(cell int) float64
}

type ReadOnlyVector interface {
	Len() int
	At(cell int) [2]float64
}

// UniformScalar is a constant field of length N, used for uniform
// transport properties.
type UniformScalar struct {
	Value float64
	N     int
}

func (u UniformScalar) Len() int       { return u.N }
func (u UniformScalar) At(int) float64 { return u.Value }

type UniformVector struct {
	Value [2]float64
	N     int
}

func (u UniformVector) Len() int          { return u.N }
func (u UniformVector) At(int) [2]float64 { return u.Value }

type PatchScalar struct {
	Kind   BoundaryKind
	Values []float64
}

type ScalarField struct {
	Name     string
	Mesh     *Mesh
	Internal []float64
	Boundary []PatchScalar // Indexed like Mesh.Patches
}

// NewScalarField builds a uniform field with zero gradient on every patch.
func NewScalarField(name string, mesh *Mesh, value float64) (f *ScalarField) {
	f = &ScalarField{
		Name:     name,
		Mesh:     mesh,
		Internal: utils.ConstArray(mesh.NCells(), value),
		Boundary: make([]PatchScalar, len(mesh.Patches)),
	}
	for ip, p := range mesh.Patches {
		f.Boundary[ip] = PatchScalar{
			Kind:   ZeroGradient,
			Values: utils.ConstArray(p.Size(), value),
		}
	}
	return
}

func (f *ScalarField) Len() int            { return len(f.Internal) }
func (f *ScalarField) At(cell int) float64 { return f.Internal[cell] }

func (f *ScalarField) SetFixedValue(patch string, value float64) (err error) {
	var ip int
	if ip, err = f.Mesh.PatchIndex(patch); err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	f.Boundary[ip].Kind = FixedValue
	for i := range f.Boundary[ip].Values {
		f.Boundary[ip].Values[i] = value
	}
	return
}

// CorrectBoundaryConditions refreshes zero gradient patch values from the
// owner cells, fixed values are left alone.
func (f *ScalarField) CorrectBoundaryConditions() {
	for ip, p := range f.Mesh.Patches {
		bf := &f.Boundary[ip]
		if bf.Kind != ZeroGradient {
			continue
		}
		for i, cell := range p.FaceCells {
			bf.Values[i] = f.Internal[cell]
		}
	}
}

// Copy returns a deep copy with the same boundary conditions.
func (f *ScalarField) Copy(name string) (c *ScalarField) {
	c = &ScalarField{
		Name:     name,
		Mesh:     f.Mesh,
		Internal: append([]float64(nil), f.Internal...),
		Boundary: make([]PatchScalar, len(f.Boundary)),
	}
	for ip, bf := range f.Boundary {
		c.Boundary[ip] = PatchScalar{Kind: bf.Kind, Values: append([]float64(nil), bf.Values...)}
	}
	return
}

// Assign copies internal values and refreshes the zero gradient patches.
func (f *ScalarField) Assign(internal []float64) {
	if len(internal) != len(f.Internal) {
		panic(fmt.Errorf("field %s: assigning %d values to %d cells", f.Name, len(internal), len(f.Internal)))
	}
	copy(f.Internal, internal)
	f.CorrectBoundaryConditions()
}

// Weight multiplies f by w in place, boundary values included.
func (f *ScalarField) Weight(w *ScalarField) *ScalarField {
	if w.Mesh != f.Mesh {
		panic(fmt.Errorf("field %s: weight %s is on another mesh", f.Name, w.Name))
	}
	for k := range f.Internal {
		f.Internal[k] *= w.Internal[k]
	}
	for ip := range f.Boundary {
		for i := range f.Boundary[ip].Values {
			f.Boundary[ip].Values[i] *= w.Boundary[ip].Values[i]
		}
	}
	return f
}

func (f *ScalarField) MinMax() (min, max float64) {
	return utils.MinMax(f.Internal)
}

// FaceValue interpolates linearly to internal face fc.
func (f *ScalarField) FaceValue(fc int) float64 {
	var (
		m = f.Mesh
		w = m.Weight[fc]
	)
	return w*f.Internal[m.Owner[fc]] + (1-w)*f.Internal[m.Neighbour[fc]]
}

type PatchVector struct {
	Kind   BoundaryKind
	Values [][2]float64
}

type VectorField struct {
	Name     string
	Mesh     *Mesh
	Internal [][2]float64
	Boundary []PatchVector
}

func NewVectorField(name string, mesh *Mesh, value [2]float64) (v *VectorField) {
	v = &VectorField{
		Name:     name,
		Mesh:     mesh,
		Internal: make([][2]float64, mesh.NCells()),
		Boundary: make([]PatchVector, len(mesh.Patches)),
	}
	for k := range v.Internal {
		v.Internal[k] = value
	}
	for ip, p := range mesh.Patches {
		v.Boundary[ip] = PatchVector{Kind: ZeroGradient, Values: make([][2]float64, p.Size())}
		for i := range v.Boundary[ip].Values {
			v.Boundary[ip].Values[i] = value
		}
	}
	return
}

func (v *VectorField) Len() int               { return len(v.Internal) }
func (v *VectorField) At(cell int) [2]float64 { return v.Internal[cell] }

func (v *VectorField) SetFixedValue(patch string, value [2]float64) (err error) {
	var ip int
	if ip, err = v.Mesh.PatchIndex(patch); err != nil {
		return fmt.Errorf("field %s: %w", v.Name, err)
	}
	v.Boundary[ip].Kind = FixedValue
	for i := range v.Boundary[ip].Values {
		v.Boundary[ip].Values[i] = value
	}
	return
}

func (v *VectorField) CorrectBoundaryConditions() {
	for ip, p := range v.Mesh.Patches {
		bf := &v.Boundary[ip]
		if bf.Kind != ZeroGradient {
			continue
		}
		for i, cell := range p.FaceCells {
			bf.Values[i] = v.Internal[cell]
		}
	}
}

func (v *VectorField) FaceValue(fc int) [2]float64 {
	var (
		m    = v.Mesh
		w    = m.Weight[fc]
		P, N = v.Internal[m.Owner[fc]], v.Internal[m.Neighbour[fc]]
	)
	return [2]float64{w*P[0] + (1-w)*N[0], w*P[1] + (1-w)*N[1]}
}

// SurfaceScalarField holds one value per face, typically a volumetric flux.
type SurfaceScalarField struct {
	Name     string
	Mesh     *Mesh
	Internal []float64
	Boundary [][]float64
}

func NewSurfaceScalarField(name string, mesh *Mesh) (s *SurfaceScalarField) {
	s = &SurfaceScalarField{
		Name:     name,
		Mesh:     mesh,
		Internal: make([]float64, mesh.NFaces()),
		Boundary: make([][]float64, len(mesh.Patches)),
	}
	for ip, p := range mesh.Patches {
		s.Boundary[ip] = make([]float64, p.Size())
	}
	return
}

// Flux returns U_f . S_f over every face.
func Flux(U *VectorField) (phi *SurfaceScalarField) {
	var (
		m = U.Mesh
	)
	phi = NewSurfaceScalarField("phi", m)
	for fc := range m.Owner {
		phi.Internal[fc] = dot(U.FaceValue(fc), m.Sf[fc])
	}
	for ip, p := range m.Patches {
		for i := range p.FaceCells {
			phi.Boundary[ip][i] = dot(U.Boundary[ip].Values[i], p.Sf[i])
		}
	}
	return
}

// WallView carries the wall distance and unit wall normal borrowed from the
// host. Consumers only see read-only views.
type WallView struct {
	y ReadOnlyScalar
	n ReadOnlyVector
}

func NewWallView(y ReadOnlyScalar, n ReadOnlyVector) WallView {
	return WallView{y: y, n: n}
}

func (wv WallView) Y() ReadOnlyScalar { return wv.y }
func (wv WallView) N() ReadOnlyVector { return wv.n }

func (wv WallView) Valid(Ncells int) bool {
	return wv.y != nil && wv.n != nil && wv.y.Len() == Ncells && wv.n.Len() == Ncells
}
