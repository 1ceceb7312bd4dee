package FV2D

import (
	"fmt"
	"math"

	"github.com/notargets/rascfd/utils"
)

/*
	FVMatrix is the implicit system A psi = b for one scalar transport
	equation, stored in LDU form: Upper[f] multiplies psi[Neighbour[f]] in
	the owner row, Lower[f] multiplies psi[Owner[f]] in the neighbour row.

	Transport operators (Ddt, Div, Laplacian) describe the left hand side,
	source operators (Su, Sp, SuSp) describe the right hand side, so
		ddt(psi) + div(phi, psi) - laplacian(G, psi) = Su + Sp*psi
	is assembled by calling each operator once.
*/
type FVMatrix struct {
	Psi                        *ScalarField
	Diag, Lower, Upper, Source []float64
}

func NewFVMatrix(psi *ScalarField) (m *FVMatrix) {
	var (
		mesh = psi.Mesh
	)
	m = &FVMatrix{
		Psi:    psi,
		Diag:   make([]float64, mesh.NCells()),
		Lower:  make([]float64, mesh.NFaces()),
		Upper:  make([]float64, mesh.NFaces()),
		Source: make([]float64, mesh.NCells()),
	}
	return
}

func (m *FVMatrix) checkLength(name string, n int) {
	if n != len(m.Diag) {
		panic(fmt.Errorf("%s for %s has %d values, mesh has %d cells", name, m.Psi.Name, n, len(m.Diag)))
	}
}

// Ddt adds the implicit Euler pseudo time derivative of rho psi. A non
// positive deltaT leaves the system steady.
func (m *FVMatrix) Ddt(deltaT float64, rho ReadOnlyScalar, old []float64) *FVMatrix {
	if deltaT <= 0 {
		return m
	}
	m.checkLength("ddt old time level", len(old))
	m.checkLength("ddt density", rho.Len())
	V := m.Psi.Mesh.V
	for k := range m.Diag {
		rDt := rho.At(k) * V[k] / deltaT
		m.Diag[k] += rDt
		m.Source[k] += rDt * old[k]
	}
	return m
}

// Div adds upwind convection by the face flux phi.
func (m *FVMatrix) Div(phi *SurfaceScalarField) *FVMatrix {
	var (
		mesh = m.Psi.Mesh
	)
	for fc := range mesh.Owner {
		var (
			F    = phi.Internal[fc]
			P, N = mesh.Owner[fc], mesh.Neighbour[fc]
		)
		m.Diag[P] += math.Max(F, 0)
		m.Upper[fc] += math.Min(F, 0)
		m.Diag[N] -= math.Min(F, 0)
		m.Lower[fc] -= math.Max(F, 0)
	}
	for ip, p := range mesh.Patches {
		bf := m.Psi.Boundary[ip]
		for i, P := range p.FaceCells {
			F := phi.Boundary[ip][i]
			switch {
			case F >= 0:
				m.Diag[P] += F
			case bf.Kind == FixedValue:
				m.Source[P] -= F * bf.Values[i]
			default:
				m.Diag[P] += F
			}
		}
	}
	return m
}

// BoundedDiv is Div minus Sp(div(phi)), which keeps the upwind system
// diagonally dominant when phi is not exactly conservative.
func (m *FVMatrix) BoundedDiv(phi *SurfaceScalarField) *FVMatrix {
	m.Div(phi)
	divPhi := NetOutflow(phi)
	for k := range m.Diag {
		m.Diag[k] -= divPhi[k]
	}
	return m
}

// NetOutflow sums the outward flux over the faces of each cell.
func NetOutflow(phi *SurfaceScalarField) (div []float64) {
	var (
		mesh = phi.Mesh
	)
	div = make([]float64, mesh.NCells())
	for fc := range mesh.Owner {
		div[mesh.Owner[fc]] += phi.Internal[fc]
		div[mesh.Neighbour[fc]] -= phi.Internal[fc]
	}
	for ip, p := range mesh.Patches {
		for i, P := range p.FaceCells {
			div[P] += phi.Boundary[ip][i]
		}
	}
	return
}

// Laplacian adds -div(G grad(psi)), G interpolated linearly to faces.
func (m *FVMatrix) Laplacian(G *ScalarField) *FVMatrix {
	var (
		mesh = m.Psi.Mesh
	)
	for fc := range mesh.Owner {
		var (
			P, N = mesh.Owner[fc], mesh.Neighbour[fc]
			a    = G.FaceValue(fc) * mag(mesh.Sf[fc]) * mesh.DeltaCoeff[fc]
		)
		m.Diag[P] += a
		m.Diag[N] += a
		m.Upper[fc] -= a
		m.Lower[fc] -= a
	}
	for ip, p := range mesh.Patches {
		bf := m.Psi.Boundary[ip]
		if bf.Kind != FixedValue {
			continue
		}
		for i, P := range p.FaceCells {
			a := G.Boundary[ip].Values[i] * mag(p.Sf[i]) * p.DeltaCoeff[i]
			m.Diag[P] += a
			m.Source[P] += a * bf.Values[i]
		}
	}
	return m
}

// Su adds an explicit source per unit volume.
func (m *FVMatrix) Su(s []float64) *FVMatrix {
	m.checkLength("Su", len(s))
	V := m.Psi.Mesh.V
	for k := range m.Source {
		m.Source[k] += s[k] * V[k]
	}
	return m
}

// Sp adds the implicit source c*psi per unit volume, c < 0 is a sink.
func (m *FVMatrix) Sp(c []float64) *FVMatrix {
	m.checkLength("Sp", len(c))
	V := m.Psi.Mesh.V
	for k := range m.Diag {
		m.Diag[k] -= c[k] * V[k]
	}
	return m
}

// SuSp treats c*psi implicitly where it is a sink and explicitly, from the
// current psi, where it is a source.
func (m *FVMatrix) SuSp(c []float64) *FVMatrix {
	m.checkLength("SuSp", len(c))
	var (
		V   = m.Psi.Mesh.V
		psi = m.Psi.Internal
	)
	for k := range m.Diag {
		if c[k] < 0 {
			m.Diag[k] -= c[k] * V[k]
		} else {
			m.Source[k] += c[k] * psi[k] * V[k]
		}
	}
	return m
}

func (m *FVMatrix) CSR() utils.CSR {
	var (
		mesh = m.Psi.Mesh
	)
	return utils.NewCSRFromLDU(m.Psi.Name, m.Diag, m.Lower, m.Upper, mesh.Owner, mesh.Neighbour)
}

// Solve returns the solution of the system without touching Psi, so the
// caller decides when to commit it.
func (m *FVMatrix) Solve(solver Solver) (x []float64, perf SolverPerformance, err error) {
	x = append([]float64(nil), m.Psi.Internal...)
	b := append([]float64(nil), m.Source...)
	perf, err = solver.Solve(m.Psi.Name, m.CSR(), x, b)
	if err != nil {
		x = nil
	}
	return
}
