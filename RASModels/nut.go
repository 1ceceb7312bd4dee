package RASModels

import (
	"math"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/utils"
)

// correctNutWith sets nut = Fmi Rnu from a precomputed Fmi. Boundary values
// follow the Rnu boundary values.
func (m *WrayAgarwalTransition) correctNutWith(fmi []float64) {
	var (
		c    = &m.coeffs
		mesh = m.Mesh()
		Rnu  = m.rnu
	)
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			m.nut.Internal[k] = fmi[k] * Rnu.Internal[k]
		}
	})
	for ip, p := range mesh.Patches {
		m.nut.Boundary[ip].Kind = Rnu.Boundary[ip].Kind
		for i, cell := range p.FaceCells {
			Rb := Rnu.Boundary[ip].Values[i]
			m.nut.Boundary[ip].Values[i] = c.fmiCell(chiCell(Rb, m.nu.At(cell))) * Rb
		}
	}
}

// CorrectNut recomputes chi and Fmi from the current Rnu and rebuilds nut.
func (m *WrayAgarwalTransition) CorrectNut() {
	var (
		c   = &m.coeffs
		fmi = make([]float64, len(m.rnu.Internal))
	)
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			fmi[k] = c.fmiCell(chiCell(m.rnu.Internal[k], m.nu.At(k)))
		}
	})
	m.correctNutWith(fmi)
}

// Rnu is the transported eddy viscosity variable.
func (m *WrayAgarwalTransition) Rnu() *FV2D.ScalarField { return m.rnu }

// nuEffGammaWith is nu + nut/sigmaGamm for a given nut, boundary values use
// the owner cell viscosity and the nut boundary values.
func (m *WrayAgarwalTransition) nuEffGammaWith(nut []float64) (f *FV2D.ScalarField) {
	var (
		sg = m.coeffs.SigmaGamm.Value
	)
	f = FV2D.NewScalarField("nuEff_gamma", m.Mesh(), 0)
	for k := range f.Internal {
		f.Internal[k] = m.nu.At(k) + nut[k]/sg
	}
	for ip, p := range m.Mesh().Patches {
		for i, cell := range p.FaceCells {
			f.Boundary[ip].Values[i] = m.nu.At(cell) + m.nut.Boundary[ip].Values[i]/sg
		}
	}
	return
}

func (m *WrayAgarwalTransition) NuEffGamma() *FV2D.ScalarField {
	return m.nuEffGammaWith(m.nut.Internal)
}

func (m *WrayAgarwalTransition) sigmaR(F1 float64) float64 {
	return F1*(m.coeffs.SigmakOm.Value-m.coeffs.SigmakEps.Value) + m.coeffs.SigmakEps.Value
}

// NuEffR is the Rnu diffusivity sigma(F1) Rnu + nu, sigma blending sigmakOm
// near the wall (F1 = 1) into sigmakEps away from it (F1 = 0).
func (m *WrayAgarwalTransition) NuEffR(F1 []float64) (f *FV2D.ScalarField) {
	f = FV2D.NewScalarField("nuEff_R", m.Mesh(), 0)
	for k := range f.Internal {
		f.Internal[k] = m.sigmaR(F1[k])*m.rnu.Internal[k] + m.nu.At(k)
	}
	for ip, p := range m.Mesh().Patches {
		for i, cell := range p.FaceCells {
			f.Boundary[ip].Values[i] = m.sigmaR(F1[cell])*m.rnu.Boundary[ip].Values[i] + m.nu.At(cell)
		}
	}
	return
}

// Rt is the turbulence Reynolds number nut/nu.
func (m *WrayAgarwalTransition) Rt() (f *FV2D.ScalarField) {
	f = FV2D.NewScalarField("Rt", m.Mesh(), 0)
	for k := range f.Internal {
		f.Internal[k] = m.nut.Internal[k] / m.nu.At(k)
	}
	f.CorrectBoundaryConditions()
	return
}

// K is the turbulent kinetic energy nut S/sqrt(Cmu) implied by the current
// eddy viscosity and strain rate.
func (m *WrayAgarwalTransition) K() (k *FV2D.ScalarField) {
	S, _ := FV2D.StrainVorticity(FV2D.GradVector(m.U))
	return m.kFrom(S)
}

func (m *WrayAgarwalTransition) kFrom(S []float64) (k *FV2D.ScalarField) {
	var (
		sqrtCmu = math.Sqrt(m.coeffs.Cmu.Value)
	)
	k = FV2D.NewScalarField("k", m.Mesh(), 0)
	for i := range k.Internal {
		k.Internal[i] = m.nut.Internal[i] * S[i] / sqrtCmu
	}
	k.CorrectBoundaryConditions()
	return
}

// Epsilon is sqrt(Cmu) k S, equal to Cmu k^2/nut.
func (m *WrayAgarwalTransition) Epsilon() (eps *FV2D.ScalarField) {
	var (
		sqrtCmu = math.Sqrt(m.coeffs.Cmu.Value)
	)
	S, _ := FV2D.StrainVorticity(FV2D.GradVector(m.U))
	k := m.kFrom(S)
	eps = FV2D.NewScalarField("epsilon", m.Mesh(), 0)
	for i := range eps.Internal {
		eps.Internal[i] = sqrtCmu * k.Internal[i] * S[i]
	}
	eps.CorrectBoundaryConditions()
	return
}

// GammaBounds reports the intermittency extremes and how many cells are
// outside [0,1]. gamma is not clamped.
func (m *WrayAgarwalTransition) GammaBounds() (min, max float64, outside int) {
	min, max = m.gamma.MinMax()
	outside = utils.CountOutside(m.gamma.Internal, 0, 1)
	return
}
