package RASModels

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/utils"
)

/*
	Correct advances gamma and Rnu by one step:
		1) strain rate and vorticity magnitudes from the current velocity
		2) auxiliary fields from the previous Rnu and gamma
		3) solve the intermittency equation
		4) solve the Rnu equation using the new gamma
		5) clip Rnu at zero
		6) rebuild nut
	A failed solve is returned as is and neither field is changed.
*/
func (m *WrayAgarwalTransition) Correct(wall FV2D.WallView) (err error) {
	var (
		N = m.Mesh().NCells()
	)
	if !wall.Valid(N) {
		err = fmt.Errorf("%s: wall distance and normal must cover all %d cells", TypeName, N)
		return
	}
	aux := m.auxiliary(wall)

	var gammaNew, RnuNew []float64
	if gammaNew, err = m.solveGamma(aux); err != nil {
		return
	}
	m.updateLimiter(aux, gammaNew)
	if RnuNew, err = m.solveRnu(aux, gammaNew); err != nil {
		return
	}
	m.clipRnu(RnuNew)

	// Both solves succeeded, commit
	m.gamma.Assign(gammaNew)
	m.rnu.Assign(RnuNew)
	m.CorrectNut()
	m.iteration++

	gMin, gMax, outside := m.GammaBounds()
	if outside > 0 {
		m.log.WithFields(logrus.Fields{
			"iteration": m.iteration,
			"min":       gMin,
			"max":       gMax,
			"cells":     outside,
		}).Warn("intermittency outside [0,1]")
	}
	return
}

// alphaRho is the phase fraction times density, zero gradient at the
// boundaries.
func (m *WrayAgarwalTransition) alphaRho() (ar *FV2D.ScalarField) {
	ar = FV2D.NewScalarField("alphaRho", m.Mesh(), 0)
	for k := range ar.Internal {
		ar.Internal[k] = m.Alpha.At(k) * m.Rho.At(k)
	}
	ar.CorrectBoundaryConditions()
	return
}

func weightSources(ar *FV2D.ScalarField, sources ...[]float64) {
	for _, s := range sources {
		for k := range s {
			s[k] *= ar.Internal[k]
		}
	}
}

/*
	gammaSources linearises the intermittency sources about the previous
	gamma, g = max(gamma_old, 0):
		Flength S F_onset gamma (1 - gamma)     -> P - P gamma, P = Flength S F_onset g
		-Ca2 W F_turb gamma (Ce2 gamma - 1)     -> Ca2 W F_turb g - Ca2 W F_turb Ce2 g gamma
	su carries the explicit parts and is never negative, sp the implicit
	coefficients and is never positive. With Ce2 >= 1 a gamma_old in [0,1]
	gives a new gamma in [0,1].
*/
func (m *WrayAgarwalTransition) gammaSources(aux *auxiliaryFields) (su, sp []float64) {
	var (
		c     = &m.coeffs
		gamma = m.gamma.Internal
		N     = len(gamma)
	)
	su, sp = make([]float64, N), make([]float64, N)
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			var (
				g    = math.Max(gamma[k], 0)
				P    = c.Flength.Value * aux.S[k] * aux.FOnset[k] * g
				dest = c.Ca2.Value * aux.W[k] * aux.FTurb[k]
			)
			su[k] = P + dest*g
			sp[k] = -P - dest*c.Ce2.Value*g
		}
	})
	return
}

func (m *WrayAgarwalTransition) solveGamma(aux *auxiliaryFields) (gammaNew []float64, err error) {
	var (
		perf FV2D.SolverPerformance
		ar   = m.alphaRho()
	)
	su, sp := m.gammaSources(aux)
	weightSources(ar, su, sp)
	eqn := FV2D.NewFVMatrix(m.gamma).
		Ddt(m.Time.DeltaT(), ar, m.gamma.Internal).
		BoundedDiv(m.AlphaRhoPhi).
		Laplacian(m.nuEffGammaWith(aux.Nut).Weight(ar)).
		Su(su).
		Sp(sp)
	if gammaNew, perf, err = eqn.Solve(m.Solver); err != nil {
		err = fmt.Errorf("%s gamma equation: %w", TypeName, err)
		return
	}
	if utils.IsNan(gammaNew) {
		err = fmt.Errorf("%s gamma equation produced NaN: %w", TypeName, FV2D.ErrNotConverged)
		gammaNew = nil
		return
	}
	m.logPerformance(perf)
	return
}

/*
	rnuSources splits the Rnu sources about the previous Rnu:
		su    PRnu_lim + gamma C1 S Rnu_old, never negative
		cross F1 C2kOm grad(Rnu).grad(S)/S, a coefficient of Rnu of either sign
		sp    -gamma_d (1 - F1) min(C2kEps Rnu |grad(S)|^2/S^2, Cm |grad(Rnu)|^2/Rnu)
	with gamma_d = max(gamma, 0.1).
*/
func (m *WrayAgarwalTransition) rnuSources(aux *auxiliaryFields, gamma []float64) (su, cross, sp []float64) {
	var (
		c     = &m.coeffs
		Rnu   = m.rnu.Internal
		N     = len(Rnu)
		Sfld  = FV2D.NewScalarField("S", m.Mesh(), 0)
		gradR = FV2D.Grad(m.rnu)
	)
	Sfld.Assign(aux.S)
	gradS := FV2D.Grad(Sfld)
	var (
		gRgS   = FV2D.DotProduct(gradR, gradS)
		magGS2 = FV2D.MagSqr(gradS)
		magGR2 = FV2D.MagSqr(gradR)
	)
	su, cross, sp = make([]float64, N), make([]float64, N), make([]float64, N)
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			var (
				F1     = aux.F1[k]
				S      = math.Max(aux.S[k], utils.SMALL)
				R      = math.Max(Rnu[k], 0)
				C1     = F1*(c.C1kOm.Value-c.C1kEps.Value) + c.C1kEps.Value
				gammaD = math.Max(gamma[k], 0.1)
			)
			su[k] = aux.PRnuLim[k] + math.Max(gamma[k], 0)*C1*S*R
			cross[k] = F1 * c.C2kOm.Value * gRgS[k] / S
			if R > utils.SMALL {
				dest := gammaD * (1 - F1) * math.Min(c.C2kEps.Value*R*R*magGS2[k]/(S*S), c.Cm.Value*magGR2[k])
				sp[k] = -dest / R
			}
		}
	})
	return
}

func (m *WrayAgarwalTransition) solveRnu(aux *auxiliaryFields, gamma []float64) (RnuNew []float64, err error) {
	var (
		perf FV2D.SolverPerformance
		ar   = m.alphaRho()
	)
	su, cross, sp := m.rnuSources(aux, gamma)
	weightSources(ar, su, cross, sp)
	eqn := FV2D.NewFVMatrix(m.rnu).
		Ddt(m.Time.DeltaT(), ar, m.rnu.Internal).
		BoundedDiv(m.AlphaRhoPhi).
		Laplacian(m.NuEffR(aux.F1).Weight(ar)).
		Su(su).
		SuSp(cross).
		Sp(sp)
	if RnuNew, perf, err = eqn.Solve(m.Solver); err != nil {
		err = fmt.Errorf("%s Rnu equation: %w", TypeName, err)
		return
	}
	if utils.IsNan(RnuNew) {
		err = fmt.Errorf("%s Rnu equation produced NaN: %w", TypeName, FV2D.ErrNotConverged)
		RnuNew = nil
		return
	}
	m.logPerformance(perf)
	return
}

// clipRnu bounds Rnu below at zero, negative values are a discretisation
// artefact and not reported.
func (m *WrayAgarwalTransition) clipRnu(Rnu []float64) {
	for k := range Rnu {
		Rnu[k] = math.Max(Rnu[k], 0)
	}
}

func (m *WrayAgarwalTransition) logPerformance(perf FV2D.SolverPerformance) {
	m.log.WithFields(logrus.Fields{
		"iteration": m.iteration + 1,
		"solver":    perf.Solver,
		"field":     perf.Field,
		"residual":  perf.FinalResidual,
		"initial":   perf.InitialResidual,
		"iters":     perf.Iterations,
	}).Debug("solved")
}
