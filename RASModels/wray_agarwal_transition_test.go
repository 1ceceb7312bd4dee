package RASModels

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/turbulence"
	"github.com/notargets/rascfd/utils"
)

const testNu = 1.5e-5

type pseudoTime float64

func (pt pseudoTime) DeltaT() float64 { return float64(pt) }

type testDictionary map[string]map[string]interface{}

func (td testDictionary) ReadCoeffs(section string) (map[string]interface{}, error) {
	if sec, ok := td[section]; ok {
		return sec, nil
	}
	return map[string]interface{}{}, nil
}

// failingSolver fails on call number failOn and uses a direct solve otherwise.
type failingSolver struct {
	calls, failOn int
}

func (fs *failingSolver) Solve(field string, A utils.CSR, x, b []float64) (FV2D.SolverPerformance, error) {
	fs.calls++
	if fs.calls == fs.failOn {
		return FV2D.SolverPerformance{Field: field}, fmt.Errorf("%s: %w", field, FV2D.ErrNotConverged)
	}
	return FV2D.Direct{}.Solve(field, A, x, b)
}

// shearCase is a channel above a wall carrying U = (shear y, 0).
func shearCase(t *testing.T, shear float64, dict turbulence.DictionaryReader, solver FV2D.Solver) (m *WrayAgarwalTransition, wall FV2D.WallView) {
	mesh, err := FV2D.NewRectilinearMesh(FV2D.MeshSpec{X0: 0, X1: 1, Height: 0.5, Nx: 6, Ny: 5, GrowthRatio: 1.2})
	require.NoError(t, err)
	U := FV2D.NewVectorField("U", mesh, [2]float64{})
	for k, c := range mesh.C {
		U.Internal[k] = [2]float64{shear * c[1], 0}
	}
	for ip, p := range mesh.Patches {
		if p.Name == "outlet" {
			continue
		}
		U.Boundary[ip].Kind = FV2D.FixedValue
		for i, cf := range p.Cf {
			U.Boundary[ip].Values[i] = [2]float64{shear * cf[1], 0}
		}
	}
	U.CorrectBoundaryConditions()
	Rnu := FV2D.NewScalarField("Rnu", mesh, 3*testNu)
	require.NoError(t, Rnu.SetFixedValue("inlet", 3*testNu))
	require.NoError(t, Rnu.SetFixedValue("wall", 0))
	gamma := FV2D.NewScalarField("gamma", mesh, 1)
	require.NoError(t, gamma.SetFixedValue("inlet", 1))
	tm, err := turbulence.NewSinglePhaseTransport(testNu, mesh.NCells())
	require.NoError(t, err)
	if solver == nil {
		solver = FV2D.Direct{}
	}
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	cl, err := New(turbulence.Components{
		U:              U,
		Phi:            FV2D.Flux(U),
		Transport:      tm,
		Dictionary:     dict,
		PropertiesName: TypeName,
		Time:           pseudoTime(0.05),
		Solver:         solver,
		ParallelDegree: 3,
		Log:            log,
		Initial:        map[string]*FV2D.ScalarField{"Rnu": Rnu, "gamma": gamma},
	})
	require.NoError(t, err)
	m = cl.(*WrayAgarwalTransition)
	wall, err = FV2D.WallDistance(mesh, nil)
	require.NoError(t, err)
	return
}

func TestConstruction(t *testing.T) {
	{ // Test through the registry
		r := turbulence.NewRegistry()
		require.NoError(t, Register(r))
		assert.Error(t, Register(r))
		m, _ := shearCase(t, 10, nil, nil)
		c := m.Components
		c.Initial = map[string]*FV2D.ScalarField{"Rnu": m.Rnu().Copy("Rnu")}
		cl, err := r.New(c)
		require.NoError(t, err)
		assert.Equal(t, TypeName, cl.Type())
		assert.Equal(t, DefaultCoefficients(), cl.(*WrayAgarwalTransition).Coefficients())
		// gamma defaults to fully turbulent
		min, max := cl.(*WrayAgarwalTransition).Gamma().MinMax()
		assert.Equal(t, 1., min)
		assert.Equal(t, 1., max)
	}
	{ // Test missing Rnu and bad dictionaries fail construction
		m, _ := shearCase(t, 10, nil, nil)
		c := m.Components
		c.Initial = nil
		_, err := New(c)
		assert.Error(t, err)
		c.Initial = map[string]*FV2D.ScalarField{"Rnu": m.Rnu().Copy("Rnu")}
		c.Dictionary = testDictionary{CoeffsDictName: {"Cmu": "x"}}
		_, err = New(c)
		assert.Error(t, err)
	}
}

func TestRead(t *testing.T) {
	dict := testDictionary{CoeffsDictName: {"Cw": 9, "sigmakW": "0.8", "unknown": 1}}
	m, _ := shearCase(t, 10, dict, nil)
	first := m.Coefficients()
	assert.Equal(t, 9., first.Comega.Value)
	assert.Equal(t, 0.8, first.SigmakOm.Value)
	{ // Test round trip with an unmodified dictionary
		require.NoError(t, m.Read())
		assert.Equal(t, first.Values(), m.Coefficients().Values())
	}
	{ // Test a malformed value fails and keeps the previous coefficients
		dict[CoeffsDictName]["Ce2"] = "fifty"
		err := m.Read()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Ce2")
		assert.Equal(t, first, m.Coefficients())
	}
	{ // Test a reload picks up new values
		dict[CoeffsDictName]["Ce2"] = 45
		require.NoError(t, m.Read())
		assert.Equal(t, 45., m.Coefficients().Ce2.Value)
	}
}

func TestEddyViscosity(t *testing.T) {
	m, wall := shearCase(t, 100, nil, nil)
	for k := range m.rnu.Internal {
		m.rnu.Internal[k] = testNu * float64(k%7)
	}
	m.rnu.CorrectBoundaryConditions()
	{ // Test both nut reconstructions agree
		m.CorrectNut()
		nut1 := append([]float64(nil), m.nut.Internal...)
		fmi := make([]float64, len(nut1))
		for k := range fmi {
			fmi[k] = m.coeffs.fmiCell(chiCell(m.rnu.Internal[k], testNu))
		}
		for k := range m.nut.Internal {
			m.nut.Internal[k] = -1
		}
		m.correctNutWith(fmi)
		assert.InDeltaSlice(t, nut1, m.nut.Internal, 1.e-20)
	}
	{ // Test Rt is nut/nu
		Rt := m.Rt()
		for k := range Rt.Internal {
			assert.Equal(t, m.nut.Internal[k]/testNu, Rt.Internal[k])
		}
	}
	{ // Test the diffusivities
		N := m.Mesh().NCells()
		ones, zeros := utils.ConstArray(N, 1), make([]float64, N)
		nuR1, nuR0 := m.NuEffR(ones), m.NuEffR(zeros)
		nuG := m.NuEffGamma()
		for k := 0; k < N; k++ {
			R := m.rnu.Internal[k]
			assert.InDelta(t, 0.72*R+testNu, nuR1.Internal[k], 1.e-18)
			assert.InDelta(t, 1.0*R+testNu, nuR0.Internal[k], 1.e-18)
			assert.InDelta(t, testNu+m.nut.Internal[k], nuG.Internal[k], 1.e-18)
		}
	}
	{ // Test k and epsilon, S is uniform in simple shear
		k, eps := m.K(), m.Epsilon()
		for i := range k.Internal {
			nut := m.nut.Internal[i]
			assert.InDelta(t, nut*100/0.3, k.Internal[i], 1.e-9)
			if nut > 0 {
				assert.InDelta(t, 0.09*k.Internal[i]*k.Internal[i]/nut, eps.Internal[i], 1.e-6)
			}
		}
	}
	{ // Test gamma bounds are reported, not clamped
		m.gamma.Internal[0], m.gamma.Internal[1] = 1.2, -0.1
		min, max, outside := m.GammaBounds()
		assert.Equal(t, -0.1, min)
		assert.Equal(t, 1.2, max)
		assert.Equal(t, 2, outside)
		require.NoError(t, m.Correct(wall))
	}
}

func TestCorrect(t *testing.T) {
	{ // Test realizability after a correction from an adversarial state
		m, wall := shearCase(t, 100, nil, nil)
		for k := range m.rnu.Internal {
			if k%3 == 0 {
				m.rnu.Internal[k] = -0.9 * testNu
			}
		}
		for i := 0; i < 3; i++ {
			require.NoError(t, m.Correct(wall))
			for k, R := range m.rnu.Internal {
				assert.GreaterOrEqual(t, R, 0., "cell %d", k)
			}
			_, _, outside := m.GammaBounds()
			assert.Equal(t, 0, outside, "iteration %d", i)
		}
		assert.Equal(t, 3, m.Iteration())
		neg := []float64{-1, 2, -1.e-30}
		m.clipRnu(neg)
		assert.Equal(t, []float64{0, 2, 0}, neg)
	}
	{ // Test an invalid wall view
		m, _ := shearCase(t, 100, nil, nil)
		assert.Error(t, m.Correct(FV2D.WallView{}))
	}
	{ // Test solver failures propagate and nothing is committed
		for _, failOn := range []int{1, 2} {
			m, wall := shearCase(t, 100, nil, &failingSolver{failOn: failOn})
			gamma0 := append([]float64(nil), m.gamma.Internal...)
			Rnu0 := append([]float64(nil), m.rnu.Internal...)
			nut0 := append([]float64(nil), m.nut.Internal...)
			err := m.Correct(wall)
			assert.True(t, errors.Is(err, FV2D.ErrNotConverged))
			assert.Equal(t, gamma0, m.gamma.Internal)
			assert.Equal(t, Rnu0, m.rnu.Internal)
			assert.Equal(t, nut0, m.nut.Internal)
			assert.Equal(t, 0, m.Iteration())
		}
	}
}

func TestTransitionScenarios(t *testing.T) {
	{ // Test a laminar free stream stays laminar
		m, _ := shearCase(t, 0, nil, nil)
		mesh := m.Mesh()
		for ip := range mesh.Patches {
			for i := range m.gamma.Boundary[ip].Values {
				m.gamma.Boundary[ip].Values[i] = 0
			}
			for i := range m.U.Boundary[ip].Values {
				m.U.Boundary[ip].Values[i] = [2]float64{10, 0}
			}
		}
		for k := range m.U.Internal {
			m.U.Internal[k] = [2]float64{10, 0}
		}
		phi := FV2D.Flux(m.U)
		copy(m.Phi.Internal, phi.Internal)
		for ip := range mesh.Patches {
			copy(m.Phi.Boundary[ip], phi.Boundary[ip])
		}
		m.gamma.Assign(make([]float64, mesh.NCells()))
		far := FV2D.NewWallView(
			FV2D.UniformScalar{Value: 10, N: mesh.NCells()},
			FV2D.UniformVector{Value: [2]float64{0, 1}, N: mesh.NCells()})
		aux := m.auxiliary(far)
		su, _ := m.gammaSources(aux)
		for k := range aux.FOnset {
			assert.Equal(t, 0., aux.FOnset[k])
			assert.Equal(t, 0., su[k])
		}
		require.NoError(t, m.Correct(far))
		for k := range m.gamma.Internal {
			assert.InDelta(t, 0., m.gamma.Internal[k], 1.e-12)
		}
	}
	{ // Test a strongly sheared layer passes onset and produces intermittency
		m, wall := shearCase(t, 200, nil, nil)
		m.gamma.Assign(utils.ConstArray(m.Mesh().NCells(), 0.5))
		aux := m.auxiliary(wall)
		su, _ := m.gammaSources(aux)
		var onset int
		for k := range aux.FOnset {
			if aux.ReV[k] > 4.4*aux.ReThetac[k] {
				onset++
				assert.InDelta(t, 1., aux.FOnset[k], 1.e-12)
				assert.Greater(t, su[k], 0.)
			}
		}
		assert.Greater(t, onset, 0)
	}
	{ // Test a huge sigmaGamm removes turbulent diffusion of gamma
		dict := testDictionary{CoeffsDictName: {"sigmaGamm": 1.e15}}
		m, wall := shearCase(t, 200, dict, nil)
		for k := range m.rnu.Internal {
			m.rnu.Internal[k] = 50 * testNu
		}
		m.CorrectNut()
		aux := m.auxiliary(wall)
		gammaNew, err := m.solveGamma(aux)
		require.NoError(t, err)
		su, sp := m.gammaSources(aux)
		expect, _, err := FV2D.NewFVMatrix(m.gamma).
			Ddt(m.Time.DeltaT(), m.Rho, m.gamma.Internal).
			BoundedDiv(m.Phi).
			Laplacian(FV2D.NewScalarField("nu", m.Mesh(), testNu)).
			Su(su).
			Sp(sp).
			Solve(FV2D.Direct{})
		require.NoError(t, err)
		assert.InDeltaSlice(t, expect, gammaNew, 1.e-10)
		assert.False(t, math.IsNaN(gammaNew[0]))
	}
}

func TestGammaBounded(t *testing.T) {
	for _, shear := range []float64{10, 100, 200} {
		m, wall := shearCase(t, shear, nil, nil)
		for i := 0; i < 12; i++ {
			require.NoError(t, m.Correct(wall))
			assert.Equal(t, 0, utils.CountOutside(m.gamma.Internal, -1.e-10, 1+1.e-10),
				"shear %g, iteration %d", shear, i)
		}
		{ // Test the linearised sources keep their signs
			aux := m.auxiliary(wall)
			su, sp := m.gammaSources(aux)
			for k := range su {
				assert.GreaterOrEqual(t, su[k], 0.)
				assert.LessOrEqual(t, sp[k], 0.)
			}
		}
	}
	{ // Test a negative gamma produces no explicit source
		m, wall := shearCase(t, 200, nil, nil)
		m.gamma.Assign(utils.ConstArray(m.Mesh().NCells(), -0.5))
		su, sp := m.gammaSources(m.auxiliary(wall))
		for k := range su {
			assert.Equal(t, 0., su[k])
			assert.Equal(t, 0., sp[k])
		}
	}
}

func TestRnuSourceSplit(t *testing.T) {
	m, wall := shearCase(t, 100, nil, nil)
	for k := range m.rnu.Internal {
		m.rnu.Internal[k] = testNu * float64(1+k%5)
	}
	m.rnu.CorrectBoundaryConditions()
	gamma := make([]float64, m.Mesh().NCells())
	for k := range gamma {
		gamma[k] = float64(k%4) / 3
	}
	aux := m.auxiliary(wall)
	su, cross, sp := m.rnuSources(aux, gamma)
	for k := range su {
		assert.GreaterOrEqual(t, su[k], aux.PRnuLim[k])
		assert.LessOrEqual(t, sp[k], 0.)
		if gamma[k] > 0 {
			assert.Greater(t, su[k], 0.)
		}
		// S is uniform in simple shear
		assert.InDelta(t, 0., cross[k], 1.e-9)
	}
}

// weightedCase rebuilds m with new weighting fields from its initial state.
func weightedCase(t *testing.T, m *WrayAgarwalTransition, alpha, rho, fluxScale float64) (w *WrayAgarwalTransition) {
	var (
		mesh = m.Mesh()
		N    = mesh.NCells()
		c    = m.Components
	)
	c.Alpha = FV2D.UniformScalar{Value: alpha, N: N}
	c.Rho = FV2D.UniformScalar{Value: rho, N: N}
	arPhi := FV2D.NewSurfaceScalarField("alphaRhoPhi", mesh)
	for f, F := range m.Phi.Internal {
		arPhi.Internal[f] = fluxScale * F
	}
	for ip := range m.Phi.Boundary {
		for i, F := range m.Phi.Boundary[ip] {
			arPhi.Boundary[ip][i] = fluxScale * F
		}
	}
	c.AlphaRhoPhi = arPhi
	c.Initial = map[string]*FV2D.ScalarField{"Rnu": m.Rnu().Copy("Rnu"), "gamma": m.Gamma().Copy("gamma")}
	cl, err := New(c)
	require.NoError(t, err)
	return cl.(*WrayAgarwalTransition)
}

func TestWeighting(t *testing.T) {
	m, wall := shearCase(t, 100, nil, nil)
	// alpha rho = 10 everywhere
	heavy := weightedCase(t, m, 0.01, 1000, 1)
	scaled := weightedCase(t, m, 0.01, 1000, 10)
	for i := 0; i < 3; i++ {
		for _, cl := range []*WrayAgarwalTransition{m, heavy, scaled} {
			require.NoError(t, cl.Correct(wall))
		}
	}
	_, max := m.rnu.MinMax()
	{ // Test uniform weighting with a consistent flux leaves the solution alone
		assert.InDeltaSlice(t, m.gamma.Internal, scaled.gamma.Internal, 1.e-10)
		assert.Less(t, maxDiff(m.rnu.Internal, scaled.rnu.Internal), 1.e-10*max)
	}
	{ // Test a heavier fluid carried by the same flux responds differently
		assert.Greater(t, maxDiff(m.rnu.Internal, heavy.rnu.Internal), 1.e-6*max)
	}
}

func maxDiff(a, b []float64) (d float64) {
	for k := range a {
		d = math.Max(d, math.Abs(a[k]-b[k]))
	}
	return
}
