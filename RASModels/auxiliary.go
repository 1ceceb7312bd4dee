package RASModels

import (
	"math"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/utils"
)

// Transition onset correlation constants
const (
	TuLMax    = 100.
	CTU1      = 100.
	CTU2      = 1000.
	CTU3      = 1.
	CPG1      = 14.68
	CPG1Lim   = 1.5
	CPG2      = -7.34
	CPG3      = 0.
	CPG2Lim   = 3.
	CRv       = 2.2
	F2onMax   = 2.
	CRt       = 3.5
	COnLim    = 2.2 * 1100
	COnLimMax = 3.
	CLambda   = -7.57e-3
	CLambda0  = 0.0128
	CRnuLim   = 5.
	F1ArgMax  = 10.
)

/*
	Cell kernels. Each is a total function of cell values, inputs are floored
	where a division or a square root would otherwise be undefined.
*/

func chiCell(Rnu, nu float64) float64 {
	return Rnu / nu
}

func (c *Coefficients) fmiCell(chi float64) float64 {
	var (
		chi3 = utils.POW(math.Max(chi, 0), 3)
	)
	return chi3 / (chi3 + utils.POW(c.Comega.Value, 3))
}

// omegaCell is the specific dissipation rate implied by a velocity gradient
// magnitude.
func (c *Coefficients) omegaCell(S float64) float64 {
	return S / math.Sqrt(c.Cmu.Value)
}

func (c *Coefficients) tuLCell(nut, S, d float64) float64 {
	var (
		omegaS = c.omegaCell(S)
		k      = math.Max(nut*omegaS, 0)
		den    = omegaS * d
	)
	if den <= 0 {
		return TuLMax
	}
	return math.Min(100*math.Sqrt(2*k/3)/den, TuLMax)
}

// lambdaThetaLCell is the pressure gradient parameter from the wall normal
// derivative of the wall normal velocity, dVdy = n . grad(n . U).
func lambdaThetaLCell(dVdy, d, nu float64) float64 {
	return utils.Clamp(CLambda*dVdy*d*d/nu+CLambda0, -1, 1)
}

func fPGCell(lambda float64) (fpg float64) {
	if lambda >= 0 {
		fpg = math.Min(1+CPG1*lambda, CPG1Lim)
	} else {
		fpg = math.Min(1+CPG2*lambda+CPG3*math.Min(lambda+0.0681, 0), CPG2Lim)
	}
	return math.Max(fpg, 0)
}

func reThetacCell(TuL, FPG float64) float64 {
	return CTU1 + CTU2*math.Exp(-CTU3*TuL*FPG)
}

// reVCell is the vorticity Reynolds number d^2 S/nu.
func reVCell(d, S, nu float64) float64 {
	return d * d * S / nu
}

// fOnsetCell switches on once Re_v passes CRv*Re_thetac. Without turbulence
// (Rt = 0) it needs twice that, and it never exceeds one.
func fOnsetCell(ReV, ReThetac, Rt float64) float64 {
	var (
		F1on = ReV / (CRv * ReThetac)
		F2on = math.Min(F1on, F2onMax)
		F3on = math.Max(1-utils.POW(Rt/CRt, 3), 0)
	)
	return utils.Clamp(F2on-F3on, 0, 1)
}

func (c *Coefficients) f1Cell(Rnu, S, W, d, nu float64) float64 {
	var (
		cmu   = c.Cmu.Value
		omega = math.Max(c.omegaCell(math.Max(S, W)), utils.SMALL)
		dd    = math.Max(d, utils.SMALL)
		k     = math.Max(Rnu*omega, 0)
		arg1  = math.Min(math.Max(math.Sqrt(k)/(cmu*omega*dd), 500*nu/(dd*dd*omega)), F1ArgMax)
	)
	return math.Tanh(utils.POW(arg1, 4))
}

func fOnLimCell(ReV float64) float64 {
	return math.Min(math.Max(ReV/COnLim-1, 0), COnLimMax)
}

func pRnuLimCell(gamma, FOnLim, nut, nu, W float64) float64 {
	return CRnuLim * math.Max(gamma-0.2, 0) * (1 - gamma) * FOnLim * math.Max(3*nu-nut, 0) * W
}

func fTurbCell(Rt float64) float64 {
	return math.Exp(-utils.POW(Rt/2, 4))
}

// auxiliaryFields holds every derived quantity of one correction step. It is
// rebuilt from Rnu, gamma and the velocity gradient on every Correct.
type auxiliaryFields struct {
	S, W         []float64
	Chi, Fmi     []float64
	Nut, Rt      []float64
	TuL          []float64
	DVdy         []float64
	LambdaThetaL []float64
	FPG          []float64
	ReThetac     []float64
	ReV          []float64
	FOnset       []float64
	F1           []float64
	FOnLim       []float64
	PRnuLim      []float64
	FTurb        []float64
}

func newAuxiliaryFields(N int) (aux *auxiliaryFields) {
	aux = &auxiliaryFields{}
	for _, f := range aux.all() {
		*f = make([]float64, N)
	}
	return
}

func (aux *auxiliaryFields) all() []*[]float64 {
	return []*[]float64{
		&aux.S, &aux.W, &aux.Chi, &aux.Fmi, &aux.Nut, &aux.Rt, &aux.TuL, &aux.DVdy,
		&aux.LambdaThetaL, &aux.FPG, &aux.ReThetac, &aux.ReV, &aux.FOnset, &aux.F1,
		&aux.FOnLim, &aux.PRnuLim, &aux.FTurb,
	}
}

// wallNormalDerivative returns n . grad(n . U) per cell.
func wallNormalDerivative(U *FV2D.VectorField, n FV2D.ReadOnlyVector) (dVdy []float64) {
	var (
		mesh = U.Mesh
		nU   = FV2D.NewScalarField("nU", mesh, 0)
		nc   = make([][2]float64, mesh.NCells())
	)
	for k := range nc {
		nc[k] = n.At(k)
	}
	copy(nU.Internal, FV2D.DotProduct(nc, U.Internal))
	for ip, p := range mesh.Patches {
		nf := make([][2]float64, p.Size())
		for i, cell := range p.FaceCells {
			nf[i] = nc[cell]
		}
		copy(nU.Boundary[ip].Values, FV2D.DotProduct(nf, U.Boundary[ip].Values))
	}
	return FV2D.DotProduct(nc, FV2D.Grad(nU))
}

// auxiliary evaluates every derived field from the current velocity, Rnu
// and gamma.
func (m *WrayAgarwalTransition) auxiliary(wall FV2D.WallView) (aux *auxiliaryFields) {
	aux = newAuxiliaryFields(m.Mesh().NCells())
	aux.S, aux.W = FV2D.StrainVorticity(FV2D.GradVector(m.U))
	aux.DVdy = wallNormalDerivative(m.U, wall.N())
	m.evaluate(aux, wall.Y(), m.gamma.Internal)
	return
}

/*
	evaluate fills aux in dependency order for every cell:
		chi -> Fmi -> nut, Rt -> Tu_l -> lambdaThetaL -> F_PG -> Re_thetac
		-> F_onset -> F1 -> PRnu_lim -> F_turb
	S, W and DVdy must already be set.
*/
func (m *WrayAgarwalTransition) evaluate(aux *auxiliaryFields, y FV2D.ReadOnlyScalar, gamma []float64) {
	var (
		c   = &m.coeffs
		Rnu = m.rnu.Internal
	)
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			var (
				nu = m.nu.At(k)
				d  = y.At(k)
				S  = aux.S[k]
			)
			aux.Chi[k] = chiCell(Rnu[k], nu)
			aux.Fmi[k] = c.fmiCell(aux.Chi[k])
			aux.Nut[k] = aux.Fmi[k] * Rnu[k]
			aux.Rt[k] = aux.Nut[k] / nu
			aux.TuL[k] = c.tuLCell(aux.Nut[k], S, d)
			aux.LambdaThetaL[k] = lambdaThetaLCell(aux.DVdy[k], d, nu)
			aux.FPG[k] = fPGCell(aux.LambdaThetaL[k])
			aux.ReThetac[k] = reThetacCell(aux.TuL[k], aux.FPG[k])
			aux.ReV[k] = reVCell(d, S, nu)
			aux.FOnset[k] = fOnsetCell(aux.ReV[k], aux.ReThetac[k], aux.Rt[k])
			aux.F1[k] = c.f1Cell(Rnu[k], S, aux.W[k], d, nu)
			aux.FOnLim[k] = fOnLimCell(aux.ReV[k])
			aux.PRnuLim[k] = pRnuLimCell(gamma[k], aux.FOnLim[k], aux.Nut[k], nu, aux.W[k])
			aux.FTurb[k] = fTurbCell(aux.Rt[k])
		}
	})
}

// updateLimiter recomputes PRnu_lim for a new intermittency.
func (m *WrayAgarwalTransition) updateLimiter(aux *auxiliaryFields, gamma []float64) {
	m.pm.ParallelFor(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			aux.PRnuLim[k] = pRnuLimCell(gamma[k], aux.FOnLim[k], aux.Nut[k], m.nu.At(k), aux.W[k])
		}
	})
}
