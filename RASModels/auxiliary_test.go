package RASModels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellKernels(t *testing.T) {
	c := DefaultCoefficients()
	nu := 1.5e-5
	{ // Test chi is non-negative and Fmi is in [0,1)
		for _, Rnu := range []float64{0, 1.e-12, nu, 10 * nu, 1.e3 * nu, 1} {
			chi := chiCell(Rnu, nu)
			assert.GreaterOrEqual(t, chi, 0.)
			fmi := c.fmiCell(chi)
			assert.True(t, fmi >= 0 && fmi < 1, "Fmi(%g) = %g", chi, fmi)
		}
		assert.Equal(t, 0., c.fmiCell(-3))
		assert.InDelta(t, 0.5, c.fmiCell(8.54), 1.e-15)
	}
	{ // Test F_onset is in [0,1] and monotone in Re_v
		for _, Rt := range []float64{0, 0.5, 3.5, 10, 1000} {
			prev := 0.
			for ReV := 0.; ReV < 2.e4; ReV += 50 {
				for _, ReThetac := range []float64{100, 300, 1100} {
					f := fOnsetCell(ReV, ReThetac, Rt)
					assert.True(t, f >= 0 && f <= 1, "F_onset(%g, %g, %g) = %g", ReV, ReThetac, Rt, f)
				}
				f := fOnsetCell(ReV, 300, Rt)
				assert.GreaterOrEqual(t, f, prev)
				prev = f
			}
		}
		// Laminar, below onset
		assert.Equal(t, 0., fOnsetCell(100, 300, 0))
		// Laminar, well past onset
		assert.Equal(t, 1., fOnsetCell(1.e5, 300, 0))
	}
	{ // Test F1 bounds and limits
		for _, d := range []float64{0, 1.e-9, 1.e-4, 1.e-2, 1, 1.e3} {
			for _, S := range []float64{0, 1, 1.e4} {
				f := c.f1Cell(3*nu, S, 0.5*S, d, nu)
				assert.True(t, f >= 0 && f <= 1, "F1 = %g", f)
			}
		}
		assert.InDelta(t, 1., c.f1Cell(3*nu, 100, 100, 1.e-8, nu), 1.e-12)
		assert.InDelta(t, 0., c.f1Cell(3*nu, 100, 100, 1.e6, nu), 1.e-12)
		assert.False(t, math.IsNaN(c.f1Cell(0, 0, 0, 0, nu)))
	}
	{ // Test turbulence intensity
		assert.Equal(t, TuLMax, c.tuLCell(1, 0, 1))
		assert.Equal(t, TuLMax, c.tuLCell(1, 10, 0))
		S, d, nut := 100., 0.01, 1.e-5
		omega := S / math.Sqrt(0.09)
		k := nut * omega
		assert.InDelta(t, 100*math.Sqrt(2*k/3)/(omega*d), c.tuLCell(nut, S, d), 1.e-12)
	}
	{ // Test pressure gradient factors
		assert.Equal(t, -1., lambdaThetaLCell(1.e9, 1, nu))
		assert.Equal(t, 1., lambdaThetaLCell(-1.e9, 1, nu))
		assert.InDelta(t, 0.0128, lambdaThetaLCell(0, 1, nu), 1.e-15)
		assert.Equal(t, 1., fPGCell(0))
		assert.Equal(t, CPG1Lim, fPGCell(1))
		assert.Equal(t, CPG2Lim, fPGCell(-1))
		assert.InDelta(t, 1+7.34*0.1, fPGCell(-0.1), 1.e-12)
		for l := -1.; l <= 1; l += 0.01 {
			assert.GreaterOrEqual(t, fPGCell(l), 0.)
		}
		assert.InDelta(t, 100+1000*math.Exp(-2), reThetacCell(2, 1), 1.e-12)
	}
	{ // Test the production limiter and F_turb
		assert.Equal(t, 0., pRnuLimCell(0.1, 2, 0, nu, 100))
		assert.Equal(t, 0., pRnuLimCell(1, 2, 0, nu, 100))
		assert.Equal(t, 0., pRnuLimCell(0.5, 2, 3*nu, nu, 100))
		assert.InDelta(t, 5*0.3*0.5*2*3*nu*100, pRnuLimCell(0.5, 2, 0, nu, 100), 1.e-15)
		assert.Equal(t, 0., fOnLimCell(1000))
		assert.Equal(t, COnLimMax, fOnLimCell(1.e9))
		assert.Equal(t, 1., fTurbCell(0))
		assert.Less(t, fTurbCell(10), 1.e-100)
	}
}
