package FlatPlate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	etaMax = 10.
	nEta   = 2000
)

/*
	Blasius similarity solution of f''' + f f''/2 = 0 with f(0) = f'(0) = 0 and
	f'(inf) = 1. The wall curvature f''(0) is found by shooting, the profile is
	then tabulated on a uniform eta grid.
*/
type Blasius struct {
	Fpp0      float64 // f''(0)
	Eta, F, G []float64
}

func NewBlasius() (b *Blasius, err error) {
	var (
		result *optimize.Result
	)
	p := optimize.Problem{
		Func: func(x []float64) float64 {
			g := integrateBlasius(x[0], nil) - 1
			return g * g
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1.e-24,
			Iterations: 50,
		},
		MajorIterations: 500,
	}
	if result, err = optimize.Minimize(p, []float64{0.3}, settings, &optimize.NelderMead{SimplexSize: 0.05}); err != nil {
		err = fmt.Errorf("blasius shooting: %w", err)
		return
	}
	b = &Blasius{
		Fpp0: result.X[0],
		Eta:  make([]float64, nEta+1),
		F:    make([]float64, nEta+1),
		G:    make([]float64, nEta+1),
	}
	integrateBlasius(b.Fpp0, b)
	return
}

// integrateBlasius runs RK4 from the wall to etaMax and returns f' there,
// filling the table of b when it is not nil.
func integrateBlasius(fpp0 float64, b *Blasius) (fpEnd float64) {
	var (
		d = etaMax / nEta
		y = [3]float64{0, 0, fpp0} // f, f', f''
	)
	for i := 0; i <= nEta; i++ {
		if b != nil {
			b.Eta[i], b.F[i], b.G[i] = float64(i)*d, y[0], y[1]
		}
		if i == nEta {
			break
		}
		k1 := blasiusRHS(y)
		k2 := blasiusRHS(axpy(y, k1, d/2))
		k3 := blasiusRHS(axpy(y, k2, d/2))
		k4 := blasiusRHS(axpy(y, k3, d))
		for n := range y {
			y[n] += d / 6 * (k1[n] + 2*k2[n] + 2*k3[n] + k4[n])
		}
	}
	return y[1]
}

func blasiusRHS(y [3]float64) [3]float64 {
	return [3]float64{y[1], y[2], -0.5 * y[0] * y[2]}
}

func axpy(y, k [3]float64, a float64) [3]float64 {
	return [3]float64{y[0] + a*k[0], y[1] + a*k[1], y[2] + a*k[2]}
}

// Lookup interpolates f and f' at eta, beyond the table f' = 1.
func (b *Blasius) Lookup(eta float64) (f, fp float64) {
	var (
		d = etaMax / nEta
	)
	switch {
	case eta <= 0:
		return 0, 0
	case eta >= etaMax:
		return b.F[nEta] + (eta - etaMax), 1
	}
	i := int(eta / d)
	if i >= nEta {
		i = nEta - 1
	}
	w := (eta - b.Eta[i]) / d
	f = (1-w)*b.F[i] + w*b.F[i+1]
	fp = (1-w)*b.G[i] + w*b.G[i+1]
	return
}

// Velocity is the boundary layer velocity at distance x from the leading edge
// and height y. Upstream of the leading edge the flow is uniform.
func (b *Blasius) Velocity(x, y, Uinf, nu float64) (U [2]float64) {
	if x <= 0 {
		return [2]float64{Uinf, 0}
	}
	scale := math.Sqrt(Uinf / (nu * x))
	eta := y * scale
	f, fp := b.Lookup(eta)
	U[0] = Uinf * fp
	U[1] = 0.5 * math.Sqrt(nu*Uinf/x) * (eta*fp - f)
	return
}
