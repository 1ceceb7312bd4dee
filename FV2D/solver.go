package FV2D

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/rascfd/utils"
)

var (
	ErrNotConverged = errors.New("linear solver did not converge")
	ErrSingular     = errors.New("singular linear system")
)

type SolverPerformance struct {
	Solver, Field   string
	InitialResidual float64
	FinalResidual   float64
	Iterations      int
	Converged       bool
}

func (sp SolverPerformance) String() string {
	return fmt.Sprintf("%s:  Solving for %s, Initial residual = %g, Final residual = %g, No Iterations %d",
		sp.Solver, sp.Field, sp.InitialResidual, sp.FinalResidual, sp.Iterations)
}

// Solver solves A x = b in place, x holds the initial guess on entry.
type Solver interface {
	Solve(field string, A utils.CSR, x, b []float64) (perf SolverPerformance, err error)
}

/*
	normFactor scales residuals so that they are independent of the magnitude
	of the solution:
		sum|A x - A xRef| + sum|b - A xRef| + SMALL
	where xRef is uniform at the mean of x.
*/
func normFactor(A utils.CSR, x, b, Ax []float64) (nf float64) {
	var (
		N    = len(x)
		xRef = utils.ConstArray(N, floats.Sum(x)/float64(N))
		AxR  = make([]float64, N)
	)
	A.MulVec(xRef, AxR)
	for i := range x {
		nf += math.Abs(Ax[i]-AxR[i]) + math.Abs(b[i]-AxR[i])
	}
	return nf + utils.SMALL
}

func residual(A utils.CSR, x, b, r []float64) {
	A.MulVec(x, r)
	floats.SubTo(r, b, r)
}

// BiCGStab is a Jacobi preconditioned stabilised bi-conjugate gradient
// solver for the non-symmetric systems produced by upwind convection.
type BiCGStab struct {
	Tolerance    float64 // Absolute normalised residual
	RelTol       float64 // Relative to the initial residual, 0 disables
	MaxIter      int
	MinIter      int
	ForceFailure bool // Report ErrNotConverged when MaxIter is reached
}

func NewBiCGStab(tol, relTol float64, maxIter int) *BiCGStab {
	return &BiCGStab{Tolerance: tol, RelTol: relTol, MaxIter: maxIter, ForceFailure: true}
}

func (bs *BiCGStab) converged(perf SolverPerformance) bool {
	if perf.Iterations < bs.MinIter {
		return false
	}
	if perf.FinalResidual < bs.Tolerance {
		return true
	}
	return bs.RelTol > 0 && perf.FinalResidual < bs.RelTol*perf.InitialResidual
}

func (bs *BiCGStab) Solve(field string, A utils.CSR, x, b []float64) (perf SolverPerformance, err error) {
	var (
		N    = len(x)
		diag = A.Diagonal()
		r    = make([]float64, N)
		r0   = make([]float64, N)
		p    = make([]float64, N)
		v    = make([]float64, N)
		s    = make([]float64, N)
		t    = make([]float64, N)
		y    = make([]float64, N)
		z    = make([]float64, N)
		Ax   = make([]float64, N)
	)
	perf = SolverPerformance{Solver: "BiCGStab", Field: field}
	for i, d := range diag {
		if d == 0 {
			err = fmt.Errorf("%s: zero diagonal in row %d: %w", field, i, ErrSingular)
			return
		}
	}
	A.MulVec(x, Ax)
	nf := normFactor(A, x, b, Ax)
	floats.SubTo(r, b, Ax)
	perf.InitialResidual = floats.Norm(r, 1) / nf
	perf.FinalResidual = perf.InitialResidual
	if bs.converged(perf) {
		perf.Converged = true
		return
	}
	copy(r0, r)
	rho, alpha, omega := 1., 1., 1.
	precondition := func(dst, src []float64) {
		floats.DivTo(dst, src, diag)
	}
	for perf.Iterations < bs.MaxIter {
		perf.Iterations++
		rhoOld := rho
		rho = floats.Dot(r0, r)
		if rho == 0 || omega == 0 {
			err = fmt.Errorf("%s: BiCGStab breakdown after %d iterations: %w", field, perf.Iterations, ErrNotConverged)
			return
		}
		if perf.Iterations == 1 {
			copy(p, r)
		} else {
			beta := (rho / rhoOld) * (alpha / omega)
			// p = r + beta (p - omega v)
			floats.AddScaled(p, -omega, v)
			floats.Scale(beta, p)
			floats.Add(p, r)
		}
		precondition(y, p)
		A.MulVec(y, v)
		alpha = rho / floats.Dot(r0, v)
		floats.AddScaledTo(s, r, -alpha, v)
		floats.AddScaled(x, alpha, y)
		residual(A, x, b, Ax)
		perf.FinalResidual = floats.Norm(Ax, 1) / nf
		if bs.converged(perf) {
			perf.Converged = true
			return
		}
		precondition(z, s)
		A.MulVec(z, t)
		tt := floats.Dot(t, t)
		if tt == 0 {
			omega = 0
		} else {
			omega = floats.Dot(t, s) / tt
		}
		floats.AddScaled(x, omega, z)
		floats.AddScaledTo(r, s, -omega, t)
		perf.FinalResidual = floats.Norm(r, 1) / nf
		if math.IsNaN(perf.FinalResidual) || math.IsInf(perf.FinalResidual, 0) {
			err = fmt.Errorf("%s: residual is not finite after %d iterations: %w", field, perf.Iterations, ErrNotConverged)
			return
		}
		if bs.converged(perf) {
			perf.Converged = true
			return
		}
	}
	if bs.ForceFailure {
		err = fmt.Errorf("%s: %d iterations, final residual %g: %w", field, perf.Iterations, perf.FinalResidual, ErrNotConverged)
	}
	return
}

// Direct factorises a dense copy of A, intended for small meshes and tests.
type Direct struct{}

func (Direct) Solve(field string, A utils.CSR, x, b []float64) (perf SolverPerformance, err error) {
	var (
		N   = len(x)
		Ad  = A.ToDense()
		Ax  = make([]float64, N)
		sol mat.VecDense
		lu  mat.LU
	)
	perf = SolverPerformance{Solver: "Direct", Field: field, Iterations: 1}
	A.MulVec(x, Ax)
	nf := normFactor(A, x, b, Ax)
	floats.SubTo(Ax, b, Ax)
	perf.InitialResidual = floats.Norm(Ax, 1) / nf
	lu.Factorize(Ad)
	if cond := lu.Cond(); cond > mat.ConditionTolerance {
		err = fmt.Errorf("%s: condition number %g: %w", field, cond, ErrSingular)
		return
	}
	if err = lu.SolveVecTo(&sol, false, mat.NewVecDense(N, append([]float64(nil), b...))); err != nil {
		err = fmt.Errorf("%s: %v: %w", field, err, ErrSingular)
		return
	}
	copy(x, sol.RawVector().Data)
	residual(A, x, b, Ax)
	perf.FinalResidual = floats.Norm(Ax, 1) / nf
	perf.Converged = true
	return
}
