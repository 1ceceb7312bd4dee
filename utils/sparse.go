package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// CSR wraps a compressed sparse row matrix assembled from finite volume
// LDU (lower, diagonal, upper) face addressing.
type CSR struct {
	M    *sparse.CSR
	name string
}

// NewCSRFromLDU assembles the N x N matrix whose diagonal is diag and whose
// off diagonal entries are Upper[f] at (owner[f], neighbour[f]) and Lower[f]
// at (neighbour[f], owner[f]).
func NewCSRFromLDU(name string, diag, lower, upper []float64, owner, neighbour []int) (R CSR) {
	var (
		N = len(diag)
	)
	if len(lower) != len(owner) || len(upper) != len(owner) || len(neighbour) != len(owner) {
		err := fmt.Errorf("inconsistent LDU addressing for %s: lower %d, upper %d, owner %d, neighbour %d",
			name, len(lower), len(upper), len(owner), len(neighbour))
		panic(err)
	}
	dok := sparse.NewDOK(N, N)
	for i := 0; i < N; i++ {
		dok.Set(i, i, diag[i])
	}
	for f := range owner {
		dok.Set(owner[f], neighbour[f], upper[f])
		dok.Set(neighbour[f], owner[f], lower[f])
	}
	R = CSR{
		M:    dok.ToCSR(),
		name: name,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }

// MulVec computes y = A x.
func (m CSR) MulVec(x, y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc || len(y) != nr {
		err := fmt.Errorf("dimension mismatch in %s MulVec: A is %dx%d, len(x) = %d, len(y) = %d",
			m.name, nr, nc, len(x), len(y))
		panic(err)
	}
	// MulVecTo accumulates into y
	for i := range y {
		y[i] = 0
	}
	m.M.MulVecTo(y, false, x)
}

func (m CSR) Diagonal() (d []float64) {
	var (
		nr, _ = m.Dims()
	)
	d = make([]float64, nr)
	for i := range d {
		d[i] = m.At(i, i)
	}
	return
}

func (m CSR) ToDense() (D *mat.Dense) {
	return mat.DenseCopyOf(m)
}
