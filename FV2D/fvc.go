package FV2D

import (
	"math"
)

// Tensor is a 2D velocity gradient with T[i][j] = dU_j/dx_i.
type Tensor [2][2]float64

// Grad is the Gauss linear cell gradient, boundary faces use the patch values.
func Grad(f *ScalarField) (G [][2]float64) {
	var (
		m = f.Mesh
	)
	G = make([][2]float64, m.NCells())
	for fc := range m.Owner {
		var (
			P, N = m.Owner[fc], m.Neighbour[fc]
			phiF = f.FaceValue(fc)
			Sf   = m.Sf[fc]
		)
		G[P][0] += phiF * Sf[0]
		G[P][1] += phiF * Sf[1]
		G[N][0] -= phiF * Sf[0]
		G[N][1] -= phiF * Sf[1]
	}
	for ip, p := range m.Patches {
		for i, P := range p.FaceCells {
			phiB := f.Boundary[ip].Values[i]
			G[P][0] += phiB * p.Sf[i][0]
			G[P][1] += phiB * p.Sf[i][1]
		}
	}
	for k := range G {
		G[k][0] /= m.V[k]
		G[k][1] /= m.V[k]
	}
	return
}

func GradVector(U *VectorField) (G []Tensor) {
	var (
		m = U.Mesh
	)
	G = make([]Tensor, m.NCells())
	addOuter := func(T *Tensor, Sf, u [2]float64, sign float64) {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				T[i][j] += sign * Sf[i] * u[j]
			}
		}
	}
	for fc := range m.Owner {
		var (
			P, N = m.Owner[fc], m.Neighbour[fc]
			uF   = U.FaceValue(fc)
		)
		addOuter(&G[P], m.Sf[fc], uF, 1)
		addOuter(&G[N], m.Sf[fc], uF, -1)
	}
	for ip, p := range m.Patches {
		for i, P := range p.FaceCells {
			addOuter(&G[P], p.Sf[i], U.Boundary[ip].Values[i], 1)
		}
	}
	for k := range G {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				G[k][i][j] /= m.V[k]
			}
		}
	}
	return
}

// StrainVorticity returns S = sqrt(2 Sij Sij) and W = sqrt(2 Wij Wij) per
// cell, with Sij and Wij the symmetric and antisymmetric parts of gradU.
func StrainVorticity(gradU []Tensor) (S, W []float64) {
	S = make([]float64, len(gradU))
	W = make([]float64, len(gradU))
	for k, T := range gradU {
		var ss, ww float64
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				sij := 0.5 * (T[i][j] + T[j][i])
				wij := 0.5 * (T[i][j] - T[j][i])
				ss += sij * sij
				ww += wij * wij
			}
		}
		S[k] = math.Sqrt(2 * ss)
		W[k] = math.Sqrt(2 * ww)
	}
	return
}

// MagSqr returns |v|^2 per cell.
func MagSqr(v [][2]float64) (m []float64) {
	m = make([]float64, len(v))
	for k := range v {
		m[k] = dot(v[k], v[k])
	}
	return
}

// DotProduct returns a . b per cell.
func DotProduct(a, b [][2]float64) (d []float64) {
	d = make([]float64, len(a))
	for k := range a {
		d[k] = dot(a[k], b[k])
	}
	return
}
