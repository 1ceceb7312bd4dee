package turbulence

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/notargets/rascfd/FV2D"
)

// Closure is what the momentum solver needs from a turbulence model.
type Closure interface {
	// Correct advances the turbulence state by one step using the borrowed wall
	// distance and wall normal.
	Correct(wall FV2D.WallView) error
	// Read reloads the model coefficients, the previous values stay in effect
	// on error.
	Read() error
	Nut() *FV2D.ScalarField
	K() *FV2D.ScalarField
	Epsilon() *FV2D.ScalarField
	Type() string
}

type TransportModel interface {
	Nu() FV2D.ReadOnlyScalar
}

// SinglePhaseTransport is a Newtonian fluid with uniform kinematic viscosity.
type SinglePhaseTransport struct {
	nu FV2D.UniformScalar
}

func NewSinglePhaseTransport(nu float64, Ncells int) (tm *SinglePhaseTransport, err error) {
	if nu <= 0 {
		err = fmt.Errorf("kinematic viscosity must be positive, have %g", nu)
		return
	}
	tm = &SinglePhaseTransport{nu: FV2D.UniformScalar{Value: nu, N: Ncells}}
	return
}

func (tm *SinglePhaseTransport) Nu() FV2D.ReadOnlyScalar { return tm.nu }

// DictionaryReader returns the raw key/value pairs of a named section, the
// values are coerced by the consumer.
type DictionaryReader interface {
	ReadCoeffs(section string) (map[string]interface{}, error)
}

type RunTime interface {
	DeltaT() float64
}

// Components is everything a closure is constructed from. The closure holds
// these as borrowed references and never mutates them.
type Components struct {
	Alpha, Rho     FV2D.ReadOnlyScalar // Transport equations are weighted by alpha rho
	U              *FV2D.VectorField
	AlphaRhoPhi    *FV2D.SurfaceScalarField // Convecting flux, alpha rho phi
	Phi            *FV2D.SurfaceScalarField
	Transport      TransportModel
	Dictionary     DictionaryReader
	PropertiesName string // Model type name used for the registry lookup
	Time           RunTime
	Solver         FV2D.Solver
	ParallelDegree int // Zero uses one partition per CPU
	Log            *logrus.Logger
	// Initial fields by name, ownership passes to the closure
	Initial map[string]*FV2D.ScalarField
}

// Validate checks that the required components are present and agree with
// the velocity mesh. Missing weighting fields default to one.
func (c *Components) Validate() (err error) {
	switch {
	case c.U == nil:
		return fmt.Errorf("turbulence components: velocity field is nil")
	case c.Phi == nil:
		return fmt.Errorf("turbulence components: flux field is nil")
	case c.Transport == nil:
		return fmt.Errorf("turbulence components: transport model is nil")
	case c.Solver == nil:
		return fmt.Errorf("turbulence components: linear solver is nil")
	case c.Time == nil:
		return fmt.Errorf("turbulence components: run time is nil")
	}
	var (
		mesh = c.U.Mesh
		N    = mesh.NCells()
	)
	if c.Phi.Mesh != mesh {
		return fmt.Errorf("turbulence components: flux %s is not on the velocity mesh", c.Phi.Name)
	}
	if c.Transport.Nu().Len() != N {
		return fmt.Errorf("turbulence components: viscosity has %d values, mesh has %d cells",
			c.Transport.Nu().Len(), N)
	}
	if c.Alpha == nil {
		c.Alpha = FV2D.UniformScalar{Value: 1, N: N}
	}
	if c.Rho == nil {
		c.Rho = FV2D.UniformScalar{Value: 1, N: N}
	}
	if c.AlphaRhoPhi == nil {
		c.AlphaRhoPhi = c.Phi
	}
	if c.AlphaRhoPhi.Mesh != mesh {
		return fmt.Errorf("turbulence components: flux %s is not on the velocity mesh", c.AlphaRhoPhi.Name)
	}
	if c.Alpha.Len() != N || c.Rho.Len() != N {
		return fmt.Errorf("turbulence components: weighting fields have %d and %d values, mesh has %d cells",
			c.Alpha.Len(), c.Rho.Len(), N)
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return
}

func (c *Components) Mesh() *FV2D.Mesh { return c.U.Mesh }
