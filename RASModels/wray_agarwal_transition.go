package RASModels

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/turbulence"
	"github.com/notargets/rascfd/utils"
)

const (
	TypeName       = "WrayAgarwalTransition"
	CoeffsDictName = TypeName + "Coeffs"
)

/*
	WrayAgarwalTransition is the Wray-Agarwal one equation eddy viscosity
	model with an intermittency equation that holds the production of Rnu
	back until the local vorticity Reynolds number passes the onset
	correlation. Rnu and gamma are the only state carried between steps.
*/
type WrayAgarwalTransition struct {
	turbulence.Components
	coeffs     Coefficients
	rnu, gamma *FV2D.ScalarField
	nut        *FV2D.ScalarField
	nu         FV2D.ReadOnlyScalar
	pm         *utils.PartitionMap
	log        *logrus.Entry
	iteration  int
}

// Register adds the model to a registry under TypeName.
func Register(r *turbulence.Registry) error {
	return r.Register(TypeName, New)
}

/*
	New builds the model from its components. The initial Rnu field comes
	from c.Initial["Rnu"] and ownership of it passes to the model, gamma is
	taken from c.Initial["gamma"] when present and is otherwise uniformly one
	with zero gradient boundaries.
*/
func New(c turbulence.Components) (cl turbulence.Closure, err error) {
	var (
		m = &WrayAgarwalTransition{}
	)
	if err = c.Validate(); err != nil {
		return
	}
	mesh := c.Mesh()
	m.Components = c
	m.nu = c.Transport.Nu()
	m.pm = utils.NewCellPartitions(c.ParallelDegree, mesh.NCells())
	m.log = c.Log.WithField("model", TypeName)
	if m.rnu = c.Initial["Rnu"]; m.rnu == nil {
		err = fmt.Errorf("%s needs an initial Rnu field", TypeName)
		return
	}
	if m.gamma = c.Initial["gamma"]; m.gamma == nil {
		m.gamma = FV2D.NewScalarField("gamma", mesh, 1)
	}
	for _, f := range []*FV2D.ScalarField{m.rnu, m.gamma} {
		if f.Mesh != mesh {
			err = fmt.Errorf("initial field %s is not on the velocity mesh", f.Name)
			return
		}
	}
	m.rnu.Name, m.gamma.Name = "Rnu", "gamma"
	m.clipRnu(m.rnu.Internal)
	m.rnu.CorrectBoundaryConditions()
	m.gamma.CorrectBoundaryConditions()
	if err = m.Read(); err != nil {
		return
	}
	m.nut = FV2D.NewScalarField("nut", mesh, 0)
	m.CorrectNut()
	m.log.WithFields(logrus.Fields{
		"cells":      mesh.NCells(),
		"partitions": m.pm.ParallelDegree,
	}).Debug("constructed")
	cl = m
	return
}

func (m *WrayAgarwalTransition) Type() string { return TypeName }

/*
	Read reloads the coefficient dictionary section. Missing entries take
	their defaults, on any error the current coefficients are kept.
*/
func (m *WrayAgarwalTransition) Read() (err error) {
	var (
		dict   map[string]interface{}
		coeffs Coefficients
	)
	if m.Dictionary != nil {
		if dict, err = m.Dictionary.ReadCoeffs(CoeffsDictName); err != nil {
			err = fmt.Errorf("reading %s: %w", CoeffsDictName, err)
			return
		}
	}
	if coeffs, err = MergeCoefficients(DefaultCoefficients(), dict); err != nil {
		err = fmt.Errorf("reading %s: %w", CoeffsDictName, err)
		return
	}
	m.coeffs = coeffs
	return
}

func (m *WrayAgarwalTransition) Coefficients() Coefficients { return m.coeffs }

func (m *WrayAgarwalTransition) Gamma() *FV2D.ScalarField { return m.gamma }

func (m *WrayAgarwalTransition) Nut() *FV2D.ScalarField { return m.nut }

// Iteration is the number of successful Correct calls.
func (m *WrayAgarwalTransition) Iteration() int { return m.iteration }
