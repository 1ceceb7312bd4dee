package turbulence

import (
	"github.com/notargets/rascfd/FV2D"
)

const LaminarTypeName = "laminar"

// Laminar is the closure with no turbulence, all of its fields are zero.
type Laminar struct {
	nut *FV2D.ScalarField
}

func NewLaminar(c Components) (Closure, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Laminar{nut: FV2D.NewScalarField("nut", c.Mesh(), 0)}, nil
}

func (l *Laminar) Correct(FV2D.WallView) error { return nil }
func (l *Laminar) Read() error                 { return nil }
func (l *Laminar) Nut() *FV2D.ScalarField      { return l.nut }
func (l *Laminar) K() *FV2D.ScalarField        { return l.nut.Copy("k") }
func (l *Laminar) Epsilon() *FV2D.ScalarField  { return l.nut.Copy("epsilon") }
func (l *Laminar) Type() string                { return LaminarTypeName }
