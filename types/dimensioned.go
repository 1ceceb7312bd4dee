package types

import (
	"fmt"
	"math"
)

// Dimensions holds SI exponents in the order
// [mass length time temperature moles current luminous-intensity].
type Dimensions [7]int

var Dimensionless = Dimensions{}

func (d Dimensions) String() string {
	return fmt.Sprintf("[%d %d %d %d %d %d %d]", d[0], d[1], d[2], d[3], d[4], d[5], d[6])
}

// DimensionedScalar is a named model constant with its physical dimensions.
type DimensionedScalar struct {
	Name  string
	Dims  Dimensions
	Value float64
}

func NewDimensionless(name string, value float64) DimensionedScalar {
	return DimensionedScalar{Name: name, Dims: Dimensionless, Value: value}
}

func (ds DimensionedScalar) String() string {
	return fmt.Sprintf("%s %s %g", ds.Name, ds.Dims.String(), ds.Value)
}

// WithValue returns a copy carrying a new value, name and dimensions unchanged.
func (ds DimensionedScalar) WithValue(value float64) DimensionedScalar {
	ds.Value = value
	return ds
}

func (ds DimensionedScalar) IsFinite() bool {
	return !math.IsNaN(ds.Value) && !math.IsInf(ds.Value, 0)
}
