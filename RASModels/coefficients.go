package RASModels

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cast"

	"github.com/notargets/rascfd/types"
)

// Coefficients are the model constants, all dimensionless.
type Coefficients struct {
	Flength   types.DimensionedScalar
	C1kOm     types.DimensionedScalar
	C1kEps    types.DimensionedScalar
	SigmakOm  types.DimensionedScalar
	SigmakEps types.DimensionedScalar
	Kappa     types.DimensionedScalar
	C2kOm     types.DimensionedScalar
	C2kEps    types.DimensionedScalar
	Cmu       types.DimensionedScalar
	Comega    types.DimensionedScalar
	Cm        types.DimensionedScalar
	Ce2       types.DimensionedScalar
	Ca2       types.DimensionedScalar
	SigmaGamm types.DimensionedScalar
}

// Older dictionaries use these names
var coefficientAliases = map[string]string{
	"sigmakW": "sigmakOm",
	"Cw":      "Comega",
}

func DefaultCoefficients() (c Coefficients) {
	c = Coefficients{
		Flength:   types.NewDimensionless("Flength", 100),
		C1kOm:     types.NewDimensionless("C1kOm", 0.0829),
		C1kEps:    types.NewDimensionless("C1kEps", 0.1127),
		SigmakOm:  types.NewDimensionless("sigmakOm", 0.72),
		SigmakEps: types.NewDimensionless("sigmakEps", 1.0),
		Kappa:     types.NewDimensionless("kappa", 0.41),
		Cmu:       types.NewDimensionless("Cmu", 0.09),
		Comega:    types.NewDimensionless("Comega", 8.54),
		Cm:        types.NewDimensionless("Cm", 8.0),
		Ce2:       types.NewDimensionless("Ce2", 50),
		Ca2:       types.NewDimensionless("Ca2", 0.06),
		SigmaGamm: types.NewDimensionless("sigmaGamm", 1.0),
	}
	c.C2kOm = types.NewDimensionless("C2kOm", c.derivedC2kOm())
	c.C2kEps = types.NewDimensionless("C2kEps", c.derivedC2kEps())
	return
}

func (c *Coefficients) derivedC2kOm() float64 {
	return c.C1kOm.Value/(c.Kappa.Value*c.Kappa.Value) + c.SigmakOm.Value
}

func (c *Coefficients) derivedC2kEps() float64 {
	return c.C1kEps.Value/(c.Kappa.Value*c.Kappa.Value) + c.SigmakEps.Value
}

// All returns pointers to the coefficients in declaration order.
func (c *Coefficients) All() []*types.DimensionedScalar {
	return []*types.DimensionedScalar{
		&c.Flength, &c.C1kOm, &c.C1kEps, &c.SigmakOm, &c.SigmakEps, &c.Kappa, &c.C2kOm,
		&c.C2kEps, &c.Cmu, &c.Comega, &c.Cm, &c.Ce2, &c.Ca2, &c.SigmaGamm,
	}
}

// Values returns the coefficients keyed by their dictionary names.
func (c Coefficients) Values() (vals map[string]float64) {
	vals = make(map[string]float64, 14)
	for _, ds := range c.All() {
		vals[ds.Name] = ds.Value
	}
	return
}

func (c *Coefficients) Validate() (err error) {
	for _, ds := range c.All() {
		if !ds.IsFinite() {
			return fmt.Errorf("coefficient %s is not finite: %g", ds.Name, ds.Value)
		}
	}
	for _, ds := range []types.DimensionedScalar{c.Kappa, c.Cmu, c.Comega, c.SigmakOm, c.SigmakEps, c.SigmaGamm} {
		if ds.Value <= 0 {
			return fmt.Errorf("coefficient %s must be positive, have %g", ds.Name, ds.Value)
		}
	}
	return
}

/*
	MergeCoefficients overrides base with the entries of dict. Unknown keys are
	ignored, values must coerce to finite floats. C2kOm and C2kEps are derived
	from the merged C1, kappa and sigma values unless given explicitly. base is
	never modified.
*/
func MergeCoefficients(base Coefficients, dict map[string]interface{}) (c Coefficients, err error) {
	var (
		byName = make(map[string]*types.DimensionedScalar)
		given  = make(map[string]bool)
		keys   = make([]string, 0, len(dict))
	)
	c = base
	for _, ds := range c.All() {
		byName[ds.Name] = ds
	}
	for key := range dict {
		keys = append(keys, key)
	}
	// Aliases first so that a canonical key wins
	sort.Slice(keys, func(i, j int) bool {
		_, ai := coefficientAliases[keys[i]]
		_, aj := coefficientAliases[keys[j]]
		if ai != aj {
			return ai
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		name := key
		if canonical, ok := coefficientAliases[key]; ok {
			name = canonical
		}
		ds, ok := byName[name]
		if !ok {
			continue
		}
		var val float64
		if val, err = coerce(dict[key]); err != nil {
			err = fmt.Errorf("coefficient %s: %w", key, err)
			return base, err
		}
		*ds = ds.WithValue(val)
		given[name] = true
	}
	if !given[c.C2kOm.Name] {
		c.C2kOm = c.C2kOm.WithValue(c.derivedC2kOm())
	}
	if !given[c.C2kEps.Name] {
		c.C2kEps = c.C2kEps.WithValue(c.derivedC2kEps())
	}
	if err = c.Validate(); err != nil {
		return base, err
	}
	return
}

func coerce(v interface{}) (val float64, err error) {
	switch v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case bool:
		return 0, fmt.Errorf("boolean %v is not a number", v)
	}
	if val, err = cast.ToFloat64E(v); err != nil {
		return
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		err = fmt.Errorf("value %v is not finite", v)
	}
	return
}
