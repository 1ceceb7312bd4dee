package turbulence

import (
	"fmt"
	"sort"
)

type Constructor func(c Components) (Closure, error)

// Registry maps model type names to constructors. It is built once at
// start up by the driver, nothing registers itself.
type Registry struct {
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

func (r *Registry) Register(name string, ctor Constructor) (err error) {
	if ctor == nil {
		return fmt.Errorf("turbulence registry: nil constructor for %s", name)
	}
	if _, ok := r.constructors[name]; ok {
		return fmt.Errorf("turbulence registry: %s is already registered", name)
	}
	r.constructors[name] = ctor
	return
}

// New validates the components and builds the closure named by
// c.PropertiesName.
func (r *Registry) New(c Components) (cl Closure, err error) {
	ctor, ok := r.constructors[c.PropertiesName]
	if !ok {
		err = fmt.Errorf("unknown turbulence model %s, valid models are %v", c.PropertiesName, r.Names())
		return
	}
	if err = c.Validate(); err != nil {
		return
	}
	if cl, err = ctor(c); err != nil {
		err = fmt.Errorf("constructing %s: %w", c.PropertiesName, err)
	}
	return
}

func (r *Registry) Names() (names []string) {
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
