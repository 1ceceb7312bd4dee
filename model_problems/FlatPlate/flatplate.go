package FlatPlate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/notargets/rascfd/FV2D"
	"github.com/notargets/rascfd/InputParameters"
	"github.com/notargets/rascfd/RASModels"
	"github.com/notargets/rascfd/turbulence"
	"github.com/notargets/rascfd/utils"
)

/*
	Zero pressure gradient flat plate. The velocity is the frozen Blasius
	solution, only the turbulence closure is iterated.
*/
type FlatPlate struct {
	Input   *InputParameters.InputParametersRAS
	Mesh    *FV2D.Mesh
	U       *FV2D.VectorField
	Phi     *FV2D.SurfaceScalarField
	Wall    FV2D.WallView
	Time    *FV2D.Time
	Closure turbulence.Closure
	Blasius *Blasius
	Changes []float64 // Relative nut change of every iteration
	log     *logrus.Entry
}

// NewRegistry returns the closures a plate case can be run with.
func NewRegistry() (r *turbulence.Registry, err error) {
	r = turbulence.NewRegistry()
	if err = r.Register(turbulence.LaminarTypeName, turbulence.NewLaminar); err != nil {
		return
	}
	err = RASModels.Register(r)
	return
}

func NewFlatPlate(ip *InputParameters.InputParametersRAS, dict turbulence.DictionaryReader,
	log *logrus.Logger) (fp *FlatPlate, err error) {
	var (
		registry *turbulence.Registry
		solver   FV2D.Solver
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	fp = &FlatPlate{
		Input: ip,
		log:   log.WithField("case", ip.Title),
	}
	if fp.Mesh, err = FV2D.NewRectilinearMesh(FV2D.MeshSpec{
		X0:          ip.Mesh.X0,
		X1:          ip.Mesh.X1,
		Height:      ip.Mesh.Height,
		Nx:          ip.Mesh.Nx,
		Ny:          ip.Mesh.Ny,
		GrowthRatio: ip.Mesh.GrowthRatio,
		LeadingEdge: ip.Mesh.LeadingEdge,
	}); err != nil {
		return nil, err
	}
	if fp.Blasius, err = NewBlasius(); err != nil {
		return nil, err
	}
	fp.setVelocity()
	pm := utils.NewCellPartitions(ip.ParallelDegree, fp.Mesh.NCells())
	if fp.Wall, err = FV2D.WallDistance(fp.Mesh, pm); err != nil {
		return nil, err
	}
	if fp.Time, err = FV2D.NewTime(ip.DeltaT, ip.MaxIterations); err != nil {
		return nil, err
	}
	switch ip.Solver.Type {
	case "Direct":
		solver = FV2D.Direct{}
	default:
		solver = FV2D.NewBiCGStab(ip.Solver.Tolerance, ip.Solver.RelTol, ip.Solver.MaxIter)
	}
	transport, err := turbulence.NewSinglePhaseTransport(ip.Nu, fp.Mesh.NCells())
	if err != nil {
		return nil, err
	}
	Rnu, gamma, err := fp.initialFields()
	if err != nil {
		return nil, err
	}
	if registry, err = NewRegistry(); err != nil {
		return nil, err
	}
	if fp.Closure, err = registry.New(turbulence.Components{
		U:              fp.U,
		Phi:            fp.Phi,
		Transport:      transport,
		Dictionary:     dict,
		PropertiesName: ip.Model,
		Time:           fp.Time,
		Solver:         solver,
		ParallelDegree: ip.ParallelDegree,
		Log:            log,
		Initial:        map[string]*FV2D.ScalarField{"Rnu": Rnu, "gamma": gamma},
	}); err != nil {
		return nil, err
	}
	return
}

func (fp *FlatPlate) setVelocity() {
	var (
		ip = fp.Input
		m  = fp.Mesh
	)
	U := func(c [2]float64) [2]float64 {
		return fp.Blasius.Velocity(c[0]-ip.Mesh.LeadingEdge, c[1], ip.Uinf, ip.Nu)
	}
	fp.U = FV2D.NewVectorField("U", m, [2]float64{ip.Uinf, 0})
	for k, c := range m.C {
		fp.U.Internal[k] = U(c)
	}
	for np, p := range m.Patches {
		if p.Name == "outlet" {
			continue
		}
		fp.U.Boundary[np].Kind = FV2D.FixedValue
		for i, cf := range p.Cf {
			fp.U.Boundary[np].Values[i] = U(cf)
		}
	}
	fp.U.CorrectBoundaryConditions()
	fp.Phi = FV2D.Flux(fp.U)
}

func (fp *FlatPlate) initialFields() (Rnu, gamma *FV2D.ScalarField, err error) {
	var (
		ip     = fp.Input
		RnuInf = ip.NutRatio * ip.Nu
	)
	Rnu = FV2D.NewScalarField("Rnu", fp.Mesh, RnuInf)
	if err = Rnu.SetFixedValue("inlet", RnuInf); err != nil {
		return
	}
	if err = Rnu.SetFixedValue("wall", 0); err != nil {
		return
	}
	gamma = FV2D.NewScalarField("gamma", fp.Mesh, *ip.InletGamma)
	err = gamma.SetFixedValue("inlet", *ip.InletGamma)
	return
}

// Run iterates the closure until the change in nut drops below the
// tolerance or the iteration limit is reached.
func (fp *FlatPlate) Run() (converged bool, err error) {
	var (
		ip    = fp.Input
		nut   = fp.Closure.Nut()
		prev  = make([]float64, len(nut.Internal))
		delta float64
	)
	for fp.Time.Loop() {
		iter := fp.Time.Iteration
		if ip.ReadEvery > 0 && iter%ip.ReadEvery == 0 {
			if rerr := fp.Closure.Read(); rerr != nil {
				fp.log.WithError(rerr).Warn("coefficient reload failed, keeping previous values")
			}
		}
		copy(prev, nut.Internal)
		if err = fp.Closure.Correct(fp.Wall); err != nil {
			err = fmt.Errorf("iteration %d: %w", iter, err)
			return
		}
		delta = relativeChange(prev, nut.Internal)
		fp.Changes = append(fp.Changes, delta)
		fp.log.WithFields(logrus.Fields{
			"iteration": iter,
			"change":    delta,
		}).Debug("closure corrected")
		if delta <= ip.Tolerance {
			converged = true
			break
		}
	}
	fp.log.WithFields(logrus.Fields{
		"iterations": fp.Time.Iteration,
		"change":     delta,
		"converged":  converged,
		"memory":     utils.GetMemUsage(),
	}).Info("flat plate finished")
	return
}

func relativeChange(prev, cur []float64) (delta float64) {
	var (
		scale float64
	)
	for k := range cur {
		delta = math.Max(delta, math.Abs(cur[k]-prev[k]))
		scale = math.Max(scale, math.Abs(cur[k]))
	}
	if scale == 0 {
		return
	}
	return delta / scale
}
