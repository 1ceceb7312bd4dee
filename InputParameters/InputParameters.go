package InputParameters

import (
	"fmt"
	"os"
	"sort"

	"github.com/ghodss/yaml"
)

type MeshParameters struct {
	X0          float64 `yaml:"X0"`
	X1          float64 `yaml:"X1"`
	Height      float64 `yaml:"Height"`
	Nx          int     `yaml:"Nx"`
	Ny          int     `yaml:"Ny"`
	GrowthRatio float64 `yaml:"GrowthRatio"`
	LeadingEdge float64 `yaml:"LeadingEdge"`
}

type SolverParameters struct {
	Type      string  `yaml:"Type"` // BiCGStab or Direct
	Tolerance float64 `yaml:"Tolerance"`
	RelTol    float64 `yaml:"RelTol"`
	MaxIter   int     `yaml:"MaxIter"`
}

// Parameters obtained from the YAML input file
type InputParametersRAS struct {
	Title          string                            `yaml:"Title"`
	Model          string                            `yaml:"Model"`
	Nu             float64                           `yaml:"Nu"`
	Uinf           float64                           `yaml:"Uinf"`
	NutRatio       float64                           `yaml:"NutRatio"`   // Inlet Rnu/nu
	InletGamma     *float64                          `yaml:"InletGamma"` // Inlet intermittency, absent is 1
	Mesh           MeshParameters                    `yaml:"Mesh"`
	MaxIterations  int                               `yaml:"MaxIterations"`
	DeltaT         float64                           `yaml:"DeltaT"`
	Tolerance      float64                           `yaml:"Tolerance"` // Converged when max |dnut|/max nut drops below
	ReadEvery      int                               `yaml:"ReadEvery"` // Reload coefficients every N iterations, 0 never
	Solver         SolverParameters                  `yaml:"Solver"`
	ParallelDegree int                               `yaml:"ParallelDegree"`
	Coeffs         map[string]map[string]interface{} `yaml:"Coeffs"` // Coefficient dictionary sections
}

func (ip *InputParametersRAS) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func ReadFile(path string) (ip *InputParametersRAS, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = &InputParametersRAS{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("parsing %s: %w", path, err)
		ip = nil
	}
	return
}

// Validate fills in defaults for missing optional entries and rejects
// values the solver can not run with.
func (ip *InputParametersRAS) Validate() (err error) {
	if ip.Model == "" {
		ip.Model = "WrayAgarwalTransition"
	}
	if ip.MaxIterations == 0 {
		ip.MaxIterations = 200
	}
	if ip.InletGamma == nil {
		one := 1.
		ip.InletGamma = &one
	}
	if ip.Solver.Type == "" {
		ip.Solver.Type = "BiCGStab"
	}
	if ip.Solver.Tolerance == 0 {
		ip.Solver.Tolerance = 1.e-8
	}
	if ip.Solver.MaxIter == 0 {
		ip.Solver.MaxIter = 1000
	}
	switch {
	case ip.Nu <= 0:
		err = fmt.Errorf("Nu must be positive, have %g", ip.Nu)
	case ip.Uinf <= 0:
		err = fmt.Errorf("Uinf must be positive, have %g", ip.Uinf)
	case ip.NutRatio < 0:
		err = fmt.Errorf("NutRatio can not be negative, have %g", ip.NutRatio)
	case *ip.InletGamma < 0 || *ip.InletGamma > 1:
		err = fmt.Errorf("InletGamma must be in [0,1], have %g", *ip.InletGamma)
	case ip.Mesh.Nx < 1 || ip.Mesh.Ny < 1:
		err = fmt.Errorf("Mesh needs Nx and Ny, have %d x %d", ip.Mesh.Nx, ip.Mesh.Ny)
	case ip.MaxIterations < 0 || ip.ReadEvery < 0:
		err = fmt.Errorf("iteration counts can not be negative")
	case ip.Solver.Type != "BiCGStab" && ip.Solver.Type != "Direct":
		err = fmt.Errorf("unknown solver %s, use BiCGStab or Direct", ip.Solver.Type)
	}
	return
}

func (ip *InputParametersRAS) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t= Model\n", ip.Model)
	fmt.Printf("%8.5g\t\t= Nu\n", ip.Nu)
	fmt.Printf("%8.5f\t\t= Uinf\n", ip.Uinf)
	fmt.Printf("%8.5f\t\t= NutRatio\n", ip.NutRatio)
	if ip.InletGamma != nil {
		fmt.Printf("%8.5f\t\t= InletGamma\n", *ip.InletGamma)
	}
	fmt.Printf("[%d x %d]\t\t= Mesh cells, x in [%g, %g], height %g\n",
		ip.Mesh.Nx, ip.Mesh.Ny, ip.Mesh.X0, ip.Mesh.X1, ip.Mesh.Height)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("[%s]\t\t= Linear Solver\n", ip.Solver.Type)
	keys := make([]string, len(ip.Coeffs))
	i := 0
	for k := range ip.Coeffs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Coeffs[%s] = %v\n", key, ip.Coeffs[key])
	}
}

// MapDictionary is an in memory coefficient dictionary.
type MapDictionary map[string]map[string]interface{}

// ReadCoeffs returns a copy of the named section, empty when absent.
func (md MapDictionary) ReadCoeffs(section string) (coeffs map[string]interface{}, err error) {
	coeffs = make(map[string]interface{}, len(md[section]))
	for k, v := range md[section] {
		coeffs[k] = v
	}
	return
}

// FileDictionary reads the Coeffs block of a case file again on every call,
// so edits to the file are seen by the next reload.
type FileDictionary struct {
	Path string
}

func (fd FileDictionary) ReadCoeffs(section string) (coeffs map[string]interface{}, err error) {
	var (
		ip *InputParametersRAS
	)
	if ip, err = ReadFile(fd.Path); err != nil {
		return
	}
	return MapDictionary(ip.Coeffs).ReadCoeffs(section)
}
