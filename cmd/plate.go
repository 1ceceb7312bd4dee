/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/rascfd/InputParameters"
	"github.com/notargets/rascfd/model_problems/FlatPlate"
)

type PlateRun struct {
	ICFile       string
	StationsFile string
	Iterations   int // Overrides MaxIterations when positive
	Graph        bool
	Profile      bool
	Verbose      bool
}

const examplePlateFile = `
########################################
Title: "T3A flat plate"
Model: WrayAgarwalTransition # or laminar
Nu: 1.5e-5
Uinf: 5.4
NutRatio: 3
InletGamma: 1
Mesh:
  X0: -0.05
  X1: 1.5
  Height: 0.1
  Nx: 120
  Ny: 60
  GrowthRatio: 1.08
MaxIterations: 500
DeltaT: 0.01
Tolerance: 1.e-6
ReadEvery: 50
Solver:
  Type: BiCGStab # or Direct
  Tolerance: 1.e-10
Coeffs:
  WrayAgarwalTransitionCoeffs:
    Flength: 100
########################################
`

// PlateCmd represents the plate command
var PlateCmd = &cobra.Command{
	Use:   "plate",
	Short: "Zero pressure gradient flat plate transition",
	Long: `
Iterates a turbulence closure over a frozen Blasius boundary layer and reports
where the eddy viscosity first exceeds the molecular viscosity,

rascfd plate -I case.yaml -o stations.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		pr := &PlateRun{
			ICFile:       viper.GetString("inputConditionsFile"),
			StationsFile: viper.GetString("stations"),
			Iterations:   viper.GetInt("iterations"),
			Graph:        viper.GetBool("graph"),
			Profile:      viper.GetBool("profile"),
			Verbose:      viper.GetBool("verbose"),
		}
		return pr.Execute(os.Stdout)
	},
}

var (
	startProfile = func() interface{ Stop() } {
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}
	plotStations = FlatPlate.PlotStations
	createFile   = func(name string) (io.WriteCloser, error) { return os.Create(name) }
)

// Execute runs the case. The profile is stopped before the graph is shown,
// the graph blocks until the process exits.
func (pr *PlateRun) Execute(out io.Writer) (err error) {
	var (
		prof interface{ Stop() }
		st   []FlatPlate.Station
	)
	if pr.Profile {
		prof = startProfile()
	}
	st, err = RunPlate(pr, out)
	if prof != nil {
		prof.Stop()
	}
	if err != nil {
		return
	}
	if pr.Graph {
		plotStations(st)
	}
	return
}

func init() {
	rootCmd.AddCommand(PlateCmd)
	PlateCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the case, coefficients are reloaded from it")
	PlateCmd.Flags().StringP("stations", "o", "stations.csv", "CSV file for the per station maxima")
	PlateCmd.Flags().IntP("iterations", "n", 0, "override the maximum number of iterations")
	PlateCmd.Flags().BoolP("graph", "g", false, "display nut/nu and gamma against Re_x when done")
	PlateCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
	PlateCmd.Flags().BoolP("verbose", "v", false, "log every iteration")
	for _, name := range []string{"inputConditionsFile", "stations", "iterations", "graph", "profile", "verbose"} {
		if err := viper.BindPFlag(name, PlateCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// RunPlate runs the case described by pr and writes the station file, the
// onset summary goes to out.
func RunPlate(pr *PlateRun, out io.Writer) (st []FlatPlate.Station, err error) {
	var (
		ip *InputParameters.InputParametersRAS
		fp *FlatPlate.FlatPlate
		f  io.WriteCloser
	)
	if len(pr.ICFile) == 0 {
		fmt.Fprintf(out, "Example File:%s\n", examplePlateFile)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		return
	}
	if ip, err = InputParameters.ReadFile(pr.ICFile); err != nil {
		return
	}
	if pr.Iterations > 0 {
		ip.MaxIterations = pr.Iterations
	}
	log := logrus.New()
	log.SetOutput(out)
	if pr.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if fp, err = FlatPlate.NewFlatPlate(ip, InputParameters.FileDictionary{Path: pr.ICFile}, log); err != nil {
		return
	}
	ip.Print()
	if _, err = fp.Run(); err != nil {
		return
	}
	st = fp.Stations()
	if s, found := FlatPlate.Onset(st); found {
		fmt.Fprintf(out, "Transition onset at x = %8.5f, Re_x = %10.4g\n", s.X, s.ReX)
	} else {
		fmt.Fprintf(out, "No transition onset on the plate\n")
	}
	if len(pr.StationsFile) == 0 {
		return
	}
	if f, err = createFile(pr.StationsFile); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", pr.StationsFile, cerr)
		}
	}()
	err = FlatPlate.WriteStations(f, st)
	return
}
