package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/notargets/rascfd/model_problems/FlatPlate"
)

var (
	csvFile string
	all     bool
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "station file written by rascfd plate")
	allPtr := flag.Bool("all", all, "print every station, not only the onset")
	flag.Parse()
	csvFile, all = *csvFilePtr, *allPtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	st, err := readStations(csvFile)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if all {
		for _, s := range st {
			fmt.Printf("%v, %v, %v, %v\n", s.X, s.ReX, s.GammaMax, s.NutRatioMax)
		}
	}
	if s, found := FlatPlate.Onset(st); found {
		fmt.Printf("Onset: x = %v, Re_x = %v, gamma = %v, nut/nu = %v\n", s.X, s.ReX, s.GammaMax, s.NutRatioMax)
	} else {
		fmt.Printf("No onset in %d stations\n", len(st))
	}
}

func readStations(csvFile string) (st []FlatPlate.Station, err error) {
	var (
		f *os.File
	)
	if f, err = os.Open(csvFile); err != nil {
		return
	}
	defer f.Close()
	return FlatPlate.ReadStations(bufio.NewReader(f))
}
