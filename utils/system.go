package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case [][2]float64:
		for _, f := range v {
			if math.IsNaN(f[0]) || math.IsNaN(f[1]) {
				return true
			}
		}
	}
	return false
}

// CountOutside returns how many entries of v fall outside [lo, hi].
func CountOutside(v []float64, lo, hi float64) (count int) {
	for _, f := range v {
		if f < lo || f > hi {
			count++
		}
	}
	return
}
