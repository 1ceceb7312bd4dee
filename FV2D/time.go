package FV2D

import "fmt"

// Time is the pseudo time controller for a steady iteration.
type Time struct {
	deltaT    float64
	Iteration int
	EndIter   int
}

func NewTime(deltaT float64, endIter int) (t *Time, err error) {
	if deltaT < 0 || endIter < 0 {
		err = fmt.Errorf("invalid time control: deltaT = %g, end iteration = %d", deltaT, endIter)
		return
	}
	t = &Time{deltaT: deltaT, EndIter: endIter}
	return
}

// DeltaT is the pseudo time step, zero means steady.
func (t *Time) DeltaT() float64 { return t.deltaT }

// Loop advances the iteration counter and reports whether to keep going.
func (t *Time) Loop() bool {
	if t.Iteration >= t.EndIter {
		return false
	}
	t.Iteration++
	return true
}
