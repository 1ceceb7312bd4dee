package types

import (
	"fmt"
	"strings"
)

//go:generate stringer -type=BCFLAG

// BCFLAG is the physical kind of a boundary patch. Field boundary conditions
// (fixed value, zero gradient) are chosen per field from the patch kind.
type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_In
	BC_Out
	BC_Far
	BC_Wall
	BC_Slip
)

var BCNameMap = map[string]BCFLAG{
	"inflow":   BC_In,
	"in":       BC_In,
	"inlet":    BC_In,
	"out":      BC_Out,
	"outflow":  BC_Out,
	"outlet":   BC_Out,
	"wall":     BC_Wall,
	"far":      BC_Far,
	"top":      BC_Far,
	"slip":     BC_Slip,
	"symmetry": BC_Slip,
}

func NewBCFLAG(name string) (bf BCFLAG, err error) {
	var (
		ok bool
	)
	if bf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown boundary type: \"%s\"", name)
	}
	return
}

// IsWall reports whether the patch contributes to the wall distance.
func (bf BCFLAG) IsWall() bool {
	return bf == BC_Wall
}
