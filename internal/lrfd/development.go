package lrfd

import (
	"fmt"
	"math"
)

// DevelopmentMethod is the closed set of development length models
type DevelopmentMethod int

const (
	DevelopmentStandard       DevelopmentMethod = iota // Article 5.9.4.3.2
	DevelopmentUHPCSimplified                          // PCI UHPC
	DevelopmentUHPCGuide                               // AASHTO UHPC guide
)

func (m DevelopmentMethod) String() string {
	switch m {
	case DevelopmentStandard:
		return "LRFD 5.9.4.3.2"
	case DevelopmentUHPCSimplified:
		return "PCI UHPC"
	case DevelopmentUHPCGuide:
		return "AASHTO UHPC GS"
	}
	return fmt.Sprintf("DevelopmentMethod(%d)", int(m))
}

// SelectDevelopmentMethod picks the development model for the concrete type
func SelectDevelopmentMethod(ct ConcreteType) DevelopmentMethod {
	switch ct {
	case UHPCPCI:
		return DevelopmentUHPCSimplified
	case UHPCFHWA:
		return DevelopmentUHPCGuide
	default:
		return DevelopmentStandard
	}
}

// Kappa returns the development length multiplier (Article 5.9.4.3.2/3)
func Kappa(memberDepth float64, debonded bool, ed Edition) float64 {
	if debonded {
		if ed < Edition3rd2004 && memberDepth <= 24 {
			return 1.0
		}
		return 2.0
	}
	if memberDepth <= 24 {
		return 1.0
	}
	return 1.6
}

// DevelopmentLength returns ld (in). lt is the transfer length of the same
// strand; the result is never less than lt.
func DevelopmentLength(m DevelopmentMethod, db, fps, fpe, kappa, lt float64) float64 {
	var ld float64
	switch m {
	case DevelopmentStandard:
		// ld = κ(fps - 2/3 fpe)db
		ld = kappa * (fps - 2.0*fpe/3.0) * db
	case DevelopmentUHPCSimplified:
		// ld = 20db + 0.2(fps - fpe)db
		ld = 20*db + 0.2*(fps-fpe)*db
	case DevelopmentUHPCGuide:
		// ld = lt + 0.25(fps - fpe)db
		ld = lt + 0.25*(fps-fpe)*db
	default:
		panic(fmt.Sprintf("lrfd: unhandled development method %v", m))
	}
	return math.Max(ld, lt)
}
