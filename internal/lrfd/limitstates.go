package lrfd

import "fmt"

// LimitState represents an AASHTO LRFD load combination
// Based on Table 3.4.1-1 - Load Combinations and Load Factors
type LimitState struct {
	ID          string
	Description string
	// Load factors for each load type
	DC float64 // Component dead load
	DW float64 // Wearing surface and utilities
	LL float64 // Vehicular live load including impact
	PS float64 // Secondary forces from post-tensioning
}

// Limit states used by capacity checks
var (
	StrengthI = LimitState{
		ID:          "StrengthI",
		Description: "1.25DC + 1.50DW + 1.75(LL+IM)",
		DC:          1.25,
		DW:          1.50,
		LL:          1.75,
		PS:          1.0,
	}
	StrengthII = LimitState{
		ID:          "StrengthII",
		Description: "1.25DC + 1.50DW + 1.35(LL+IM)",
		DC:          1.25,
		DW:          1.50,
		LL:          1.35,
		PS:          1.0,
	}
	ServiceI = LimitState{
		ID:          "ServiceI",
		Description: "1.0DC + 1.0DW + 1.0(LL+IM)",
		DC:          1.0,
		DW:          1.0,
		LL:          1.0,
		PS:          1.0,
	}
	ServiceIII = LimitState{
		ID:          "ServiceIII",
		Description: "1.0DC + 1.0DW + 0.8(LL+IM)",
		DC:          1.0,
		DW:          1.0,
		LL:          0.8,
		PS:          1.0,
	}
	FatigueI = LimitState{
		ID:          "FatigueI",
		Description: "1.75(LL+IM)",
		LL:          1.75,
	}
)

// LimitStates lists every supported combination
var LimitStates = []LimitState{StrengthI, StrengthII, ServiceI, ServiceIII, FatigueI}

// LookupLimitState finds a limit state by ID
func LookupLimitState(id string) (LimitState, error) {
	for _, ls := range LimitStates {
		if ls.ID == id {
			return ls, nil
		}
	}
	return LimitState{}, fmt.Errorf("unknown limit state %q", id)
}

// IsStrength reports whether the combination is a strength limit state
func (ls LimitState) IsStrength() bool {
	return ls.ID == StrengthI.ID || ls.ID == StrengthII.ID
}

// Factored combines unfactored product forces for this limit state
func (ls LimitState) Factored(f ProductForces) float64 {
	return ls.DC*f.DC +
		ls.DW*f.DW +
		ls.LL*f.LL +
		ls.PS*f.PS
}

// ProductForces holds unfactored moments or shears from each load type
type ProductForces struct {
	DC float64 // Component dead load
	DW float64 // Wearing surface
	LL float64 // Live load including impact
	PS float64 // Secondary post-tensioning effects
}

// Governing finds the maximum factored effect from all combinations
func Governing(f ProductForces, states []LimitState) (float64, LimitState) {
	var maxValue float64
	var governing LimitState

	for i, ls := range states {
		v := ls.Factored(f)
		if i == 0 || v > maxValue {
			maxValue = v
			governing = ls
		}
	}

	return maxValue, governing
}
