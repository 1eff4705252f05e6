package girder

import "fmt"

// InputDomainError reports a query with an inconsistent or out-of-range
// identifier. It is always a caller defect.
type InputDomainError struct {
	What  string
	Value any
}

func (e *InputDomainError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.What, e.Value)
}

// SolveDivergenceError reports a strain-compatibility solve that did not
// reach equilibrium.
type SolveDivergenceError struct {
	POI        POI
	Iterations int
	Residual   float64 // kip
	Reason     string
}

func (e *SolveDivergenceError) Error() string {
	return fmt.Sprintf("%v: strain compatibility did not converge after %d iterations (residual %.3g kip): %s",
		e.POI, e.Iterations, e.Residual, e.Reason)
}

// CheckInterval validates an interval index against the timeline
func CheckInterval(tl Timeline, interval int) error {
	if n := len(tl.Intervals()); interval < 0 || interval >= n {
		return &InputDomainError{What: "interval", Value: interval}
	}
	return nil
}
