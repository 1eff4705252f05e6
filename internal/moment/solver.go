package moment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/alexiusacademia/gopcb/internal/girder"
)

// Solver tolerances
const (
	forceTolerance    = 1.0e-6  // kip, scaled by the section force magnitude
	distanceTolerance = 1.0e-10 // in
	strainTolerance   = 1.0e-14
	maxIterations     = 200

	// Gauss-Legendre points per integration interval
	quadPoints = 5
)

// ErrNoTension is returned by Solve when no reinforcement can carry
// tension, so the section has no flexural capacity
var ErrNoTension = errors.New("no reinforcement in tension")

var (
	nodesOnce   sync.Once
	unitNodes   []float64
	unitWeights []float64
)

// legendre returns Gauss-Legendre nodes and weights on [0, 1]
func legendre() ([]float64, []float64) {
	nodesOnce.Do(func() {
		unitNodes = make([]float64, quadPoints)
		unitWeights = make([]float64, quadPoints)
		quad.Legendre{}.FixedLocations(unitNodes, unitWeights, 0, 1)
	})
	return unitNodes, unitWeights
}

// ElementState is the solved state of one reinforcement element
type ElementState struct {
	Element
	Depth       float64 // in, from the compression face
	Strain      float64 // section strain at the element, compression positive
	TotalStrain float64 // tensile strain including prestrain
	Stress      float64 // ksi, compression positive
	Force       float64 // kip, compression positive
}

// Solution is an equilibrium state of a Model
type Solution struct {
	C            float64 // neutral axis depth from the compression face (in)
	EpsTop       float64 // extreme compression fiber strain
	NeutralAxisY float64 // in, solve coordinates

	Compression  float64 // kip
	Tension      float64 // kip
	YCompression float64 // elevation of the compression resultant (in)
	YTension     float64 // elevation of the tension resultant (in)

	Moment   float64 // kip-in, compression at top positive
	Residual float64 // kip

	Iterations       int
	StrainControlled bool
	Elements         []ElementState
}

type evaluation struct {
	net, moment float64
	comp, compY float64
	tens, tensY float64
	scale       float64
	elements    []ElementState
}

// evaluate integrates the internal forces for a linear strain profile
// with strain epsTop at the top and zero at depth c
func (m *Model) evaluate(epsTop, c float64, keepElements bool) evaluation {
	var ev evaluation
	naY := m.Top - c
	strainAt := func(y float64) float64 { return epsTop * (y - naY) / c }

	nodes, weights := legendre()
	var concreteNet, concreteMoment float64
	for _, r := range m.Regions {
		levels := regionLevels(r, naY, c, epsTop)
		for i := 0; i+1 < len(levels); i++ {
			lo, hi := levels[i], levels[i+1]
			dy := hi - lo
			if dy <= distanceTolerance {
				continue
			}
			for k, t := range nodes {
				y := lo + t*dy
				f := r.Shape.WidthAtY(y) * r.Law.Stress(strainAt(y)) * weights[k] * dy
				concreteNet += f
				concreteMoment += f * y
				if f >= 0 {
					ev.comp += f
					ev.compY += f * y
				} else {
					ev.tens -= f
					ev.tensY -= f * y
				}
			}
		}
	}

	forces := make([]float64, len(m.Elements))
	ys := make([]float64, len(m.Elements))
	if keepElements {
		ev.elements = make([]ElementState, len(m.Elements))
	}
	for i, e := range m.Elements {
		eps := strainAt(e.Y)
		stress := e.Law.Stress(eps)
		forces[i] = stress * e.Area
		ys[i] = e.Y
		if forces[i] >= 0 {
			ev.comp += forces[i]
			ev.compY += forces[i] * e.Y
		} else {
			ev.tens -= forces[i]
			ev.tensY -= forces[i] * e.Y
		}
		if keepElements {
			ev.elements[i] = ElementState{
				Element:     e,
				Depth:       m.Top - e.Y,
				Strain:      eps,
				TotalStrain: e.tensileStrain(eps),
				Stress:      stress,
				Force:       forces[i],
			}
		}
	}

	// moment about y = 0; net force is zero at equilibrium
	ev.net = concreteNet + floats.Sum(forces)
	ev.moment = concreteMoment + floats.Dot(forces, ys)
	ev.scale = math.Max(1, ev.comp+ev.tens)
	return ev
}

// regionLevels returns the sorted elevations that split a region into
// intervals where both the width and the stress law are smooth
func regionLevels(r Region, naY, c, epsTop float64) []float64 {
	props := r.Shape.CalculateProperties()
	levels := []float64{props.MinY, props.MaxY}
	for _, v := range r.Shape.Vertices {
		levels = append(levels, v.Y)
	}
	for _, void := range r.Shape.Voids {
		for _, v := range void {
			levels = append(levels, v.Y)
		}
	}
	for _, eps := range r.Law.Breakpoints() {
		levels = append(levels, naY+eps*c/epsTop)
	}

	out := levels[:0]
	for _, y := range levels {
		if y >= props.MinY && y <= props.MaxY {
			out = append(out, y)
		}
	}
	sort.Float64s(out)
	return out
}

// Solve finds the neutral axis depth that equilibrates the section with
// the extreme compression fiber at its crushing strain. If a tension
// element would rupture first, the solve is repeated with the strain of
// that element held at its rupture limit.
func Solve(m *Model, poi girder.POI) (*Solution, error) {
	h := m.Height()
	if h <= 0 || m.ConcreteArea() <= 0 {
		return nil, &girder.SolveDivergenceError{POI: poi, Reason: "degenerate section geometry"}
	}

	epsTop := m.EpsCU
	if ev := m.evaluate(epsTop, 1e-9*h, false); ev.net > 0 && ev.tens <= forceTolerance*ev.scale {
		return nil, ErrNoTension
	}
	f := func(c float64) float64 { return m.evaluate(epsTop, c, false).net }
	c, iter, err := bisect(f, 1e-9*h, 20*h, distanceTolerance, func(x float64) float64 {
		return m.evaluate(epsTop, x, false).scale
	})
	if err != nil {
		return nil, divergence(poi, iter, f(c), err)
	}
	sol := m.solution(epsTop, c, iter)

	// check rupture of tension elements
	worst, over := -1, 0.0
	for i, e := range sol.Elements {
		if e.Rupture <= 0 {
			continue
		}
		if d := e.TotalStrain - e.Rupture; d > over {
			worst, over = i, d
		}
	}
	if worst < 0 {
		return sol, nil
	}

	e := sol.Elements[worst]
	// section strain at the element that puts it at its rupture strain
	target := prestrainOf(e.Element) - e.Rupture
	ys := e.Y
	cFor := func(top float64) float64 { return top * (m.Top - ys) / (top - target) }
	g := func(top float64) float64 { return m.evaluate(top, cFor(top), false).net }
	top, iter2, err := bisect(g, strainTolerance, m.EpsCU, strainTolerance, func(x float64) float64 {
		return m.evaluate(x, cFor(x), false).scale
	})
	if err != nil {
		return nil, divergence(poi, iter+iter2, g(top), err)
	}
	sol = m.solution(top, cFor(top), iter+iter2)
	sol.StrainControlled = true
	return sol, nil
}

func prestrainOf(e Element) float64 {
	return e.tensileStrain(0)
}

func divergence(poi girder.POI, iter int, residual float64, err error) error {
	return &girder.SolveDivergenceError{POI: poi, Iterations: iter, Residual: residual, Reason: err.Error()}
}

func (m *Model) solution(epsTop, c float64, iter int) *Solution {
	ev := m.evaluate(epsTop, c, true)
	sol := &Solution{
		C:            c,
		EpsTop:       epsTop,
		NeutralAxisY: m.Top - c,
		Compression:  ev.comp,
		Tension:      ev.tens,
		Moment:       ev.moment,
		Residual:     ev.net,
		Iterations:   iter,
		Elements:     ev.elements,
	}
	if ev.comp > 0 {
		sol.YCompression = ev.compY / ev.comp
	}
	if ev.tens > 0 {
		sol.YTension = ev.tensY / ev.tens
	}
	return sol
}

// bisect finds a root of the increasing function f on [lo, hi]. scale
// gives the force magnitude used to make the residual tolerance relative.
func bisect(f func(float64) float64, lo, hi, tolX float64, scale func(float64) float64) (float64, int, error) {
	flo, fhi := f(lo), f(hi)
	if flo > 0 || fhi < 0 {
		return lo, 0, fmt.Errorf("equilibrium not bracketed: F(%.3g)=%.3g, F(%.3g)=%.3g", lo, flo, hi, fhi)
	}

	var mid float64
	for iter := 1; iter <= maxIterations; iter++ {
		mid = (lo + hi) / 2
		fm := f(mid)
		if math.Abs(fm) <= forceTolerance*scale(mid) {
			return mid, iter, nil
		}
		if hi-lo <= tolX {
			return mid, iter, fmt.Errorf("bracket collapsed with residual %.3g kip", fm)
		}
		if fm < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid, maxIterations, fmt.Errorf("no convergence in %d iterations", maxIterations)
}
