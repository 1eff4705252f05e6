package moment

import (
	"math"
	"sort"

	"github.com/alexiusacademia/gopcb/internal/girder"
)

// CrackedDetails holds transformed cracked section properties
type CrackedDetails struct {
	Sign girder.Sign
	X    float64

	C            float64 // depth of the neutral axis from the compression face (in)
	NeutralAxisY float64 // in, girder coordinates
	Icr          float64 // in⁴, transformed to ERef
	ERef         float64 // ksi, modulus of the concrete at the compression face
}

type crackedKey struct {
	sign girder.Sign
	poi  girder.POIID
}

// Cracked returns the cracked section properties at the POI. The analysis
// uses the final section and is independent of interval.
func (e *Engine) Cracked(sign girder.Sign, poi girder.POI, cfg *girder.Config) (*CrackedDetails, error) {
	if cfg != nil {
		return e.computeCracked(girder.Inputs{P: e.p, Cfg: cfg}, sign, poi)
	}
	poi = e.resolve(poi)
	return e.cracked.GetOrCompute(crackedKey{sign, poi.ID}, func() (*CrackedDetails, error) {
		return e.computeCracked(girder.Inputs{P: e.p}, sign, poi)
	})
}

func (e *Engine) computeCracked(in girder.Inputs, sign girder.Sign, poi girder.POI) (*CrackedDetails, error) {
	final := len(e.p.Timeline.Intervals()) - 1
	m, err := e.buildModel(in, final, sign, poi, nil)
	if err != nil {
		return nil, err
	}
	d := &CrackedDetails{Sign: sign, X: poi.X}
	if len(m.Elements) == 0 {
		return d, nil
	}

	// reference modulus is the region at the compression face
	for _, r := range m.Regions {
		p := r.Shape.CalculateProperties()
		if math.Abs(p.MaxY-m.Top) < distanceTolerance {
			d.ERef = r.E
		}
	}
	if d.ERef <= 0 {
		return nil, &girder.SolveDivergenceError{POI: poi, Reason: "no concrete at the compression face"}
	}

	h := m.Height()
	scale := func(float64) float64 {
		a := m.ConcreteArea()
		for _, el := range m.Elements {
			a += el.Area * el.E / d.ERef
		}
		return a * h
	}
	q := func(c float64) float64 { s, _ := m.crackedMoments(m.Top-c, d.ERef); return s }
	c, iter, err := bisect(q, 1e-9*h, h, distanceTolerance, scale)
	if err != nil {
		return nil, divergence(poi, iter, q(c), err)
	}

	d.C = c
	d.NeutralAxisY = m.Elevation(m.Top - c)
	_, d.Icr = m.crackedMoments(m.Top-c, d.ERef)
	return d, nil
}

// crackedMoments returns the first and second moments of the transformed
// cracked section about the elevation na. Concrete below na is cracked.
func (m *Model) crackedMoments(na, eRef float64) (first, second float64) {
	nodes, weights := legendre()
	for _, r := range m.Regions {
		props := r.Shape.CalculateProperties()
		if props.MaxY <= na {
			continue
		}
		n := r.E / eRef
		levels := []float64{math.Max(na, props.MinY), props.MaxY}
		for _, v := range r.Shape.Vertices {
			levels = append(levels, v.Y)
		}
		for _, void := range r.Shape.Voids {
			for _, v := range void {
				levels = append(levels, v.Y)
			}
		}
		sort.Float64s(levels)
		lo := levels[0]
		for _, hi := range levels[1:] {
			if hi <= na || hi <= lo {
				lo = math.Max(lo, hi)
				continue
			}
			lo = math.Max(lo, na)
			dy := hi - lo
			for k, t := range nodes {
				y := lo + t*dy
				a := n * r.Shape.WidthAtY(y) * weights[k] * dy
				first += a * (y - na)
				second += a * (y - na) * (y - na)
			}
			lo = hi
		}
	}
	for _, el := range m.Elements {
		a := el.Area * el.E / eRef
		first += a * (el.Y - na)
		second += a * (el.Y - na) * (el.Y - na)
	}
	return first, second
}
