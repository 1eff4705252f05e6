package project

import (
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

// span returns the ends of the simple span between the outer supports
func (p *Project) span() (a, b float64) {
	s := p.file.Supports
	return s[0].X, s[len(s)-1].X
}

// local returns the distance into the span and the span length; ok is
// false on an overhang, which carries no load effects
func (p *Project) local(x float64) (xs, l float64, ok bool) {
	a, b := p.span()
	if x < a || x > b {
		return 0, b - a, false
	}
	return x - a, b - a, true
}

func uniformMoment(w, x, l float64) float64 { return w * x * (l - x) / 2 }

func uniformShear(w, x, l float64) float64 { return w * (l/2 - x) }

// laneShear is the maximum shear from a lane load on the longer side of x
func laneShear(w, x, l float64) float64 {
	if x <= l/2 {
		return w * (l - x) * (l - x) / (2 * l)
	}
	return -w * x * x / (2 * l)
}

// truckShear is the maximum shear from a moving concentrated load
func truckShear(pt, x, l float64) float64 {
	if x <= l/2 {
		return pt * (l - x) / l
	}
	return -pt * x / l
}

func (p *Project) momentForces(x float64, interval int) lrfd.ProductForces {
	var f lrfd.ProductForces
	xs, l, ok := p.local(x)
	if !ok {
		return f
	}
	ld := p.file.Loads
	if interval >= p.release {
		f.DC += uniformMoment(ld.Noncomposite, xs, l)
	}
	if interval >= p.composite {
		f.DC += uniformMoment(ld.Composite, xs, l)
		f.DW += uniformMoment(ld.Wearing, xs, l)
	}
	if interval >= p.liveLoad {
		f.LL = uniformMoment(ld.Lane, xs, l) + ld.Truck*xs*(l-xs)/l
	}
	return f
}

func (p *Project) shearForces(x float64, interval int) lrfd.ProductForces {
	var f lrfd.ProductForces
	xs, l, ok := p.local(x)
	if !ok {
		return f
	}
	ld := p.file.Loads
	if interval >= p.release {
		f.DC += uniformShear(ld.Noncomposite, xs, l)
	}
	if interval >= p.composite {
		f.DC += uniformShear(ld.Composite, xs, l)
		f.DW += uniformShear(ld.Wearing, xs, l)
	}
	if interval >= p.liveLoad {
		f.LL = laneShear(ld.Lane, xs, l) + truckShear(ld.Truck, xs, l)
	}
	return f
}

func (p *Project) Moment(poi girder.POI, ls lrfd.LimitState, interval int) float64 {
	return ls.Factored(p.momentForces(poi.X, interval))
}

func (p *Project) Shear(poi girder.POI, ls lrfd.LimitState, interval int) float64 {
	return ls.Factored(p.shearForces(poi.X, interval))
}

// AxialForce is the live load axial force, tension positive
func (p *Project) AxialForce(_ girder.POI, ls lrfd.LimitState, interval int) float64 {
	if interval < p.liveLoad {
		return 0
	}
	return ls.LL * p.file.Loads.Axial
}

func (p *Project) NoncompositeDeadLoadMoment(poi girder.POI) float64 {
	xs, l, ok := p.local(poi.X)
	if !ok {
		return 0
	}
	return uniformMoment(p.file.Loads.Noncomposite, xs, l)
}

func (p *Project) DeadLoadShear(poi girder.POI) float64 {
	f := p.shearForces(poi.X, len(p.intervals)-1)
	return f.DC + f.DW
}

func (p *Project) DeadLoadMoment(poi girder.POI) float64 {
	f := p.momentForces(poi.X, len(p.intervals)-1)
	return f.DC + f.DW
}
