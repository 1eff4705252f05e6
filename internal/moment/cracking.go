package moment

import (
	"math"

	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// CrackingMoment evaluates
//
//	Mcr = γ3(γ1 fr + γ2 fcpe) Sc - Mdnc (Sc/Snc - 1)
//
// where Sc and Snc are the composite and non-composite section moduli at
// the extreme tension fiber.
func CrackingMoment(fr, fcpe, mdnc, sc, snc, g1, g2, g3 float64) float64 {
	mcr := g3 * (g1*fr + g2*fcpe) * sc
	if snc > 0 {
		mcr -= mdnc * (sc/snc - 1)
	}
	return mcr
}

// CrackingDetails holds the cracking moment and its terms
type CrackingDetails struct {
	Interval int
	Sign     girder.Sign
	X        float64

	Fr   float64 // modulus of rupture (ksi)
	Fcpe float64 // compression from effective prestress at the tension fiber (ksi)
	P    float64 // effective prestress force (kip)
	E    float64 // prestress eccentricity below the non-composite centroid (in)
	Mdnc float64 // kip-in
	Sc   float64 // in³
	Snc  float64 // in³

	G1, G2, G3 float64

	Mcr float64 // kip-in; negative for negative bending

	// McrLimit is the lower bound Sc·fr of editions before 2012; zero
	// otherwise
	McrLimit float64
}

// Governing returns Mcr with the lower bound applied
func (d *CrackingDetails) Governing() float64 {
	if d.McrLimit == 0 {
		return d.Mcr
	}
	if d.Sign == girder.Negative {
		return math.Min(d.Mcr, -d.McrLimit)
	}
	return math.Max(d.Mcr, d.McrLimit)
}

// Cracking returns the cracking moment at the POI
func (e *Engine) Cracking(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*CrackingDetails, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if cfg != nil {
		return e.computeCracking(girder.Inputs{P: e.p, Cfg: cfg}, interval, sign, poi)
	}
	poi = e.resolve(poi)
	return e.cracking.GetOrCompute(key{interval, sign, poi.ID}, func() (*CrackingDetails, error) {
		return e.computeCracking(girder.Inputs{P: e.p}, interval, sign, poi)
	})
}

// sectionModuli returns the non-composite and composite section moduli at
// the extreme tension fiber for the sign, plus the non-composite
// properties
func (e *Engine) sectionModuli(in girder.Inputs, interval int, sign girder.Sign, poi girder.POI) (snc, sc float64, nc *section.Properties) {
	gc := in.GirderConcrete(poi.Segment)
	shape := e.p.Geometry.GirderShape(poi)
	nc = shape.CalculateProperties()

	snc, sc = nc.Sb, nc.Sb
	if sign == girder.Negative {
		snc, sc = nc.St, nc.St
	}
	if interval < e.p.Timeline.CompositeDeckInterval() {
		return snc, sc, nc
	}
	deck, ok := e.p.Geometry.DeckShape(poi)
	if !ok {
		return snc, sc, nc
	}
	dc := e.p.Materials.DeckConcrete(poi.Segment)
	eg := gc.Modulus()
	comp := section.Transformed([]section.Part{
		{Shape: &shape, E: eg},
		{Shape: &deck, E: dc.Modulus()},
	}, eg)
	sc = comp.Sb
	if sign == girder.Negative {
		sc = comp.St
	}
	return snc, sc, nc
}

// EffectivePrestress returns the effective prestress force (kip) and the
// elevation of its resultant (in) at the POI in the interval
func (e *Engine) EffectivePrestress(interval int, poi girder.POI, cfg *girder.Config) (p, y float64, err error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return 0, 0, err
	}
	return e.effectivePrestress(girder.Inputs{P: e.p, Cfg: cfg}, interval, poi)
}

// effectivePrestress returns the effective prestress force and its
// elevation at the POI, reducing strands within their transfer length
func (e *Engine) effectivePrestress(in girder.Inputs, interval int, poi girder.POI) (p, y float64, err error) {
	tl := e.p.Timeline
	if interval < tl.ReleaseInterval() {
		return 0, 0, nil
	}
	removal := tl.TemporaryStrandRemovalInterval()

	var moment float64
	for _, t := range []girder.StrandType{girder.Straight, girder.Harped, girder.Temporary} {
		if t == girder.Temporary && removal >= 0 && interval >= removal {
			continue
		}
		strands := in.Strands(poi.Segment, t)
		if len(strands) == 0 {
			continue
		}
		points := in.StrandPoints(poi, t)
		fpe := in.EffectiveStress(poi, t, interval)
		for i, s := range strands {
			if i >= len(points) {
				break
			}
			adj, err := e.xfer.StrandAdjustment(poi, t, i, lrfd.TransferMaximum, in.Cfg)
			if err != nil {
				return 0, 0, err
			}
			f := fpe * s.Area * adj
			p += f
			moment += f * points[i].Y
		}
	}
	for _, tendon := range e.p.Strands.Tendons(poi) {
		if interval < tendon.Interval {
			continue
		}
		f := e.p.Prestress.TendonStress(poi, tendon, interval) * tendon.Area
		p += f
		moment += f * tendon.Y
	}
	if p > 0 {
		y = moment / p
	}
	return p, y, nil
}

func (e *Engine) computeCracking(in girder.Inputs, interval int, sign girder.Sign, poi girder.POI) (*CrackingDetails, error) {
	crit := e.p.Spec.Criteria()
	gc := in.GirderConcrete(poi.Segment)

	p, yps, err := e.effectivePrestress(in, interval, poi)
	if err != nil {
		return nil, err
	}
	snc, sc, nc := e.sectionModuli(in, interval, sign, poi)

	d := &CrackingDetails{
		Interval: interval,
		Sign:     sign,
		X:        poi.X,
		Fr:       lrfd.ModulusOfRupture(gc.Fc, gc.Type, gc.Ftcr),
		P:        p,
		Sc:       sc,
		Snc:      snc,
	}
	if p > 0 {
		d.E = nc.CentroidY - yps
	}
	if nc.Area > 0 && snc > 0 {
		// P/A plus the eccentric prestress on the tension face
		d.Fcpe = p/nc.Area + p*d.E/nc.Sb
		if sign == girder.Negative {
			d.Fcpe = p/nc.Area - p*d.E/nc.St
		}
	}

	d.G1, d.G2, d.G3 = crit.CrackingFactors(p > 0)
	mdnc := e.p.Demand.NoncompositeDeadLoadMoment(poi)
	d.Mdnc = mdnc
	if sign == girder.Negative {
		d.Mcr = -CrackingMoment(d.Fr, d.Fcpe, -mdnc, sc, snc, d.G1, d.G2, d.G3)
	} else {
		d.Mcr = CrackingMoment(d.Fr, d.Fcpe, mdnc, sc, snc, d.G1, d.G2, d.G3)
	}
	if crit.Edition < lrfd.Edition6th2012 {
		d.McrLimit = sc * d.Fr
	}
	return d, nil
}

// MinDetails holds the minimum moment capacity check
type MinDetails struct {
	Interval   int
	Sign       girder.Sign
	X          float64
	LimitState string

	Mcr     float64 // governing cracking moment
	Mu      float64 // factored demand
	K       float64 // scale on Mcr
	KMcr    float64
	MuScale float64 // 1.33 Mu
	MrMin   float64 // required minimum capacity
	Mr      float64 // φMn
	Phi     float64
}

// Passes reports whether the provided capacity meets the minimum
func (d *MinDetails) Passes() bool {
	return math.Abs(d.Mr) >= math.Abs(d.MrMin)
}

type minKey struct {
	key
	ls string
}

// MinCapacity returns the minimum moment capacity check at the POI for a
// limit state. It resolves the moment capacity of the same configuration
// first.
func (e *Engine) MinCapacity(interval int, sign girder.Sign, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*MinDetails, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if cfg != nil {
		return e.computeMin(interval, sign, ls, poi, cfg)
	}
	poi = e.resolve(poi)
	return e.minimum.GetOrCompute(minKey{key{interval, sign, poi.ID}, ls.ID}, func() (*MinDetails, error) {
		return e.computeMin(interval, sign, ls, poi, nil)
	})
}

func (e *Engine) computeMin(interval int, sign girder.Sign, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*MinDetails, error) {
	mn, err := e.Capacity(interval, sign, poi, cfg)
	if err != nil {
		return nil, err
	}
	cr, err := e.Cracking(interval, sign, poi, cfg)
	if err != nil {
		return nil, err
	}

	d := &MinDetails{
		Interval:   interval,
		Sign:       sign,
		X:          poi.X,
		LimitState: ls.ID,
		Mcr:        cr.Governing(),
		Mu:         e.p.Demand.Moment(poi, ls, interval),
		K:          e.p.Spec.Criteria().MinMomentCrackingScale(),
		Mr:         mn.PhiMn,
		Phi:        mn.Phi,
	}
	d.KMcr = d.K * d.Mcr
	d.MuScale = 1.33 * d.Mu
	if sign == girder.Negative {
		d.MrMin = math.Max(d.KMcr, math.Min(d.MuScale, 0))
	} else {
		d.MrMin = math.Min(d.KMcr, math.Max(d.MuScale, 0))
	}
	return d, nil
}
