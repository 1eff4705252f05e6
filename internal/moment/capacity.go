// Package moment computes nominal moment capacity by strain
// compatibility, together with cracking moment, minimum moment capacity
// and cracked section properties.
package moment

import (
	"errors"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/devlen"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/material"
	"github.com/alexiusacademia/gopcb/internal/section"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

// Cache partition names
const (
	PartitionCanonical = "canonical-poi"
	PartitionCapacity  = "moment-capacity"
	PartitionCracking  = "cracking-moment"
	PartitionMinimum   = "min-moment-capacity"
	PartitionCracked   = "cracked-section"
)

// strand areas below this are treated as absent
const areaTolerance = 1e-10

// Details holds the results of a moment capacity analysis
type Details struct {
	Interval int
	Sign     girder.Sign
	X        float64 // in, location analyzed

	// Capacity (kip-in); negative for negative bending
	Mn    float64
	Phi   float64
	PhiMn float64

	// Neutral axis
	C      float64 // depth from the compression face (in)
	A      float64 // equivalent stress block depth β1c (in); zero for UHPC
	Beta1  float64
	EpsTop float64 // extreme compression strain

	// Depths from the compression face (in)
	Dc float64 // compression resultant
	De float64 // tension resultant of the reinforcement
	Dt float64 // extreme tension reinforcement

	EpsilonT float64 // net tensile strain at Dt
	Fps      float64 // average strand stress at capacity (ksi)
	Fpe      float64 // average effective prestress (ksi)
	PPR      float64 // partial prestress ratio

	Compression float64 // kip
	Tension     float64 // kip

	// Reinforcement tension force components (kip)
	StrandForce float64
	TendonForce float64
	RebarForce  float64

	IsTensionControlled bool
	StrainControlled    bool
	DevelopmentReduced  bool

	Elements []ElementState
}

// Aps returns the total area of prestressing strand in the analysis
func (d *Details) Aps() float64 {
	var a float64
	for _, e := range d.Elements {
		if e.Kind == KindStrand {
			a += e.Area
		}
	}
	return a
}

// As returns the total area of mild reinforcement in tension
func (d *Details) As() float64 {
	var a float64
	for _, e := range d.Elements {
		if e.Kind == KindRebar && e.Force < 0 {
			a += e.Area
		}
	}
	return a
}

type key struct {
	interval int
	sign     girder.Sign
	poi      girder.POIID
}

type locKey struct {
	seg girder.SegmentKey
	x   int64 // micro-inches
}

// Engine computes and caches moment capacity results
type Engine struct {
	p      girder.Providers
	xfer   *xfer.Calculator
	logger *slog.Logger

	canonical *cache.Partition[locKey, girder.POI]
	capacity  *cache.Partition[key, *Details]
	cracking  *cache.Partition[key, *CrackingDetails]
	minimum   *cache.Partition[minKey, *MinDetails]
	cracked   *cache.Partition[crackedKey, *CrackedDetails]

	analyses atomic.Int64
}

// NewEngine creates an engine with its caches in arena
func NewEngine(p girder.Providers, xc *xfer.Calculator, arena *cache.Arena, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{p: p, xfer: xc, logger: logger}
	e.canonical = cache.NewPartition[locKey, girder.POI](arena, PartitionCanonical)
	e.capacity = cache.NewPartition[key, *Details](arena, PartitionCapacity, PartitionCanonical, xfer.PartitionName)
	e.cracking = cache.NewPartition[key, *CrackingDetails](arena, PartitionCracking, PartitionCanonical, xfer.PartitionName)
	e.minimum = cache.NewPartition[minKey, *MinDetails](arena, PartitionMinimum, PartitionCapacity, PartitionCracking)
	e.cracked = cache.NewPartition[crackedKey, *CrackedDetails](arena, PartitionCracked, PartitionCapacity)
	return e
}

// Analyses returns the number of capacity analyses performed. Cache hits
// do not count.
func (e *Engine) Analyses() int64 { return e.analyses.Load() }

// resolve maps a POI to the first POI seen at the same section so that
// identical sections are solved once
func (e *Engine) resolve(poi girder.POI) girder.POI {
	k := locKey{seg: poi.Segment, x: int64(math.Round(poi.X * 1e6))}
	canon, _ := e.canonical.GetOrCompute(k, func() (girder.POI, error) { return poi, nil })
	return canon
}

// Capacity returns the moment capacity at the POI. A non-nil cfg bypasses
// the cache.
func (e *Engine) Capacity(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*Details, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if cfg != nil {
		return e.computeCapacity(girder.Inputs{P: e.p, Cfg: cfg}, interval, sign, poi)
	}
	poi = e.resolve(poi)
	return e.capacity.GetOrCompute(key{interval, sign, poi.ID}, func() (*Details, error) {
		return e.computeCapacity(girder.Inputs{P: e.p}, interval, sign, poi)
	})
}

// StrandStressAtCapacity returns fps for positive bending in the final
// interval. It lets the development length calculator observe the
// resolved moment capacity of the same configuration.
func (e *Engine) StrandStressAtCapacity(poi girder.POI, cfg *girder.Config) (float64, error) {
	final := len(e.p.Timeline.Intervals()) - 1
	d, err := e.Capacity(final, girder.Positive, poi, cfg)
	if err != nil {
		return 0, err
	}
	return d.Fps, nil
}

func (e *Engine) computeCapacity(in girder.Inputs, interval int, sign girder.Sign, poi girder.POI) (*Details, error) {
	e.analyses.Add(1)

	m, err := e.buildModel(in, interval, sign, poi, nil)
	if err != nil {
		return nil, err
	}
	if len(m.Elements) == 0 {
		return e.unreinforced(m, interval, sign, poi), nil
	}

	sol, err := Solve(m, poi)
	if errors.Is(err, ErrNoTension) {
		return e.unreinforced(m, interval, sign, poi), nil
	}
	if err != nil {
		return nil, err
	}

	// Reduce partially developed strands using fps of the fully developed
	// section, then solve again. Unbonded strands drop out even when the
	// strands carry no tension at capacity.
	reduced := false
	fps := math.Max(averageStrandStress(sol), 0)
	factors, err := e.developmentFactors(in, interval, poi, fps)
	if err != nil {
		return nil, err
	}
	if len(factors) > 0 {
		m, err = e.buildModel(in, interval, sign, poi, factors)
		if err != nil {
			return nil, err
		}
		sol, err = Solve(m, poi)
		if len(m.Elements) == 0 || errors.Is(err, ErrNoTension) {
			d := e.unreinforced(m, interval, sign, poi)
			d.DevelopmentReduced = true
			return d, nil
		}
		if err != nil {
			return nil, err
		}
		reduced = true
	}

	d := e.details(in, m, sol, interval, sign, poi)
	d.DevelopmentReduced = reduced

	e.logger.Debug("moment capacity",
		slog.Int("poi", int(poi.ID)),
		slog.Int("interval", interval),
		slog.String("sign", sign.String()),
		slog.Float64("Mn", d.Mn),
		slog.Int("iterations", sol.Iterations))
	return d, nil
}

func (e *Engine) unreinforced(m *Model, interval int, sign girder.Sign, poi girder.POI) *Details {
	return &Details{
		Interval: interval,
		Sign:     sign,
		X:        poi.X,
		Phi:      lrfd.PhiFlexureRC,
		EpsTop:   m.EpsCU,
	}
}

// strandFactorKey identifies one pretensioned strand
type strandFactorKey struct {
	t     girder.StrandType
	index int
}

// developmentFactors returns the partial development factor of every
// strand that is not fully developed at the POI
func (e *Engine) developmentFactors(in girder.Inputs, interval int, poi girder.POI, fps float64) (map[strandFactorKey]float64, error) {
	crit := e.p.Spec.Criteria()
	concrete := in.GirderConcrete(poi.Segment)
	length := e.p.Geometry.SegmentLength(poi.Segment)
	shape := e.p.Geometry.GirderShape(poi)
	depth := shape.CalculateProperties().Height

	factors := make(map[strandFactorKey]float64)
	for _, t := range []girder.StrandType{girder.Straight, girder.Harped, girder.Temporary} {
		strands := in.Strands(poi.Segment, t)
		if len(strands) == 0 {
			continue
		}
		lt, err := e.xfer.TransferLength(poi.Segment, t, lrfd.TransferMaximum, in.Cfg)
		if err != nil {
			return nil, err
		}
		fpe := in.EffectiveStress(poi, t, interval)
		for i, s := range strands {
			r := devlen.Compute(devlen.Inputs{
				Concrete:       concrete.Type,
				Edition:        crit.Edition,
				Diameter:       s.Diameter,
				MemberDepth:    depth,
				Debonded:       s.IsDebonded(),
				Fps:            fps,
				Fpe:            fpe,
				TransferLength: lt.Length,
			})
			if f := devlen.Factor(s, poi.X, length, r); f < 1 {
				factors[strandFactorKey{t, i}] = f
			}
		}
	}
	return factors, nil
}

// buildModel assembles the section model for the interval and sign
func (e *Engine) buildModel(in girder.Inputs, interval int, sign girder.Sign, poi girder.POI, factors map[strandFactorKey]float64) (*Model, error) {
	crit := e.p.Spec.Criteria()
	tl := e.p.Timeline
	seg := poi.Segment

	gc := in.GirderConcrete(seg)
	shape := e.p.Geometry.GirderShape(poi)
	if err := shape.Validate(); err != nil {
		return nil, &girder.SolveDivergenceError{POI: poi, Reason: err.Error()}
	}

	m := &Model{EpsCU: lrfd.EpsilonCU}
	m.Regions = append(m.Regions, concreteRegion("girder", shape, gc))
	if gc.Type.IsUHPC() {
		m.EpsCU = lrfd.EpsilonCUUHPC
	}

	composite := interval >= tl.CompositeDeckInterval()
	if composite {
		if deck, ok := e.p.Geometry.DeckShape(poi); ok {
			dc := e.p.Materials.DeckConcrete(seg)
			m.Regions = append(m.Regions, concreteRegion("deck", deck, dc))
			if sign == girder.Positive {
				// the deck is the compression face
				m.EpsCU = lrfd.EpsilonCU
				if dc.Type.IsUHPC() {
					m.EpsCU = lrfd.EpsilonCUUHPC
				}
			}
		}
	}

	released := interval >= tl.ReleaseInterval()
	removal := tl.TemporaryStrandRemovalInterval()
	for _, t := range []girder.StrandType{girder.Straight, girder.Harped, girder.Temporary} {
		if t == girder.Temporary && removal >= 0 && interval >= removal {
			continue
		}
		strands := in.Strands(seg, t)
		points := in.StrandPoints(poi, t)
		var fpe float64
		if released {
			fpe = in.EffectiveStress(poi, t, interval)
		}
		for i, s := range strands {
			if s.Area < areaTolerance || i >= len(points) {
				continue
			}
			factor := 1.0
			if f, ok := factors[strandFactorKey{t, i}]; ok {
				factor = f
			}
			if factor <= 0 {
				continue
			}
			m.Elements = append(m.Elements, Element{
				Kind:    KindStrand,
				Label:   t.String(),
				Y:       points[i].Y,
				Area:    s.Area,
				Law:     material.Strand{Grade: s.Grade, Prestrain: fpe / lrfd.Eps, Factor: factor},
				E:       lrfd.Eps,
				Fy:      s.Grade.Fpu(),
				Rupture: lrfd.EpsilonStrandRupture,
				Factor:  factor,
			})
		}
	}

	for _, tendon := range e.p.Strands.Tendons(poi) {
		if interval < tendon.Interval || tendon.Area < areaTolerance {
			continue
		}
		kind := KindSegmentTendon
		if tendon.GirderWide {
			kind = KindGirderTendon
		}
		fpe := e.p.Prestress.TendonStress(poi, tendon, interval)
		m.Elements = append(m.Elements, Element{
			Kind:    kind,
			Label:   tendon.Name,
			Y:       tendon.Y,
			Area:    tendon.Area,
			Law:     material.Strand{Grade: tendon.Grade, Prestrain: fpe / lrfd.Eps, Factor: 1},
			E:       lrfd.Eps,
			Fy:      tendon.Grade.Fpu(),
			Rupture: lrfd.EpsilonStrandRupture,
			Factor:  1,
		})
	}

	if crit.IncludeRebar {
		for _, layer := range e.p.Materials.Rebar(poi) {
			if layer.InDeck && !composite {
				continue
			}
			if layer.Area < areaTolerance {
				continue
			}
			fy := layer.Fy
			if fy <= 0 {
				fy = 60
			}
			m.Elements = append(m.Elements, Element{
				Kind:   KindRebar,
				Label:  "rebar",
				Y:      layer.Y,
				Area:   layer.Area,
				Law:    material.Rebar{Fy: fy, Es: lrfd.Es},
				E:      lrfd.Es,
				Fy:     fy,
				Factor: 1,
			})
		}
	}

	m.finish()
	if sign == girder.Negative {
		m.mirror()
		m.EpsCU = lrfd.EpsilonCU
		if gc.Type.IsUHPC() {
			m.EpsCU = lrfd.EpsilonCUUHPC
		}
	}
	return m, nil
}

func concreteRegion(name string, shape section.Shape, c girder.Concrete) Region {
	r := Region{Name: name, Shape: shape, E: c.Modulus(), Fc: c.Fc}
	if c.Type.IsUHPC() {
		r.Law = material.NewUHPC(c.Fc, c.Modulus(), c.Ftcr)
	} else {
		block := material.NewBlockConcrete(c.Fc)
		r.Law = block
		r.Beta1 = block.Beta1
	}
	return r
}

// averageStrandStress returns the area-weighted tensile stress of the
// pretensioned strands
func averageStrandStress(sol *Solution) float64 {
	var area, force float64
	for _, e := range sol.Elements {
		if e.Kind != KindStrand {
			continue
		}
		area += e.Area
		force += -e.Stress * e.Area
	}
	if area <= 0 {
		return 0
	}
	return force / area
}

// details reduces a solution to the reported capacity
func (e *Engine) details(in girder.Inputs, m *Model, sol *Solution, interval int, sign girder.Sign, poi girder.POI) *Details {
	d := &Details{
		Interval:         interval,
		Sign:             sign,
		X:                poi.X,
		C:                sol.C,
		EpsTop:           sol.EpsTop,
		Compression:      sol.Compression,
		Tension:          sol.Tension,
		StrainControlled: sol.StrainControlled,
		Elements:         sol.Elements,
	}

	// stress block depth belongs to the region at the compression face
	for _, r := range m.Regions {
		p := r.Shape.CalculateProperties()
		if math.Abs(p.MaxY-m.Top) < distanceTolerance && r.Beta1 > 0 {
			d.Beta1 = r.Beta1
			d.A = r.Beta1 * sol.C
		}
	}

	d.Mn = sol.Moment
	if sol.Compression > 0 {
		d.Dc = m.Top - sol.YCompression
	}

	var tensionForce, tensionMoment, psForce float64
	var fyMild float64
	var fpeSum, fpeArea float64
	d.Dt = 0
	for _, es := range sol.Elements {
		if es.Kind == KindStrand {
			if s, ok := es.Law.(material.Strand); ok {
				fpeSum += s.Prestrain * lrfd.Eps * es.Area
				fpeArea += es.Area
			}
		}
		if es.Force >= 0 {
			continue
		}
		t := -es.Force
		depth := es.Depth
		tensionForce += t
		tensionMoment += t * depth
		d.Dt = math.Max(d.Dt, depth)
		switch es.Kind {
		case KindStrand:
			d.StrandForce += t
			psForce += t
		case KindSegmentTendon, KindGirderTendon:
			d.TendonForce += t
			psForce += t
		case KindRebar:
			d.RebarForce += t
			fyMild = es.Fy
		}
	}
	if tensionForce > 0 {
		d.De = tensionMoment / tensionForce
		d.PPR = psForce / tensionForce
	}
	if fpeArea > 0 {
		d.Fpe = fpeSum / fpeArea
	}
	d.Fps = averageStrandStress(sol)

	// net tensile strain at the extreme tension reinforcement
	if sol.C > 0 && d.Dt > 0 {
		d.EpsilonT = sol.EpsTop * (d.Dt - sol.C) / sol.C
	}

	epsCL := lrfd.EpsilonCL
	if d.PPR == 0 && fyMild > 0 {
		epsCL = fyMild / lrfd.Es
	}
	gc := in.GirderConcrete(poi.Segment)
	d.Phi = lrfd.PhiFlexure(d.EpsilonT, d.PPR, epsCL, gc.Type)
	d.IsTensionControlled = d.EpsilonT >= lrfd.EpsilonTL

	if sign == girder.Negative {
		d.Mn = -d.Mn
	}
	d.PhiMn = d.Phi * d.Mn
	return d
}
