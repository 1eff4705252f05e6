// Package devlen computes strand development lengths and the partial
// development factor used to reduce strand stress near bond initiation.
package devlen

import (
	"log/slog"
	"math"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

// PartitionName is the cache partition holding development lengths
const PartitionName = "development-length"

// zeroTolerance snaps numerically zero factors to exactly zero
const zeroTolerance = 1e-10

// Result is an immutable development length. Fields that do not apply to
// Method are zero; use the accessors to read method-specific terms.
type Result struct {
	Method         lrfd.DevelopmentMethod
	Diameter       float64 // in
	Fps            float64 // ksi
	Fpe            float64 // ksi
	TransferLength float64 // in
	Length         float64 // in

	kappa float64
}

// Kappa is the multiplier of the standard method; ok is false otherwise
func (r Result) Kappa() (kappa float64, ok bool) {
	return r.kappa, r.Method == lrfd.DevelopmentStandard
}

// StressTerm returns the stress difference driving the development length
func (r Result) StressTerm() float64 {
	switch r.Method {
	case lrfd.DevelopmentStandard:
		return r.Fps - 2.0*r.Fpe/3.0
	case lrfd.DevelopmentUHPCSimplified, lrfd.DevelopmentUHPCGuide:
		return r.Fps - r.Fpe
	}
	return 0
}

// Inputs to a development length computation
type Inputs struct {
	Concrete    lrfd.ConcreteType
	Edition     lrfd.Edition
	Diameter    float64
	MemberDepth float64
	Debonded    bool
	Fps, Fpe    float64
	// TransferLength is lt of the same strand (maximum bound)
	TransferLength float64
}

// Compute returns the development length for the inputs
func Compute(in Inputs) Result {
	m := lrfd.SelectDevelopmentMethod(in.Concrete)
	r := Result{
		Method:         m,
		Diameter:       in.Diameter,
		Fps:            in.Fps,
		Fpe:            in.Fpe,
		TransferLength: in.TransferLength,
	}
	if m == lrfd.DevelopmentStandard {
		r.kappa = lrfd.Kappa(in.MemberDepth, in.Debonded, in.Edition)
	}
	r.Length = lrfd.DevelopmentLength(m, in.Diameter, in.Fps, in.Fpe, r.kappa, in.TransferLength)
	return r
}

// Factor returns the partial development factor of strand s at x, in
// [0, 1]. lpx is measured from the nearer bond-initiation boundary (the
// segment end for a fully bonded strand); strands extended at the nearer
// end are fully developed.
func Factor(s girder.Strand, x, segmentLength float64, r Result) float64 {
	if s.ExtendedAt(x, segmentLength) {
		return 1.0
	}
	lpx, bonded := s.BondDistance(x, segmentLength)
	if !bonded {
		return 0
	}
	return RampFactor(lpx, r)
}

// RampFactor evaluates the three-zone development profile at lpx
func RampFactor(lpx float64, r Result) float64 {
	lt, ld := r.TransferLength, r.Length
	fps, fpe := r.Fps, r.Fpe
	if lpx <= 0 && lt > 0 {
		return 0
	}

	var f float64
	switch {
	case lpx <= lt:
		if fpe <= fps && lt > 0 && fps > 0 {
			f = (lpx * fpe) / (lt * fps)
		} else {
			f = 1.0
		}
	case lpx <= ld && ld > lt && fps > 0:
		// linear from fpe at lt to fps at ld
		f = (fpe + (lpx-lt)*(fps-fpe)/(ld-lt)) / fps
	default:
		f = 1.0
	}

	f = math.Max(math.Min(f, 1.0), 0.0)
	if math.Abs(f) < zeroTolerance {
		f = 0
	}
	return f
}

// StrandStressSource supplies fps, the average strand stress at nominal
// moment capacity, for the configuration in question.
type StrandStressSource interface {
	StrandStressAtCapacity(poi girder.POI, cfg *girder.Config) (float64, error)
}

type key struct {
	poi        girder.POIID
	strandType girder.StrandType
	debonded   bool
}

// Calculator computes development lengths for strands at POIs
type Calculator struct {
	p      girder.Providers
	xfer   *xfer.Calculator
	fps    StrandStressSource
	cache  *cache.Partition[key, Result]
	logger *slog.Logger
}

// New creates a calculator. Its cache depends on the transfer length
// cache.
func New(p girder.Providers, xc *xfer.Calculator, fps StrandStressSource, arena *cache.Arena, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Calculator{
		p:      p,
		xfer:   xc,
		fps:    fps,
		cache:  cache.NewPartition[key, Result](arena, PartitionName, xfer.PartitionName),
		logger: logger,
	}
}

// Details returns the development length of strand type t at the POI.
// fps is taken from the moment capacity at the POI; fpe from the
// prestress provider after all losses.
func (c *Calculator) Details(poi girder.POI, t girder.StrandType, debonded bool, cfg *girder.Config) (Result, error) {
	if t == girder.Permanent {
		t = girder.Straight
	}
	if cfg != nil {
		return c.compute(poi, t, debonded, cfg)
	}
	return c.cache.GetOrCompute(key{poi.ID, t, debonded}, func() (Result, error) {
		return c.compute(poi, t, debonded, nil)
	})
}

func (c *Calculator) compute(poi girder.POI, t girder.StrandType, debonded bool, cfg *girder.Config) (Result, error) {
	fps, err := c.fps.StrandStressAtCapacity(poi, cfg)
	if err != nil {
		return Result{}, err
	}
	in := girder.Inputs{P: c.p, Cfg: cfg}
	final := len(c.p.Timeline.Intervals()) - 1
	fpe := in.EffectiveStress(poi, t, final)

	lt, err := c.xfer.TransferLength(poi.Segment, t, lrfd.TransferMaximum, cfg)
	if err != nil {
		return Result{}, err
	}

	shape := c.p.Geometry.GirderShape(poi)
	props := shape.CalculateProperties()

	r := Compute(Inputs{
		Concrete:       in.GirderConcrete(poi.Segment).Type,
		Edition:        c.p.Spec.Criteria().Edition,
		Diameter:       lt.Diameter,
		MemberDepth:    props.Height,
		Debonded:       debonded,
		Fps:            fps,
		Fpe:            fpe,
		TransferLength: lt.Length,
	})
	c.logger.Debug("development length",
		slog.Int("poi", int(poi.ID)),
		slog.String("strands", t.String()),
		slog.Bool("debonded", debonded),
		slog.Float64("ld", r.Length))
	return r, nil
}

// StrandAdjustment returns the partial development factor of one strand
func (c *Calculator) StrandAdjustment(poi girder.POI, t girder.StrandType, strandIndex int, cfg *girder.Config) (float64, error) {
	if t == girder.Permanent {
		return 0, &girder.InputDomainError{What: "strand type for indexed strand", Value: t}
	}
	strands := girder.Inputs{P: c.p, Cfg: cfg}.Strands(poi.Segment, t)
	if strandIndex < 0 || strandIndex >= len(strands) {
		return 0, &girder.InputDomainError{What: "strand index", Value: strandIndex}
	}
	s := strands[strandIndex]
	r, err := c.Details(poi, t, s.IsDebonded(), cfg)
	if err != nil {
		return 0, err
	}
	return Factor(s, poi.X, c.p.Geometry.SegmentLength(poi.Segment), r), nil
}

// Adjustment returns the strand-count weighted average development factor
// of strand type t at the POI. With no strands the factor is 1.
func (c *Calculator) Adjustment(poi girder.POI, t girder.StrandType, cfg *girder.Config) (float64, error) {
	in := girder.Inputs{P: c.p, Cfg: cfg}
	length := c.p.Geometry.SegmentLength(poi.Segment)

	var sum float64
	var n int
	for _, st := range t.Expand() {
		for _, s := range in.Strands(poi.Segment, st) {
			r, err := c.Details(poi, st, s.IsDebonded(), cfg)
			if err != nil {
				return 0, err
			}
			sum += Factor(s, poi.X, length, r)
			n++
		}
	}
	if n == 0 {
		return 1.0, nil
	}
	return sum / float64(n), nil
}
