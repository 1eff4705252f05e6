// Package xfer computes prestress transfer lengths and the bond
// effectiveness of pretensioned strands along a segment.
package xfer

import (
	"log/slog"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

// PartitionName is the cache partition holding transfer lengths
const PartitionName = "transfer-length"

// Result is an immutable transfer length for one strand type of a segment
type Result struct {
	Method   lrfd.TransferMethod
	Type     lrfd.TransferType
	Diameter float64 // in
	Coating  lrfd.Coating
	Length   float64 // in
}

type key struct {
	seg        girder.SegmentKey
	strandType girder.StrandType
	xferType   lrfd.TransferType
}

// Calculator computes transfer lengths and adjustment factors
type Calculator struct {
	p      girder.Providers
	cache  *cache.Partition[key, Result]
	logger *slog.Logger
}

// New creates a calculator whose cache lives in arena
func New(p girder.Providers, arena *cache.Arena, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Calculator{
		p:      p,
		cache:  cache.NewPartition[key, Result](arena, PartitionName),
		logger: logger,
	}
}

// TransferLength returns the transfer length of strand type t. Permanent
// strands use the straight strand result. A non-nil cfg bypasses the cache.
func (c *Calculator) TransferLength(seg girder.SegmentKey, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (Result, error) {
	if t == girder.Permanent {
		t = girder.Straight
	}
	if t < girder.Straight || t > girder.Temporary {
		return Result{}, &girder.InputDomainError{What: "strand type", Value: t}
	}
	if cfg != nil {
		return c.compute(girder.Inputs{P: c.p, Cfg: cfg}, seg, t, xt), nil
	}
	return c.cache.GetOrCompute(key{seg, t, xt}, func() (Result, error) {
		return c.compute(girder.Inputs{P: c.p}, seg, t, xt), nil
	})
}

func (c *Calculator) compute(in girder.Inputs, seg girder.SegmentKey, t girder.StrandType, xt lrfd.TransferType) Result {
	concrete := in.GirderConcrete(seg)
	method := lrfd.SelectTransferMethod(concrete.Type, c.p.Spec.Criteria().TransferComputation)

	r := Result{Method: method, Type: xt}
	if db, coating, ok := strandSize(in, seg, t); ok {
		r.Diameter = db
		r.Coating = coating
		r.Length = lrfd.TransferLength(method, db, coating, xt)
	} else {
		// no strands of any type: nothing transfers
		r.Method = lrfd.TransferNegligible
		r.Length = lrfd.NegligibleTransferLength
	}

	c.logger.Debug("transfer length",
		slog.String("segment", seg.String()),
		slog.String("strands", t.String()),
		slog.String("method", r.Method.String()),
		slog.Float64("lt", r.Length))
	return r
}

// strandSize finds the strand diameter governing strand type t, falling
// back to the other types when t has no strands.
func strandSize(in girder.Inputs, seg girder.SegmentKey, t girder.StrandType) (float64, lrfd.Coating, bool) {
	order := []girder.StrandType{t, girder.Straight, girder.Harped, girder.Temporary}
	for _, st := range order {
		var db float64
		var coating lrfd.Coating
		for _, s := range in.Strands(seg, st) {
			if s.Diameter > db {
				db = s.Diameter
				coating = s.Coating
			}
		}
		if db > 0 {
			return db, coating, true
		}
	}
	return 0, lrfd.Uncoated, false
}

// StrandAdjustment returns the bond effectiveness ratio of one strand at
// the POI, in [0, 1].
func (c *Calculator) StrandAdjustment(poi girder.POI, t girder.StrandType, strandIndex int, xt lrfd.TransferType, cfg *girder.Config) (float64, error) {
	if t == girder.Permanent {
		return 0, &girder.InputDomainError{What: "strand type for indexed strand", Value: t}
	}
	in := girder.Inputs{P: c.p, Cfg: cfg}
	strands := in.Strands(poi.Segment, t)
	if strandIndex < 0 || strandIndex >= len(strands) {
		return 0, &girder.InputDomainError{What: "strand index", Value: strandIndex}
	}
	lt, err := c.TransferLength(poi.Segment, t, xt, cfg)
	if err != nil {
		return 0, err
	}
	length := c.p.Geometry.SegmentLength(poi.Segment)
	return Ratio(strands[strandIndex], poi.X, length, lt.Length), nil
}

// Adjustment returns the composite effective-bonded-strand ratio of all
// strands of type t at the POI: the per-strand ratios averaged over the
// bonded and debonded populations, weighted by strand count.
func (c *Calculator) Adjustment(poi girder.POI, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (float64, error) {
	in := girder.Inputs{P: c.p, Cfg: cfg}
	length := c.p.Geometry.SegmentLength(poi.Segment)

	var nBonded, nDebonded int
	var bondedSum, debondedSum float64
	for _, st := range t.Expand() {
		strands := in.Strands(poi.Segment, st)
		if len(strands) == 0 {
			continue
		}
		lt, err := c.TransferLength(poi.Segment, st, xt, cfg)
		if err != nil {
			return 0, err
		}
		for _, s := range strands {
			r := Ratio(s, poi.X, length, lt.Length)
			if s.IsDebonded() {
				nDebonded++
				debondedSum += r
			} else {
				nBonded++
				bondedSum += r
			}
		}
	}

	n := nBonded + nDebonded
	if n == 0 {
		return 1.0, nil
	}
	return (bondedSum + debondedSum) / float64(n), nil
}

// Ratio is the bond effectiveness of strand s at x: the distance from the
// nearer bond-initiation boundary over the transfer length, clamped to
// [0, 1]. Strands extended at the nearer end are fully effective.
func Ratio(s girder.Strand, x, segmentLength, lt float64) float64 {
	if s.ExtendedAt(x, segmentLength) {
		return 1.0
	}
	dist, bonded := s.BondDistance(x, segmentLength)
	if !bonded {
		return 0
	}
	if lt <= 0 {
		return 1.0
	}
	return min(max(dist/lt, 0), 1)
}
