package capacity

import (
	"context"
	"math"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

// EnvelopeRow is the capacity and demand at one POI
type EnvelopeRow struct {
	POI girder.POI

	PhiMnPositive float64 // kip-in
	PhiMnNegative float64 // kip-in
	Mu            float64 // kip-in
	PhiVn         float64 // kip
	Vu            float64 // kip

	// Capacity over demand; +Inf where there is no demand
	MomentRatio float64
	ShearRatio  float64
	Outboard    bool
}

// Summary condenses an envelope
type Summary struct {
	MaxPhiMn       float64
	MinPhiMn       float64
	MeanPhiMn      float64
	MaxPhiVn       float64
	MinPhiVn       float64
	MinMomentRatio float64
	MinShearRatio  float64
	MedianShear    float64
}

// Envelope is the capacity along a segment for one interval and limit
// state
type Envelope struct {
	Segment    girder.SegmentKey
	Interval   int
	LimitState string
	Rows       []EnvelopeRow
	Summary    Summary
}

// Envelope computes capacity at every POI of the segment. POIs are farmed
// to at most workers goroutines; workers <= 0 uses GOMAXPROCS.
func (e *Engine) Envelope(ctx context.Context, seg girder.SegmentKey, interval int, ls lrfd.LimitState, workers int) (*Envelope, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// critical sections register their POIs before the rows are listed
	if _, err := e.CriticalSections(ls, seg, nil); err != nil {
		return nil, err
	}
	pois := e.p.POIs.POIs(seg)
	rows := make([]EnvelopeRow, len(pois))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, poi := range pois {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := e.envelopeRow(interval, ls, poi)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	env := &Envelope{Segment: seg, Interval: interval, LimitState: ls.ID, Rows: rows}
	env.Summary = summarize(rows)
	return env, nil
}

func (e *Engine) envelopeRow(interval int, ls lrfd.LimitState, poi girder.POI) (EnvelopeRow, error) {
	row := EnvelopeRow{POI: poi}

	pos, err := e.MomentCapacity(interval, girder.Positive, poi, nil)
	if err != nil {
		return row, err
	}
	neg, err := e.MomentCapacity(interval, girder.Negative, poi, nil)
	if err != nil {
		return row, err
	}
	v, err := e.ShearCapacity(interval, ls, poi, nil)
	if err != nil {
		return row, err
	}

	row.PhiMnPositive = pos.PhiMn
	row.PhiMnNegative = neg.PhiMn
	row.Mu = e.p.Demand.Moment(poi, ls, interval)
	row.PhiVn = v.PhiVn
	row.Vu = v.Vu
	row.Outboard = v.Outboard

	phiMn := row.PhiMnPositive
	if row.Mu < 0 {
		phiMn = row.PhiMnNegative
	}
	row.MomentRatio = ratio(phiMn, row.Mu)
	row.ShearRatio = ratio(row.PhiVn, row.Vu)
	return row, nil
}

func ratio(capacity, demand float64) float64 {
	if math.Abs(demand) < 1e-9 {
		return math.Inf(1)
	}
	return math.Abs(capacity) / math.Abs(demand)
}

func summarize(rows []EnvelopeRow) Summary {
	var s Summary
	if len(rows) == 0 {
		return s
	}
	var mn, vn, mr, vr stats.Float64Data
	for _, r := range rows {
		mn = append(mn, r.PhiMnPositive)
		vn = append(vn, r.PhiVn)
		if !math.IsInf(r.MomentRatio, 0) {
			mr = append(mr, r.MomentRatio)
		}
		if !math.IsInf(r.ShearRatio, 0) {
			vr = append(vr, r.ShearRatio)
		}
	}
	s.MaxPhiMn, _ = stats.Max(mn)
	s.MinPhiMn, _ = stats.Min(mn)
	s.MeanPhiMn, _ = stats.Mean(mn)
	s.MaxPhiVn, _ = stats.Max(vn)
	s.MinPhiVn, _ = stats.Min(vn)
	s.MedianShear, _ = stats.Median(vn)

	s.MinMomentRatio = math.Inf(1)
	if len(mr) > 0 {
		s.MinMomentRatio, _ = stats.Min(mr)
	}
	s.MinShearRatio = math.Inf(1)
	if len(vr) > 0 {
		s.MinShearRatio, _ = stats.Min(vr)
	}
	return s
}
