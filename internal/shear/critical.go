package shear

import (
	"log/slog"
	"math"
	"sort"

	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

const (
	criticalTolerance     = 1e-3 // in
	criticalMaxIterations = 50
)

// CriticalSection is a shear critical section at one face of a support
type CriticalSection struct {
	Support int
	// Direction is +1 when the section lies toward increasing x from the
	// support face and -1 otherwise
	Direction int
	FaceX     float64
	X         float64
	Dv        float64
	Theta     float64
	POI       girder.POI

	// Outboard zone, between the critical section and the support or
	// the segment end
	ZoneStart, ZoneEnd float64
}

// Contains reports whether x is outboard of the critical section
func (cs CriticalSection) Contains(x float64) bool {
	if cs.Direction > 0 {
		return x >= cs.ZoneStart && x < cs.X-criticalTolerance
	}
	return x > cs.X+criticalTolerance && x <= cs.ZoneEnd
}

type critKey struct {
	ls  string
	seg girder.SegmentKey
	cfg string
}

// CriticalSections returns the critical sections of a segment for the
// limit state, ordered by location. Queries with a Config use the design
// cache, which holds the results of one Config at a time.
func (e *Engine) CriticalSections(ls lrfd.LimitState, seg girder.SegmentKey, cfg *girder.Config) ([]CriticalSection, error) {
	compute := func() ([]CriticalSection, error) { return e.computeCritical(ls, seg, cfg) }
	if cfg == nil {
		return e.critical.GetOrCompute(critKey{ls: ls.ID, seg: seg}, compute)
	}

	ck := cfg.Key()
	e.designMu.Lock()
	if ck != e.designCfg {
		e.design.Clear()
		e.designCfg = ck
	}
	e.designMu.Unlock()
	return e.design.GetOrCompute(critKey{ls: ls.ID, seg: seg, cfg: ck}, compute)
}

func (e *Engine) computeCritical(ls lrfd.LimitState, seg girder.SegmentKey, cfg *girder.Config) ([]CriticalSection, error) {
	supports := e.p.Geometry.Supports(seg)
	if len(supports) == 0 {
		return nil, &girder.InputDomainError{What: "supports of segment", Value: seg}
	}
	length := e.p.Geometry.SegmentLength(seg)
	interval := e.p.Timeline.LiveLoadInterval()

	var out []CriticalSection
	sides := make(map[int]map[int]bool)
	for i, s := range supports {
		sides[i] = map[int]bool{}
		for _, dir := range []int{-1, 1} {
			face := s.X + float64(dir)*s.FaceWidth
			if face <= 0 || face >= length {
				continue
			}
			cs, ok, err := e.locate(interval, ls, seg, face, dir, length, cfg)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			cs.Support = i
			out = append(out, cs)
			sides[i][dir] = true
		}
	}
	if len(out) == 0 {
		return nil, &girder.InputDomainError{What: "critical sections of segment", Value: seg}
	}

	for i := range out {
		cs := &out[i]
		sx := supports[cs.Support].X
		if cs.Direction > 0 {
			cs.ZoneStart = 0
			if sides[cs.Support][-1] {
				cs.ZoneStart = sx
			}
			cs.ZoneEnd = cs.X
		} else {
			cs.ZoneStart = cs.X
			cs.ZoneEnd = length
			if sides[cs.Support][1] {
				cs.ZoneEnd = sx
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	// strictly increasing
	uniq := out[:1]
	for _, cs := range out[1:] {
		if cs.X-uniq[len(uniq)-1].X > criticalTolerance {
			uniq = append(uniq, cs)
		}
	}
	return uniq, nil
}

// locate iterates on x until the distance from the support face equals dv
// at x (or 0.5 dv cotθ when larger, in editions before 2004). The trial
// points are transient; only the converged point of a production query is
// registered with the POI provider. It reports false when the iteration leaves
// the segment.
func (e *Engine) locate(interval int, ls lrfd.LimitState, seg girder.SegmentKey, face float64, dir int, length float64, cfg *girder.Config) (CriticalSection, bool, error) {
	crit := e.p.Spec.Criteria()
	x := face
	var poi girder.POI
	for iter := 0; iter < criticalMaxIterations; iter++ {
		poi = e.transientPOI(seg, x)
		d, err := e.Section(interval, ls, poi, cfg)
		if err != nil {
			return CriticalSection{}, false, err
		}
		dist := d.Dv
		if crit.Edition < lrfd.Edition3rd2004 {
			dist = math.Max(d.Dv, 0.5*d.Dv/math.Tan(d.Theta*math.Pi/180))
		}
		next := face + float64(dir)*dist
		if next < 0 || next > length {
			e.logger.Debug("critical section outside segment",
				slog.Float64("face", face),
				slog.Int("direction", dir),
				slog.Float64("x", next))
			return CriticalSection{}, false, nil
		}
		if math.Abs(next-x) < criticalTolerance {
			if cfg == nil {
				poi = e.p.POIs.At(seg, x)
			}
			return CriticalSection{
				Direction: dir,
				FaceX:     face,
				X:         poi.X,
				Dv:        d.Dv,
				Theta:     d.Theta,
				POI:       poi,
			}, true, nil
		}
		x = next
	}
	return CriticalSection{}, false, &girder.SolveDivergenceError{
		POI:        poi,
		Iterations: criticalMaxIterations,
		Reason:     "critical section location did not converge",
	}
}

// transientPOI returns a POI at x that is not known to the POI provider.
// Transient IDs are negative so they never collide with provider IDs.
func (e *Engine) transientPOI(seg girder.SegmentKey, x float64) girder.POI {
	return girder.POI{ID: girder.POIID(e.transient.Add(-1)), Segment: seg, X: x}
}
