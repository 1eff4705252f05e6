package project

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/section"
)

const (
	poiTolerance   = 1e-6 // in
	strandSpacing  = 2.0  // in, horizontal pitch within a row
	defaultFy      = 60.0 // ksi
	jackingRatio   = 0.75
	defaultDivisor = 10
)

// Project is a loaded single-segment girder. It implements every provider
// interface of the capacity engine.
type Project struct {
	file     File
	seg      girder.SegmentKey
	criteria lrfd.Criteria

	girderConcrete girder.Concrete
	deckConcrete   girder.Concrete

	strands      map[girder.StrandType][]girder.Strand
	rows         map[girder.StrandType][]rowRef
	tendons      []girder.Tendon
	tendonStress map[string]float64

	intervals []girder.Interval
	release   int
	composite int
	liveLoad  int
	removal   int

	mu     sync.Mutex
	pois   []girder.POI
	byID   map[girder.POIID]girder.POI
	nextID girder.POIID
}

// rowRef ties an expanded strand back to its row and column
type rowRef struct {
	row, col int
}

// New builds a project from a parsed file
func New(f File) (*Project, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	crit, err := f.criteria()
	if err != nil {
		return nil, err
	}

	p := &Project{
		file:         f,
		criteria:     crit,
		strands:      make(map[girder.StrandType][]girder.Strand),
		rows:         make(map[girder.StrandType][]rowRef),
		tendonStress: make(map[string]float64),
		byID:         make(map[girder.POIID]girder.POI),
		release:      f.stageIndex(f.Stages.Release),
		composite:    f.stageIndex(f.Stages.CompositeDeck),
		liveLoad:     f.stageIndex(f.Stages.LiveLoad),
		removal:      -1,
	}
	if f.Stages.TemporaryRemoval != "" {
		p.removal = f.stageIndex(f.Stages.TemporaryRemoval)
	}
	for i, s := range f.Stages.Stages {
		p.intervals = append(p.intervals, girder.Interval{Index: i, Description: s})
	}

	if p.girderConcrete, err = f.Girder.Concrete.convert(); err != nil {
		return nil, fmt.Errorf("girder: %w", err)
	}
	p.deckConcrete = p.girderConcrete
	if f.Deck != nil {
		if p.deckConcrete, err = f.Deck.Concrete.convert(); err != nil {
			return nil, fmt.Errorf("deck: %w", err)
		}
	}

	groups := map[girder.StrandType][]StrandRow{
		girder.Straight:  f.Strands.Straight,
		girder.Harped:    f.Strands.Harped,
		girder.Temporary: f.Strands.Temporary,
	}
	for t, rows := range groups {
		for i, r := range rows {
			for j := 0; j < r.Count; j++ {
				p.strands[t] = append(p.strands[t], r.strand())
				p.rows[t] = append(p.rows[t], rowRef{row: i, col: j})
			}
		}
	}

	for _, t := range f.Tendons {
		p.tendons = append(p.tendons, girder.Tendon{
			Name:       t.Name,
			Area:       t.Area,
			Grade:      strandGrade(t.Grade),
			Y:          t.Y,
			Interval:   f.stageIndex(t.Stage),
			GirderWide: t.GirderWide,
		})
		p.tendonStress[t.Name] = t.Stress
	}

	p.generatePOIs()
	return p, nil
}

func (c Concrete) convert() (girder.Concrete, error) {
	ct, err := lrfd.ParseConcreteType(c.Type)
	if err != nil {
		return girder.Concrete{}, err
	}
	fci := c.Fci
	if fci <= 0 {
		fci = c.Fc
	}
	return girder.Concrete{
		Type:  ct,
		Fc:    c.Fc,
		Fci:   fci,
		Wc:    c.Wc,
		Ec:    c.Ec,
		Ftcr:  c.Ftcr,
		Ftloc: c.Ftloc,
	}, nil
}

func strandGrade(g int) lrfd.StrandGrade {
	if g == 250 {
		return lrfd.Grade250
	}
	return lrfd.Grade270
}

func (r StrandRow) strand() girder.Strand {
	coating := lrfd.Uncoated
	if r.Epoxy {
		coating = lrfd.EpoxyCoated
	}
	return girder.Strand{
		Diameter:      r.Diameter,
		Area:          r.Area,
		Grade:         strandGrade(r.Grade),
		Coating:       coating,
		DebondStart:   r.DebondStart,
		DebondEnd:     r.DebondEnd,
		ExtendedStart: r.ExtendedStart,
		ExtendedEnd:   r.ExtendedEnd,
	}
}

// Name of the project
func (p *Project) Name() string { return p.file.Name }

// Segment is the key of the only segment
func (p *Project) Segment() girder.SegmentKey { return p.seg }

// Providers returns the project in every provider slot
func (p *Project) Providers() girder.Providers {
	return girder.Providers{
		Geometry:  p,
		Materials: p,
		Strands:   p,
		Timeline:  p,
		Spec:      p,
		Prestress: p,
		Demand:    p,
		POIs:      p,
	}
}

// Geometry

func (p *Project) SegmentLength(seg girder.SegmentKey) float64 {
	if seg != p.seg {
		return 0
	}
	return p.file.Length
}

func (p *Project) GirderShape(girder.POI) section.Shape { return p.file.Girder.Shape }

func (p *Project) DeckShape(girder.POI) (section.Shape, bool) {
	if p.file.Deck == nil {
		return section.Shape{}, false
	}
	return p.file.Deck.Shape, true
}

func (p *Project) WebCount(girder.SegmentKey) int {
	return max(p.file.Girder.Webs, 1)
}

func (p *Project) Supports(seg girder.SegmentKey) []girder.Support {
	if seg != p.seg {
		return nil
	}
	out := make([]girder.Support, len(p.file.Supports))
	for i, s := range p.file.Supports {
		out[i] = girder.Support{X: s.X, FaceWidth: s.FaceWidth}
	}
	return out
}

// Materials

func (p *Project) GirderConcrete(girder.SegmentKey) girder.Concrete { return p.girderConcrete }

func (p *Project) DeckConcrete(girder.SegmentKey) girder.Concrete { return p.deckConcrete }

func (p *Project) Rebar(girder.POI) []girder.RebarLayer {
	out := make([]girder.RebarLayer, len(p.file.Rebar))
	for i, r := range p.file.Rebar {
		fy := r.Fy
		if fy <= 0 {
			fy = defaultFy
		}
		out[i] = girder.RebarLayer{Y: r.Y, Area: r.Area, Fy: fy, InDeck: r.InDeck}
	}
	return out
}

func (p *Project) Stirrups(girder.POI) girder.Stirrups {
	s := p.file.Stirrup
	fy := s.Fy
	if fy <= 0 {
		fy = defaultFy
	}
	return girder.Stirrups{Av: s.Av, Spacing: s.Spacing, Fy: fy}
}

// Strand geometry

func (p *Project) Strands(seg girder.SegmentKey, t girder.StrandType) []girder.Strand {
	if seg != p.seg {
		return nil
	}
	var out []girder.Strand
	for _, st := range t.Expand() {
		out = append(out, p.strands[st]...)
	}
	return out
}

func (p *Project) StrandPoints(poi girder.POI, t girder.StrandType) []girder.StrandPoint {
	var out []girder.StrandPoint
	for _, st := range t.Expand() {
		for _, ref := range p.rows[st] {
			out = append(out, p.strandPoint(st, ref, poi.X))
		}
	}
	return out
}

func (p *Project) strandPoint(t girder.StrandType, ref rowRef, x float64) girder.StrandPoint {
	var r StrandRow
	switch t {
	case girder.Straight:
		r = p.file.Strands.Straight[ref.row]
	case girder.Harped:
		r = p.file.Strands.Harped[ref.row]
	case girder.Temporary:
		r = p.file.Strands.Temporary[ref.row]
	}
	pt := girder.StrandPoint{
		X: (float64(ref.col) - float64(r.Count-1)/2) * strandSpacing,
		Y: r.Y,
	}
	if t != girder.Harped || r.YEnd == nil {
		return pt
	}

	l := p.file.Length
	hp := p.file.Strands.HarpPoint * l
	rise := *r.YEnd - r.Y
	switch {
	case x < hp:
		pt.Slope = -rise / hp
		pt.Y = *r.YEnd + pt.Slope*x
	case x > l-hp:
		pt.Slope = rise / hp
		pt.Y = r.Y + pt.Slope*(x-(l-hp))
	}
	return pt
}

func (p *Project) Tendons(girder.POI) []girder.Tendon {
	return append([]girder.Tendon(nil), p.tendons...)
}

// Timeline

func (p *Project) Intervals() []girder.Interval {
	return append([]girder.Interval(nil), p.intervals...)
}

func (p *Project) ReleaseInterval() int { return p.release }

func (p *Project) CompositeDeckInterval() int { return p.composite }

func (p *Project) LiveLoadInterval() int { return p.liveLoad }

func (p *Project) TemporaryStrandRemovalInterval() int { return p.removal }

// Specification

func (p *Project) Criteria() lrfd.Criteria { return p.criteria }

// Prestress

// EffectiveStress is the jacking stress less the cumulative loss of the
// interval. Strands carry no stress before release and temporary strands
// none after removal.
func (p *Project) EffectiveStress(_ girder.POI, t girder.StrandType, interval int) float64 {
	if interval < p.release {
		return 0
	}
	if t == girder.Temporary && p.removal >= 0 && interval >= p.removal {
		return 0
	}
	fpj := p.file.Losses.Jacking
	if fpj <= 0 {
		fpj = jackingRatio * lrfd.Grade270.Fpu()
	}
	if interval < len(p.file.Losses.Loss) {
		fpj -= p.file.Losses.Loss[interval]
	}
	return math.Max(fpj, 0)
}

func (p *Project) TendonStress(_ girder.POI, t girder.Tendon, interval int) float64 {
	if interval < t.Interval {
		return 0
	}
	return p.tendonStress[t.Name]
}

// Points of interest

func (p *Project) generatePOIs() {
	l := p.file.Length
	n := p.file.Points.Divisions
	if n <= 0 {
		n = defaultDivisor
	}
	for i := 0; i <= n; i++ {
		p.add(float64(i)*l/float64(n), 0)
	}
	for _, s := range p.file.Supports {
		p.add(s.X, girder.AttrSupport)
	}
	a, b := p.span()
	p.add((a+b)/2, girder.AttrMidspan)
	if len(p.file.Strands.Harped) > 0 {
		hp := p.file.Strands.HarpPoint * l
		p.add(hp, girder.AttrHarpPoint)
		p.add(l-hp, girder.AttrHarpPoint)
	}
	for _, rows := range [][]StrandRow{p.file.Strands.Straight, p.file.Strands.Harped, p.file.Strands.Temporary} {
		for _, r := range rows {
			if r.DebondStart > 0 {
				p.add(r.DebondStart, girder.AttrDebondPoint)
			}
			if r.DebondEnd > 0 {
				p.add(l-r.DebondEnd, girder.AttrDebondPoint)
			}
		}
	}
}

// add merges attr into the POI at x, creating it when needed. Callers
// hold mu or run before the project is shared.
func (p *Project) add(x float64, attr girder.Attribute) girder.POI {
	i := sort.Search(len(p.pois), func(i int) bool { return p.pois[i].X >= x-poiTolerance })
	if i < len(p.pois) && math.Abs(p.pois[i].X-x) <= poiTolerance {
		p.pois[i].Attributes |= attr
		p.byID[p.pois[i].ID] = p.pois[i]
		return p.pois[i]
	}
	poi := girder.POI{ID: p.nextID, Segment: p.seg, X: x, Attributes: attr}
	p.nextID++
	p.pois = append(p.pois, girder.POI{})
	copy(p.pois[i+1:], p.pois[i:])
	p.pois[i] = poi
	p.byID[poi.ID] = poi
	return poi
}

func (p *Project) POIs(seg girder.SegmentKey) []girder.POI {
	if seg != p.seg {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]girder.POI(nil), p.pois...)
}

func (p *Project) Lookup(id girder.POIID) (girder.POI, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	poi, ok := p.byID[id]
	return poi, ok
}

func (p *Project) At(seg girder.SegmentKey, x float64) girder.POI {
	p.mu.Lock()
	defer p.mu.Unlock()
	poi := p.add(x, 0)
	poi.Segment = seg
	return poi
}
