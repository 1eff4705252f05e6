// Package shear computes shear capacity by the selected code method,
// locates critical sections, and applies the demand substitution rule
// outboard of them.
package shear

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

// Cache partition names
const (
	PartitionFpc      = "fpc"
	PartitionSection  = "shear-section"
	PartitionCapacity = "shear-capacity"
	PartitionCritical = "critical-section"
	PartitionDesign   = "critical-section-design"
)

// MomentSource supplies the flexural results shear depends on
type MomentSource interface {
	Capacity(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.Details, error)
	Cracking(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.CrackingDetails, error)
	EffectivePrestress(interval int, poi girder.POI, cfg *girder.Config) (p, y float64, err error)
}

// Details holds a shear capacity analysis
type Details struct {
	Interval   int
	LimitState string
	X          float64

	// Method is the selected method and Applied the one that produced Vc.
	// Fallback is true when Method was not applicable.
	Method   lrfd.ShearMethod
	Applied  lrfd.ShearMethod
	Fallback bool

	// Demand
	Vu, Mu, Nu float64
	Vp         float64

	// Section
	Dv, Bv, H, De float64
	Fc            float64
	Webs          int
	Fpc           float64

	// Concrete contribution
	EpsS, Beta, Theta float64
	Vc, Vci, Vcw      float64
	Vuhpc             float64

	// Steel contribution
	AvS        float64 // in²/in provided
	Fy         float64
	Vs         float64
	VsRequired float64

	Vn, VnMax float64
	Phi       float64
	PhiVn     float64

	StirrupsRequired    bool
	MinStirrupsProvided bool
	AvSMin              float64
	SMax                float64
	SpacingOK           bool

	// Outboard is true when demand and concrete contribution were taken
	// from the critical section at CriticalX
	Outboard  bool
	CriticalX float64
}

// IsAdequate reports whether φVn covers Vu
func (d *Details) IsAdequate() bool { return d.PhiVn >= math.Abs(d.Vu) }

type capKey struct {
	interval int
	ls       string
	poi      girder.POIID
}

// Engine computes and caches shear capacity results
type Engine struct {
	p      girder.Providers
	moment MomentSource
	xfer   *xfer.Calculator
	logger *slog.Logger

	fpc      *cache.Partition[girder.POIID, *FpcDetails]
	section  *cache.Partition[capKey, *Details]
	capacity *cache.Partition[capKey, *Details]
	critical *cache.Partition[critKey, []CriticalSection]
	design   *cache.Partition[critKey, []CriticalSection]

	designMu  sync.Mutex
	designCfg string

	transient atomic.Int64
}

// NewEngine creates a shear engine with its caches in arena
func NewEngine(p girder.Providers, m MomentSource, xc *xfer.Calculator, arena *cache.Arena, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{p: p, moment: m, xfer: xc, logger: logger}
	e.fpc = cache.NewPartition[girder.POIID, *FpcDetails](arena, PartitionFpc, xfer.PartitionName)
	e.section = cache.NewPartition[capKey, *Details](arena, PartitionSection,
		moment.PartitionCapacity, moment.PartitionCracking, PartitionFpc)
	e.critical = cache.NewPartition[critKey, []CriticalSection](arena, PartitionCritical, PartitionSection)
	e.design = cache.NewPartition[critKey, []CriticalSection](arena, PartitionDesign)
	e.capacity = cache.NewPartition[capKey, *Details](arena, PartitionCapacity, PartitionSection, PartitionCritical)
	return e
}

// Capacity returns the shear capacity at the POI for a limit state. Between
// a critical section and its support, demand and concrete contribution
// are those of the critical section.
func (e *Engine) Capacity(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*Details, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if cfg != nil {
		return e.computeCapacity(interval, ls, poi, cfg)
	}
	return e.capacity.GetOrCompute(capKey{interval, ls.ID, poi.ID}, func() (*Details, error) {
		return e.computeCapacity(interval, ls, poi, nil)
	})
}

func (e *Engine) computeCapacity(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*Details, error) {
	d, err := e.Section(interval, ls, poi, cfg)
	if err != nil {
		return nil, err
	}
	css, err := e.CriticalSections(ls, poi.Segment, cfg)
	if err != nil {
		return nil, err
	}
	for _, cs := range css {
		if !cs.Contains(poi.X) {
			continue
		}
		at, err := e.Section(interval, ls, cs.POI, cfg)
		if err != nil {
			return nil, err
		}
		return outboard(d, at, cs), nil
	}
	return d, nil
}

// outboard copies d and substitutes demand and concrete contribution from
// the critical section, then recomputes the derived quantities
func outboard(d, at *Details, cs CriticalSection) *Details {
	out := *d
	out.Outboard = true
	out.CriticalX = cs.X
	out.Vu, out.Mu, out.Nu = at.Vu, at.Mu, at.Nu
	out.EpsS, out.Beta, out.Theta = at.EpsS, at.Beta, at.Theta
	out.Vc, out.Vci, out.Vcw = at.Vc, at.Vci, at.Vcw
	out.Vuhpc = at.Vuhpc
	out.Applied, out.Fallback = at.Applied, at.Fallback
	out.Vs = lrfd.SteelShear(out.AvS, out.Fy, out.Dv, 1, out.Theta)
	finish(&out)
	return &out
}

// Section returns the shear capacity of the section at the POI without the
// critical section substitution
func (e *Engine) Section(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*Details, error) {
	if err := girder.CheckInterval(e.p.Timeline, interval); err != nil {
		return nil, err
	}
	if cfg != nil {
		return e.computeSection(interval, ls, poi, cfg)
	}
	return e.section.GetOrCompute(capKey{interval, ls.ID, poi.ID}, func() (*Details, error) {
		return e.computeSection(interval, ls, poi, nil)
	})
}

// inputs gathered once per section analysis
type inputs struct {
	interval int
	sign     girder.Sign
	poi      girder.POI
	cfg      *girder.Config
	concrete girder.Concrete
	lambda   float64
	fpe      float64 // average effective prestress (ksi)
	fpu      float64
	aps, as  float64
	act      float64
}

func (e *Engine) computeSection(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*Details, error) {
	in := girder.Inputs{P: e.p, Cfg: cfg}
	crit := e.p.Spec.Criteria()

	si := &inputs{interval: interval, poi: poi, cfg: cfg, concrete: in.GirderConcrete(poi.Segment)}
	si.lambda = lrfd.Lambda(si.concrete.Type)

	d := &Details{
		Interval:   interval,
		LimitState: ls.ID,
		X:          poi.X,
		Method:     crit.ShearMethod,
		Vu:         e.p.Demand.Shear(poi, ls, interval),
		Mu:         e.p.Demand.Moment(poi, ls, interval),
		Nu:         e.p.Demand.AxialForce(poi, ls, interval),
		Webs:       e.p.Geometry.WebCount(poi.Segment),
		Phi:        lrfd.PhiShearFor(si.concrete.Type),
	}
	if si.concrete.Type.IsUHPC() {
		d.Method = lrfd.ShearUHPC
	}
	si.sign = girder.Positive
	if d.Mu < 0 {
		si.sign = girder.Negative
	}

	md, err := e.moment.Capacity(interval, si.sign, poi, cfg)
	if err != nil {
		return nil, err
	}
	if err := e.sectionTerms(in, si, md, d); err != nil {
		return nil, err
	}
	fpc, err := e.Fpc(poi, cfg)
	if err != nil {
		return nil, err
	}
	d.Fpc = fpc.Fpc
	if d.Vp, err = e.verticalPrestress(in, si); err != nil {
		return nil, err
	}

	st := in.Stirrups(poi)
	if st.Spacing > 0 {
		d.AvS = st.Av / st.Spacing
	}
	d.Fy = st.Fy
	d.AvSMin = lrfd.MinTransverseReinforcement(si.lambda, si.concrete.Fc, d.Bv, math.Max(d.Fy, 60))
	d.MinStirrupsProvided = d.AvS >= d.AvSMin
	d.SMax = lrfd.MaxStirrupSpacing(lrfd.ShearStress(d.Vu, d.Vp, d.Phi, d.Bv, d.Dv), si.concrete.Fc, d.Dv)
	d.SpacingOK = st.Spacing <= 0 || st.Spacing <= d.SMax

	d.Applied = d.Method
	ok, err := e.concreteContribution(d.Method, si, d)
	if err != nil {
		return nil, err
	}
	if !ok {
		d.Fallback = true
		d.Applied = lrfd.ShearGeneralEquations
		if _, err := e.concreteContribution(lrfd.ShearGeneralEquations, si, d); err != nil {
			return nil, err
		}
		e.logger.Debug("shear method not applicable",
			slog.String("method", d.Method.String()),
			slog.Float64("x", poi.X))
	}

	d.Vs = lrfd.SteelShear(d.AvS, d.Fy, d.Dv, 1, d.Theta)
	finish(d)
	return d, nil
}

// finish computes the quantities derived from the contributions
func finish(d *Details) {
	vu := math.Abs(d.Vu)
	d.VnMax = lrfd.MaxNominalShear(d.Fc, d.Bv, d.Dv, d.Vp)
	d.Vn = math.Min(d.Vc+d.Vs+d.Vp+d.Vuhpc, d.VnMax)
	d.PhiVn = d.Phi * d.Vn
	d.StirrupsRequired = vu > 0.5*d.Phi*(d.Vc+d.Vp)
	d.VsRequired = math.Max(vu/d.Phi-d.Vc-d.Vp-d.Vuhpc, 0)
}

// sectionTerms sets dv, bv, h and de, and the reinforcement terms of
// the longitudinal strain equation
func (e *Engine) sectionTerms(in girder.Inputs, si *inputs, md *moment.Details, d *Details) error {
	poi := si.poi
	shape := e.p.Geometry.GirderShape(poi)
	g := shape.CalculateProperties()
	bottom, top := g.MinY, g.MaxY
	deck, composite := e.p.Geometry.DeckShape(poi)
	composite = composite && si.interval >= e.p.Timeline.CompositeDeckInterval()
	if composite {
		top = math.Max(top, deck.CalculateProperties().MaxY)
	}
	d.H = top - bottom
	d.De = md.De

	t := md.StrandForce + md.TendonForce + md.RebarForce
	d.Dv = math.Max(0.9*d.De, 0.72*d.H)
	if t > 0 {
		d.Dv = math.Max(d.Dv, math.Abs(md.Mn)/t)
	}
	d.Fc = si.concrete.Fc

	// web width over the girder height, excluding the end fibers
	d.Bv = shape.MinWidthBetween(bottom+0.05*g.Height, g.MaxY-0.05*g.Height, 40)
	if d.Bv <= 0 {
		return &girder.InputDomainError{What: "web width at POI", Value: poi}
	}

	for _, el := range md.Elements {
		if el.Force >= 0 {
			continue
		}
		switch el.Kind {
		case moment.KindRebar:
			si.as += el.Area
		default:
			si.aps += el.Area
			si.fpu = el.Fy
		}
	}
	si.fpe = md.Fpe
	if si.fpu == 0 {
		si.fpu = lrfd.Grade270.Fpu()
	}

	// concrete on the flexural tension side of mid-depth
	mid := bottom + d.H/2
	width := func(y float64) float64 {
		w := shape.WidthAtY(y)
		if composite {
			w += deck.WidthAtY(y)
		}
		return w
	}
	if si.sign == girder.Positive {
		si.act = quad.Fixed(width, bottom, mid, 64, quad.Legendre{}, 0)
	} else {
		si.act = quad.Fixed(width, mid, top, 64, quad.Legendre{}, 0)
	}
	return nil
}

// verticalPrestress returns Vp from the slope of harped strands
func (e *Engine) verticalPrestress(in girder.Inputs, si *inputs) (float64, error) {
	if si.interval < e.p.Timeline.ReleaseInterval() {
		return 0, nil
	}
	strands := in.Strands(si.poi.Segment, girder.Harped)
	points := in.StrandPoints(si.poi, girder.Harped)
	fpe := in.EffectiveStress(si.poi, girder.Harped, si.interval)
	var vp float64
	for i, s := range strands {
		if i >= len(points) {
			break
		}
		adj, err := e.xfer.StrandAdjustment(si.poi, girder.Harped, i, lrfd.TransferMaximum, si.cfg)
		if err != nil {
			return 0, err
		}
		vp += fpe * s.Area * adj * math.Abs(points[i].Slope)
	}
	return vp, nil
}

// strainInputs builds the longitudinal strain terms for prestress fpo
func strainInputs(si *inputs, d *Details, fpo float64) lrfd.StrainInputs {
	return lrfd.StrainInputs{
		Mu:  math.Abs(d.Mu),
		Nu:  d.Nu,
		Vu:  math.Abs(d.Vu),
		Vp:  d.Vp,
		Dv:  d.Dv,
		Aps: si.aps,
		Fpo: fpo,
		As:  si.as,
		Ep:  lrfd.Eps,
		Es:  lrfd.Es,
		Ec:  si.concrete.Modulus(),
		Act: si.act,
	}
}

// concreteContribution sets the concrete terms for method m. It returns
// false when m does not apply.
func (e *Engine) concreteContribution(m lrfd.ShearMethod, si *inputs, d *Details) (bool, error) {
	d.Vc, d.Vci, d.Vcw, d.Vuhpc = 0, 0, 0, 0
	switch m {
	case lrfd.ShearGeneralEquations:
		return generalEquations(si, d, false), nil
	case lrfd.ShearWSDOT2007:
		return generalEquations(si, d, true), nil
	case lrfd.ShearGeneralTables:
		fpo := si.fpe + d.Fpc*lrfd.Eps/si.concrete.Modulus()
		return generalTables(si, d, fpo), nil
	case lrfd.ShearWSDOT2001:
		return generalTables(si, d, 0.7*si.fpu), nil
	case lrfd.ShearVciVcw:
		return e.vciVcw(si, d)
	case lrfd.ShearUHPC:
		return uhpc(si, d), nil
	}
	return false, &girder.InputDomainError{What: "shear method", Value: m}
}

func sxe(dv float64) float64 {
	// crack spacing with 3/4 in aggregate
	return math.Max(math.Min(dv*1.38/(0.75+0.63), 80), 12)
}

func generalEquations(si *inputs, d *Details, floorStrain bool) bool {
	eps := lrfd.LongitudinalStrain(strainInputs(si, d, 0.7*si.fpu))
	if floorStrain {
		eps = math.Max(eps, 0)
	}
	d.EpsS = eps
	d.Beta, d.Theta = lrfd.BetaThetaEquations(eps, d.MinStirrupsProvided, sxe(d.Dv))
	d.Vc = lrfd.ConcreteShear(d.Beta, si.lambda, si.concrete.Fc, d.Bv, d.Dv)
	return true
}

func generalTables(si *inputs, d *Details, fpo float64) bool {
	eps := lrfd.LongitudinalStrain(strainInputs(si, d, fpo))
	if eps > 0 {
		// tables are entered with the strain at mid-depth
		eps /= 2
	}
	v := lrfd.ShearStress(math.Abs(d.Vu), d.Vp, d.Phi, d.Bv, d.Dv)
	beta, theta, ok := lrfd.BetaThetaTables(v/si.concrete.Fc, eps)
	if !ok {
		return false
	}
	d.EpsS, d.Beta, d.Theta = eps, beta, theta
	d.Vc = lrfd.ConcreteShear(beta, si.lambda, si.concrete.Fc, d.Bv, d.Dv)
	return true
}

func (e *Engine) vciVcw(si *inputs, d *Details) (bool, error) {
	if si.concrete.Type.IsUHPC() {
		return false, nil
	}
	cr, err := e.moment.Cracking(si.interval, si.sign, si.poi, si.cfg)
	if err != nil {
		return false, err
	}
	mcre := 0.0
	if cr.Snc > 0 {
		mcre = math.Max(cr.Sc*(cr.Fr+cr.Fcpe-math.Abs(cr.Mdnc)/cr.Snc), 0)
	}
	vd := math.Abs(e.p.Demand.DeadLoadShear(si.poi))
	md := math.Abs(e.p.Demand.DeadLoadMoment(si.poi))
	vi := math.Max(math.Abs(d.Vu)-vd, 0)
	mmax := math.Max(math.Abs(d.Mu)-md, 0)

	d.Vci, d.Vcw, d.Vc = lrfd.VciVcw(lrfd.VciVcwInputs{
		Fc:     si.concrete.Fc,
		Lambda: si.lambda,
		Bv:     d.Bv,
		Dv:     d.Dv,
		Vd:     vd,
		Vi:     vi,
		Mmax:   mmax,
		Mcre:   mcre,
		Fpc:    d.Fpc,
		Vp:     d.Vp,
	})
	d.Theta = lrfd.VciVcwTheta(d.Vci, d.Vcw, d.Fpc, si.concrete.Fc, si.lambda)
	return true, nil
}

func uhpc(si *inputs, d *Details) bool {
	if !si.concrete.Type.IsUHPC() {
		return false
	}
	eps := lrfd.LongitudinalStrain(strainInputs(si, d, 0.7*si.fpu))
	d.EpsS = eps
	_, d.Theta = lrfd.BetaThetaEquations(eps, true, sxe(d.Dv))
	ftloc := si.concrete.Ftloc
	if ftloc <= 0 {
		ftloc = si.concrete.Ftcr
	}
	d.Vuhpc = lrfd.UHPCShear(ftloc, d.Bv, d.Dv, d.Theta)
	return true
}
