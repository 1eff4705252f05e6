// Package report appends capacity results at a POI to a text sink. Each
// entry point takes the sink and a POI and returns nothing; query errors
// are written to the sink.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/alexiusacademia/gopcb/internal/capacity"
	"github.com/alexiusacademia/gopcb/internal/devlen"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/shear"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

const rule = "───────────────────────────────────────────────────────────────"

// Source is the query surface the reports read from
type Source interface {
	TransferLength(seg girder.SegmentKey, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (xfer.Result, error)
	TransferAdjustment(poi girder.POI, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (float64, error)
	DevelopmentLength(poi girder.POI, t girder.StrandType, debonded bool, cfg *girder.Config) (devlen.Result, error)
	DevelopmentAdjustment(poi girder.POI, t girder.StrandType, cfg *girder.Config) (float64, error)
	MomentCapacity(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.Details, error)
	CrackingMoment(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.CrackingDetails, error)
	MinMomentCapacity(interval int, sign girder.Sign, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*moment.MinDetails, error)
	CrackedSection(sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.CrackedDetails, error)
	ShearCapacity(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*shear.Details, error)
	CriticalSections(ls lrfd.LimitState, seg girder.SegmentKey, cfg *girder.Config) ([]shear.CriticalSection, error)
}

// Reporter writes reports for one interval and limit state
type Reporter struct {
	Source     Source
	Interval   int
	LimitState lrfd.LimitState
}

func heading(w io.Writer, title string, poi girder.POI) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %v\n", title, poi)
	fmt.Fprintln(w, rule)
}

func failed(w io.Writer, err error) {
	fmt.Fprintf(w, "  Error: %v\n", err)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// MomentCapacity writes positive and negative moment capacity
func (r *Reporter) MomentCapacity(w io.Writer, poi girder.POI) {
	heading(w, "MOMENT CAPACITY", poi)
	t := newTable(w)
	fmt.Fprintf(t, "  Sign\tc (in)\ta (in)\tde (in)\tdt (in)\tεt\tfps (ksi)\tφ\tMn (k-ft)\tφMn (k-ft)\n")
	fmt.Fprintf(t, "  ────\t──────\t──────\t───────\t───────\t──\t─────────\t─\t─────────\t──────────\n")
	for _, sign := range []girder.Sign{girder.Positive, girder.Negative} {
		d, err := r.Source.MomentCapacity(r.Interval, sign, poi, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		fmt.Fprintf(t, "  %s\t%.3f\t%.3f\t%.3f\t%.3f\t%.5f\t%.2f\t%.3f\t%.2f\t%.2f\n",
			sign, d.C, d.A, d.De, d.Dt, d.EpsilonT, d.Fps, d.Phi, d.Mn/12, d.PhiMn/12)
	}
	t.Flush()
}

// Elements writes the reinforcement states of the positive moment solve
func (r *Reporter) Elements(w io.Writer, poi girder.POI) {
	heading(w, "REINFORCEMENT AT CAPACITY", poi)
	d, err := r.Source.MomentCapacity(r.Interval, girder.Positive, poi, nil)
	if err != nil {
		failed(w, err)
		return
	}
	t := newTable(w)
	fmt.Fprintf(t, "  Element\tY (in)\tArea (in²)\tFactor\tStrain\tStress (ksi)\tForce (kip)\n")
	fmt.Fprintf(t, "  ───────\t──────\t──────────\t──────\t──────\t────────────\t───────────\n")
	for _, e := range d.Elements {
		fmt.Fprintf(t, "  %s %s\t%.3f\t%.4f\t%.3f\t%.6f\t%.2f\t%.2f\n",
			e.Kind, e.Label, e.Y, e.Area, e.Factor, e.TotalStrain, e.Stress, e.Force)
	}
	t.Flush()
}

// CrackingMoment writes the cracking moment terms
func (r *Reporter) CrackingMoment(w io.Writer, poi girder.POI) {
	heading(w, "CRACKING MOMENT", poi)
	t := newTable(w)
	for _, sign := range []girder.Sign{girder.Positive, girder.Negative} {
		d, err := r.Source.CrackingMoment(r.Interval, sign, poi, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		fmt.Fprintf(t, "  %s moment\n", sign)
		fmt.Fprintf(t, "    fr:\t%.3f ksi\n", d.Fr)
		fmt.Fprintf(t, "    fcpe:\t%.3f ksi\n", d.Fcpe)
		fmt.Fprintf(t, "    Mdnc:\t%.2f k-ft\n", d.Mdnc/12)
		fmt.Fprintf(t, "    Sc / Snc:\t%.1f / %.1f in³\n", d.Sc, d.Snc)
		fmt.Fprintf(t, "    γ1, γ2, γ3:\t%.2f, %.2f, %.2f\n", d.G1, d.G2, d.G3)
		fmt.Fprintf(t, "    Mcr:\t%.2f k-ft\n", d.Governing()/12)
	}
	t.Flush()
}

// MinMomentCapacity writes the minimum reinforcement check
func (r *Reporter) MinMomentCapacity(w io.Writer, poi girder.POI) {
	heading(w, "MINIMUM MOMENT CAPACITY", poi)
	t := newTable(w)
	fmt.Fprintf(t, "  Sign\tMcr\tk·Mcr\tMu\t1.33Mu\tMr,min\tφMn\tStatus\n")
	fmt.Fprintf(t, "  ────\t───\t─────\t──\t──────\t──────\t───\t──────\n")
	for _, sign := range []girder.Sign{girder.Positive, girder.Negative} {
		d, err := r.Source.MinMomentCapacity(r.Interval, sign, r.LimitState, poi, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		status := "OK"
		if !d.Passes() {
			status = "NG"
		}
		fmt.Fprintf(t, "  %s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			sign, d.Mcr/12, d.KMcr/12, d.Mu/12, d.MuScale/12, d.MrMin/12, d.Mr/12, status)
	}
	t.Flush()
}

// CrackedSection writes the cracked section properties
func (r *Reporter) CrackedSection(w io.Writer, poi girder.POI) {
	heading(w, "CRACKED SECTION", poi)
	t := newTable(w)
	for _, sign := range []girder.Sign{girder.Positive, girder.Negative} {
		d, err := r.Source.CrackedSection(sign, poi, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		fmt.Fprintf(t, "  %s:\tc = %.3f in\tIcr = %.0f in⁴\tE = %.0f ksi\n", sign, d.C, d.Icr, d.ERef)
	}
	t.Flush()
}

// ShearCapacity writes the shear capacity
func (r *Reporter) ShearCapacity(w io.Writer, poi girder.POI) {
	heading(w, "SHEAR CAPACITY", poi)
	d, err := r.Source.ShearCapacity(r.Interval, r.LimitState, poi, nil)
	if err != nil {
		failed(w, err)
		return
	}
	t := newTable(w)
	method := d.Applied.String()
	if d.Fallback {
		method = fmt.Sprintf("%s (%s not applicable)", d.Applied, d.Method)
	}
	fmt.Fprintf(t, "  Method:\t%s\n", method)
	if d.Outboard {
		fmt.Fprintf(t, "  Demand from critical section at:\t%.2f in\n", d.CriticalX)
	}
	fmt.Fprintf(t, "  Vu / Mu / Nu:\t%.2f kip / %.2f k-ft / %.2f kip\n", d.Vu, d.Mu/12, d.Nu)
	fmt.Fprintf(t, "  dv / bv:\t%.3f / %.3f in\n", d.Dv, d.Bv)
	fmt.Fprintf(t, "  fpc:\t%.3f ksi\n", d.Fpc)
	fmt.Fprintf(t, "  εs / β / θ:\t%.6f / %.3f / %.2f°\n", d.EpsS, d.Beta, d.Theta)
	if d.Applied == lrfd.ShearVciVcw {
		fmt.Fprintf(t, "  Vci / Vcw:\t%.2f / %.2f kip\n", d.Vci, d.Vcw)
	}
	fmt.Fprintf(t, "  Vc:\t%.2f kip\n", d.Vc)
	if d.Vuhpc > 0 {
		fmt.Fprintf(t, "  Vuhpc:\t%.2f kip\n", d.Vuhpc)
	}
	fmt.Fprintf(t, "  Vs:\t%.2f kip\n", d.Vs)
	fmt.Fprintf(t, "  Vp:\t%.2f kip\n", d.Vp)
	fmt.Fprintf(t, "  Vn (max %.2f):\t%.2f kip\n", d.VnMax, d.Vn)
	fmt.Fprintf(t, "  φVn:\t%.2f kip\n", d.PhiVn)
	fmt.Fprintf(t, "  Av/s provided / min:\t%.4f / %.4f in²/in\n", d.AvS, d.AvSMin)
	fmt.Fprintf(t, "  Max spacing:\t%.2f in\n", d.SMax)
	fmt.Fprintf(t, "  Stirrups required:\t%t\n", d.StirrupsRequired)
	t.Flush()
}

// TransferLength writes transfer lengths and bond adjustments
func (r *Reporter) TransferLength(w io.Writer, poi girder.POI) {
	heading(w, "TRANSFER LENGTH", poi)
	t := newTable(w)
	fmt.Fprintf(t, "  Strands\tMethod\tdb (in)\tlt max (in)\tlt min (in)\tAdjustment\n")
	fmt.Fprintf(t, "  ───────\t──────\t───────\t───────────\t───────────\t──────────\n")
	for _, st := range []girder.StrandType{girder.Straight, girder.Harped, girder.Temporary} {
		hi, err := r.Source.TransferLength(poi.Segment, st, lrfd.TransferMaximum, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		lo, err := r.Source.TransferLength(poi.Segment, st, lrfd.TransferMinimum, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		adj, err := r.Source.TransferAdjustment(poi, st, lrfd.TransferMaximum, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		fmt.Fprintf(t, "  %s\t%s\t%.3f\t%.2f\t%.2f\t%.3f\n", st, hi.Method, hi.Diameter, hi.Length, lo.Length, adj)
	}
	t.Flush()
}

// DevelopmentLength writes development lengths and adjustments
func (r *Reporter) DevelopmentLength(w io.Writer, poi girder.POI) {
	heading(w, "DEVELOPMENT LENGTH", poi)
	t := newTable(w)
	fmt.Fprintf(t, "  Strands\tDebonded\tMethod\tκ\tfps\tfpe\tld (in)\tAdjustment\n")
	fmt.Fprintf(t, "  ───────\t────────\t──────\t─\t───\t───\t───────\t──────────\n")
	for _, st := range []girder.StrandType{girder.Straight, girder.Harped, girder.Temporary} {
		adj, err := r.Source.DevelopmentAdjustment(poi, st, nil)
		if err != nil {
			t.Flush()
			failed(w, err)
			return
		}
		for _, debonded := range []bool{false, true} {
			d, err := r.Source.DevelopmentLength(poi, st, debonded, nil)
			if err != nil {
				t.Flush()
				failed(w, err)
				return
			}
			kappa := "-"
			if k, ok := d.Kappa(); ok {
				kappa = fmt.Sprintf("%.1f", k)
			}
			fmt.Fprintf(t, "  %s\t%t\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.3f\n",
				st, debonded, d.Method, kappa, d.Fps, d.Fpe, d.Length, adj)
		}
	}
	t.Flush()
}

// CriticalSections writes the critical sections of the POI's segment
func (r *Reporter) CriticalSections(w io.Writer, poi girder.POI) {
	heading(w, "SHEAR CRITICAL SECTIONS", poi)
	css, err := r.Source.CriticalSections(r.LimitState, poi.Segment, nil)
	if err != nil {
		failed(w, err)
		return
	}
	t := newTable(w)
	fmt.Fprintf(t, "  Support\tFace (in)\tx (in)\tdv (in)\tθ (deg)\n")
	fmt.Fprintf(t, "  ───────\t─────────\t──────\t───────\t───────\n")
	for _, cs := range css {
		fmt.Fprintf(t, "  %d\t%.2f\t%.2f\t%.3f\t%.2f\n", cs.Support+1, cs.FaceX, cs.X, cs.Dv, cs.Theta)
	}
	t.Flush()
}

// All writes every report for the POI
func (r *Reporter) All(w io.Writer, poi girder.POI) {
	r.TransferLength(w, poi)
	r.DevelopmentLength(w, poi)
	r.MomentCapacity(w, poi)
	r.CrackingMoment(w, poi)
	r.MinMomentCapacity(w, poi)
	r.CrackedSection(w, poi)
	r.ShearCapacity(w, poi)
}

func finite(v float64) string {
	if math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

// Envelope writes a capacity envelope table and its summary
func Envelope(w io.Writer, env *capacity.Envelope) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "CAPACITY ENVELOPE: segment %v, interval %d, %s\n", env.Segment, env.Interval, env.LimitState)
	fmt.Fprintln(w, rule)
	t := newTable(w)
	fmt.Fprintf(t, "  x (ft)\tφMn+ (k-ft)\tφMn- (k-ft)\tMu (k-ft)\tφVn (kip)\tVu (kip)\tM ratio\tV ratio\n")
	fmt.Fprintf(t, "  ──────\t───────────\t───────────\t─────────\t─────────\t────────\t───────\t───────\n")
	for _, row := range env.Rows {
		mark := ""
		if row.Outboard {
			mark = " *"
		}
		fmt.Fprintf(t, "  %.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s%s\n",
			row.POI.X/12, row.PhiMnPositive/12, row.PhiMnNegative/12, row.Mu/12,
			row.PhiVn, row.Vu, finite(row.MomentRatio), finite(row.ShearRatio), mark)
	}
	t.Flush()

	s := env.Summary
	fmt.Fprintln(w)
	t = newTable(w)
	fmt.Fprintf(t, "  φMn+ range:\t%.2f to %.2f k-ft (mean %.2f)\n", s.MinPhiMn/12, s.MaxPhiMn/12, s.MeanPhiMn/12)
	fmt.Fprintf(t, "  φVn range:\t%.2f to %.2f kip (median %.2f)\n", s.MinPhiVn, s.MaxPhiVn, s.MedianShear)
	fmt.Fprintf(t, "  Minimum moment ratio:\t%s\n", finite(s.MinMomentRatio))
	fmt.Fprintf(t, "  Minimum shear ratio:\t%s\n", finite(s.MinShearRatio))
	t.Flush()
	if len(env.Rows) > 0 {
		fmt.Fprintln(w, "  * demand and Vc taken from the critical section")
	}
}
