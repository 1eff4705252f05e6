package shear

import (
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// FpcDetails is the compressive stress in the concrete at the centroid of
// the composite section
type FpcDetails struct {
	X    float64
	P    float64 // effective prestress force (kip)
	E    float64 // eccentricity below the girder centroid (in)
	Mdnc float64 // kip-in

	Ag  float64 // girder area (in²)
	Ig  float64 // girder inertia (in⁴)
	Ybg float64 // girder centroid (in)
	Ybc float64 // composite centroid (in)

	Fpc float64 // ksi, compression positive
}

// Fpc returns the concrete stress at the composite centroid after all
// losses. It is cached per POI.
func (e *Engine) Fpc(poi girder.POI, cfg *girder.Config) (*FpcDetails, error) {
	if cfg != nil {
		return e.computeFpc(poi, cfg)
	}
	return e.fpc.GetOrCompute(poi.ID, func() (*FpcDetails, error) {
		return e.computeFpc(poi, nil)
	})
}

func (e *Engine) computeFpc(poi girder.POI, cfg *girder.Config) (*FpcDetails, error) {
	in := girder.Inputs{P: e.p, Cfg: cfg}
	interval := e.p.Timeline.LiveLoadInterval()
	p, yps, err := e.moment.EffectivePrestress(interval, poi, cfg)
	if err != nil {
		return nil, err
	}

	shape := e.p.Geometry.GirderShape(poi)
	g := shape.CalculateProperties()
	d := &FpcDetails{
		X:    poi.X,
		P:    p,
		Mdnc: e.p.Demand.NoncompositeDeadLoadMoment(poi),
		Ag:   g.Area,
		Ig:   g.Ixx,
		Ybg:  g.CentroidY,
		Ybc:  g.CentroidY,
	}
	if p > 0 {
		d.E = g.CentroidY - yps
	}
	if deck, ok := e.p.Geometry.DeckShape(poi); ok {
		eg := in.GirderConcrete(poi.Segment).Modulus()
		ed := e.p.Materials.DeckConcrete(poi.Segment).Modulus()
		c := section.Transformed([]section.Part{{Shape: &shape, E: eg}, {Shape: &deck, E: ed}}, eg)
		d.Ybc = c.CentroidY
	}
	if d.Ag <= 0 || d.Ig <= 0 {
		return nil, &girder.InputDomainError{What: "girder section at POI", Value: poi}
	}

	dy := d.Ybc - d.Ybg
	d.Fpc = d.P/d.Ag - d.P*d.E*dy/d.Ig + d.Mdnc*dy/d.Ig
	return d, nil
}
