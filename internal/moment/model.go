package moment

import (
	"math"

	"github.com/alexiusacademia/gopcb/internal/material"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// ElementKind classifies the reinforcement of a section model
type ElementKind int

const (
	KindStrand ElementKind = iota
	KindSegmentTendon
	KindGirderTendon
	KindRebar
)

func (k ElementKind) String() string {
	switch k {
	case KindStrand:
		return "strand"
	case KindSegmentTendon:
		return "segment tendon"
	case KindGirderTendon:
		return "girder tendon"
	case KindRebar:
		return "rebar"
	}
	return "unknown"
}

// IsPrestressed reports whether the element carries prestress
func (k ElementKind) IsPrestressed() bool { return k != KindRebar }

// Region is a concrete area of the section with one material law
type Region struct {
	Name  string
	Shape section.Shape
	Law   material.Law
	E     float64 // ksi
	Fc    float64 // ksi
	Beta1 float64 // stress block factor; zero for non-block laws
}

// Element is a discrete reinforcement component
type Element struct {
	Kind  ElementKind
	Label string
	Y     float64 // in, elevation in solve coordinates
	Area  float64 // in²
	Law   material.Law
	E     float64 // ksi
	Fy    float64 // yield (rebar) or fpu (strand), ksi
	// Rupture is the tensile strain limit; zero when none applies
	Rupture float64
	// Factor is the bond/development reduction applied to the element
	Factor float64
}

// tensileStrain returns the total tensile strain of the element for a
// section strain eps (compression positive)
func (e Element) tensileStrain(eps float64) float64 {
	if s, ok := e.Law.(material.Strand); ok {
		return s.TotalStrain(eps)
	}
	return -eps
}

// Model is a section prepared for strain compatibility. Compression acts
// at the top of the model; negative bending is solved on a mirrored model.
type Model struct {
	Regions  []Region
	Elements []Element
	Top      float64 // in
	Bottom   float64 // in
	EpsCU    float64 // crushing strain of the top region
	Mirrored bool
	axis     float64
}

// finish computes the model extents from its regions
func (m *Model) finish() {
	m.Top, m.Bottom = math.Inf(-1), math.Inf(1)
	for _, r := range m.Regions {
		p := r.Shape.CalculateProperties()
		m.Top = math.Max(m.Top, p.MaxY)
		m.Bottom = math.Min(m.Bottom, p.MinY)
	}
}

// mirror reflects the model about its mid-height so that the bottom
// becomes the compression face
func (m *Model) mirror() {
	m.axis = (m.Top + m.Bottom) / 2
	for i := range m.Regions {
		m.Regions[i].Shape = m.Regions[i].Shape.Mirror(m.axis)
	}
	for i := range m.Elements {
		m.Elements[i].Y = 2*m.axis - m.Elements[i].Y
	}
	m.Mirrored = true
}

// Elevation converts a solve-coordinate elevation back to girder
// coordinates
func (m *Model) Elevation(y float64) float64 {
	if m.Mirrored {
		return 2*m.axis - y
	}
	return y
}

// Height is the total depth of the model
func (m *Model) Height() float64 { return m.Top - m.Bottom }

// ConcreteArea returns the net concrete area of all regions
func (m *Model) ConcreteArea() float64 {
	var a float64
	for _, r := range m.Regions {
		a += r.Shape.CalculateProperties().Area
	}
	return a
}
