// Package material provides the uniaxial stress-strain laws used by the
// strain compatibility solver. Strain and stress are compression positive.
package material

import (
	"math"

	"github.com/alexiusacademia/gopcb/internal/lrfd"
)

// Law is a uniaxial stress-strain response
type Law interface {
	// Stress at section strain eps (ksi)
	Stress(eps float64) float64
	// Breakpoints lists the strains where the response has a kink or a
	// change of formula, so integration can split there
	Breakpoints() []float64
}

// BlockConcrete is the equivalent rectangular stress block expressed as
// a stress-strain law: α1 f'c wherever the strain exceeds (1-β1) εcu.
type BlockConcrete struct {
	Fc     float64
	Alpha1 float64
	Beta1  float64
	EpsCU  float64
}

// NewBlockConcrete builds the stress block for f'c
func NewBlockConcrete(fc float64) BlockConcrete {
	return BlockConcrete{Fc: fc, Alpha1: lrfd.Alpha1, Beta1: lrfd.Beta1(fc), EpsCU: lrfd.EpsilonCU}
}

func (c BlockConcrete) threshold() float64 { return (1 - c.Beta1) * c.EpsCU }

// Stress implements Law
func (c BlockConcrete) Stress(eps float64) float64 {
	if eps >= c.threshold() {
		return c.Alpha1 * c.Fc
	}
	return 0
}

// Breakpoints implements Law
func (c BlockConcrete) Breakpoints() []float64 { return []float64{0, c.threshold()} }

// UHPC is elastic-plastic in compression and carries γu ft,cr in tension
// up to the crack localization strain, then softens to zero.
type UHPC struct {
	Fc     float64
	Ec     float64
	Ftcr   float64
	EpsCU  float64
	EpsLoc float64
}

// NewUHPC builds the UHPC law
func NewUHPC(fc, ec, ftcr float64) UHPC {
	return UHPC{Fc: fc, Ec: ec, Ftcr: ftcr, EpsCU: lrfd.EpsilonCUUHPC, EpsLoc: lrfd.UHPCTensileLocalization}
}

// Stress implements Law
func (u UHPC) Stress(eps float64) float64 {
	if eps >= 0 {
		return math.Min(u.Ec*eps, lrfd.Alpha1*u.Fc)
	}
	t := -eps
	ft := lrfd.UHPCGammaU * u.Ftcr
	switch {
	case t <= ft/u.Ec:
		return -u.Ec * t
	case t <= u.EpsLoc:
		return -ft
	case t <= 1.1*u.EpsLoc:
		// short linear softening keeps the response continuous
		return -ft * (1.1*u.EpsLoc - t) / (0.1 * u.EpsLoc)
	}
	return 0
}

// Breakpoints implements Law
func (u UHPC) Breakpoints() []float64 {
	ft := lrfd.UHPCGammaU * u.Ftcr
	return []float64{-1.1 * u.EpsLoc, -u.EpsLoc, -ft / u.Ec, 0, lrfd.Alpha1 * u.Fc / u.Ec}
}

// Strand is a bonded prestressing strand or tendon with an initial
// tensile prestrain. Factor scales both the stress response and the
// prestrain of a partially developed strand.
type Strand struct {
	Grade     lrfd.StrandGrade
	Prestrain float64 // tension positive
	Factor    float64
}

// TotalStrain returns the tensile strain in the strand for section strain eps
func (s Strand) TotalStrain(eps float64) float64 {
	return s.Factor*s.Prestrain - eps
}

// Stress implements Law
func (s Strand) Stress(eps float64) float64 {
	return -s.Factor * lrfd.StrandStress(s.TotalStrain(eps), s.Grade)
}

// Breakpoints implements Law
func (s Strand) Breakpoints() []float64 { return nil }

// Rebar is elastic-perfectly plastic mild steel
type Rebar struct {
	Fy float64
	Es float64
}

// Stress implements Law
func (r Rebar) Stress(eps float64) float64 { return lrfd.RebarStress(eps, r.Fy, r.Es) }

// Breakpoints implements Law
func (r Rebar) Breakpoints() []float64 { return []float64{-r.Fy / r.Es, r.Fy / r.Es} }
