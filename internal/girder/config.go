package girder

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// Config is an alternate input set used during iterative design. A query
// that carries a Config reads its inputs from here instead of the
// providers, and never reads or writes a shared cache.
type Config struct {
	Segment SegmentKey

	// Strands replaces the strand layout for the listed types
	Strands map[StrandType][]Strand

	// GirderFc replaces the girder concrete strength when positive
	GirderFc float64
	// GirderFci replaces the release strength when positive
	GirderFci float64

	// EffectiveStress replaces fpe for the listed types when present
	EffectiveStress map[StrandType]float64

	// Stirrups replaces the transverse reinforcement when Av is positive
	Stirrups Stirrups
}

// Key returns a stable fingerprint of the configuration
func (c *Config) Key() string {
	if c == nil {
		return ""
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%v|%g|%g|%+v|", c.Segment, c.GirderFc, c.GirderFci, c.Stirrups)

	types := make([]int, 0, len(c.Strands))
	for t := range c.Strands {
		types = append(types, int(t))
	}
	sort.Ints(types)
	for _, t := range types {
		fmt.Fprintf(h, "%d:%+v|", t, c.Strands[StrandType(t)])
	}

	types = types[:0]
	for t := range c.EffectiveStress {
		types = append(types, int(t))
	}
	sort.Ints(types)
	for _, t := range types {
		fmt.Fprintf(h, "fpe%d:%g|", t, c.EffectiveStress[StrandType(t)])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Inputs resolves provider data through an optional override Config. It is
// the single place where the override rule is applied.
type Inputs struct {
	P   Providers
	Cfg *Config
}

// Strands returns the strands of type t, from the override when present
func (in Inputs) Strands(seg SegmentKey, t StrandType) []Strand {
	if in.Cfg != nil {
		if s, ok := in.Cfg.Strands[t]; ok {
			return s
		}
	}
	return in.P.Strands.Strands(seg, t)
}

// StrandPoints locates the strands of type t at the POI. An override with
// a different strand count reuses the provider's points cyclically.
func (in Inputs) StrandPoints(poi POI, t StrandType) []StrandPoint {
	pts := in.P.Strands.StrandPoints(poi, t)
	if in.Cfg == nil {
		return pts
	}
	s, ok := in.Cfg.Strands[t]
	if !ok || len(s) == len(pts) || len(pts) == 0 {
		return pts
	}
	out := make([]StrandPoint, len(s))
	for i := range out {
		out[i] = pts[i%len(pts)]
	}
	return out
}

// GirderConcrete returns the girder concrete with overrides applied
func (in Inputs) GirderConcrete(seg SegmentKey) Concrete {
	c := in.P.Materials.GirderConcrete(seg)
	if in.Cfg != nil {
		if in.Cfg.GirderFc > 0 {
			c.Fc = in.Cfg.GirderFc
			c.Ec = 0
		}
		if in.Cfg.GirderFci > 0 {
			c.Fci = in.Cfg.GirderFci
		}
	}
	return c
}

// EffectiveStress returns fpe with overrides applied
func (in Inputs) EffectiveStress(poi POI, t StrandType, interval int) float64 {
	if in.Cfg != nil {
		if f, ok := in.Cfg.EffectiveStress[t]; ok {
			return f
		}
	}
	return in.P.Prestress.EffectiveStress(poi, t, interval)
}

// Stirrups returns the transverse reinforcement with overrides applied
func (in Inputs) Stirrups(poi POI) Stirrups {
	if in.Cfg != nil && in.Cfg.Stirrups.Av > 0 {
		return in.Cfg.Stirrups
	}
	return in.P.Materials.Stirrups(poi)
}
