// Package girder holds the data model shared by the capacity engines and
// the narrow interfaces of the upstream collaborators that feed them.
package girder

import (
	"fmt"

	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// SegmentKey identifies a precast segment within a girder of a group
type SegmentKey struct {
	Group   int `json:"group" yaml:"group"`
	Girder  int `json:"girder" yaml:"girder"`
	Segment int `json:"segment" yaml:"segment"`
}

func (k SegmentKey) String() string {
	return fmt.Sprintf("G%d-%d-S%d", k.Group, k.Girder, k.Segment)
}

// POIID is the stable identity of a point of interest
type POIID int

// Attribute flags describing a point of interest
type Attribute uint32

const (
	AttrSupport Attribute = 1 << iota
	AttrHarpPoint
	AttrDebondPoint
	AttrCriticalSection
	AttrMidspan
)

// POI is a location along a girder segment
type POI struct {
	ID         POIID
	Segment    SegmentKey
	X          float64 // distance from start of segment (in)
	Attributes Attribute
}

func (p POI) String() string {
	return fmt.Sprintf("POI %d (%v, x=%.3f in)", p.ID, p.Segment, p.X)
}

// Sign of the bending moment
type Sign int

const (
	Positive Sign = iota
	Negative
)

func (s Sign) String() string {
	if s == Negative {
		return "negative"
	}
	return "positive"
}

// StrandType groups pretensioned strands
type StrandType int

const (
	Straight StrandType = iota
	Harped
	Temporary
	// Permanent is Straight and Harped together; it is expanded by query
	// functions and never used as a cache key.
	Permanent
)

func (t StrandType) String() string {
	switch t {
	case Straight:
		return "straight"
	case Harped:
		return "harped"
	case Temporary:
		return "temporary"
	case Permanent:
		return "permanent"
	}
	return fmt.Sprintf("StrandType(%d)", int(t))
}

// Expand returns the concrete strand types that make up t
func (t StrandType) Expand() []StrandType {
	if t == Permanent {
		return []StrandType{Straight, Harped}
	}
	return []StrandType{t}
}

// Strand is one pretensioned strand of a segment
type Strand struct {
	Diameter float64          `json:"diameter" yaml:"diameter"` // in
	Area     float64          `json:"area" yaml:"area"`         // in²
	Grade    lrfd.StrandGrade `json:"grade" yaml:"grade"`
	Coating  lrfd.Coating     `json:"coating" yaml:"coating"`

	// Debonded length from each end (in); zero means bonded at that end
	DebondStart float64 `json:"debond_start,omitempty" yaml:"debond_start,omitempty"`
	DebondEnd   float64 `json:"debond_end,omitempty" yaml:"debond_end,omitempty"`

	// Extended strands are anchored into the end diaphragm
	ExtendedStart bool `json:"extended_start,omitempty" yaml:"extended_start,omitempty"`
	ExtendedEnd   bool `json:"extended_end,omitempty" yaml:"extended_end,omitempty"`
}

// IsDebonded reports whether the strand is debonded at either end
func (s Strand) IsDebonded() bool { return s.DebondStart > 0 || s.DebondEnd > 0 }

// StrandPoint is the location of a strand in the cross section at a POI
type StrandPoint struct {
	X, Y  float64 // in, Y from bottom of girder
	Slope float64 // rise/run of a harped strand at the POI
}

// Tendon is a post-tensioning tendon. Segment tendons stay within one
// segment; girder tendons run the full girder.
type Tendon struct {
	Name       string           `json:"name" yaml:"name"`
	Area       float64          `json:"area" yaml:"area"` // in²
	Grade      lrfd.StrandGrade `json:"grade" yaml:"grade"`
	Y          float64          `json:"y" yaml:"y"`               // in from bottom at the POI
	Interval   int              `json:"interval" yaml:"interval"` // stressing interval
	GirderWide bool             `json:"girder_wide,omitempty" yaml:"girder_wide,omitempty"`
}

// RebarLayer represents a layer of longitudinal reinforcement
type RebarLayer struct {
	Y    float64 `json:"y" yaml:"y"`       // in from bottom of girder
	Area float64 `json:"area" yaml:"area"` // in²
	Fy   float64 `json:"fy" yaml:"fy"`     // ksi
	// InDeck rebar is only present once the deck is composite
	InDeck bool `json:"in_deck,omitempty" yaml:"in_deck,omitempty"`
}

// Stirrups describes transverse reinforcement at a POI
type Stirrups struct {
	Av      float64 // in² per spacing
	Spacing float64 // in
	Fy      float64 // ksi
}

// Concrete properties of a girder or deck
type Concrete struct {
	Type  lrfd.ConcreteType
	Fc    float64 // ksi
	Fci   float64 // ksi, at release
	Wc    float64 // unit weight, kcf
	Ec    float64 // ksi; computed when zero
	Ftcr  float64 // UHPC effective cracking strength, ksi
	Ftloc float64 // UHPC crack localization strength, ksi
}

// Modulus returns Ec, computing it when not given
func (c Concrete) Modulus() float64 {
	if c.Ec > 0 {
		return c.Ec
	}
	return lrfd.ModulusOfElasticity(c.Fc, c.Wc, c.Type)
}

// Interval is a construction/loading interval of the timeline
type Interval struct {
	Index       int
	Description string
}

// Support is a bearing location along the girder
type Support struct {
	X         float64 // in from start of segment
	FaceWidth float64 // half-width of the bearing, to the inside face (in)
}

// Deck is the composite slab above the girder, in girder coordinates
type Deck struct {
	Shape section.Shape
}

// BondDistance returns the distance from x to the nearer bond-initiation
// boundary of the strand in a segment of the given length. For a fully
// bonded strand the boundaries are the segment ends. bonded is false when
// x lies in a debonded zone.
func (s Strand) BondDistance(x, length float64) (dist float64, bonded bool) {
	left := s.DebondStart
	right := length - s.DebondEnd
	if x < left || x > right {
		return 0, false
	}
	return min(x-left, right-x), true
}

// ExtendedAt reports whether the strand is anchored into the end diaphragm
// at the segment end nearer to x
func (s Strand) ExtendedAt(x, length float64) bool {
	if x <= length-x {
		return s.ExtendedStart
	}
	return s.ExtendedEnd
}
