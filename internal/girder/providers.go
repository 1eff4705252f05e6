package girder

import (
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// Geometry answers cross-section and span questions
type Geometry interface {
	SegmentLength(seg SegmentKey) float64
	// GirderShape is the precast shape at the POI, Y from the girder bottom
	GirderShape(poi POI) section.Shape
	// DeckShape is the composite slab at the POI; ok is false for
	// non-composite girders
	DeckShape(poi POI) (shape section.Shape, ok bool)
	WebCount(seg SegmentKey) int
	Supports(seg SegmentKey) []Support
}

// Materials answers material property questions
type Materials interface {
	GirderConcrete(seg SegmentKey) Concrete
	DeckConcrete(seg SegmentKey) Concrete
	Rebar(poi POI) []RebarLayer
	Stirrups(poi POI) Stirrups
}

// StrandGeometry answers questions about pretensioned and post-tensioned
// reinforcement layout
type StrandGeometry interface {
	// Strands lists the strands of a type, indexed by strand index
	Strands(seg SegmentKey, t StrandType) []Strand
	// StrandPoints locates each strand of Strands(seg, t) at the POI
	StrandPoints(poi POI, t StrandType) []StrandPoint
	Tendons(poi POI) []Tendon
}

// Timeline answers questions about construction intervals
type Timeline interface {
	Intervals() []Interval
	ReleaseInterval() int
	CompositeDeckInterval() int
	LiveLoadInterval() int
	// TemporaryStrandRemovalInterval is the interval in which temporary
	// strands are cut; -1 when there are none
	TemporaryStrandRemovalInterval() int
}

// Specification answers which code provisions are active
type Specification interface {
	Criteria() lrfd.Criteria
}

// Prestress answers effective prestress questions
type Prestress interface {
	// EffectiveStress is fpe (ksi) of strand type t at the POI after the
	// losses that have occurred by the given interval
	EffectiveStress(poi POI, t StrandType, interval int) float64
	// TendonStress is the effective stress (ksi) of a tendon
	TendonStress(poi POI, tendon Tendon, interval int) float64
}

// Demand answers factored and unfactored load effect questions
type Demand interface {
	Moment(poi POI, ls lrfd.LimitState, interval int) float64
	Shear(poi POI, ls lrfd.LimitState, interval int) float64
	AxialForce(poi POI, ls lrfd.LimitState, interval int) float64
	// NoncompositeDeadLoadMoment is Mdnc, the unfactored moment resisted
	// by the non-composite section
	NoncompositeDeadLoadMoment(poi POI) float64
	// DeadLoadShear is the unfactored dead load shear Vd
	DeadLoadShear(poi POI) float64
	// DeadLoadMoment is the unfactored dead load moment Md
	DeadLoadMoment(poi POI) float64
}

// PointsOfInterest answers questions about POI identity
type PointsOfInterest interface {
	POIs(seg SegmentKey) []POI
	Lookup(id POIID) (POI, bool)
	// At returns the POI at x, creating one if none exists
	At(seg SegmentKey, x float64) POI
}

// Providers bundles the upstream collaborators. Each one can be replaced
// independently in tests.
type Providers struct {
	Geometry  Geometry
	Materials Materials
	Strands   StrandGeometry
	Timeline  Timeline
	Spec      Specification
	Prestress Prestress
	Demand    Demand
	POIs      PointsOfInterest
}
