// Package project loads a single-segment girder description from JSON or
// YAML and answers every provider query of the capacity engine from it.
package project

import (
	"fmt"

	"github.com/alexiusacademia/gopcb/internal/section"
)

// File is the on-disk project description. Lengths are in inches,
// stresses in ksi and loads in kip/in.
type File struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Specification Specification `json:"specification" yaml:"specification"`

	Length   float64   `json:"length" yaml:"length"`
	Supports []Support `json:"supports" yaml:"supports"`

	Girder  Member   `json:"girder" yaml:"girder"`
	Deck    *Member  `json:"deck,omitempty" yaml:"deck,omitempty"`
	Strands Strands  `json:"strands" yaml:"strands"`
	Tendons []Tendon `json:"tendons,omitempty" yaml:"tendons,omitempty"`
	Rebar   []Rebar  `json:"rebar,omitempty" yaml:"rebar,omitempty"`
	Stirrup Stirrups `json:"stirrups" yaml:"stirrups"`
	Stages  Timeline `json:"timeline" yaml:"timeline"`
	Losses  Losses   `json:"prestress" yaml:"prestress"`
	Loads   Loads    `json:"loads" yaml:"loads"`
	Points  POISpec  `json:"pois,omitempty" yaml:"pois,omitempty"`
}

// Specification selects the code provisions
type Specification struct {
	Edition      int    `json:"edition" yaml:"edition"` // publication year
	ShearMethod  string `json:"shear_method" yaml:"shear_method"`
	ZeroTransfer bool   `json:"zero_transfer,omitempty" yaml:"zero_transfer,omitempty"`
	RebarGrade   string `json:"rebar_grade,omitempty" yaml:"rebar_grade,omitempty"` // A615 or A706
	Segmental    bool   `json:"segmental,omitempty" yaml:"segmental,omitempty"`
	IgnoreRebar  bool   `json:"ignore_rebar,omitempty" yaml:"ignore_rebar,omitempty"`
}

// Support is a bearing line
type Support struct {
	X         float64 `json:"x" yaml:"x"`
	FaceWidth float64 `json:"face_width" yaml:"face_width"`
}

// Member is a concrete component with its section
type Member struct {
	Shape    section.Shape `json:"shape" yaml:"shape"`
	Concrete Concrete      `json:"concrete" yaml:"concrete"`
	Webs     int           `json:"webs,omitempty" yaml:"webs,omitempty"`
}

// Concrete material
type Concrete struct {
	Type  string  `json:"type,omitempty" yaml:"type,omitempty"`
	Fc    float64 `json:"fc" yaml:"fc"`
	Fci   float64 `json:"fci,omitempty" yaml:"fci,omitempty"`
	Wc    float64 `json:"wc,omitempty" yaml:"wc,omitempty"`
	Ec    float64 `json:"ec,omitempty" yaml:"ec,omitempty"`
	Ftcr  float64 `json:"ftcr,omitempty" yaml:"ftcr,omitempty"`
	Ftloc float64 `json:"ftloc,omitempty" yaml:"ftloc,omitempty"`
}

// StrandRow is a group of identical strands at one elevation
type StrandRow struct {
	Count    int     `json:"count" yaml:"count"`
	Diameter float64 `json:"diameter" yaml:"diameter"`
	Area     float64 `json:"area" yaml:"area"`
	Grade    int     `json:"grade,omitempty" yaml:"grade,omitempty"` // 250 or 270
	Epoxy    bool    `json:"epoxy,omitempty" yaml:"epoxy,omitempty"`

	// Y is the elevation; harped rows use YEnd at the segment ends and Y
	// between the harp points
	Y    float64  `json:"y" yaml:"y"`
	YEnd *float64 `json:"y_end,omitempty" yaml:"y_end,omitempty"`

	DebondStart   float64 `json:"debond_start,omitempty" yaml:"debond_start,omitempty"`
	DebondEnd     float64 `json:"debond_end,omitempty" yaml:"debond_end,omitempty"`
	ExtendedStart bool    `json:"extended_start,omitempty" yaml:"extended_start,omitempty"`
	ExtendedEnd   bool    `json:"extended_end,omitempty" yaml:"extended_end,omitempty"`
}

// Strands lists the strand rows by type
type Strands struct {
	Straight  []StrandRow `json:"straight,omitempty" yaml:"straight,omitempty"`
	Harped    []StrandRow `json:"harped,omitempty" yaml:"harped,omitempty"`
	Temporary []StrandRow `json:"temporary,omitempty" yaml:"temporary,omitempty"`

	// HarpPoint is the distance of the harp points from each end as a
	// fraction of the segment length
	HarpPoint float64 `json:"harp_point,omitempty" yaml:"harp_point,omitempty"`
}

// Tendon is a post-tensioning tendon at a constant elevation
type Tendon struct {
	Name       string  `json:"name" yaml:"name"`
	Area       float64 `json:"area" yaml:"area"`
	Grade      int     `json:"grade,omitempty" yaml:"grade,omitempty"`
	Y          float64 `json:"y" yaml:"y"`
	Stage      string  `json:"stage" yaml:"stage"`
	Stress     float64 `json:"stress" yaml:"stress"` // effective stress
	GirderWide bool    `json:"girder_wide,omitempty" yaml:"girder_wide,omitempty"`
}

// Rebar is a layer of longitudinal reinforcement
type Rebar struct {
	Y      float64 `json:"y" yaml:"y"`
	Area   float64 `json:"area" yaml:"area"`
	Fy     float64 `json:"fy,omitempty" yaml:"fy,omitempty"`
	InDeck bool    `json:"in_deck,omitempty" yaml:"in_deck,omitempty"`
}

// Stirrups is uniform transverse reinforcement
type Stirrups struct {
	Av      float64 `json:"av" yaml:"av"`
	Spacing float64 `json:"spacing" yaml:"spacing"`
	Fy      float64 `json:"fy,omitempty" yaml:"fy,omitempty"`
}

// Timeline names the construction stages in order and marks the key ones
type Timeline struct {
	Stages           []string `json:"stages" yaml:"stages"`
	Release          string   `json:"release" yaml:"release"`
	CompositeDeck    string   `json:"composite_deck" yaml:"composite_deck"`
	LiveLoad         string   `json:"live_load" yaml:"live_load"`
	TemporaryRemoval string   `json:"temporary_removal,omitempty" yaml:"temporary_removal,omitempty"`
}

// Losses gives the jacking stress and the cumulative loss at each stage
type Losses struct {
	Jacking float64   `json:"jacking" yaml:"jacking"`
	Loss    []float64 `json:"losses" yaml:"losses"`
}

// Loads are uniform loads on the span between the outer supports plus a
// concentrated live load
type Loads struct {
	Noncomposite float64 `json:"noncomposite" yaml:"noncomposite"` // girder and slab, kip/in
	Composite    float64 `json:"composite,omitempty" yaml:"composite,omitempty"`
	Wearing      float64 `json:"wearing,omitempty" yaml:"wearing,omitempty"`
	Lane         float64 `json:"lane,omitempty" yaml:"lane,omitempty"`
	Truck        float64 `json:"truck,omitempty" yaml:"truck,omitempty"` // kip, including impact
	Axial        float64 `json:"axial,omitempty" yaml:"axial,omitempty"` // kip, tension positive
}

// POISpec controls the generated points of interest
type POISpec struct {
	Divisions int `json:"divisions,omitempty" yaml:"divisions,omitempty"`
}

// ValidationError describes an invalid project file
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
