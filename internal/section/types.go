package section

import "fmt"

// Shape is a concrete cross section defined by vertices, with optional
// voids. The shape is defined in the girder coordinate system where:
// - Y-axis points upward, measured from the bottom of the girder
// - X-axis points to the right, measured from the girder centerline
type Shape struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Outer boundary vertices (in), counter-clockwise
	Vertices []Point `json:"vertices" yaml:"vertices"`

	// Voids are subtracted from the outer boundary
	Voids [][]Point `json:"voids,omitempty" yaml:"voids,omitempty"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x" yaml:"x"` // in
	Y float64 `json:"y" yaml:"y"` // in
}

// Properties holds calculated geometric properties
type Properties struct {
	// Overall dimensions
	Width  float64 // Maximum width (in)
	Height float64 // Total height (in)
	Area   float64 // Net area (in²)

	// Centroid location
	CentroidX float64 // in
	CentroidY float64 // in

	// Moment of inertia about the horizontal centroidal axis (in⁴)
	Ixx float64

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Section moduli (in³)
	Sb float64 // bottom fiber
	St float64 // top fiber
}

// Yb is the distance from the bottom fiber to the centroid
func (p *Properties) Yb() float64 { return p.CentroidY - p.MinY }

// Yt is the distance from the centroid to the top fiber
func (p *Properties) Yt() float64 { return p.MaxY - p.CentroidY }

// Validate checks if the shape definition is valid
func (s *Shape) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{"shape must have at least 3 vertices"}
	}
	for i, v := range s.Voids {
		if len(v) < 3 {
			return &ValidationError{msg: fmt.Sprintf("void %d must have at least 3 vertices", i+1)}
		}
	}
	return nil
}

// ValidationError represents a shape validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
