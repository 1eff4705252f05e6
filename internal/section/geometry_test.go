package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectangle(b, h, y0 float64) Shape {
	return Shape{Vertices: []Point{
		{X: -b / 2, Y: y0},
		{X: b / 2, Y: y0},
		{X: b / 2, Y: y0 + h},
		{X: -b / 2, Y: y0 + h},
	}}
}

func typeIV() Shape {
	return Shape{Name: "Type IV", Vertices: []Point{
		{X: -13, Y: 0}, {X: 13, Y: 0}, {X: 13, Y: 8}, {X: 4, Y: 17},
		{X: 4, Y: 40}, {X: 10, Y: 46}, {X: 10, Y: 54}, {X: -10, Y: 54},
		{X: -10, Y: 46}, {X: -4, Y: 40}, {X: -4, Y: 17}, {X: -13, Y: 8},
	}}
}

func TestRectangleProperties(t *testing.T) {
	s := rectangle(12, 30, 0)
	p := s.CalculateProperties()

	assert.InDelta(t, 360.0, p.Area, 1e-9)
	assert.InDelta(t, 15.0, p.CentroidY, 1e-9)
	assert.InDelta(t, 0.0, p.CentroidX, 1e-9)
	assert.InDelta(t, 27000.0, p.Ixx, 1e-6)
	assert.InDelta(t, 1800.0, p.Sb, 1e-6)
	assert.InDelta(t, 1800.0, p.St, 1e-6)
	assert.Equal(t, 12.0, p.Width)
	assert.Equal(t, 30.0, p.Height)
}

func TestVoidedProperties(t *testing.T) {
	s := rectangle(12, 30, 0)
	void := rectangle(6, 10, 10)
	s.Voids = [][]Point{void.Vertices}
	p := s.CalculateProperties()

	assert.InDelta(t, 300.0, p.Area, 1e-9)
	assert.InDelta(t, 15.0, p.CentroidY, 1e-9)
	assert.InDelta(t, 27000.0-500.0, p.Ixx, 1e-6)
}

func TestOrientationIndependent(t *testing.T) {
	s := rectangle(12, 30, 0)
	rev := Shape{}
	for i := len(s.Vertices) - 1; i >= 0; i-- {
		rev.Vertices = append(rev.Vertices, s.Vertices[i])
	}
	assert.InDelta(t, s.CalculateProperties().Ixx, rev.CalculateProperties().Ixx, 1e-9)
	assert.InDelta(t, s.CalculateProperties().Area, rev.CalculateProperties().Area, 1e-9)
}

func TestWidthAtY(t *testing.T) {
	s := typeIV()
	assert.InDelta(t, 26.0, s.WidthAtY(4), 1e-9)
	assert.InDelta(t, 8.0, s.WidthAtY(30), 1e-9)
	assert.InDelta(t, 20.0, s.WidthAtY(50), 1e-9)
	assert.InDelta(t, 17.0, s.WidthAtY(12.5), 1e-9)
	assert.Zero(t, s.WidthAtY(60))
}

func TestMinWidthBetween(t *testing.T) {
	s := typeIV()
	assert.InDelta(t, 8.0, s.MinWidthBetween(0, 54, 100), 1e-9)
	assert.InDelta(t, 26.0, s.MinWidthBetween(1, 7, 10), 1e-9)
	assert.Zero(t, s.MinWidthBetween(60, 70, 10))
}

func TestMirror(t *testing.T) {
	s := typeIV()
	p := s.CalculateProperties()
	m := s.Mirror(27)
	mp := m.CalculateProperties()

	assert.InDelta(t, p.Area, mp.Area, 1e-9)
	assert.InDelta(t, 54-p.CentroidY, mp.CentroidY, 1e-9)
	assert.InDelta(t, p.Ixx, mp.Ixx, 1e-6)
	assert.InDelta(t, p.Sb, mp.St, 1e-6)
	assert.InDelta(t, s.WidthAtY(4), m.WidthAtY(50), 1e-9)
}

func TestOffset(t *testing.T) {
	s := rectangle(12, 30, 0)
	o := s.Offset(10)
	p := o.CalculateProperties()
	assert.InDelta(t, 25.0, p.CentroidY, 1e-9)
	assert.InDelta(t, 27000.0, p.Ixx, 1e-6)
	assert.Equal(t, 0.0, s.Vertices[0].Y, "offset must not modify the original")
}

func TestTransformed(t *testing.T) {
	g := rectangle(12, 30, 0)
	d := rectangle(12, 30, 30)

	same := Transformed([]Part{{Shape: &g, E: 4000}, {Shape: &d, E: 4000}}, 4000)
	assert.InDelta(t, 720.0, same.Area, 1e-9)
	assert.InDelta(t, 30.0, same.CentroidY, 1e-9)
	assert.InDelta(t, 12*60.0*60*60/12, same.Ixx, 1e-6)

	soft := Transformed([]Part{{Shape: &g, E: 4000}, {Shape: &d, E: 2000}}, 4000)
	assert.InDelta(t, 540.0, soft.Area, 1e-9)
	assert.InDelta(t, 25.0, soft.CentroidY, 1e-9)
	assert.Equal(t, 60.0, soft.Height)

	assert.Zero(t, Transformed(nil, 4000).Area)
}

func TestValidate(t *testing.T) {
	s := typeIV()
	require.NoError(t, s.Validate())

	bad := Shape{Vertices: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	var ve *ValidationError
	assert.ErrorAs(t, bad.Validate(), &ve)

	s.Voids = [][]Point{{{X: 0, Y: 20}, {X: 1, Y: 20}}}
	assert.Error(t, s.Validate())
}
