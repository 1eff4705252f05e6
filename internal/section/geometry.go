package section

import (
	"math"
	"sort"
)

// CalculateProperties computes geometric properties of the shape
func (s *Shape) CalculateProperties() *Properties {
	props := &Properties{}

	if len(s.Vertices) < 3 {
		return props
	}

	// Find bounding box
	props.MinX, props.MaxX = s.Vertices[0].X, s.Vertices[0].X
	props.MinY, props.MaxY = s.Vertices[0].Y, s.Vertices[0].Y

	for _, v := range s.Vertices {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.Width = props.MaxX - props.MinX
	props.Height = props.MaxY - props.MinY

	// Outer ring minus voids, all taken about the origin
	a, qx, qy, ix := ringIntegrals(s.Vertices)
	for _, void := range s.Voids {
		va, vqx, vqy, vix := ringIntegrals(void)
		a -= va
		qx -= vqx
		qy -= vqy
		ix -= vix
	}

	props.Area = a
	if a > 0 {
		props.CentroidX = qy / a
		props.CentroidY = qx / a
		// Parallel axis theorem back to the centroid
		props.Ixx = ix - a*props.CentroidY*props.CentroidY
	}
	if yb := props.Yb(); yb > 0 {
		props.Sb = props.Ixx / yb
	}
	if yt := props.Yt(); yt > 0 {
		props.St = props.Ixx / yt
	}

	return props
}

// ringIntegrals uses the shoelace formula and returns the area, the first
// moments about the x and y axes and the second moment about the x axis of
// a closed ring. Results are orientation independent.
func ringIntegrals(ring []Point) (area, qx, qy, ix float64) {
	n := len(ring)
	if n < 3 {
		return 0, 0, 0, 0
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := ring[i].X, ring[i].Y
		xj, yj := ring[j].X, ring[j].Y
		cross := xi*yj - xj*yi
		area += cross
		qx += (yi + yj) * cross
		qy += (xi + xj) * cross
		ix += (yi*yi + yi*yj + yj*yj) * cross
	}

	area /= 2
	qx /= 6
	qy /= 6
	ix /= 12

	if area < 0 {
		return -area, -qx, -qy, -ix
	}
	return area, qx, qy, ix
}

// WidthAtY calculates the net width of the shape at elevation y.
// Uses horizontal line intersection with the boundary and the voids.
func (s *Shape) WidthAtY(y float64) float64 {
	w := widthOfRing(s.Vertices, y)
	for _, void := range s.Voids {
		w -= widthOfRing(void, y)
	}
	return math.Max(w, 0)
}

// widthOfRing calculates the width of a single ring at a specific Y coordinate
func widthOfRing(ring []Point, y float64) float64 {
	intersections := findIntersectionsAtY(ring, y)

	if len(intersections) < 2 {
		return 0
	}

	// Sort intersections by X coordinate
	sort.Float64s(intersections)

	// Total width is the sum of all segments
	var totalWidth float64
	for i := 0; i+1 < len(intersections); i += 2 {
		totalWidth += intersections[i+1] - intersections[i]
	}

	return totalWidth
}

// findIntersectionsAtY finds all X coordinates where a horizontal line at Y intersects the ring
func findIntersectionsAtY(ring []Point, y float64) []float64 {
	var intersections []float64
	n := len(ring)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v1, v2 := ring[i], ring[j]

		// Check if the edge crosses the Y level
		if (v1.Y <= y && v2.Y > y) || (v2.Y <= y && v1.Y > y) {
			// Calculate X at intersection
			t := (y - v1.Y) / (v2.Y - v1.Y)
			x := v1.X + t*(v2.X-v1.X)
			intersections = append(intersections, x)
		}
	}

	return intersections
}

// MinWidthBetween returns the smallest net width found between elevations
// y1 and y2, sampled at n+1 levels. Used for the shear web width.
func (s *Shape) MinWidthBetween(y1, y2 float64, n int) float64 {
	if n < 1 {
		n = 1
	}
	minW := math.Inf(1)
	for i := 0; i <= n; i++ {
		y := y1 + (y2-y1)*float64(i)/float64(n)
		if w := s.WidthAtY(y); w > 0 && w < minW {
			minW = w
		}
	}
	if math.IsInf(minW, 1) {
		return 0
	}
	return minW
}

// Mirror returns a copy of the shape reflected about the horizontal line
// at elevation axis. Used to solve negative bending as positive bending.
func (s *Shape) Mirror(axis float64) Shape {
	out := Shape{Name: s.Name}
	out.Vertices = mirrorRing(s.Vertices, axis)
	for _, v := range s.Voids {
		out.Voids = append(out.Voids, mirrorRing(v, axis))
	}
	return out
}

func mirrorRing(ring []Point, axis float64) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		// reverse order to keep the ring orientation
		out[len(ring)-1-i] = Point{X: p.X, Y: 2*axis - p.Y}
	}
	return out
}

// Offset returns a copy of the shape translated vertically by dy
func (s *Shape) Offset(dy float64) Shape {
	out := Shape{Name: s.Name}
	for _, p := range s.Vertices {
		out.Vertices = append(out.Vertices, Point{X: p.X, Y: p.Y + dy})
	}
	for _, v := range s.Voids {
		ring := make([]Point, len(v))
		for i, p := range v {
			ring[i] = Point{X: p.X, Y: p.Y + dy}
		}
		out.Voids = append(out.Voids, ring)
	}
	return out
}

// Part is one material region of a composite section
type Part struct {
	Shape *Shape
	E     float64 // modulus of elasticity (ksi)
}

// Transformed computes properties of a composite section transformed to
// the modulus eRef.
func Transformed(parts []Part, eRef float64) *Properties {
	out := &Properties{}
	if len(parts) == 0 || eRef <= 0 {
		return out
	}

	var area, qx, i0 float64
	first := true
	for _, part := range parts {
		p := part.Shape.CalculateProperties()
		n := part.E / eRef
		area += n * p.Area
		qx += n * p.Area * p.CentroidY
		i0 += n * (p.Ixx + p.Area*p.CentroidY*p.CentroidY)
		if first {
			out.MinX, out.MaxX, out.MinY, out.MaxY = p.MinX, p.MaxX, p.MinY, p.MaxY
			first = false
		} else {
			out.MinX = math.Min(out.MinX, p.MinX)
			out.MaxX = math.Max(out.MaxX, p.MaxX)
			out.MinY = math.Min(out.MinY, p.MinY)
			out.MaxY = math.Max(out.MaxY, p.MaxY)
		}
	}

	out.Width = out.MaxX - out.MinX
	out.Height = out.MaxY - out.MinY
	out.Area = area
	if area > 0 {
		out.CentroidY = qx / area
		out.Ixx = i0 - area*out.CentroidY*out.CentroidY
	}
	if yb := out.Yb(); yb > 0 {
		out.Sb = out.Ixx / yb
	}
	if yt := out.Yt(); yt > 0 {
		out.St = out.Ixx / yt
	}
	return out
}
