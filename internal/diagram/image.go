package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gopcb/internal/capacity"
	"github.com/alexiusacademia/gopcb/internal/section"
)

var (
	outlineColor     = color.Black
	compressionColor = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	axisColor        = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	steelColor       = color.RGBA{R: 139, G: 69, B: 19, A: 255}
)

// ExportSectionDiagram exports the section at capacity to an image file.
// The format follows the extension (png, svg, pdf); png is the default.
func ExportSectionDiagram(data SectionDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Section at Capacity, φMn = %.1f k-ft", data.PhiMn/12)
	p.X.Label.Text = "Width (in)"
	p.Y.Label.Text = "Height (in)"

	for _, ring := range [][]section.Point{data.Girder, data.Deck} {
		if len(ring) < 3 {
			continue
		}
		if err := addOutline(p, ring); err != nil {
			return err
		}
		zone := clipSection(ring, data.elevation(data.compressionDepth()), data.Negative)
		if len(zone) >= 3 {
			block, err := plotter.NewPolygon(zone)
			if err == nil {
				block.Color = compressionColor
				block.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
				p.Add(block)
			}
		}
	}

	minX, maxX := extentX(data.Girder, data.Deck)

	naY := data.elevation(data.NeutralAxisDepth)
	naLine, err := plotter.NewLine(plotter.XYs{{X: minX - 2, Y: naY}, {X: maxX + 2, Y: naY}})
	if err != nil {
		return err
	}
	naLine.LineStyle.Width = vg.Points(1.5)
	naLine.LineStyle.Color = axisColor
	naLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(naLine)

	if len(data.Layers) > 0 {
		center := (minX + maxX) / 2
		pts := make(plotter.XYs, len(data.Layers))
		for i, l := range data.Layers {
			pts[i] = plotter.XY{X: center, Y: data.elevation(l.Depth)}
		}
		steel, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		steel.GlyphStyle.Color = steelColor
		steel.GlyphStyle.Radius = vg.Points(3)
		steel.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(steel)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: maxX + 3, Y: naY}},
		Labels: []string{fmt.Sprintf("N.A. c=%.2fin", data.NeutralAxisDepth)},
	})
	if err != nil {
		return err
	}
	p.Add(labels)

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// compressionDepth is the depth of the shaded zone: the stress block when
// there is one, otherwise the neutral axis
func (d SectionDiagramData) compressionDepth() float64 {
	if d.StressBlockDepth > 0 {
		return d.StressBlockDepth
	}
	return d.NeutralAxisDepth
}

func addOutline(p *plot.Plot, ring []section.Point) error {
	pts := make(plotter.XYs, len(ring)+1)
	for i, v := range ring {
		pts[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	pts[len(ring)] = pts[0]
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = outlineColor
	p.Add(line)
	return nil
}

func extentX(rings ...[]section.Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ring := range rings {
		for _, v := range ring {
			lo = math.Min(lo, v.X)
			hi = math.Max(hi, v.X)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// clipSection clips the polygon at elevation clipY and returns the part on
// the compression side: above clipY, or below it when below is true
func clipSection(vertices []section.Point, clipY float64, below bool) plotter.XYs {
	if len(vertices) < 3 {
		return nil
	}
	inside := func(y float64) bool {
		if below {
			return y <= clipY
		}
		return y >= clipY
	}

	var result plotter.XYs
	n := len(vertices)
	for i := 0; i < n; i++ {
		curr := vertices[i]
		next := vertices[(i+1)%n]

		if inside(curr.Y) {
			result = append(result, plotter.XY{X: curr.X, Y: curr.Y})
		}
		if inside(curr.Y) != inside(next.Y) {
			t := (clipY - curr.Y) / (next.Y - curr.Y)
			result = append(result, plotter.XY{X: curr.X + t*(next.X-curr.X), Y: clipY})
		}
	}
	return result
}

// ExportEnvelope plots moment and shear capacity against demand along
// the segment
func ExportEnvelope(env *capacity.Envelope, filename string) error {
	if len(env.Rows) == 0 {
		return fmt.Errorf("envelope has no points")
	}

	mp := plot.New()
	mp.Title.Text = fmt.Sprintf("Moment Capacity, %s", env.LimitState)
	mp.X.Label.Text = "Location (ft)"
	mp.Y.Label.Text = "Moment (k-ft)"
	mp.Add(plotter.NewGrid())

	vp := plot.New()
	vp.Title.Text = fmt.Sprintf("Shear Capacity, %s", env.LimitState)
	vp.X.Label.Text = "Location (ft)"
	vp.Y.Label.Text = "Shear (kip)"
	vp.Add(plotter.NewGrid())

	n := len(env.Rows)
	pos, neg, mu := make(plotter.XYs, n), make(plotter.XYs, n), make(plotter.XYs, n)
	vn, vu := make(plotter.XYs, n), make(plotter.XYs, n)
	for i, r := range env.Rows {
		x := r.POI.X / 12
		pos[i] = plotter.XY{X: x, Y: r.PhiMnPositive / 12}
		neg[i] = plotter.XY{X: x, Y: r.PhiMnNegative / 12}
		mu[i] = plotter.XY{X: x, Y: r.Mu / 12}
		vn[i] = plotter.XY{X: x, Y: r.PhiVn}
		vu[i] = plotter.XY{X: x, Y: math.Abs(r.Vu)}
	}
	if err := addSeries(mp, "φMn+", pos, color.RGBA{B: 200, A: 255}, false); err != nil {
		return err
	}
	if err := addSeries(mp, "φMn-", neg, color.RGBA{G: 120, A: 255}, false); err != nil {
		return err
	}
	if err := addSeries(mp, "Mu", mu, axisColor, true); err != nil {
		return err
	}
	if err := addSeries(vp, "φVn", vn, color.RGBA{B: 200, A: 255}, false); err != nil {
		return err
	}
	if err := addSeries(vp, "|Vu|", vu, axisColor, true); err != nil {
		return err
	}

	// stack the two plots in one image
	plots := [][]*plot.Plot{{mp}, {vp}}
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(8)}
	return saveTiled(plots, tiles, 8*vg.Inch, 9*vg.Inch, filename)
}

func saveTiled(plots [][]*plot.Plot, tiles draw.Tiles, width, height vg.Length, filename string) error {
	if err := ensureDir(filename); err != nil {
		return err
	}
	filename = withExtension(filename)
	c, err := draw.NewFormattedCanvas(width, height, strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return err
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func addSeries(p *plot.Plot, name string, pts plotter.XYs, c color.Color, dashed bool) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func withExtension(filename string) string {
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return filename
	}
	return filename + ".png"
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	if err := ensureDir(filename); err != nil {
		return err
	}
	return p.Save(width, height, withExtension(filename))
}
