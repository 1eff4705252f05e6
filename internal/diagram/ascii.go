package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/section"
)

// Layer is one reinforcement element drawn on a diagram
type Layer struct {
	Label  string
	Depth  float64 // in, from the compression face
	Area   float64 // in²
	Strain float64 // total tensile strain
	Stress float64 // ksi, tension positive
	Yields bool
}

// SectionDiagramData holds data for drawing a girder section at capacity
type SectionDiagramData struct {
	Girder []section.Point
	Deck   []section.Point
	Bottom float64 // in
	Top    float64 // in

	// Negative is true when the bottom is the compression face
	Negative bool

	NeutralAxisDepth float64 // c, from the compression face (in)
	StressBlockDepth float64 // a, zero when there is no block
	EpsilonCU        float64

	Layers []Layer

	Mn    float64 // kip-in
	PhiMn float64 // kip-in
}

// Height of the section
func (d SectionDiagramData) Height() float64 { return d.Top - d.Bottom }

// elevation converts a depth from the compression face to girder
// coordinates
func (d SectionDiagramData) elevation(depth float64) float64 {
	if d.Negative {
		return d.Bottom + depth
	}
	return d.Top - depth
}

// NewSectionDiagramData collects the drawing data for a capacity result.
// deck may be nil.
func NewSectionDiagramData(g section.Shape, deck *section.Shape, d *moment.Details) SectionDiagramData {
	gp := g.CalculateProperties()
	data := SectionDiagramData{
		Girder:           g.Vertices,
		Bottom:           gp.MinY,
		Top:              gp.MaxY,
		Negative:         d.Sign == girder.Negative,
		NeutralAxisDepth: d.C,
		StressBlockDepth: d.A,
		EpsilonCU:        d.EpsTop,
		Mn:               d.Mn,
		PhiMn:            d.PhiMn,
	}
	if deck != nil {
		data.Deck = deck.Vertices
		data.Top = math.Max(data.Top, deck.CalculateProperties().MaxY)
	}
	for _, e := range d.Elements {
		layer := Layer{
			Label:  e.Label,
			Depth:  e.Depth,
			Area:   e.Area,
			Strain: e.TotalStrain,
			Stress: -e.Stress,
		}
		if e.Fy > 0 {
			layer.Yields = math.Abs(e.Stress) >= 0.9*e.Fy
		}
		data.Layers = append(data.Layers, layer)
	}
	return data
}

// DrawASCIISectionDiagram creates an ASCII representation of the section
// with the compression zone and reinforcement
func DrawASCIISectionDiagram(data SectionDiagramData) string {
	var sb strings.Builder

	widthChars := 30
	heightChars := 20
	h := data.Height()
	if h <= 0 {
		return ""
	}

	row := func(depth float64) int {
		return int(math.Round(depth / h * float64(heightChars)))
	}
	naLine := row(data.NeutralAxisDepth)
	aLine := row(data.StressBlockDepth)
	if data.StressBlockDepth <= 0 {
		aLine = naLine
	}
	layerAt := map[int][]Layer{}
	for _, l := range data.Layers {
		r := min(max(row(l.Depth), 1), heightChars-1)
		layerAt[r] = append(layerAt[r], l)
	}

	face, far := "TOP", "BOTTOM"
	if data.Negative {
		face, far = "BOTTOM", "TOP"
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  SECTION (%s IN COMPRESSION)        STRAIN\n", face))
	sb.WriteString("  ────────────────────────────────        ──────\n")

	for i := 0; i <= heightChars; i++ {
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  ┌%s┐", strings.Repeat("─", widthChars)))
		case i == heightChars:
			sb.WriteString(fmt.Sprintf("  └%s┘", strings.Repeat("─", widthChars)))
		default:
			fill := []rune(strings.Repeat(" ", widthChars))
			if i <= aLine {
				fill = []rune(strings.Repeat("░", widthChars))
			}
			if ls, ok := layerAt[i]; ok {
				mid := widthChars / 2
				marker := []rune("●────●")
				if len(ls) == 1 {
					marker = []rune("●")
				}
				copy(fill[mid-len(marker)/2:], marker)
			}
			sb.WriteString(fmt.Sprintf("  │%s│", string(fill)))
		}

		sb.WriteString("    ")
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("├── εcu = %.4f", data.EpsilonCU))
		case i == naLine:
			sb.WriteString("├── ε = 0  ◄─ N.A.")
		default:
			if ls, ok := layerAt[i]; ok {
				l := ls[0]
				mark := ""
				if l.Yields {
					mark = " (yields)"
				}
				sb.WriteString(fmt.Sprintf("├── %s ε = %.4f, f = %.1f ksi%s", l.Label, l.Strain, l.Stress, mark))
			} else if i < heightChars {
				sb.WriteString("│")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  %s\n", far))
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ░░░ = Compression zone\n")
	sb.WriteString("  ●●● = Reinforcement\n")
	sb.WriteString(fmt.Sprintf("  N.A. = Neutral Axis at c = %.2f in from the %s\n", data.NeutralAxisDepth, strings.ToLower(face)))
	if data.StressBlockDepth > 0 {
		sb.WriteString(fmt.Sprintf("  Stress block depth a = %.2f in\n", data.StressBlockDepth))
	}
	return sb.String()
}

// DrawStrainDiagram creates an ASCII strain distribution diagram
func DrawStrainDiagram(data SectionDiagramData) string {
	var sb strings.Builder

	height := 15
	width := 40
	h := data.Height()
	c := data.NeutralAxisDepth
	if h <= 0 || c <= 0 {
		return ""
	}

	bottomStrain := data.EpsilonCU * (h - c) / c
	scale := float64(width-10) / math.Max(data.EpsilonCU, bottomStrain)

	sb.WriteString("\n")
	sb.WriteString("  STRAIN DISTRIBUTION DIAGRAM\n")
	sb.WriteString("  ───────────────────────────\n\n")

	naLine := int(c / h * float64(height))
	for i := 0; i <= height; i++ {
		depth := float64(i) / float64(height) * h
		strain := math.Abs(data.EpsilonCU * (c - depth) / c)
		bar := strings.Repeat("█", max(int(strain*scale), 0))

		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  Face   │%s▶ εcu=%.4f\n", bar, data.EpsilonCU))
		case i == naLine:
			sb.WriteString(fmt.Sprintf("  N.A.   ├%s (ε=0)\n", strings.Repeat("─", 5)))
		case i == height:
			sb.WriteString(fmt.Sprintf("  Far    │%s▶ ε=%.4f\n", bar, bottomStrain))
		default:
			sb.WriteString(fmt.Sprintf("         │%s\n", bar))
		}
	}
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))
	return sb.String()
}
