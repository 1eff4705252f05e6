package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopcb/internal/capacity"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/section"
)

func rectangle() section.Shape {
	return section.Shape{Vertices: []section.Point{{X: -6, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 30}, {X: -6, Y: 30}}}
}

func beamDetails(sign girder.Sign) *moment.Details {
	return &moment.Details{
		Sign:   sign,
		Mn:     4213,
		PhiMn:  4213,
		C:      3.58,
		A:      2.68,
		EpsTop: 0.003,
		Elements: []moment.ElementState{{
			Element:     moment.Element{Kind: moment.KindStrand, Label: "straight", Area: 0.612, Fy: 270},
			Depth:       27,
			TotalStrain: 0.0247,
			Stress:      -268.3,
			Force:       -164.2,
		}},
	}
}

func TestNewSectionDiagramData(t *testing.T) {
	g := rectangle()
	data := NewSectionDiagramData(g, nil, beamDetails(girder.Positive))

	assert.InDelta(t, 30.0, data.Height(), 1e-9)
	assert.False(t, data.Negative)
	assert.InDelta(t, 26.42, data.elevation(data.NeutralAxisDepth), 1e-9)
	require.Len(t, data.Layers, 1)
	assert.Equal(t, 268.3, data.Layers[0].Stress)
	assert.True(t, data.Layers[0].Yields)
	assert.Nil(t, data.Deck)

	deck := section.Shape{Vertices: []section.Point{{X: -24, Y: 30}, {X: 24, Y: 30}, {X: 24, Y: 38}, {X: -24, Y: 38}}}
	composite := NewSectionDiagramData(g, &deck, beamDetails(girder.Positive))
	assert.InDelta(t, 38.0, composite.Top, 1e-9)

	neg := NewSectionDiagramData(g, nil, beamDetails(girder.Negative))
	assert.True(t, neg.Negative)
	assert.InDelta(t, 3.58, neg.elevation(neg.NeutralAxisDepth), 1e-9)
}

func TestDrawASCIISectionDiagram(t *testing.T) {
	data := NewSectionDiagramData(rectangle(), nil, beamDetails(girder.Positive))
	out := DrawASCIISectionDiagram(data)

	assert.Contains(t, out, "TOP IN COMPRESSION")
	assert.Contains(t, out, "εcu = 0.0030")
	assert.Contains(t, out, "N.A.")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "straight ε = 0.0247, f = 268.3 ksi (yields)")
	assert.Contains(t, out, "░")
	assert.Contains(t, out, "Stress block depth a = 2.68 in")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(strings.Split(out, "Legend")[0]), "BOTTOM"))

	neg := NewSectionDiagramData(rectangle(), nil, beamDetails(girder.Negative))
	assert.Contains(t, DrawASCIISectionDiagram(neg), "BOTTOM IN COMPRESSION")

	assert.Empty(t, DrawASCIISectionDiagram(SectionDiagramData{}))
}

func TestDrawStrainDiagram(t *testing.T) {
	data := NewSectionDiagramData(rectangle(), nil, beamDetails(girder.Positive))
	out := DrawStrainDiagram(data)
	assert.Contains(t, out, "STRAIN DISTRIBUTION DIAGRAM")
	assert.Contains(t, out, "εcu=0.0030")
	assert.Contains(t, out, "(ε=0)")
	assert.Contains(t, out, "█")

	data.NeutralAxisDepth = 0
	assert.Empty(t, DrawStrainDiagram(data))
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("RESULTS", []string{"Mn = 351.1 k-ft", "φ = 1.00"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
	assert.Contains(t, out, "RESULTS")
}

func TestExportSectionDiagram(t *testing.T) {
	dir := t.TempDir()
	data := NewSectionDiagramData(rectangle(), nil, beamDetails(girder.Positive))

	require.NoError(t, ExportSectionDiagram(data, filepath.Join(dir, "section")))
	info, err := os.Stat(filepath.Join(dir, "section.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.NoError(t, ExportSectionDiagram(data, filepath.Join(dir, "nested", "section.svg")))
	_, err = os.Stat(filepath.Join(dir, "nested", "section.svg"))
	assert.NoError(t, err)
}

func TestExportEnvelope(t *testing.T) {
	dir := t.TempDir()
	env := &capacity.Envelope{
		LimitState: "StrengthI",
		Rows: []capacity.EnvelopeRow{
			{POI: girder.POI{X: 0}, PhiVn: 60},
			{POI: girder.POI{X: 240}, PhiMnPositive: 4213, Mu: 3100, PhiVn: 50, Vu: 5},
			{POI: girder.POI{X: 480}, PhiVn: 60, Vu: -20},
		},
	}
	path := filepath.Join(dir, "envelope.png")
	require.NoError(t, ExportEnvelope(env, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, ExportEnvelope(&capacity.Envelope{}, path))
}

func TestClipSection(t *testing.T) {
	ring := rectangle().Vertices
	top := clipSection(ring, 25, false)
	require.GreaterOrEqual(t, len(top), 3)
	for _, p := range top {
		assert.GreaterOrEqual(t, p.Y, 25.0-1e-9)
	}
	bottom := clipSection(ring, 5, true)
	for _, p := range bottom {
		assert.LessOrEqual(t, p.Y, 5.0+1e-9)
	}
}
