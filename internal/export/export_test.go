package export

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gopcb/internal/capacity"
	"github.com/alexiusacademia/gopcb/internal/girder"
)

func sampleEnvelope() *capacity.Envelope {
	return &capacity.Envelope{
		Segment:    girder.SegmentKey{Girder: 1},
		Interval:   2,
		LimitState: "StrengthI",
		Rows: []capacity.EnvelopeRow{
			{POI: girder.POI{ID: 4, X: 0}, PhiVn: 50, Vu: 0, MomentRatio: math.Inf(1), ShearRatio: math.Inf(1), Outboard: true},
			{POI: girder.POI{ID: 7, X: 120}, PhiMnPositive: 1200, PhiMnNegative: -240, Mu: 600, PhiVn: 40, Vu: 10, MomentRatio: 2, ShearRatio: 4},
		},
		Summary: capacity.Summary{MaxPhiMn: 1200, MinMomentRatio: 2, MinShearRatio: math.Inf(1)},
	}
}

func TestWorkbook(t *testing.T) {
	f, err := Workbook(sampleEnvelope())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{EnvelopeSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(EnvelopeSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, envelopeHeaders, rows[0])

	v, err := f.GetCellValue(EnvelopeSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
	v, err = f.GetCellValue(EnvelopeSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
	v, err = f.GetCellValue(EnvelopeSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
	v, err = f.GetCellValue(EnvelopeSheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	// no demand leaves the ratio blank
	v, err = f.GetCellValue(EnvelopeSheet, "H2")
	require.NoError(t, err)
	assert.Empty(t, v)
	v, err = f.GetCellValue(EnvelopeSheet, "J2")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", v)

	v, err = f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "G0-1-S0", v)
	v, err = f.GetCellValue(SummarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
	v, err = f.GetCellValue(SummarySheet, "B11")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestWriteEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.xlsx")
	require.NoError(t, WriteEnvelope(path, sampleEnvelope()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SummarySheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Limit state", v)
}
