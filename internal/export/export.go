// Package export writes capacity envelopes to spreadsheets.
package export

import (
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gopcb/internal/capacity"
)

// Sheet names
const (
	EnvelopeSheet = "Envelope"
	SummarySheet  = "Summary"
)

var envelopeHeaders = []string{
	"POI", "x (ft)", "φMn+ (k-ft)", "φMn- (k-ft)", "Mu (k-ft)",
	"φVn (kip)", "Vu (kip)", "Moment ratio", "Shear ratio", "Outboard",
}

// Workbook builds a workbook with the envelope rows and its summary
func Workbook(env *capacity.Envelope) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", EnvelopeSheet); err != nil {
		return nil, err
	}

	for i, h := range envelopeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(EnvelopeSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for r, row := range env.Rows {
		values := []any{
			int(row.POI.ID),
			row.POI.X / 12,
			row.PhiMnPositive / 12,
			row.PhiMnNegative / 12,
			row.Mu / 12,
			row.PhiVn,
			row.Vu,
			ratioCell(row.MomentRatio),
			ratioCell(row.ShearRatio),
			row.Outboard,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(EnvelopeSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	s := env.Summary
	summary := [][]any{
		{"Segment", env.Segment.String()},
		{"Interval", env.Interval},
		{"Limit state", env.LimitState},
		{"Max φMn+ (k-ft)", s.MaxPhiMn / 12},
		{"Min φMn+ (k-ft)", s.MinPhiMn / 12},
		{"Mean φMn+ (k-ft)", s.MeanPhiMn / 12},
		{"Max φVn (kip)", s.MaxPhiVn},
		{"Min φVn (kip)", s.MinPhiVn},
		{"Median φVn (kip)", s.MedianShear},
		{"Min moment ratio", ratioCell(s.MinMomentRatio)},
		{"Min shear ratio", ratioCell(s.MinShearRatio)},
	}
	for r, values := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteEnvelope saves the envelope workbook to path
func WriteEnvelope(path string, env *capacity.Envelope) error {
	f, err := Workbook(env)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ratioCell leaves ratios without demand blank
func ratioCell(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return v
}
