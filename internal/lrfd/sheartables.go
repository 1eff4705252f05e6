package lrfd

import (
	"sync"

	"gonum.org/v1/gonum/interp"
)

// Table B5.2-1: θ and β for sections with at least minimum transverse
// reinforcement. Columns are εx × 1000, rows are v/f'c.
var (
	tableEx = []float64{-0.20, -0.10, -0.05, 0, 0.125, 0.25, 0.50, 0.75, 1.00}
	tableV  = []float64{0.075, 0.100, 0.125, 0.150, 0.175, 0.200, 0.225, 0.250}

	tableTheta = [][]float64{
		{22.3, 20.4, 21.0, 21.8, 24.3, 26.6, 30.5, 33.7, 36.4},
		{18.1, 20.4, 21.4, 22.5, 24.9, 27.1, 30.8, 34.0, 36.7},
		{19.9, 21.9, 22.8, 23.7, 25.9, 27.9, 31.4, 34.4, 37.0},
		{21.6, 23.3, 24.2, 25.0, 26.9, 28.8, 32.1, 34.9, 37.3},
		{23.2, 24.7, 25.5, 26.2, 28.0, 29.7, 32.7, 35.2, 36.8},
		{24.7, 26.1, 26.7, 27.4, 29.0, 30.6, 32.8, 34.5, 36.1},
		{26.1, 27.3, 27.9, 28.5, 30.0, 30.8, 32.3, 34.0, 35.7},
		{27.5, 28.6, 29.1, 29.7, 30.6, 31.3, 32.8, 34.3, 35.8},
	}
	tableBeta = [][]float64{
		{6.32, 4.75, 4.10, 3.75, 3.24, 2.94, 2.59, 2.38, 2.23},
		{3.79, 3.38, 3.24, 3.14, 2.91, 2.75, 2.50, 2.32, 2.18},
		{3.18, 2.99, 2.94, 2.87, 2.74, 2.62, 2.42, 2.26, 2.13},
		{2.88, 2.79, 2.78, 2.72, 2.60, 2.52, 2.36, 2.21, 2.08},
		{2.73, 2.66, 2.65, 2.60, 2.52, 2.44, 2.28, 2.14, 1.96},
		{2.63, 2.59, 2.52, 2.51, 2.43, 2.37, 2.14, 1.94, 1.79},
		{2.53, 2.45, 2.42, 2.40, 2.34, 2.14, 1.86, 1.73, 1.64},
		{2.39, 2.39, 2.33, 2.33, 2.12, 1.93, 1.70, 1.58, 1.50},
	}
)

type shearTable struct {
	theta []interp.PiecewiseLinear
	beta  []interp.PiecewiseLinear
}

var (
	tableOnce sync.Once
	table     shearTable
)

func loadShearTable() {
	table.theta = make([]interp.PiecewiseLinear, len(tableV))
	table.beta = make([]interp.PiecewiseLinear, len(tableV))
	for i := range tableV {
		if err := table.theta[i].Fit(tableEx, tableTheta[i]); err != nil {
			panic(err)
		}
		if err := table.beta[i].Fit(tableEx, tableBeta[i]); err != nil {
			panic(err)
		}
	}
}

// BetaThetaTables interpolates Table B5.2-1. ok is false when the shear
// stress ratio or the strain lies beyond the table.
func BetaThetaTables(vOverFc, epsX float64) (beta, theta float64, ok bool) {
	tableOnce.Do(loadShearTable)

	ex := epsX * 1000
	if vOverFc > tableV[len(tableV)-1] || ex > tableEx[len(tableEx)-1] {
		return 0, 0, false
	}
	// values below the first row/column use the first row/column
	if vOverFc < tableV[0] {
		vOverFc = tableV[0]
	}
	if ex < tableEx[0] {
		ex = tableEx[0]
	}

	row := 0
	for row < len(tableV)-2 && vOverFc > tableV[row+1] {
		row++
	}
	t := (vOverFc - tableV[row]) / (tableV[row+1] - tableV[row])

	th0, th1 := table.theta[row].Predict(ex), table.theta[row+1].Predict(ex)
	b0, b1 := table.beta[row].Predict(ex), table.beta[row+1].Predict(ex)

	theta = th0 + t*(th1-th0)
	beta = b0 + t*(b1-b0)
	return beta, theta, true
}
