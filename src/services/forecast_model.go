package services

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

// The forecast model is an autoregression over the last forecastLags daily
// closes, fit with ridge-regularized least squares. The small ridge term
// keeps the normal equations solvable when the lag columns are collinear.
const ridgeLambda = 1.0

// buildLagFrame builds the training frame: one row per observed day with
// columns close, lag_1..lag_n (lag_1 is the same day's close) and target
// (the next day's close).
func buildLagFrame(closes []float64, nLags int) dataframe.DataFrame {
	rows := len(closes) - nLags
	cols := make([]series.Series, 0, nLags+2)

	closeVals := make([]float64, rows)
	copy(closeVals, closes[nLags-1:len(closes)-1])
	cols = append(cols, series.New(closeVals, series.Float, "close"))

	for j := 1; j <= nLags; j++ {
		vals := make([]float64, 0, rows)
		for i := nLags - 1; i < len(closes)-1; i++ {
			vals = append(vals, closes[i+1-j])
		}
		cols = append(cols, series.New(vals, series.Float, fmt.Sprintf("lag_%d", j)))
	}

	target := make([]float64, rows)
	copy(target, closes[nLags:])
	cols = append(cols, series.New(target, series.Float, "target"))

	return dataframe.New(cols...)
}

// fitLagModel solves (X'X + lambda*I) theta = X'y for the intercept plus one
// coefficient per lag column.
func fitLagModel(df dataframe.DataFrame, nLags int) (*mat.VecDense, error) {
	rows := df.Nrow()
	x := mat.NewDense(rows, nLags+1, nil)
	for i := 0; i < rows; i++ {
		x.Set(i, 0, 1)
	}
	for j := 1; j <= nLags; j++ {
		col := df.Col(fmt.Sprintf("lag_%d", j)).Float()
		for i, v := range col {
			x.Set(i, j, v)
		}
	}
	y := mat.NewVecDense(rows, df.Col("target").Float())

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	n, _ := xtx.Dims()
	for i := 0; i < n; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridgeLambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var theta mat.VecDense
	if err := theta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("solve lag model: %w", err)
	}
	return &theta, nil
}

// predictNext evaluates the fitted model on a window of closes ordered most
// recent first.
func predictNext(theta *mat.VecDense, window []float64) float64 {
	v := theta.AtVec(0)
	for j := 1; j <= len(window); j++ {
		v += theta.AtVec(j) * window[j-1]
	}
	return v
}

// nextBusinessDay advances one calendar day, then skips over weekends.
func nextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
