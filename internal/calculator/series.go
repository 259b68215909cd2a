// Package calculator derives the summary panel shown above a history table.
// Trend indicators run on adjusted closes so splits and dividends inside the
// one-year window do not read as price moves.
package calculator

import (
	"errors"

	"FinQuery/internal/model"
)

// ErrInsufficientData means the history is shorter than the indicator window.
var ErrInsufficientData = errors.New("not enough rows for indicator")

// adjustedCloses returns the adjusted close of each row, falling back to the
// raw close for rows cached without one.
func adjustedCloses(rows []model.PriceRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.AdjClose
		if out[i] == 0 {
			out[i] = r.Close
		}
	}
	return out
}
