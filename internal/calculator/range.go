package calculator

import (
	"fmt"

	"FinQuery/internal/model"
)

// WindowRange returns the highest high and lowest low of rows.
func WindowRange(rows []model.PriceRow) (high, low float64, err error) {
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("range: %w", ErrInsufficientData)
	}
	high, low = rows[0].High, rows[0].Low
	for _, r := range rows[1:] {
		high = max(high, r.High)
		low = min(low, r.Low)
	}
	return high, low, nil
}

// RangePosition places price within [low, high] as 0..1, clamped. A flat
// range yields the midpoint.
func RangePosition(price, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	return min(max((price-low)/(high-low), 0), 1)
}
