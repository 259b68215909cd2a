package calculator

import (
	"fmt"

	"FinQuery/internal/model"
)

// MovingAverage is the simple average of the last days adjusted closes of
// chronologically ordered rows.
func MovingAverage(rows []model.PriceRow, days int) (float64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("moving average window %d: must be positive", days)
	}
	if len(rows) < days {
		return 0, fmt.Errorf("MA%d over %d rows: %w", days, len(rows), ErrInsufficientData)
	}
	var sum float64
	for _, c := range adjustedCloses(rows[len(rows)-days:]) {
		sum += c
	}
	return sum / float64(days), nil
}
