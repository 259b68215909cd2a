package calculator

import (
	"fmt"

	"FinQuery/internal/model"
)

// RSI is Wilder's relative strength index over days, computed on the
// day-to-day changes of adjusted closes. It needs days+1 rows.
func RSI(rows []model.PriceRow, days int) (float64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("RSI window %d: must be positive", days)
	}
	if len(rows) < days+1 {
		return 0, fmt.Errorf("RSI%d over %d rows: %w", days, len(rows), ErrInsufficientData)
	}

	closes := adjustedCloses(rows)
	n := float64(days)
	var gain, loss float64
	for i := 1; i < len(closes); i++ {
		up, down := 0.0, 0.0
		if d := closes[i] - closes[i-1]; d > 0 {
			up = d
		} else {
			down = -d
		}
		if i <= days {
			// seed with the plain mean of the first window
			gain += up / n
			loss += down / n
			continue
		}
		gain = (gain*(n-1) + up) / n
		loss = (loss*(n-1) + down) / n
	}

	if loss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+gain/loss), nil
}
