package collector

import (
	"math"
	"strings"
	"time"

	"FinQuery/internal/model"
)

// DisplayName picks shortName, then symbol, then the requested ticker.
func DisplayName(res *ChartResult, ticker string) string {
	if name := strings.TrimSpace(res.Meta.ShortName); name != "" {
		return name
	}
	if sym := strings.TrimSpace(res.Meta.Symbol); sym != "" {
		return sym
	}
	return ticker
}

// NormalizeRows folds the parallel series of res into rows for ticker.
// An index whose timestamp or OHLCV value is missing or malformed is dropped
// without failing the rest. Dates are calendar days in loc; a repeated date
// keeps its first position and the last values.
func NormalizeRows(res *ChartResult, ticker string, loc *time.Location) []model.PriceRow {
	var quote QuoteSeries
	if len(res.Indicators.Quote) > 0 {
		quote = res.Indicators.Quote[0]
	}
	var adj []any
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	rows := make([]model.PriceRow, 0, len(res.Timestamp))
	seen := make(map[string]int, len(res.Timestamp))
	for i := range res.Timestamp {
		row, ok := extractRow(res.Timestamp, quote, adj, i, loc)
		if !ok {
			continue
		}
		row.Ticker = ticker
		if j, dup := seen[row.Date]; dup {
			rows[j] = row
			continue
		}
		seen[row.Date] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

func extractRow(ts []any, q QuoteSeries, adj []any, i int, loc *time.Location) (model.PriceRow, bool) {
	sec, ok := integerAt(ts, i)
	if !ok {
		return model.PriceRow{}, false
	}
	open, ok1 := numberAt(q.Open, i)
	high, ok2 := numberAt(q.High, i)
	low, ok3 := numberAt(q.Low, i)
	closePx, ok4 := numberAt(q.Close, i)
	vol, ok5 := integerAt(q.Volume, i)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || vol < 0 {
		return model.PriceRow{}, false
	}

	adjClose := closePx
	if v, ok := numberAt(adj, i); ok && v != 0 {
		adjClose = v
	}

	return model.PriceRow{
		Date:     time.Unix(sec, 0).In(loc).Format(model.DateLayout),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePx,
		AdjClose: adjClose,
		Volume:   vol,
	}, true
}

func numberAt(vals []any, i int) (float64, bool) {
	if i >= len(vals) {
		return 0, false
	}
	f, ok := vals[i].(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func integerAt(vals []any, i int) (int64, bool) {
	f, ok := numberAt(vals, i)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}
