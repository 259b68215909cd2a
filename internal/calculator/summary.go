package calculator

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"FinQuery/internal/model"
)

// Summarize computes the indicator panel for a cached history. Rows may come
// in any display order; they are evaluated chronologically. An indicator the
// history is too short for is reported as absent, never as a made-up value.
func Summarize(rows []model.PriceRow) (*model.Summary, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	chrono := append([]model.PriceRow(nil), rows...)
	sort.SliceStable(chrono, func(i, j int) bool { return chrono[i].Date < chrono[j].Date })

	last := chrono[len(chrono)-1]
	s := &model.Summary{LatestDate: last.Date, LatestClose: last.Close}

	if len(chrono) > 1 {
		prev := chrono[len(chrono)-2].Close
		s.Change = last.Close - prev
		if prev != 0 {
			s.ChangePercent = s.Change / prev * 100
		}
	}

	if h, l, err := WindowRange(chrono); err == nil {
		s.HighWindow, s.LowWindow = h, l
		s.PositionRange = RangePosition(last.Close, h, l)
	}

	var err error
	if s.SMA50, err = MovingAverage(chrono, 50); err == nil {
		s.HasSMA50 = true
	}
	if s.SMA200, err = MovingAverage(chrono, 200); err == nil {
		s.HasSMA200 = true
	}
	s.RSI14, err = RSI(chrono, 14)
	switch {
	case err == nil:
		s.HasRSI14 = true
	case !errors.Is(err, ErrInsufficientData):
		log.Warn().Err(err).Str("ticker", last.Ticker).Msg("RSI calculation failed")
	}
	return s, true
}
