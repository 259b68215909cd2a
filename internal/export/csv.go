package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"FinQuery/internal/model"
)

// CSVExporter writes rows as CSV with a header line.
type CSVExporter struct{}

func (CSVExporter) Extension() string   { return "csv" }
func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVExporter) Write(out io.Writer, rows []model.PriceRow) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "open", "high", "low", "close", "adj_close", "volume"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date,
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			floatStr(r.AdjClose),
			strconv.FormatInt(r.Volume, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
