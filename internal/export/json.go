package export

import (
	"encoding/json"
	"io"

	"FinQuery/internal/model"
)

// JSONExporter writes rows as an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Extension() string   { return "json" }
func (JSONExporter) ContentType() string { return "application/json" }

func (JSONExporter) Write(w io.Writer, rows []model.PriceRow) error {
	if rows == nil {
		rows = []model.PriceRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
