package export

import (
	"io"

	"github.com/parquet-go/parquet-go"

	"FinQuery/internal/model"
)

// ParquetExporter writes rows as a single Parquet file.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string   { return "parquet" }
func (ParquetExporter) ContentType() string { return "application/vnd.apache.parquet" }

func (ParquetExporter) Write(w io.Writer, rows []model.PriceRow) error {
	return parquet.Write(w, rows)
}
