// Package export serializes cached price rows for download.
package export

import (
	"io"
	"strings"

	"FinQuery/internal/model"
)

// Exporter writes rows in one file format. Callers depend only on this interface.
type Exporter interface {
	Write(w io.Writer, rows []model.PriceRow) error
	Extension() string
	ContentType() string
}

// New returns the exporter for format (csv, json, parquet), or nil if the
// format is not supported.
func New(format string) Exporter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVExporter{}
	case "json":
		return JSONExporter{}
	case "parquet":
		return ParquetExporter{}
	default:
		return nil
	}
}

// Filename is the attachment name used for a ticker's history.
func Filename(ticker, ext string) string {
	return ticker + "_historial." + ext
}
