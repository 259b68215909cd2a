package model

// PriceRow is one trading day of one ticker as kept in the cache.
type PriceRow struct {
	Ticker   string  `json:"ticker" parquet:"ticker"`
	Date     string  `json:"date" parquet:"date"` // YYYY-MM-DD
	Open     float64 `json:"open" parquet:"open"`
	High     float64 `json:"high" parquet:"high"`
	Low      float64 `json:"low" parquet:"low"`
	Close    float64 `json:"close" parquet:"close"`
	AdjClose float64 `json:"adj_close" parquet:"adj_close"`
	Volume   int64   `json:"volume" parquet:"volume"`
}

// History is the normalized result of one successful fetch.
type History struct {
	Ticker string
	Name   string
	Rows   []PriceRow
}

// DateLayout is the calendar date format used for PriceRow.Date.
const DateLayout = "2006-01-02"
