package model

// Summary holds the indicators shown above a history table.
type Summary struct {
	LatestDate    string
	LatestClose   float64
	Change        float64
	ChangePercent float64
	HighWindow    float64
	LowWindow     float64
	PositionRange float64 // 0.0 ~ 1.0
	SMA50         float64
	SMA200        float64
	RSI14         float64
	HasSMA50      bool
	HasSMA200     bool
	HasRSI14      bool
}
