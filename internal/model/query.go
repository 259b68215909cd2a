package model

import "time"

// QueryLogEntry records the last successful fetch of a ticker.
type QueryLogEntry struct {
	Ticker      string
	LastQueryAt time.Time
}
