package model

import "strings"

// SortColumn is the closed set of columns a history table can be ordered by.
type SortColumn int

const (
	SortByDate SortColumn = iota
	SortByOpen
	SortByHigh
	SortByLow
	SortByClose
	SortByAdjClose
	SortByVolume
)

// SortColumns lists every sortable column in table order.
var SortColumns = []SortColumn{
	SortByDate, SortByOpen, SortByHigh, SortByLow, SortByClose, SortByAdjClose, SortByVolume,
}

// ParseSortColumn maps a query-string value to a SortColumn. Unknown values fall back to SortByDate.
func ParseSortColumn(s string) SortColumn {
	for _, c := range SortColumns {
		if c.String() == s {
			return c
		}
	}
	return SortByDate
}

// String returns the column name, which is also the SQL identifier.
func (c SortColumn) String() string {
	switch c {
	case SortByOpen:
		return "open"
	case SortByHigh:
		return "high"
	case SortByLow:
		return "low"
	case SortByClose:
		return "close"
	case SortByAdjClose:
		return "adj_close"
	case SortByVolume:
		return "volume"
	default:
		return "date"
	}
}

// SortOrder is ascending or descending.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// ParseSortOrder accepts "asc"/"desc" in any case. Anything else is Ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), "DESC") {
		return Descending
	}
	return Ascending
}

func (o SortOrder) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}
