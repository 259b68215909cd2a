package notifier

import (
	"encoding/json"
	"fmt"
)

// FormatFetchEvent renders the JSON payload published for subscribers.
func FormatFetchEvent(evt *FetchEvent) (string, error) {
	b, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal fetch event: %w", err)
	}
	return string(b), nil
}

// FormatSummary renders a one-line human readable description of the event.
func FormatSummary(evt *FetchEvent) string {
	if evt.Rows == 0 {
		return fmt.Sprintf("%s (%s): no rows", evt.Ticker, evt.Name)
	}
	return fmt.Sprintf("%s (%s): %d rows %s..%s, last close %.2f",
		evt.Ticker, evt.Name, evt.Rows, evt.FirstDate, evt.LastDate, evt.LastClose)
}
