package store

import (
	"context"
	"reflect"
	"sort"
	"testing"
	"time"

	"FinQuery/internal/model"
)

// clockStore is a Store whose TouchQuery clock can be pinned.
type clockStore interface {
	Store
	SetClock(now func() time.Time)
}

func sampleRows(ticker string) []model.PriceRow {
	return []model.PriceRow{
		{Ticker: ticker, Date: "2024-01-02", Open: 187.15, High: 188.44, Low: 183.89, Close: 185.64, AdjClose: 184.94, Volume: 82488700},
		{Ticker: ticker, Date: "2024-01-03", Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, AdjClose: 183.55, Volume: 58414500},
		{Ticker: ticker, Date: "2024-01-04", Open: 182.15, High: 183.09, Low: 180.88, Close: 181.91, AdjClose: 181.22, Volume: 71983600},
		{Ticker: ticker, Date: "2024-01-05", Open: 181.99, High: 182.76, Low: 180.17, Close: 181.18, AdjClose: 180.49, Volume: 62303300},
		{Ticker: ticker, Date: "2024-01-08", Open: 182.09, High: 185.60, Low: 181.50, Close: 185.56, AdjClose: 184.86, Volume: 59144500},
	}
}

func sortedCopy(rows []model.PriceRow, col model.SortColumn, ord model.SortOrder) []model.PriceRow {
	out := append([]model.PriceRow(nil), rows...)
	key := func(r model.PriceRow) float64 {
		switch col {
		case model.SortByOpen:
			return r.Open
		case model.SortByHigh:
			return r.High
		case model.SortByLow:
			return r.Low
		case model.SortByClose:
			return r.Close
		case model.SortByAdjClose:
			return r.AdjClose
		case model.SortByVolume:
			return float64(r.Volume)
		}
		return 0
	}
	sort.SliceStable(out, func(i, j int) bool {
		if col == model.SortByDate {
			if ord == model.Descending {
				return out[i].Date > out[j].Date
			}
			return out[i].Date < out[j].Date
		}
		ki, kj := key(out[i]), key(out[j])
		if ki != kj {
			if ord == model.Descending {
				return ki > kj
			}
			return ki < kj
		}
		return out[i].Date < out[j].Date
	})
	return out
}

func runStoreSuite(t *testing.T, open func(t *testing.T) clockStore) {
	ctx := context.Background()

	t.Run("read returns every row in every order", func(t *testing.T) {
		s := open(t)
		rows := sampleRows("AAPL")
		if err := s.ReplaceHistory(ctx, "AAPL", rows); err != nil {
			t.Fatalf("ReplaceHistory: %v", err)
		}
		for _, col := range model.SortColumns {
			for _, ord := range []model.SortOrder{model.Ascending, model.Descending} {
				got, err := s.ReadHistory(ctx, "AAPL", col, ord)
				if err != nil {
					t.Fatalf("ReadHistory(%s %s): %v", col, ord, err)
				}
				want := sortedCopy(rows, col, ord)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("ReadHistory(%s %s):\n got %v\nwant %v", col, ord, got, want)
				}
			}
		}
	})

	t.Run("replace leaves only the new row set", func(t *testing.T) {
		s := open(t)
		if err := s.ReplaceHistory(ctx, "MSFT", sampleRows("MSFT")); err != nil {
			t.Fatalf("ReplaceHistory: %v", err)
		}
		second := []model.PriceRow{
			{Ticker: "MSFT", Date: "2024-02-01", Open: 400, High: 405, Low: 398, Close: 403, AdjClose: 403, Volume: 1000},
			{Ticker: "MSFT", Date: "2024-02-02", Open: 403, High: 410, Low: 401, Close: 409, AdjClose: 409, Volume: 2000},
		}
		if err := s.ReplaceHistory(ctx, "MSFT", second); err != nil {
			t.Fatalf("ReplaceHistory: %v", err)
		}
		got, err := s.ReadHistory(ctx, "MSFT", model.SortByDate, model.Ascending)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if !reflect.DeepEqual(got, second) {
			t.Errorf("expected only the second set, got %v", got)
		}
	})

	t.Run("replace does not touch other tickers", func(t *testing.T) {
		s := open(t)
		_ = s.ReplaceHistory(ctx, "AAPL", sampleRows("AAPL"))
		_ = s.ReplaceHistory(ctx, "TSLA", sampleRows("TSLA"))
		if err := s.ReplaceHistory(ctx, "TSLA", nil); err != nil {
			t.Fatalf("ReplaceHistory: %v", err)
		}
		tsla, _ := s.ReadHistory(ctx, "TSLA", model.SortByDate, model.Ascending)
		aapl, _ := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if len(tsla) != 0 {
			t.Errorf("expected TSLA to be empty, got %d rows", len(tsla))
		}
		if len(aapl) != 5 {
			t.Errorf("expected AAPL to keep 5 rows, got %d", len(aapl))
		}
	})

	t.Run("unknown ticker reads empty", func(t *testing.T) {
		s := open(t)
		got, err := s.ReadHistory(ctx, "NOPE", model.SortByDate, model.Ascending)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("untrusted sort input behaves as date ASC", func(t *testing.T) {
		s := open(t)
		_ = s.ReplaceHistory(ctx, "AAPL", sampleRows("AAPL"))
		want, _ := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		got, err := s.ReadHistory(ctx, "AAPL",
			model.ParseSortColumn("date; DROP TABLE history"),
			model.ParseSortOrder("ASC; DELETE FROM queries"))
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected date ASC ordering, got %v", got)
		}
		again, err := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if err != nil || len(again) != 5 {
			t.Errorf("history table should be intact, got %d rows, err %v", len(again), err)
		}
	})

	t.Run("touch twice keeps one entry with the later time", func(t *testing.T) {
		s := open(t)
		first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		second := first.Add(90 * time.Minute)
		s.SetClock(func() time.Time { return first })
		if err := s.TouchQuery(ctx, "AAPL"); err != nil {
			t.Fatalf("TouchQuery: %v", err)
		}
		s.SetClock(func() time.Time { return second })
		if err := s.TouchQuery(ctx, "AAPL"); err != nil {
			t.Fatalf("TouchQuery: %v", err)
		}
		got, err := s.ListQueries(ctx)
		if err != nil {
			t.Fatalf("ListQueries: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}
		if got[0].Ticker != "AAPL" || !got[0].LastQueryAt.Equal(second) {
			t.Errorf("expected AAPL at %v, got %+v", second, got[0])
		}
	})

	t.Run("list is most recent first", func(t *testing.T) {
		s := open(t)
		base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, tk := range []string{"AAPL", "MSFT", "NVDA"} {
			at := base.Add(time.Duration(i) * time.Hour)
			s.SetClock(func() time.Time { return at })
			if err := s.TouchQuery(ctx, tk); err != nil {
				t.Fatalf("TouchQuery: %v", err)
			}
		}
		got, _ := s.ListQueries(ctx)
		var order []string
		for _, e := range got {
			order = append(order, e.Ticker)
		}
		if !reflect.DeepEqual(order, []string{"NVDA", "MSFT", "AAPL"}) {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("delete query keeps cached rows", func(t *testing.T) {
		s := open(t)
		_ = s.ReplaceHistory(ctx, "AAPL", sampleRows("AAPL"))
		_ = s.TouchQuery(ctx, "AAPL")
		_ = s.TouchQuery(ctx, "MSFT")
		if err := s.DeleteQuery(ctx, "AAPL"); err != nil {
			t.Fatalf("DeleteQuery: %v", err)
		}
		if err := s.DeleteQuery(ctx, "NEVER"); err != nil {
			t.Errorf("deleting an absent entry should not fail: %v", err)
		}
		q, _ := s.ListQueries(ctx)
		if len(q) != 1 || q[0].Ticker != "MSFT" {
			t.Errorf("expected only MSFT in the log, got %+v", q)
		}
		rows, _ := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if len(rows) != 5 {
			t.Errorf("expected cached rows to survive, got %d", len(rows))
		}
	})

	t.Run("clear queries keeps cached rows", func(t *testing.T) {
		s := open(t)
		_ = s.ReplaceHistory(ctx, "AAPL", sampleRows("AAPL"))
		_ = s.ReplaceHistory(ctx, "MSFT", sampleRows("MSFT"))
		_ = s.TouchQuery(ctx, "AAPL")
		_ = s.TouchQuery(ctx, "MSFT")
		if err := s.ClearQueries(ctx); err != nil {
			t.Fatalf("ClearQueries: %v", err)
		}
		q, _ := s.ListQueries(ctx)
		if len(q) != 0 {
			t.Errorf("expected empty log, got %+v", q)
		}
		for _, tk := range []string{"AAPL", "MSFT"} {
			rows, _ := s.ReadHistory(ctx, tk, model.SortByDate, model.Ascending)
			if len(rows) != 5 {
				t.Errorf("%s: expected 5 cached rows, got %d", tk, len(rows))
			}
		}
	})

	t.Run("prune removes only old entries", func(t *testing.T) {
		s := open(t)
		base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		s.SetClock(func() time.Time { return base })
		_ = s.TouchQuery(ctx, "OLD")
		s.SetClock(func() time.Time { return base.Add(48 * time.Hour) })
		_ = s.TouchQuery(ctx, "NEW")

		n, err := s.PruneQueries(ctx, base.Add(24*time.Hour))
		if err != nil {
			t.Fatalf("PruneQueries: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned entry, got %d", n)
		}
		q, _ := s.ListQueries(ctx)
		if len(q) != 1 || q[0].Ticker != "NEW" {
			t.Errorf("expected only NEW left, got %+v", q)
		}
	})

	t.Run("failed replace leaves previous rows", func(t *testing.T) {
		s := open(t)
		_ = s.ReplaceHistory(ctx, "AAPL", sampleRows("AAPL"))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.ReplaceHistory(cancelled, "AAPL", nil); err == nil {
			t.Fatal("expected an error with a cancelled context")
		}
		rows, _ := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if len(rows) != 5 {
			t.Errorf("expected previous 5 rows to survive, got %d", len(rows))
		}
	})

	t.Run("commit fetch writes rows and log entry together", func(t *testing.T) {
		s := open(t)
		at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		s.SetClock(func() time.Time { return at })
		if err := s.CommitFetch(ctx, "AAPL", sampleRows("AAPL")); err != nil {
			t.Fatalf("CommitFetch: %v", err)
		}
		rows, _ := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if !reflect.DeepEqual(rows, sampleRows("AAPL")) {
			t.Errorf("unexpected rows %+v", rows)
		}
		q, _ := s.ListQueries(ctx)
		if len(q) != 1 || q[0].Ticker != "AAPL" || !q[0].LastQueryAt.Equal(at) {
			t.Errorf("expected one AAPL entry at %v, got %+v", at, q)
		}
	})

	t.Run("commit fetch failing after the insert rolls back both writes", func(t *testing.T) {
		s := open(t)
		first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		s.SetClock(func() time.Time { return first })
		if err := s.CommitFetch(ctx, "AAPL", sampleRows("AAPL")); err != nil {
			t.Fatalf("CommitFetch: %v", err)
		}

		// The clock is read after DELETE and INSERT ran inside the transaction;
		// cancelling there makes the query log write fail.
		failing, cancel := context.WithCancel(ctx)
		defer cancel()
		s.SetClock(func() time.Time {
			cancel()
			return first.Add(time.Hour)
		})
		if err := s.CommitFetch(failing, "AAPL", sampleRows("AAPL")[:2]); err == nil {
			t.Fatal("expected CommitFetch to fail")
		}
		s.SetClock(func() time.Time { return first })

		rows, err := s.ReadHistory(ctx, "AAPL", model.SortByDate, model.Ascending)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if len(rows) != 5 {
			t.Errorf("expected previous 5 rows to survive, got %d", len(rows))
		}
		q, _ := s.ListQueries(ctx)
		if len(q) != 1 || !q[0].LastQueryAt.Equal(first) {
			t.Errorf("expected the log entry to keep %v, got %+v", first, q)
		}
	})
}
