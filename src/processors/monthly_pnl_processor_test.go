package processors

import (
	"testing"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

func TestMonthlyPnlZeroFillsRange(t *testing.T) {
	p := NewMonthlyPnlProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2024-02-15T15:00:00"),
		closedAt("MSFT", 10, 100, 96, "2024-04-10T15:00:00"),
	}

	resp := p.Compute(trades, MonthlyPnlOptions{
		Timezone: "UTC",
		Start:    "2024-01-01",
		End:      "2024-06-15",
		Now:      time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	})

	if len(resp.Months) != 6 {
		t.Fatalf("Expected 6 months, got %d", len(resp.Months))
	}
	if resp.Months[0].Month != "2024-01" || resp.Months[5].Month != "2024-06" {
		t.Errorf("Unexpected month range %s..%s", resp.Months[0].Month, resp.Months[5].Month)
	}
	if resp.Months[1].NetPnl != 100 || !resp.Months[1].IsProfitable {
		t.Errorf("Expected February net 100, got %+v", resp.Months[1])
	}
	if resp.Months[3].NetPnl != -40 || resp.Months[3].IsProfitable {
		t.Errorf("Expected April net -40, got %+v", resp.Months[3])
	}
	for _, i := range []int{0, 2, 4, 5} {
		if resp.Months[i].NetPnl != 0 || resp.Months[i].TradeCount != 0 {
			t.Errorf("Expected zero-filled month %s, got %+v", resp.Months[i].Month, resp.Months[i])
		}
	}
}

func TestMonthlyPnlTotals(t *testing.T) {
	p := NewMonthlyPnlProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2024-02-15T15:00:00"),
		closedAt("MSFT", 10, 100, 96, "2024-04-10T15:00:00"),
	}

	resp := p.Compute(trades, MonthlyPnlOptions{
		Timezone: "UTC",
		Start:    "2024-01-01",
		End:      "2024-06-15",
		Now:      time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	})

	if resp.Totals["netPnl"] != 60 {
		t.Errorf("Expected total net 60, got %f", resp.Totals["netPnl"])
	}
	if resp.Totals["profitableMonths"] != 1 || resp.Totals["losingMonths"] != 1 {
		t.Errorf("Expected 1 profitable and 1 losing month, got %+v", resp.Totals)
	}
	if resp.Totals["avgMonthlyNet"] != 10 {
		t.Errorf("Expected avg monthly net 60/6=10, got %f", resp.Totals["avgMonthlyNet"])
	}
}

func TestMonthlyPnlDropsOutOfRangeTrades(t *testing.T) {
	p := NewMonthlyPnlProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2023-06-15T15:00:00"),
	}

	resp := p.Compute(trades, MonthlyPnlOptions{
		Timezone: "UTC",
		Start:    "2024-01-01",
		End:      "2024-03-01",
		Now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	for _, m := range resp.Months {
		if m.TradeCount != 0 {
			t.Errorf("Expected out-of-range trade to be dropped, got %+v", m)
		}
	}
	if resp.Totals["netPnl"] != 0 {
		t.Errorf("Expected zero totals, got %f", resp.Totals["netPnl"])
	}
}

func TestMonthlyPnlDefaultWindow(t *testing.T) {
	p := NewMonthlyPnlProcessor(NewMultiplierTable())

	resp := p.Compute(nil, MonthlyPnlOptions{
		Timezone: "UTC",
		Now:      time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	})

	// 365 days back from June 1 lands in June of the prior year.
	if len(resp.Months) != 13 {
		t.Fatalf("Expected 13 months in the default window, got %d", len(resp.Months))
	}
	if resp.Months[0].Month != "2023-06" || resp.Months[12].Month != "2024-06" {
		t.Errorf("Unexpected default range %s..%s", resp.Months[0].Month, resp.Months[12].Month)
	}
}
