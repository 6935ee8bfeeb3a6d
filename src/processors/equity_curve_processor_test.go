package processors

import (
	"testing"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

func closedAt(symbol string, qty, entry, exit float64, exitTime string) models.Trade {
	tr := closed(symbol, "stocks", "buy", qty, entry, exit, 0)
	tr.ExitTime = &exitTime
	return tr
}

func TestEquityCurveCarriesForward(t *testing.T) {
	p := NewEquityCurveProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2024-03-01T15:00:00"),
		closedAt("MSFT", 10, 100, 95, "2024-03-05T15:00:00"),
	}

	resp := p.Compute(trades, nil, EquityCurveOptions{
		Timezone:       "UTC",
		InitialBalance: 10000,
		Now:            time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
	})

	if len(resp.Points) != 5 {
		t.Fatalf("Expected 5 calendar points, got %d", len(resp.Points))
	}
	wantEquity := []float64{10100, 10100, 10100, 10100, 10050}
	for i, want := range wantEquity {
		if resp.Points[i].Equity != want {
			t.Errorf("Point %d (%s): equity %f, expected %f", i, resp.Points[i].T, resp.Points[i].Equity, want)
		}
	}
	if resp.Points[0].T != "2024-03-01" || resp.Points[4].T != "2024-03-05" {
		t.Errorf("Unexpected date range %s..%s", resp.Points[0].T, resp.Points[4].T)
	}
	if resp.FinalBalance != 10050 || resp.AbsoluteReturn != 50 {
		t.Errorf("Unexpected totals: final=%f absolute=%f", resp.FinalBalance, resp.AbsoluteReturn)
	}
	if resp.PctReturn != 0.005 {
		t.Errorf("Expected pct return 0.005, got %f", resp.PctReturn)
	}
}

func TestEquityCurveFoldsCashFlows(t *testing.T) {
	p := NewEquityCurveProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2024-03-01T15:00:00"),
	}
	cashFlows := []models.CashFlow{
		{Date: "2024-03-03", Amount: 1000},
	}

	resp := p.Compute(trades, cashFlows, EquityCurveOptions{
		Timezone:       "UTC",
		InitialBalance: 10000,
		Now:            time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
	})

	if len(resp.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(resp.Points))
	}
	if resp.Points[1].Equity != 10100 {
		t.Errorf("Expected 10100 before the deposit, got %f", resp.Points[1].Equity)
	}
	if resp.Points[2].Equity != 11100 {
		t.Errorf("Expected deposit folded in on its value date, got %f", resp.Points[2].Equity)
	}
}

func TestEquityCurveIgnoresOpenTrades(t *testing.T) {
	p := NewEquityCurveProcessor(NewMultiplierTable())
	trades := []models.Trade{
		{Symbol: "AAPL", AssetClass: "stocks", Side: "buy", Quantity: 10, EntryPrice: 100, Status: "open"},
	}

	resp := p.Compute(trades, nil, EquityCurveOptions{
		Timezone:       "UTC",
		InitialBalance: 5000,
		Now:            time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
	})

	if len(resp.Points) != 1 {
		t.Fatalf("Expected a single point for today, got %d", len(resp.Points))
	}
	if resp.Points[0].Equity != 5000 {
		t.Errorf("Expected flat equity at the initial balance, got %f", resp.Points[0].Equity)
	}
	if resp.PctReturn != 0 {
		t.Errorf("Expected zero return, got %f", resp.PctReturn)
	}
}

func TestEquityCurveExplicitRange(t *testing.T) {
	p := NewEquityCurveProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closedAt("AAPL", 10, 100, 110, "2024-03-02T15:00:00"),
	}

	resp := p.Compute(trades, nil, EquityCurveOptions{
		Timezone:       "UTC",
		InitialBalance: 1000,
		Start:          "2024-03-01",
		End:            "2024-03-04",
		Now:            time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	})

	if len(resp.Points) != 4 {
		t.Fatalf("Expected 4 points for the requested range, got %d", len(resp.Points))
	}
	if resp.Points[0].Equity != 1000 || resp.Points[3].Equity != 1100 {
		t.Errorf("Unexpected endpoints: %f..%f", resp.Points[0].Equity, resp.Points[3].Equity)
	}
}
