package processors

import (
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func fill(id int64, symbol, side string, qty, price float64, execTime string) models.NormalizedFill {
	return models.NormalizedFill{
		ID:         id,
		Symbol:     symbol,
		AssetClass: "stocks",
		Side:       side,
		Quantity:   qty,
		Price:      price,
		ExecTime:   execTime,
	}
}

func TestGroupSimpleRoundTrip(t *testing.T) {
	p := NewRoundTripProcessor()
	fills := []models.NormalizedFill{
		fill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:30:00"),
		fill(2, "AAPL", "sell", 5, 105, "2024-03-01T15:00:00"),
	}

	trades := p.Group(fills)
	if len(trades) != 1 {
		t.Fatalf("Expected one trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Status != "closed" {
		t.Fatalf("Expected closed trade, got %s", tr.Status)
	}
	if tr.RealizedPnl == nil || *tr.RealizedPnl != 25 {
		t.Errorf("Expected realized pnl 25, got %v", tr.RealizedPnl)
	}
	if tr.DurationMinutes == nil || *tr.DurationMinutes != 330 {
		t.Errorf("Expected duration 330 minutes, got %v", tr.DurationMinutes)
	}
	if tr.Side != "buy" {
		t.Errorf("Closed trade side is the entry side, got %s", tr.Side)
	}
}

func TestGroupShortRoundTrip(t *testing.T) {
	p := NewRoundTripProcessor()
	fills := []models.NormalizedFill{
		fill(1, "TSLA", "sell", 3, 200, "2024-03-01T09:30:00"),
		fill(2, "TSLA", "buy", 3, 190, "2024-03-01T10:00:00"),
	}

	trades := p.Group(fills)
	if len(trades) != 1 {
		t.Fatalf("Expected one trade, got %d", len(trades))
	}
	tr := trades[0]
	// The buy leg is always the entry, so a short exits before it enters.
	if tr.Side != "buy" {
		t.Errorf("Expected entry side buy, got %s", tr.Side)
	}
	if tr.RealizedPnl == nil || *tr.RealizedPnl != 30 {
		t.Errorf("Expected realized pnl 30, got %v", tr.RealizedPnl)
	}
	if tr.DurationMinutes == nil || *tr.DurationMinutes != -30 {
		t.Errorf("Expected duration -30 minutes, got %v", tr.DurationMinutes)
	}
}

func TestGroupUnmatchedStaysOpen(t *testing.T) {
	p := NewRoundTripProcessor()
	fills := []models.NormalizedFill{
		fill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:30:00"),
		fill(2, "AAPL", "sell", 3, 105, "2024-03-01T15:00:00"),
	}

	trades := p.Group(fills)
	if len(trades) != 2 {
		t.Fatalf("Expected two open trades on quantity mismatch, got %d", len(trades))
	}
	for _, tr := range trades {
		if tr.Status != "open" {
			t.Errorf("Expected open trade, got %s", tr.Status)
		}
	}
}

func TestGroupSkipsNonTradeSides(t *testing.T) {
	p := NewRoundTripProcessor()
	fills := []models.NormalizedFill{
		fill(1, "AAPL", "dividend", 5, 0.25, "2024-03-01T09:30:00"),
		fill(2, "AAPL", "buy", 5, 100, "2024-03-01T10:00:00"),
	}

	trades := p.Group(fills)
	if len(trades) != 1 {
		t.Fatalf("Expected one trade, got %d", len(trades))
	}
	if trades[0].Status != "open" || trades[0].Side != "buy" {
		t.Errorf("Expected open buy trade, got %+v", trades[0])
	}
}

func TestGroupConservesFills(t *testing.T) {
	p := NewRoundTripProcessor()
	fills := []models.NormalizedFill{
		fill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:30:00"),
		fill(2, "AAPL", "sell", 5, 101, "2024-03-01T10:00:00"),
		fill(3, "AAPL", "buy", 5, 102, "2024-03-01T11:00:00"),
		fill(4, "AAPL", "sell", 5, 103, "2024-03-01T12:00:00"),
		fill(5, "MSFT", "buy", 2, 400, "2024-03-01T09:45:00"),
	}

	trades := p.Group(fills)
	seen := make(map[int64]bool)
	total := 0
	for _, tr := range trades {
		for _, id := range tr.FillIDs {
			if seen[id] {
				t.Errorf("Fill %d assigned to more than one trade", id)
			}
			seen[id] = true
			total++
		}
	}
	if total != len(fills) {
		t.Errorf("Expected every fill in exactly one trade, got %d of %d", total, len(fills))
	}
}

func TestGroupFeesSumAcrossLegs(t *testing.T) {
	p := NewRoundTripProcessor()
	f1 := fill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:30:00")
	f1.Fees = 1.0
	f2 := fill(2, "AAPL", "sell", 5, 105, "2024-03-01T15:00:00")
	f2.Fees = 0.5

	trades := p.Group([]models.NormalizedFill{f1, f2})
	if len(trades) != 1 {
		t.Fatalf("Expected one trade, got %d", len(trades))
	}
	if trades[0].Fees != 1.5 {
		t.Errorf("Expected fees 1.5, got %f", trades[0].Fees)
	}
}

func TestGroupOrdersMixedZonedAndNaiveTimes(t *testing.T) {
	p := NewRoundTripProcessor()
	// The buy's zoned timestamp (07:00Z) sorts after both sells as text but
	// is the earliest instant; chronologically the first sell closes it.
	fills := []models.NormalizedFill{
		fill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:00:00+02:00"),
		fill(2, "AAPL", "sell", 5, 110, "2024-03-01T10:00:00+02:00"),
		fill(3, "AAPL", "sell", 5, 120, "2024-03-01T09:30:00"),
	}

	trades := p.Group(fills)
	var closed *models.Trade
	opens := 0
	for i := range trades {
		if trades[i].Status == "closed" {
			closed = &trades[i]
		} else {
			opens++
		}
	}
	if closed == nil || opens != 1 {
		t.Fatalf("Expected one closed and one open trade, got %+v", trades)
	}
	if closed.ExitPrice == nil || *closed.ExitPrice != 110 {
		t.Errorf("Expected the chronologically first sell (110) to close the buy, got %v", closed.ExitPrice)
	}
	if closed.DurationMinutes == nil || *closed.DurationMinutes != 60 {
		t.Errorf("Expected 60 minute duration, got %v", closed.DurationMinutes)
	}
}
