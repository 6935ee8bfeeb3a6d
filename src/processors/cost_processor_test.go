package processors

import (
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func TestCostsFallbackToCommissions(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closed("AAPL", "stocks", "buy", 10, 100, 110, 2.5),
	}

	resp := p.Compute(trades)
	if resp.Fees.Total != 2.5 {
		t.Errorf("Expected total fees 2.5, got %f", resp.Fees.Total)
	}
	if resp.Fees.Commissions != 2.5 {
		t.Errorf("Expected whole fee attributed to commissions, got %f", resp.Fees.Commissions)
	}
	if resp.Totals["feesTotal"] != 2.5 {
		t.Errorf("Expected feesTotal 2.5, got %f", resp.Totals["feesTotal"])
	}
}

func TestCostsComponentBreakdown(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	comm := 1.0
	reg := 0.25
	tr := closed("AAPL", "stocks", "buy", 10, 100, 110, 1.25)
	tr.Commission = &comm
	tr.RegulatoryFees = &reg

	resp := p.Compute([]models.Trade{tr})
	if resp.Fees.Commissions != 1.0 {
		t.Errorf("Expected commissions 1.0, got %f", resp.Fees.Commissions)
	}
	if resp.Fees.Regulatory != 0.25 {
		t.Errorf("Expected regulatory 0.25, got %f", resp.Fees.Regulatory)
	}
}

func TestCostsBySymbolSortedByFees(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closed("AAPL", "stocks", "buy", 10, 100, 110, 1),
		closed("MSFT", "stocks", "buy", 10, 100, 110, 3),
		closed("TSLA", "stocks", "buy", 10, 100, 110, 2),
	}

	resp := p.Compute(trades)
	got := make([]string, 0, len(resp.Fees.BySymbol))
	for _, g := range resp.Fees.BySymbol {
		got = append(got, g.Group)
	}
	want := []string{"MSFT", "TSLA", "AAPL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected symbol order %v, got %v", want, got)
		}
	}
}

func TestCostsSlippageUnsupportedByDefault(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	trades := []models.Trade{
		closed("AAPL", "stocks", "buy", 10, 100, 110, 1),
	}

	resp := p.Compute(trades)
	if resp.Slippage.Supported {
		t.Error("Expected slippage unsupported without slippage or limit-price data")
	}
	if resp.Efficiency.Entry.Supported || resp.Efficiency.Exit.Supported {
		t.Error("Efficiency is never supported")
	}
}

func TestCostsSlippageFromLimitPrice(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	limit := 109.9
	tr := closed("AAPL", "stocks", "buy", 10, 100, 110, 0)
	tr.LimitPrice = &limit

	resp := p.Compute([]models.Trade{tr})
	if !resp.Slippage.Supported {
		t.Fatal("Expected slippage supported when a limit price is present")
	}
	if len(resp.Slippage.BySymbol) != 1 || resp.Slippage.BySymbol[0].Group != "AAPL" {
		t.Fatalf("Expected one AAPL slippage group, got %+v", resp.Slippage.BySymbol)
	}
	if got := resp.Slippage.BySymbol[0].Avg; got != 0.1 {
		t.Errorf("Expected avg slippage 0.1, got %f", got)
	}
}

func TestCostsDteBuckets(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	mk := func(entry, expiry string) models.Trade {
		tr := closed("SPY", "options", "buy", 1, 1, 2, 0)
		tr.EntryTime = entry
		tr.Expiry = expiry
		return tr
	}
	trades := []models.Trade{
		mk("2024-03-01T00:00:00", "2024-03-08"), // 7 days, short-dated bucket edge
		mk("2024-03-01T00:00:00", "2024-03-09"), // 8 days
		mk("2024-03-01T00:00:00", "2024-03-31"), // 30 days
		mk("2024-03-01T00:00:00", "2024-04-01"), // 31 days
		mk("2024-03-01T00:00:00", "2024-05-30"), // 90 days
		mk("2024-03-01T00:00:00", "2024-05-31"), // 91 days
	}

	resp := p.Compute(trades)
	want := map[string]int{"0-7": 1, "8-30": 2, "31-90": 2, "90+": 1}
	for _, b := range resp.Options.ByDteBucket {
		if b.TradeCount != want[b.Bucket] {
			t.Errorf("Bucket %s: expected %d trades, got %d", b.Bucket, want[b.Bucket], b.TradeCount)
		}
	}
}

func TestCostsFuturesRoots(t *testing.T) {
	p := NewCostProcessor(NewMultiplierTable())
	mk := func(symbol, expiry string, realized float64) models.Trade {
		tr := closed(symbol, "futures", "buy", 1, 5000, 5001, 2)
		tr.Expiry = expiry
		tr.RealizedPnl = &realized
		return tr
	}
	trades := []models.Trade{
		mk("ESZ5", "2025-12-19", 50),
		mk("ESZ5", "2025-12-19", 100),
		mk("MNQZ5", "2025-12-19", 2),
	}

	resp := p.Compute(trades)
	if len(resp.Futures.ByRoot) != 2 {
		t.Fatalf("Expected two roots, got %+v", resp.Futures.ByRoot)
	}
	roots := map[string]models.FuturesByRoot{}
	for _, r := range resp.Futures.ByRoot {
		roots[r.Root] = r
	}
	// The root is the leading run of letters, so the month code stays.
	if roots["ESZ"].TradeCount != 2 {
		t.Errorf("Expected 2 ESZ trades, got %+v", roots["ESZ"])
	}
	if roots["MNQZ"].TradeCount != 1 {
		t.Errorf("Expected 1 MNQZ trade, got %+v", roots["MNQZ"])
	}
	if len(resp.Futures.ByExpiry) != 1 || resp.Futures.ByExpiry[0].TradeCount != 3 {
		t.Errorf("Expected one expiry bucket with 3 trades, got %+v", resp.Futures.ByExpiry)
	}
}
