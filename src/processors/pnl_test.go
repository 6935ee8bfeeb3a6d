package processors

import (
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func closed(symbol, assetClass, side string, qty, entry, exit, fees float64) models.Trade {
	return models.Trade{
		Symbol:     symbol,
		AssetClass: assetClass,
		Side:       side,
		Quantity:   qty,
		EntryPrice: entry,
		ExitPrice:  &exit,
		Fees:       fees,
		Status:     "closed",
	}
}

func TestNormalizedTradePnlStock(t *testing.T) {
	m := NewMultiplierTable()
	tr := closed("AAPL", "stocks", "buy", 10, 100, 110, 2)

	got := NormalizedTradePnl(&tr, m)
	if got.Realized != 100 {
		t.Errorf("Expected realized 100, got %f", got.Realized)
	}
	if got.Net != 98 {
		t.Errorf("Expected net 98, got %f", got.Net)
	}
}

func TestNormalizedTradePnlOptionMultiplier(t *testing.T) {
	m := NewMultiplierTable()
	tr := closed("AAPL250117C00150000", "options", "buy", 10, 100, 110, 0)

	got := NormalizedTradePnl(&tr, m)
	if got.Realized != 10000 {
		t.Errorf("Expected realized 10000 with the 100x contract multiplier, got %f", got.Realized)
	}
}

func TestNormalizedTradePnlShortSign(t *testing.T) {
	m := NewMultiplierTable()
	tr := closed("TSLA", "stocks", "sell", 5, 200, 190, 0)

	got := NormalizedTradePnl(&tr, m)
	if got.Realized != 50 {
		t.Errorf("Expected a profitable short, got %f", got.Realized)
	}
}

func TestNormalizedTradePnlOpenCarriesFees(t *testing.T) {
	m := NewMultiplierTable()
	tr := models.Trade{
		Symbol: "AAPL", AssetClass: "stocks", Side: "buy",
		Quantity: 10, EntryPrice: 100, Fees: 1.5, Status: "open",
	}

	got := NormalizedTradePnl(&tr, m)
	if got.Realized != 0 {
		t.Errorf("Open trades have no realized pnl, got %f", got.Realized)
	}
	if got.Net != -1.5 {
		t.Errorf("Open trades still pay fees, got %f", got.Net)
	}
}

func TestFuturesMultiplierLongestPrefix(t *testing.T) {
	m := NewMultiplierTable()
	cases := []struct {
		symbol string
		want   float64
	}{
		{"ESZ5", 50},
		{"MESZ5", 5},
		{"MNQH26", 2},
		{"6EU5", 125000},
		{"UNKNOWN", 1},
	}
	for _, c := range cases {
		if got := m.Multiplier("futures", c.symbol); got != c.want {
			t.Errorf("Multiplier(futures, %q) = %f, expected %f", c.symbol, got, c.want)
		}
	}
}

func TestMultiplierNonFutures(t *testing.T) {
	m := NewMultiplierTable()
	if got := m.Multiplier("stocks", "AAPL"); got != 1 {
		t.Errorf("Expected 1 for stocks, got %f", got)
	}
	if got := m.Multiplier("crypto", "BTC-USD"); got != 1 {
		t.Errorf("Expected 1 for crypto, got %f", got)
	}
	if got := m.Multiplier("option", "AAPL"); got != 100 {
		t.Errorf("Expected 100 for option singular alias, got %f", got)
	}
}
