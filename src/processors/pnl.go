// backend/src/processors/pnl.go
package processors

import (
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

// PnlComponents breaks one closed trade's P&L into the pieces the
// aggregators combine. Realized is multiplier-adjusted; Net subtracts fees.
type PnlComponents struct {
	Realized float64
	Fees     float64
	Net      float64
}

// NormalizedTradePnl computes multiplier-adjusted P&L for a trade.
// Sign convention: a buy entry profits when price rises, a sell entry
// (short) profits when it falls. Open trades contribute zero realized P&L
// but still carry their fees.
func NormalizedTradePnl(t *models.Trade, multipliers *MultiplierTable) PnlComponents {
	var exitPrice float64
	if t.ExitPrice != nil {
		exitPrice = *t.ExitPrice
	}

	sign := 1.0
	if strings.ToLower(t.Side) != "buy" {
		sign = -1.0
	}
	raw := (exitPrice - t.EntryPrice) * t.Quantity * sign
	if t.ExitPrice == nil {
		raw = 0
	}

	mult := multipliers.Multiplier(t.AssetClass, t.Symbol)
	realized := raw * mult
	return PnlComponents{
		Realized: realized,
		Fees:     t.Fees,
		Net:      realized - t.Fees,
	}
}
