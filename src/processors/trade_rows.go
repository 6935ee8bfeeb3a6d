// backend/src/processors/trade_rows.go
package processors

import (
	"math"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

// TradeRows projects round trips into the flat per-trade rows served for
// distribution and time-of-day charts. Net P&L here is the plain price
// difference minus fees; the multiplier-adjusted views come from the
// aggregate endpoints. Times are rendered in the user's timezone.
func TradeRows(trades []models.Trade, tz string) []models.TradeRow {
	if tz == "" {
		tz = "America/New_York"
	}

	rows := make([]models.TradeRow, 0, len(trades))
	for i := range trades {
		t := &trades[i]
		entryPrice := t.EntryPrice
		row := models.TradeRow{
			Symbol:     strings.ToUpper(t.Symbol),
			AssetClass: assetClassOf(t),
			Side:       t.Side,
			Quantity:   t.Quantity,
			EntryPrice: &entryPrice,
			ExitPrice:  t.ExitPrice,
			Fees:       t.Fees,
		}

		var entryAt, exitAt *string
		if t.EntryTime != "" {
			if at, err := utils.ParseISO(t.EntryTime); err == nil {
				s := utils.ToUserDate(at, tz).Format("2006-01-02T15:04:05-07:00")
				entryAt = &s
			}
		}
		if t.ExitTime != nil {
			if at, err := utils.ParseISO(*t.ExitTime); err == nil {
				s := utils.ToUserDate(at, tz).Format("2006-01-02T15:04:05-07:00")
				exitAt = &s
			}
		}
		row.EntryTime = entryAt
		row.ExitTime = exitAt

		if t.ExitPrice != nil {
			realized := (*t.ExitPrice - t.EntryPrice) * t.Quantity
			net := realized - t.Fees
			row.NetPnl = &net
			if denom := math.Abs(t.EntryPrice * t.Quantity); denom != 0 {
				ret := (net / denom) * 100.0
				row.ReturnPct = &ret
			}
		}
		row.DurationMinutes = t.DurationMinutes

		rows = append(rows, row)
	}
	return rows
}
