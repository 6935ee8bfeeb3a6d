// backend/src/models/trade.go
package models

// Trade is one reconstructed round trip: an opening fill paired with an
// exactly offsetting closing fill, or an unmatched fill reported as open.
// Pointer fields are nil while the trade is open. RealizedPnl here is the
// raw price difference times quantity; asset-class multipliers are applied
// by the analytics layer, not during reconstruction.
type Trade struct {
	Symbol          string   `json:"symbol"`
	AssetClass      string   `json:"assetClass"`
	Broker          string   `json:"broker,omitempty"`
	Side            string   `json:"side"`
	Quantity        float64  `json:"quantity"`
	EntryPrice      float64  `json:"entryPrice"`
	ExitPrice       *float64 `json:"exitPrice"`
	EntryTime       string   `json:"entryTime"`
	ExitTime        *string  `json:"exitTime"`
	RealizedPnl     *float64 `json:"realizedPnl"`
	DurationMinutes *float64 `json:"durationMinutes"`
	Fees            float64  `json:"fees"`
	Expiry          string   `json:"expiry,omitempty"`
	Status          string   `json:"status"` // open|closed
	FillIDs         []int64  `json:"fillIds"`

	// Optional cost attribution. Nil means the component was not reported,
	// not zero. Ingest collapses all fee columns into Fees, so round-trip
	// reconstruction leaves these nil and the cost report attributes the
	// whole Fees amount to commissions. They are populated only by callers
	// that build trades from already-attributed data, such as manual entry.
	Commission     *float64 `json:"commission,omitempty"`
	RegulatoryFees *float64 `json:"regulatoryFees,omitempty"`
	ExchangeFees   *float64 `json:"exchangeFees,omitempty"`
	Slippage       *float64 `json:"slippage,omitempty"`
	LimitPrice     *float64 `json:"limitPrice,omitempty"`
}

// TradeRow is the per-trade analytics projection served by the trades
// endpoint for distribution and time-of-day charts.
type TradeRow struct {
	Symbol          string   `json:"symbol"`
	AssetClass      string   `json:"assetClass"`
	Side            string   `json:"side,omitempty"`
	Quantity        float64  `json:"quantity"`
	EntryPrice      *float64 `json:"entryPrice"`
	ExitPrice       *float64 `json:"exitPrice"`
	Fees            float64  `json:"fees"`
	EntryTime       *string  `json:"entryTime"`
	ExitTime        *string  `json:"exitTime"`
	NetPnl          *float64 `json:"netPnl"`
	ReturnPct       *float64 `json:"returnPct"`
	DurationMinutes *float64 `json:"durationMinutes"`
}
