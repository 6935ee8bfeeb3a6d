// backend/src/models/analytics.go
package models

// AnalyticsFilters is the request body shared by all analytics endpoints.
type AnalyticsFilters struct {
	AccountIDs   []string `json:"accountIds,omitempty"`
	Start        string   `json:"start,omitempty"`
	End          string   `json:"end,omitempty"`
	AssetClasses []string `json:"assetClasses,omitempty"`
	Strategies   []string `json:"strategies,omitempty"`
	UserTimezone string   `json:"userTimezone,omitempty"`
}

// EquityCurveRequest adds the equity-specific knobs to the shared filters.
type EquityCurveRequest struct {
	AnalyticsFilters
	InitialBalance    float64 `json:"initialBalance,omitempty"`
	IncludeUnrealized bool    `json:"includeUnrealized,omitempty"`
}

// EquityCurvePoint is one calendar day of the equity curve.
type EquityCurvePoint struct {
	T      string  `json:"t"` // ISO date, start of day in the user's timezone
	Equity float64 `json:"equity"`
}

type EquityCurveResponse struct {
	Points         []EquityCurvePoint `json:"points"`
	InitialBalance float64            `json:"initialBalance"`
	FinalBalance   float64            `json:"finalBalance"`
	AbsoluteReturn float64            `json:"absoluteReturn"`
	PctReturn      float64            `json:"pctReturn"`
}

// MonthlyPnlPoint is one calendar month bucket; months with no closed
// trades still appear with zeros.
type MonthlyPnlPoint struct {
	Month        string  `json:"month"` // YYYY-MM
	RealizedPnl  float64 `json:"realizedPnl"`
	Fees         float64 `json:"fees"`
	NetPnl       float64 `json:"netPnl"`
	TradeCount   int     `json:"tradeCount"`
	IsProfitable bool    `json:"isProfitable"`
}

type MonthlyPnlResponse struct {
	Months []MonthlyPnlPoint  `json:"months"`
	Totals map[string]float64 `json:"totals"`
}

// CardsSummary feeds the dashboard headline cards. WinRate is a percentage
// (0..100); AvgLoss is negative by convention.
type CardsSummary struct {
	RealizedPnl float64 `json:"realizedPnl"`
	WinRate     float64 `json:"winRate"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`
	Expectancy  float64 `json:"expectancy"`
	GrossPnl    float64 `json:"grossPnl"`
	Fees        float64 `json:"fees"`
	NetPnl      float64 `json:"netPnl"`
	TradeCount  int     `json:"tradeCount"`
}

// FeesByGroup is one row of a fee breakdown table.
type FeesByGroup struct {
	Group string  `json:"group"`
	Fees  float64 `json:"fees"`
}

type SlippageByGroup struct {
	Group string  `json:"group"`
	Avg   float64 `json:"avg"`
}

type DteBucket struct {
	Bucket     string `json:"bucket"`
	TradeCount int    `json:"tradeCount"`
}

type FuturesByRoot struct {
	Root       string  `json:"root"`
	NetPnl     float64 `json:"netPnl"`
	TradeCount int     `json:"tradeCount"`
}

type FuturesByExpiry struct {
	Expiry     string  `json:"expiry"`
	NetPnl     float64 `json:"netPnl"`
	TradeCount int     `json:"tradeCount"`
}

type FeesSection struct {
	Total        float64       `json:"total"`
	Commissions  float64       `json:"commissions"`
	Regulatory   float64       `json:"regulatory"`
	Exchange     float64       `json:"exchange"`
	ByAssetClass []FeesByGroup `json:"byAssetClass"`
	BySymbol     []FeesByGroup `json:"bySymbol"`
}

type SlippageSection struct {
	Supported    bool              `json:"supported"`
	ByAssetClass []SlippageByGroup `json:"byAssetClass"`
	BySymbol     []SlippageByGroup `json:"bySymbol"`
	Scatter      []any             `json:"scatter"`
}

type EfficiencySide struct {
	Supported bool `json:"supported"`
}

type EfficiencySection struct {
	Entry EfficiencySide `json:"entry"`
	Exit  EfficiencySide `json:"exit"`
}

type FuturesSection struct {
	ByRoot   []FuturesByRoot   `json:"byRoot"`
	ByExpiry []FuturesByExpiry `json:"byExpiry"`
}

type OptionsSection struct {
	ByDteBucket        []DteBucket `json:"byDteBucket"`
	ByMoneyness        []any       `json:"byMoneyness"`
	SupportedMoneyness bool        `json:"supportedMoneyness"`
}

type CostsResponse struct {
	Fees       FeesSection        `json:"fees"`
	Slippage   SlippageSection    `json:"slippage"`
	Efficiency EfficiencySection  `json:"efficiency"`
	Futures    FuturesSection     `json:"futures"`
	Options    OptionsSection     `json:"options"`
	Totals     map[string]float64 `json:"totals"`
}

// CashFlow is a deposit, withdrawal or adjustment booked against the
// account; folded into the equity curve on its value date.
type CashFlow struct {
	ID        int64   `json:"id,omitempty"`
	AccountID string  `json:"accountId,omitempty"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Kind      string  `json:"kind,omitempty"` // deposit|withdrawal|adjustment
	Note      string  `json:"note,omitempty"`
}

// UserSettings holds the per-user preferences analytics reads.
type UserSettings struct {
	UserID         int64    `json:"userId"`
	InitialCapital *float64 `json:"initialCapital,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
}
