// backend/src/processors/equity_curve_processor.go
package processors

import (
	"time"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

// EquityCurveOptions tunes one equity curve computation.
type EquityCurveOptions struct {
	Timezone       string
	InitialBalance float64
	Start          string
	End            string
	Now            time.Time // zero value means time.Now()
}

// EquityCurveProcessor builds the daily equity curve from closed trades
// and cash flows.
type EquityCurveProcessor interface {
	Compute(trades []models.Trade, cashFlows []models.CashFlow, opts EquityCurveOptions) models.EquityCurveResponse
}

type equityCurveProcessorImpl struct {
	multipliers *MultiplierTable
}

// NewEquityCurveProcessor creates an EquityCurveProcessor using the given
// multiplier table.
func NewEquityCurveProcessor(multipliers *MultiplierTable) EquityCurveProcessor {
	return &equityCurveProcessorImpl{multipliers: multipliers}
}

// Compute aggregates net P&L by exit date in the user's timezone, folds in
// cash flows on their value dates, then walks the calendar one day at a
// time carrying the running equity forward through inactive days.
func (p *equityCurveProcessorImpl) Compute(trades []models.Trade, cashFlows []models.CashFlow, opts EquityCurveOptions) models.EquityCurveResponse {
	tz := opts.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	daily := make(map[string]float64)
	var firstClose, lastClose *time.Time

	track := func(sod time.Time) {
		if firstClose == nil || sod.Before(*firstClose) {
			t := sod
			firstClose = &t
		}
		if lastClose == nil || sod.After(*lastClose) {
			t := sod
			lastClose = &t
		}
	}

	for i := range trades {
		t := &trades[i]
		if t.ExitTime == nil {
			continue
		}
		exitAt, err := utils.ParseISO(*t.ExitTime)
		if err != nil {
			continue
		}
		sod := utils.StartOfDay(utils.ToUserDate(exitAt, tz))
		key := utils.DateKey(sod)
		comps := NormalizedTradePnl(t, p.multipliers)
		daily[key] += comps.Net
		track(sod)
	}

	for _, cf := range cashFlows {
		if cf.Date == "" {
			continue
		}
		cfAt, err := utils.ParseISO(cf.Date)
		if err != nil {
			continue
		}
		sod := utils.StartOfDay(utils.ToUserDate(cfAt, tz))
		daily[utils.DateKey(sod)] += cf.Amount
		track(sod)
	}

	today := utils.StartOfDay(utils.ToUserDate(now, tz))
	calStart := today
	if opts.Start != "" {
		if t, err := utils.ParseISO(opts.Start); err == nil {
			calStart = utils.StartOfDay(utils.ToUserDate(t, tz))
		}
	} else if firstClose != nil {
		calStart = *firstClose
	}
	calEnd := today
	if opts.End != "" {
		if t, err := utils.ParseISO(opts.End); err == nil {
			calEnd = utils.StartOfDay(utils.ToUserDate(t, tz))
		}
	} else if lastClose != nil {
		calEnd = *lastClose
	}
	if calEnd.Before(calStart) {
		calEnd = calStart
	}

	initialBalance := opts.InitialBalance
	points := make([]models.EquityCurvePoint, 0, int(calEnd.Sub(calStart).Hours()/24)+1)
	cumulative := 0.0
	for cur := calStart; !cur.After(calEnd); cur = cur.AddDate(0, 0, 1) {
		cumulative += daily[utils.DateKey(cur)]
		points = append(points, models.EquityCurvePoint{
			T:      utils.DateKey(cur),
			Equity: utils.RoundFloat(initialBalance+cumulative, 2),
		})
	}

	finalBalance := initialBalance
	if len(points) > 0 {
		finalBalance = points[len(points)-1].Equity
	}
	absoluteReturn := finalBalance - initialBalance
	pctReturn := 0.0
	if initialBalance != 0 {
		pctReturn = absoluteReturn / initialBalance
	}

	return models.EquityCurveResponse{
		Points:         points,
		InitialBalance: utils.RoundFloat(initialBalance, 2),
		FinalBalance:   utils.RoundFloat(finalBalance, 2),
		AbsoluteReturn: utils.RoundFloat(absoluteReturn, 2),
		PctReturn:      utils.RoundFloat(pctReturn, 6),
	}
}
