// backend/src/processors/monthly_pnl_processor.go
package processors

import (
	"time"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

// MonthlyPnlOptions tunes one monthly aggregation.
type MonthlyPnlOptions struct {
	Timezone string
	Start    string
	End      string
	Now      time.Time // zero value means time.Now()
}

// MonthlyPnlProcessor buckets closed trades into calendar months.
type MonthlyPnlProcessor interface {
	Compute(trades []models.Trade, opts MonthlyPnlOptions) models.MonthlyPnlResponse
}

type monthlyPnlProcessorImpl struct {
	multipliers *MultiplierTable
}

// NewMonthlyPnlProcessor creates a MonthlyPnlProcessor.
func NewMonthlyPnlProcessor(multipliers *MultiplierTable) MonthlyPnlProcessor {
	return &monthlyPnlProcessorImpl{multipliers: multipliers}
}

// Compute builds a contiguous month range, with the default window running
// 12 months back from now. Every month in range appears in the output,
// zero-filled when nothing closed in it; trades closing outside the range
// are dropped, not clamped to the edges.
func (p *monthlyPnlProcessorImpl) Compute(trades []models.Trade, opts MonthlyPnlOptions) models.MonthlyPnlResponse {
	tz := opts.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	userNow := utils.ToUserDate(now, tz)

	calStart := utils.StartOfDay(firstOfMonth(userNow).AddDate(0, 0, -365))
	if opts.Start != "" {
		if t, err := utils.ParseISO(opts.Start); err == nil {
			calStart = utils.StartOfDay(utils.ToUserDate(t, tz))
		}
	}
	calEnd := utils.StartOfDay(userNow)
	if opts.End != "" {
		if t, err := utils.ParseISO(opts.End); err == nil {
			calEnd = utils.StartOfDay(utils.ToUserDate(t, tz))
		}
	}
	calStart = firstOfMonth(calStart)
	calEnd = firstOfMonth(calEnd)

	var monthKeys []string
	for cur := calStart; !cur.After(calEnd); cur = cur.AddDate(0, 1, 0) {
		monthKeys = append(monthKeys, utils.MonthKey(cur))
	}

	type bucket struct {
		realized, fees, net float64
		count               int
	}
	buckets := make(map[string]*bucket, len(monthKeys))
	for _, k := range monthKeys {
		buckets[k] = &bucket{}
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
		k := utils.MonthKey(utils.ToUserDate(exitAt, tz))
		b, ok := buckets[k]
		if !ok {
			continue
		}
		comps := NormalizedTradePnl(t, p.multipliers)
		b.realized += comps.Realized
		b.fees += comps.Fees
		b.net += comps.Net
		b.count++
	}

	points := make([]models.MonthlyPnlPoint, 0, len(monthKeys))
	totals := map[string]float64{
		"realizedPnl":      0,
		"fees":             0,
		"netPnl":           0,
		"profitableMonths": 0,
		"losingMonths":     0,
		"avgMonthlyNet":    0,
	}
	for _, k := range monthKeys {
		b := buckets[k]
		realized := utils.RoundFloat(b.realized, 2)
		fees := utils.RoundFloat(b.fees, 2)
		net := utils.RoundFloat(b.net, 2)
		points = append(points, models.MonthlyPnlPoint{
			Month:        k,
			RealizedPnl:  realized,
			Fees:         fees,
			NetPnl:       net,
			TradeCount:   b.count,
			IsProfitable: net > 0,
		})
		totals["realizedPnl"] += realized
		totals["fees"] += fees
		totals["netPnl"] += net
		if net > 0 {
			totals["profitableMonths"]++
		} else if net < 0 {
			totals["losingMonths"]++
		}
	}

	if len(monthKeys) > 0 {
		totals["avgMonthlyNet"] = totals["netPnl"] / float64(len(monthKeys))
	}
	for k, v := range totals {
		totals[k] = utils.RoundFloat(v, 2)
	}

	return models.MonthlyPnlResponse{Months: points, Totals: totals}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
