// backend/src/processors/summary_cards_processor.go
package processors

import (
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

// SummaryCardsProcessor computes the dashboard headline numbers.
type SummaryCardsProcessor interface {
	Compute(trades []models.Trade) models.CardsSummary
}

type summaryCardsProcessorImpl struct {
	multipliers *MultiplierTable
}

// NewSummaryCardsProcessor creates a SummaryCardsProcessor.
func NewSummaryCardsProcessor(multipliers *MultiplierTable) SummaryCardsProcessor {
	return &summaryCardsProcessorImpl{multipliers: multipliers}
}

// Compute classifies trades as wins or losses by net P&L. WinRate is a
// percentage over all supplied trades, AvgLoss stays negative, and
// expectancy follows avgWin*wr - avgLoss*(1-wr) with wr in [0,1].
func (p *summaryCardsProcessorImpl) Compute(trades []models.Trade) models.CardsSummary {
	var wins, losses []float64
	realizedSum := 0.0
	feesSum := 0.0

	for i := range trades {
		comps := NormalizedTradePnl(&trades[i], p.multipliers)
		realizedSum += comps.Realized
		feesSum += comps.Fees
		if comps.Net > 0 {
			wins = append(wins, comps.Net)
		} else if comps.Net < 0 {
			losses = append(losses, comps.Net)
		}
	}

	tradeCount := len(trades)
	grossPnl := sum(wins) + sum(losses)
	netPnl := realizedSum - feesSum

	winRate := 0.0
	wr := 0.0
	if tradeCount > 0 {
		wr = float64(len(wins)) / float64(tradeCount)
		winRate = wr * 100
	}
	avgWin := 0.0
	if len(wins) > 0 {
		avgWin = sum(wins) / float64(len(wins))
	}
	avgLoss := 0.0
	if len(losses) > 0 {
		avgLoss = sum(losses) / float64(len(losses))
	}
	expectancy := avgWin*wr - avgLoss*(1-wr)

	return models.CardsSummary{
		RealizedPnl: utils.RoundFloat(realizedSum, 2),
		WinRate:     utils.RoundFloat(winRate, 2),
		AvgWin:      utils.RoundFloat(avgWin, 2),
		AvgLoss:     utils.RoundFloat(avgLoss, 2),
		Expectancy:  utils.RoundFloat(expectancy, 2),
		GrossPnl:    utils.RoundFloat(grossPnl, 2),
		Fees:        utils.RoundFloat(feesSum, 2),
		NetPnl:      utils.RoundFloat(netPnl, 2),
		TradeCount:  tradeCount,
	}
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
