// backend/src/processors/cost_processor.go
package processors

import (
	"regexp"
	"sort"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

const bySymbolLimit = 50

var futuresRootRe = regexp.MustCompile(`^[A-Z]+`)

// CostProcessor breaks trading costs down by component, asset class,
// symbol, and the futures/options specific views.
type CostProcessor interface {
	Compute(trades []models.Trade) models.CostsResponse
}

type costProcessorImpl struct {
	multipliers *MultiplierTable
}

// NewCostProcessor creates a CostProcessor.
func NewCostProcessor(multipliers *MultiplierTable) CostProcessor {
	return &costProcessorImpl{multipliers: multipliers}
}

// Compute attributes fee components best-effort: when a trade carries no
// component columns at all, its whole fee counts as commissions. Slippage
// is reported unsupported unless at least one trade has a slippage or
// limit-price field; entry/exit efficiency needs market data we do not
// have, so it is always unsupported.
func (p *costProcessorImpl) Compute(trades []models.Trade) models.CostsResponse {
	totalFees := 0.0
	commissions := 0.0
	regulatory := 0.0
	exchange := 0.0
	byAsset := make(map[string]float64)
	bySymbol := make(map[string]float64)

	for i := range trades {
		t := &trades[i]
		f := t.Fees
		totalFees += f
		hasComponents := false
		if t.Commission != nil {
			commissions += *t.Commission
			hasComponents = true
		}
		if t.RegulatoryFees != nil {
			regulatory += *t.RegulatoryFees
			hasComponents = true
		}
		if t.ExchangeFees != nil {
			exchange += *t.ExchangeFees
			hasComponents = true
		}
		if !hasComponents {
			commissions += f
		}

		byAsset[assetClassOf(t)] += f
		bySymbol[strings.ToUpper(t.Symbol)] += f
	}

	feesSection := models.FeesSection{
		Total:        utils.RoundFloat(totalFees, 2),
		Commissions:  utils.RoundFloat(commissions, 2),
		Regulatory:   utils.RoundFloat(regulatory, 2),
		Exchange:     utils.RoundFloat(exchange, 2),
		ByAssetClass: feesGroups(byAsset, 0),
		BySymbol:     feesGroups(bySymbol, bySymbolLimit),
	}

	return models.CostsResponse{
		Fees:       feesSection,
		Slippage:   p.slippageSection(trades),
		Efficiency: models.EfficiencySection{},
		Futures:    p.futuresSection(trades),
		Options:    p.optionsSection(trades),
		Totals:     map[string]float64{"feesTotal": utils.RoundFloat(totalFees, 2)},
	}
}

func (p *costProcessorImpl) slippageSection(trades []models.Trade) models.SlippageSection {
	byAsset := make(map[string][]float64)
	bySymbol := make(map[string][]float64)
	supported := false

	for i := range trades {
		t := &trades[i]
		slip := t.Slippage
		if slip == nil && t.LimitPrice != nil && t.ExitPrice != nil {
			v := *t.ExitPrice - *t.LimitPrice
			slip = &v
		}
		if slip == nil {
			continue
		}
		supported = true
		byAsset[assetClassOf(t)] = append(byAsset[assetClassOf(t)], *slip)
		bySymbol[strings.ToUpper(t.Symbol)] = append(bySymbol[strings.ToUpper(t.Symbol)], *slip)
	}

	section := models.SlippageSection{
		Supported: supported,
		Scatter:   []any{},
	}
	for _, g := range sortedKeys(byAsset) {
		section.ByAssetClass = append(section.ByAssetClass, models.SlippageByGroup{Group: g, Avg: avg(byAsset[g])})
	}
	symbolGroups := sortedKeys(bySymbol)
	if len(symbolGroups) > bySymbolLimit {
		symbolGroups = symbolGroups[:bySymbolLimit]
	}
	for _, g := range symbolGroups {
		section.BySymbol = append(section.BySymbol, models.SlippageByGroup{Group: g, Avg: avg(bySymbol[g])})
	}
	if section.ByAssetClass == nil {
		section.ByAssetClass = []models.SlippageByGroup{}
	}
	if section.BySymbol == nil {
		section.BySymbol = []models.SlippageByGroup{}
	}
	return section
}

func (p *costProcessorImpl) futuresSection(trades []models.Trade) models.FuturesSection {
	type agg struct {
		net   float64
		count int
	}
	byRoot := make(map[string]*agg)
	byExpiry := make(map[string]*agg)

	for i := range trades {
		t := &trades[i]
		if assetClassOf(t) != "futures" {
			continue
		}
		sym := strings.ToUpper(t.Symbol)
		root := sym
		if m := futuresRootRe.FindString(sym); m != "" {
			root = m
		}
		comps := NormalizedTradePnl(t, p.multipliers)

		r, ok := byRoot[root]
		if !ok {
			r = &agg{}
			byRoot[root] = r
		}
		r.count++
		if t.RealizedPnl != nil {
			r.net += comps.Net
		}

		if t.Expiry != "" {
			e, ok := byExpiry[t.Expiry]
			if !ok {
				e = &agg{}
				byExpiry[t.Expiry] = e
			}
			e.count++
			if t.RealizedPnl != nil {
				e.net += comps.Net
			}
		}
	}

	section := models.FuturesSection{
		ByRoot:   []models.FuturesByRoot{},
		ByExpiry: []models.FuturesByExpiry{},
	}
	for _, root := range sortedKeys(byRoot) {
		a := byRoot[root]
		section.ByRoot = append(section.ByRoot, models.FuturesByRoot{
			Root:       root,
			NetPnl:     utils.RoundFloat(a.net, 2),
			TradeCount: a.count,
		})
	}
	for _, expiry := range sortedKeys(byExpiry) {
		a := byExpiry[expiry]
		section.ByExpiry = append(section.ByExpiry, models.FuturesByExpiry{
			Expiry:     expiry,
			NetPnl:     utils.RoundFloat(a.net, 2),
			TradeCount: a.count,
		})
	}
	return section
}

// optionsSection counts option trades into fixed days-to-expiry buckets
// measured from entry time to contract expiry.
func (p *costProcessorImpl) optionsSection(trades []models.Trade) models.OptionsSection {
	buckets := map[string]int{"0-7": 0, "8-30": 0, "31-90": 0, "90+": 0}

	for i := range trades {
		t := &trades[i]
		if assetClassOf(t) != "options" {
			continue
		}
		if t.Expiry == "" || t.EntryTime == "" {
			continue
		}
		expiry, err := utils.ParseISO(t.Expiry)
		if err != nil {
			continue
		}
		entry, err := utils.ParseISO(t.EntryTime)
		if err != nil {
			continue
		}
		dte := int(expiry.Sub(entry).Hours() / 24)
		switch {
		case dte <= 7:
			buckets["0-7"]++
		case dte <= 30:
			buckets["8-30"]++
		case dte <= 90:
			buckets["31-90"]++
		default:
			buckets["90+"]++
		}
	}

	return models.OptionsSection{
		ByDteBucket: []models.DteBucket{
			{Bucket: "0-7", TradeCount: buckets["0-7"]},
			{Bucket: "8-30", TradeCount: buckets["8-30"]},
			{Bucket: "31-90", TradeCount: buckets["31-90"]},
			{Bucket: "90+", TradeCount: buckets["90+"]},
		},
		ByMoneyness:        []any{},
		SupportedMoneyness: false,
	}
}

func assetClassOf(t *models.Trade) string {
	a := strings.ToLower(t.AssetClass)
	switch a {
	case "":
		return "stocks"
	case "stock":
		return "stocks"
	case "option":
		return "options"
	case "future":
		return "futures"
	}
	return a
}

func feesGroups(m map[string]float64, limit int) []models.FeesByGroup {
	groups := make([]models.FeesByGroup, 0, len(m))
	for g, v := range m {
		groups = append(groups, models.FeesByGroup{Group: g, Fees: utils.RoundFloat(v, 2)})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Fees != groups[j].Fees {
			return groups[i].Fees > groups[j].Fees
		}
		return groups[i].Group < groups[j].Group
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func avg(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return utils.RoundFloat(total/float64(len(vals)), 4)
}
