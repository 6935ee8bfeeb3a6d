// backend/src/processors/roundtrip_processor.go
package processors

import (
	"sort"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

// RoundTripProcessor reconstructs round-trip trades from raw fills.
type RoundTripProcessor interface {
	Group(fills []models.NormalizedFill) []models.Trade
}

type roundTripProcessorImpl struct{}

// NewRoundTripProcessor creates a RoundTripProcessor.
func NewRoundTripProcessor() RoundTripProcessor {
	return &roundTripProcessorImpl{}
}

// Group pairs opening and closing fills greedily. Fills are ordered by
// (symbol, execTime, side); each unconsumed buy/sell fill scans forward
// for the first opposite-side fill of the same symbol with the exact same
// quantity and a strictly later timestamp. Timestamps are compared as parsed
// instants, since zoned and naive strings for the same symbol do not sort
// chronologically as text. The buy leg of a pair is always the entry, so
// short round trips carry a negative duration. Fills with no counterpart
// become open trades; sides other than buy/sell are ignored.
func (p *roundTripProcessorImpl) Group(fills []models.NormalizedFill) []models.Trade {
	type seqFill struct {
		fill  models.NormalizedFill
		at    time.Time
		timed bool
	}
	sorted := make([]seqFill, len(fills))
	for i, f := range fills {
		at, err := parseCanonicalTime(f.ExecTime)
		sorted[i] = seqFill{fill: f, at: at, timed: err == nil}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.fill.Symbol != b.fill.Symbol {
			return a.fill.Symbol < b.fill.Symbol
		}
		if a.timed && b.timed {
			if !a.at.Equal(b.at) {
				return a.at.Before(b.at)
			}
		} else if a.fill.ExecTime != b.fill.ExecTime {
			return a.fill.ExecTime < b.fill.ExecTime
		}
		return a.fill.Side < b.fill.Side
	})
	strictlyLater := func(a, b *seqFill) bool {
		if a.timed && b.timed {
			return a.at.After(b.at)
		}
		return a.fill.ExecTime > b.fill.ExecTime
	}

	trades := make([]models.Trade, 0, len(sorted))
	used := make([]bool, len(sorted))

	for i := range sorted {
		f := &sorted[i]
		if used[i] || (f.fill.Side != "buy" && f.fill.Side != "sell") {
			continue
		}
		matched := false
		for j := i + 1; j < len(sorted); j++ {
			f2 := &sorted[j]
			if used[j] {
				continue
			}
			if f2.fill.Symbol != f.fill.Symbol || f2.fill.Side == f.fill.Side ||
				f2.fill.Quantity != f.fill.Quantity || !strictlyLater(f2, f) {
				continue
			}
			entry, exit := &f.fill, &f2.fill
			if f.fill.Side != "buy" {
				entry, exit = &f2.fill, &f.fill
			}
			trades = append(trades, closedTrade(entry, exit))
			used[i] = true
			used[j] = true
			matched = true
			break
		}
		if !matched {
			trades = append(trades, openTrade(&f.fill))
			used[i] = true
		}
	}
	return trades
}

func closedTrade(entry, exit *models.NormalizedFill) models.Trade {
	realized := (exit.Price - entry.Price) * entry.Quantity
	exitPrice := exit.Price
	exitTime := exit.ExecTime

	var duration *float64
	if et, err1 := parseCanonicalTime(entry.ExecTime); err1 == nil {
		if xt, err2 := parseCanonicalTime(exit.ExecTime); err2 == nil {
			mins := xt.Sub(et).Minutes()
			duration = &mins
		}
	}

	return models.Trade{
		Symbol:          entry.Symbol,
		AssetClass:      entry.AssetClass,
		Broker:          entry.SourceBroker,
		Side:            entry.Side,
		Quantity:        entry.Quantity,
		EntryPrice:      entry.Price,
		ExitPrice:       &exitPrice,
		EntryTime:       entry.ExecTime,
		ExitTime:        &exitTime,
		RealizedPnl:     &realized,
		DurationMinutes: duration,
		Fees:            entry.Fees + exit.Fees,
		Expiry:          entry.Expiry,
		Status:          "closed",
		FillIDs:         []int64{entry.ID, exit.ID},
	}
}

func openTrade(f *models.NormalizedFill) models.Trade {
	return models.Trade{
		Symbol:     f.Symbol,
		AssetClass: f.AssetClass,
		Broker:     f.SourceBroker,
		Side:       f.Side,
		Quantity:   f.Quantity,
		EntryPrice: f.Price,
		EntryTime:  f.ExecTime,
		Fees:       f.Fees,
		Expiry:     f.Expiry,
		Status:     "open",
		FillIDs:    []int64{f.ID},
	}
}

var canonicalTimeLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseCanonicalTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range canonicalTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
