// backend/src/processors/multipliers.go
package processors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MultiplierTable resolves contract multipliers per asset class. Stocks and
// crypto are always 1, options are a fixed 100, and futures resolve by
// longest symbol-root prefix match against a static table, defaulting to 1.
type MultiplierTable struct {
	futures map[string]float64
}

// defaultFuturesMultipliers covers the CME/CBOT/NYMEX/COMEX contracts the
// supported brokers export, including the micro variants.
var defaultFuturesMultipliers = map[string]float64{
	"ES":  50,
	"MES": 5,
	"NQ":  20,
	"MNQ": 2,
	"YM":  5,
	"MYM": 0.5,
	"RTY": 50,
	"M2K": 5,
	"CL":  1000,
	"MCL": 100,
	"GC":  100,
	"MGC": 10,
	"SI":  5000,
	"NG":  10000,
	"ZB":  1000,
	"ZN":  1000,
	"ZF":  1000,
	"ZC":  50,
	"ZS":  50,
	"ZW":  50,
	"6E":  125000,
	"6J":  12500000,
	"6B":  62500,
	"HE":  400,
	"LE":  400,
}

// NewMultiplierTable builds the default table.
func NewMultiplierTable() *MultiplierTable {
	return &MultiplierTable{futures: defaultFuturesMultipliers}
}

// LoadMultiplierTable reads a futures multiplier override from a JSON file
// mapping symbol roots to multipliers. An empty path keeps the default.
func LoadMultiplierTable(path string) (*MultiplierTable, error) {
	if path == "" {
		return NewMultiplierTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading futures multipliers %s: %w", path, err)
	}
	var futures map[string]float64
	if err := json.Unmarshal(data, &futures); err != nil {
		return nil, fmt.Errorf("parsing futures multipliers %s: %w", path, err)
	}
	return &MultiplierTable{futures: futures}, nil
}

// Multiplier returns the contract multiplier for a symbol in an asset class.
func (m *MultiplierTable) Multiplier(assetClass, symbol string) float64 {
	switch strings.ToLower(assetClass) {
	case "option", "options":
		return 100
	case "future", "futures":
		return m.futuresMultiplier(symbol)
	default:
		return 1
	}
}

// futuresMultiplier finds the longest table root that prefixes the symbol.
// Contract symbols append month and year codes to the root (ESZ5, MNQH26),
// so ES must not shadow a lookup for MES and vice versa.
func (m *MultiplierTable) futuresMultiplier(symbol string) float64 {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	best := ""
	for root := range m.futures {
		if strings.HasPrefix(sym, root) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return 1
	}
	return m.futures[best]
}
