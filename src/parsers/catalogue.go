// backend/src/parsers/catalogue.go
package parsers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/username/tradejournal/backend/src/models"
)

// DefaultCatalogue returns the built-in broker schema patterns. The
// catalogue is plain data: callers may replace it wholesale with
// LoadCatalogue and an override file, but nothing mutates it at runtime.
func DefaultCatalogue() []models.SchemaPattern {
	return []models.SchemaPattern{
		{
			BrokerID:   "ibkr",
			AssetClass: "stocks",
			SchemaID:   "ibkr-trades-csv",
			Required:   []string{"symbol", "quantity", "tprice", "datetime"},
			Optional:   []string{"commfee", "proceeds", "basis", "realizedpl", "tradeid", "description", "assetcategory", "currency"},
			FieldMap: map[string]string{
				"symbol":        "symbol",
				"quantity":      "quantity",
				"tprice":        "price",
				"cprice":        "price",
				"datetime":      "execTime",
				"commfee":       "fees",
				"currency":      "currency",
				"orderid":       "orderId",
				"tradeid":       "tradeIdExternal",
				"account":       "accountIdExternal",
				"accountnumber": "accountIdExternal",
			},
		},
		{
			BrokerID:   "ibkr",
			AssetClass: "options",
			SchemaID:   "ibkr-trades-csv-options",
			Required:   []string{"symbol", "quantity", "tprice", "datetime"},
			Optional:   []string{"strike", "putcall", "expiration", "description", "commfee", "currency"},
			FieldMap: map[string]string{
				"symbol":     "symbol",
				"quantity":   "quantity",
				"tprice":     "price",
				"datetime":   "execTime",
				"commfee":    "fees",
				"putcall":    "right",
				"strike":     "strike",
				"expiration": "expiry",
				"currency":   "currency",
			},
		},
		{
			BrokerID:   "ibkr",
			AssetClass: "futures",
			SchemaID:   "ibkr-trades-csv-futures",
			Required:   []string{"symbol", "quantity", "tprice", "datetime"},
			Optional:   []string{"description", "commfee", "currency"},
			FieldMap: map[string]string{
				"symbol":   "symbol",
				"quantity": "quantity",
				"tprice":   "price",
				"datetime": "execTime",
				"commfee":  "fees",
				"currency": "currency",
			},
		},
		{
			BrokerID:   "schwab",
			AssetClass: "stocks",
			SchemaID:   "schwab-trades-csv",
			Required:   []string{"action", "symbol", "quantity", "price", "tradedate"},
			Optional:   []string{"feescomm", "amount", "order", "accountnumber", "settlementdate"},
			FieldMap: map[string]string{
				"symbol":        "symbol",
				"quantity":      "quantity",
				"price":         "price",
				"tradedate":     "execTime",
				"feescomm":      "fees",
				"order":         "orderId",
				"accountnumber": "accountIdExternal",
			},
		},
		{
			BrokerID:   "fidelity",
			AssetClass: "stocks",
			SchemaID:   "fidelity-trades-csv",
			Required:   []string{"symbol", "action", "quantity", "price", "settlementdate"},
			Optional:   []string{"commission", "fees", "amount", "exchange", "description"},
			FieldMap: map[string]string{
				"symbol":         "symbol",
				"quantity":       "quantity",
				"price":          "price",
				"settlementdate": "execTime",
				"commission":     "fees",
				"fees":           "fees",
			},
		},
		{
			BrokerID:   "etrade",
			AssetClass: "stocks",
			SchemaID:   "etrade-trades-csv",
			Required:   []string{"transactiondate", "symbol", "quantity", "price"},
			Optional:   []string{"commission", "fees", "amount", "action"},
			FieldMap: map[string]string{
				"symbol":          "symbol",
				"quantity":        "quantity",
				"price":           "price",
				"transactiondate": "execTime",
				"commission":      "fees",
				"fees":            "fees",
			},
		},
		{
			BrokerID:   "webull",
			AssetClass: "stocks",
			SchemaID:   "webull-trades-csv",
			Required:   []string{"symbol", "side", "quantity", "avgprice"},
			Optional:   []string{"timeplaced", "timeexecuted", "commission", "regulatoryfees", "amount"},
			FieldMap: map[string]string{
				"symbol":         "symbol",
				"quantity":       "quantity",
				"avgprice":       "price",
				"timeexecuted":   "execTime",
				"commission":     "fees",
				"regulatoryfees": "fees",
			},
		},
		{
			BrokerID:   "robinhood",
			AssetClass: "stocks",
			SchemaID:   "robinhood-trades-csv",
			Required:   []string{"date", "symbol", "side", "quantity", "price"},
			Optional:   []string{"time", "fees", "amount", "instrumenttype"},
			FieldMap: map[string]string{
				"symbol":   "symbol",
				"quantity": "quantity",
				"price":    "price",
				"date":     "execTime",
				"fees":     "fees",
			},
		},
		{
			BrokerID:   "tastytrade",
			AssetClass: "options",
			SchemaID:   "tastytrade-trades-csv",
			Required:   []string{"filltime", "symbol", "quantity", "price"},
			Optional:   []string{"fees", "commission", "netamount", "underlying", "description"},
			FieldMap: map[string]string{
				"symbol":     "symbol",
				"quantity":   "quantity",
				"price":      "price",
				"filltime":   "execTime",
				"fees":       "fees",
				"commission": "fees",
				"underlying": "underlying",
			},
		},
		{
			BrokerID:   "tradestation",
			AssetClass: "stocks",
			SchemaID:   "tradestation-trades-csv",
			Required:   []string{"executiondate", "symbol", "side", "quantity", "price"},
			Optional:   []string{"commission", "secfee", "nfafee"},
			FieldMap: map[string]string{
				"symbol":        "symbol",
				"quantity":      "quantity",
				"price":         "price",
				"executiondate": "execTime",
				"commission":    "fees",
				"secfee":        "fees",
				"nfafee":        "fees",
			},
		},
		{
			BrokerID:   "coinbase",
			AssetClass: "crypto",
			SchemaID:   "coinbase-trades-csv",
			Required:   []string{"timestamp", "product", "side", "size", "price"},
			Optional:   []string{"fee", "feecurrency", "total", "orderid"},
			FieldMap: map[string]string{
				"product":     "symbol",
				"size":        "quantity",
				"price":       "price",
				"timestamp":   "execTime",
				"fee":         "fees",
				"feecurrency": "currency",
				"orderid":     "orderId",
			},
		},
		{
			BrokerID:   "kraken",
			AssetClass: "crypto",
			SchemaID:   "kraken-trades-csv",
			Required:   []string{"timestamp", "market", "side", "amount", "price"},
			Optional:   []string{"fee", "feecurrency", "total", "orderid"},
			FieldMap: map[string]string{
				"market":      "symbol",
				"amount":      "quantity",
				"price":       "price",
				"timestamp":   "execTime",
				"fee":         "fees",
				"feecurrency": "currency",
			},
		},
		{
			BrokerID:   "binanceus",
			AssetClass: "crypto",
			SchemaID:   "binanceus-trades-csv",
			Required:   []string{"timestamp", "symbol", "side", "quantity", "price"},
			Optional:   []string{"fee", "feecurrency", "total", "orderid"},
			FieldMap: map[string]string{
				"symbol":      "symbol",
				"quantity":    "quantity",
				"price":       "price",
				"timestamp":   "execTime",
				"fee":         "fees",
				"feecurrency": "currency",
			},
		},
	}
}

// LoadCatalogue reads schema patterns from a JSON file. Used to override
// the built-in catalogue without a rebuild; an empty path keeps the default.
func LoadCatalogue(path string) ([]models.SchemaPattern, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema catalogue %s: %w", path, err)
	}
	var patterns []models.SchemaPattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("parsing schema catalogue %s: %w", path, err)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("schema catalogue %s contains no patterns", path)
	}
	return patterns, nil
}
