// backend/src/processors/fill_processor.go
package processors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers"
)

// Row-scoped import failures. The batch carries on past all of these.
var (
	ErrMissingRequiredField = errors.New("missing required fields (symbol/quantity/price/execTime)")
	ErrInvalidExecTime      = errors.New("invalid execTime")
	ErrNumericCoercion      = errors.New("could not coerce numeric value")
)

// europeanDecimalRe matches values like "1.234,56" that use comma decimals.
var europeanDecimalRe = regexp.MustCompile(`^\d{1,3}(?:[.\s]\d{3})*,\d{1,}$`)

// FillProcessor turns raw file rows into validated canonical fills with a
// stable content-addressed dedupe hash.
type FillProcessor interface {
	NormalizeRow(row models.RawRow, headerMap map[string]string) models.FillInput
	Finalize(brokerID, assetClass, accountKey string, in models.FillInput) (models.NormalizedFill, error)
}

type fillProcessorImpl struct{}

// NewFillProcessor creates a FillProcessor.
func NewFillProcessor() FillProcessor {
	return &fillProcessorImpl{}
}

// NormalizeRow maps a raw row through the detected header map and coerces
// values into typed fields. A present-but-unparseable quantity or price is
// recorded on the input so Finalize can report it as a coercion failure
// instead of a missing field; bad optional numerics just keep the zero value.
func (p *fillProcessorImpl) NormalizeRow(row models.RawRow, headerMap map[string]string) models.FillInput {
	in := models.FillInput{Raw: row}
	for src, target := range headerMap {
		val, ok := row[src]
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		switch target {
		case "symbol":
			in.Symbol = strings.TrimSpace(val)
		case "underlying":
			in.Underlying = strings.TrimSpace(val)
		case "expiry":
			in.Expiry = strings.TrimSpace(val)
		case "strike":
			if f, err := CoerceNumber(val); err == nil {
				in.Strike = f
			}
		case "right":
			in.Right = normalizeRight(val)
		case "quantity":
			if f, err := CoerceNumber(val); err == nil {
				in.Quantity = f
			} else {
				in.CoercionFailures = append(in.CoercionFailures, "quantity")
			}
		case "price":
			if f, err := CoerceNumber(val); err != nil {
				in.CoercionFailures = append(in.CoercionFailures, "price")
			} else if in.Price == 0 {
				in.Price = f
			}
		case "fees":
			// Several source columns may target fees; they accumulate.
			if f, err := CoerceNumber(val); err == nil {
				in.Fees += f
			}
		case "currency":
			in.Currency = strings.ToUpper(strings.TrimSpace(val))
		case "side":
			in.Side = strings.ToLower(strings.TrimSpace(val))
		case "execTime":
			in.ExecTime = strings.TrimSpace(val)
		case "orderId":
			in.OrderID = strings.TrimSpace(val)
		case "tradeIdExternal":
			in.TradeIDExternal = strings.TrimSpace(val)
		case "accountIdExternal":
			in.AccountIDExternal = strings.TrimSpace(val)
		case "notes":
			in.Notes = val
		}
	}

	// Options rows sometimes carry the whole contract in the symbol.
	if in.Underlying == "" {
		if c, ok := parsers.ParseOptionSymbol(strings.ToUpper(in.Symbol)); ok {
			in.Underlying = c.Underlying
			if in.Expiry == "" {
				in.Expiry = c.Expiry
			}
			if in.Strike == 0 {
				in.Strike = c.Strike
			}
			if in.Right == "" {
				in.Right = c.Right
			}
		}
	}
	return in
}

// Finalize validates an input fill and produces the canonical record.
// Validation order is fixed: required fields, then exec time, then numeric
// coercion, then the hash over broker|accountKey|execISO|SYMBOL|qty|price|orderId.
func (p *fillProcessorImpl) Finalize(brokerID, assetClass, accountKey string, in models.FillInput) (models.NormalizedFill, error) {
	failedCoercion := func(field string) bool {
		for _, f := range in.CoercionFailures {
			if f == field {
				return true
			}
		}
		return false
	}
	if in.Symbol == "" || in.ExecTime == "" ||
		(in.Quantity == 0 && !failedCoercion("quantity")) ||
		(in.Price == 0 && !failedCoercion("price")) {
		return models.NormalizedFill{}, ErrMissingRequiredField
	}
	execISO, err := ParseExecTime(in.ExecTime)
	if err != nil {
		return models.NormalizedFill{}, fmt.Errorf("%w: %q", ErrInvalidExecTime, in.ExecTime)
	}
	if len(in.CoercionFailures) > 0 {
		return models.NormalizedFill{}, fmt.Errorf("%w: %s", ErrNumericCoercion, strings.Join(in.CoercionFailures, ", "))
	}

	// Some brokers export sells as signed negative quantities. Direction is
	// carried by side only; quantity and price are stored positive.
	qty := math.Abs(in.Quantity)
	price := math.Abs(in.Price)

	sym := strings.ToUpper(in.Symbol)
	key := fmt.Sprintf("%s|%s|%s|%s|%.8f|%.8f|%s",
		brokerID, accountKey, execISO, sym, qty, price, in.OrderID)
	sum := sha256.Sum256([]byte(key))

	return models.NormalizedFill{
		SourceBroker:      brokerID,
		AssetClass:        assetClass,
		AccountID:         accountKey,
		AccountIDExternal: in.AccountIDExternal,
		Symbol:            sym,
		Underlying:        strings.ToUpper(in.Underlying),
		Expiry:            in.Expiry,
		Strike:            in.Strike,
		Right:             in.Right,
		Quantity:          qty,
		Price:             price,
		Fees:              math.Abs(in.Fees),
		Currency:          in.Currency,
		Side:              strings.ToLower(in.Side),
		ExecTime:          execISO,
		OrderID:           in.OrderID,
		TradeIDExternal:   in.TradeIDExternal,
		Notes:             in.Notes,
		Raw:               in.Raw,
		DedupeHash:        hex.EncodeToString(sum[:]),
	}, nil
}

// CoerceNumber parses broker-formatted numbers: leading "@" or "$" markers
// are stripped, and European comma decimals are converted to dot notation.
func CoerceNumber(val string) (float64, error) {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "@", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNumericCoercion)
	}
	if europeanDecimalRe.MatchString(s) {
		s = strings.NewReplacer(".", "", " ", "").Replace(s)
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumericCoercion, val)
	}
	return f, nil
}

var execTimeLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"01/02/2006 15:04:05", false},
	{"2006-01-02", false},
}

// ParseExecTime parses an execution timestamp and returns it in canonical
// ISO form. Inputs with an explicit zone keep their offset; naive inputs
// stay naive so the same input always hashes the same way.
func ParseExecTime(val string) (string, error) {
	s := strings.TrimSpace(val)
	s = strings.Replace(s, "Z", "+00:00", 1)
	for _, l := range execTimeLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if l.zoned {
			return t.Format("2006-01-02T15:04:05-07:00"), nil
		}
		return t.Format("2006-01-02T15:04:05"), nil
	}
	return "", fmt.Errorf("unrecognized timestamp %q", val)
}

func normalizeRight(val string) string {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "c", "call":
		return "call"
	case "p", "put":
		return "put"
	}
	return strings.ToLower(strings.TrimSpace(val))
}
