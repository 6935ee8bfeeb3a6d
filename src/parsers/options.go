// backend/src/parsers/options.go
package parsers

import (
	"regexp"
	"strconv"
	"time"
)

// occSymbolRe matches compact OCC option symbols such as SPXW250702P06185000:
// root letters, YYMMDD expiry, C or P, then the strike times 1000 as 8 digits.
var occSymbolRe = regexp.MustCompile(`^([A-Za-z]+)(\d{6})([CP])(\d{8})$`)

// OptionContract is a decoded OCC-style option symbol.
type OptionContract struct {
	Underlying string
	Expiry     string // YYYY-MM-DD
	Strike     float64
	Right      string // call|put
}

// ParseOptionSymbol decodes a compact OCC option symbol. The second return
// is false when the symbol does not follow the OCC layout or the embedded
// expiry is not a real date.
func ParseOptionSymbol(symbol string) (OptionContract, bool) {
	m := occSymbolRe.FindStringSubmatch(symbol)
	if m == nil {
		return OptionContract{}, false
	}
	expiry, err := time.Parse("060102", m[2])
	if err != nil {
		return OptionContract{}, false
	}
	strikeRaw, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return OptionContract{}, false
	}
	right := "put"
	if m[3] == "C" {
		right = "call"
	}
	return OptionContract{
		Underlying: m[1],
		Expiry:     expiry.Format("2006-01-02"),
		Strike:     strikeRaw / 1000,
		Right:      right,
	}, true
}
