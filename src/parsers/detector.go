// backend/src/parsers/detector.go
package parsers

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

// ErrSchemaNotDetected is returned when no catalogue pattern matches the
// file headers with any usable confidence.
var ErrSchemaNotDetected = errors.New("no matching schema detected")

const (
	simThreshold          = 0.86
	requiredMatchScore    = 1.0
	optionalMatchScore    = 0.5
	requiredAmbiguityPen  = 0.2
	optionalAmbiguityPen  = 0.1
	occContentCueScore    = 0.3
	hintBonus             = 0.2
	decimalWarningSample  = 50
	decimalWarningMessage = "Comma decimal detected; normalized to dot if needed"
)

var (
	// European decimal notation like "1.234,56" or "1 234,56".
	commaDecimalRe = regexp.MustCompile(`\d{1,3}(?:[.\s]\d{3})*,\d{2}$`)
	// OCC code at the end of a description cell, with or without the root.
	occInDescSuffixRe = regexp.MustCompile(`\s\d{6}[CP]\d{8}$`)
	occInDescFullRe   = regexp.MustCompile(`[A-Z]{1,5}\d{6}[CP]\d{8}$`)
)

// Detector scores file headers against an injected schema catalogue.
type Detector struct {
	patterns []models.SchemaPattern
}

// NewDetector builds a detector over the given catalogue.
func NewDetector(patterns []models.SchemaPattern) *Detector {
	return &Detector{patterns: patterns}
}

// Detect evaluates every catalogue pattern against the headers plus up to
// 50 sample rows and returns the best match. A hint from the user breaks
// exact ties and adds a score bonus but never forces a pattern.
func (d *Detector) Detect(headers []string, sampleRows []models.RawRow, hint models.DetectionHint) (models.DetectionResult, error) {
	if len(headers) == 0 {
		return models.DetectionResult{}, ErrSchemaNotDetected
	}

	hint.BrokerID = strings.ToLower(hint.BrokerID)
	hint.AssetClass = strings.ToLower(hint.AssetClass)

	// Webull option exports are recognizable by these two headers even
	// when the user gave no hint.
	if hasHeaderFold(headers, "total qty") && hasHeaderFold(headers, "filled time") {
		if hint.BrokerID == "" {
			hint.BrokerID = "webull"
		}
		if hint.AssetClass == "" {
			hint.AssetClass = "options"
		}
	}

	var (
		best         *models.SchemaPattern
		bestConf     = -1.0
		bestMap      map[string]string
		bestWarnings []string
	)

	for i := range d.patterns {
		pat := &d.patterns[i]
		conf, hmap, warns := d.scoreCandidate(headers, pat, hint, sampleRows)
		if pat.BrokerID == "webull" {
			for _, src := range headers {
				switch strings.ToLower(strings.TrimSpace(src)) {
				case "total qty":
					hmap[src] = "quantity"
				case "filled time":
					hmap[src] = "execTime"
				}
			}
		}
		hintMatch := hint.BrokerID == pat.BrokerID || hint.AssetClass == pat.AssetClass
		if conf > bestConf || (math.Abs(conf-bestConf) < 1e-6 && hintMatch) {
			bestConf = conf
			best = pat
			bestMap = hmap
			bestWarnings = warns
		}
	}

	if best == nil || len(bestMap) == 0 {
		return models.DetectionResult{}, ErrSchemaNotDetected
	}

	return models.DetectionResult{
		BrokerGuess: best.BrokerID,
		AssetGuess:  best.AssetClass,
		SchemaID:    best.SchemaID,
		Confidence:  math.Round(bestConf*10000) / 10000,
		HeaderMap:   bestMap,
		Warnings:    bestWarnings,
	}, nil
}

func (d *Detector) scoreCandidate(headers []string, pat *models.SchemaPattern, hint models.DetectionHint, sampleRows []models.RawRow) (float64, map[string]string, []string) {
	normHeaders := make([]string, len(headers))
	for i, h := range headers {
		normHeaders[i] = NormalizeHeader(h)
	}

	usedIndices := make(map[int]bool)
	score := 0.0
	total := float64(len(pat.Required)) + 0.5*float64(len(pat.Optional))
	headerMap := make(map[string]string)

	bestMatch := func(expected string) (int, float64) {
		e := NormalizeHeader(expected)
		bestI := -1
		bestSim := 0.0
		for i, fh := range normHeaders {
			if sim := JaroWinkler(e, fh); sim > bestSim {
				bestSim = sim
				bestI = i
			}
		}
		return bestI, bestSim
	}

	mapField := func(expected string, idx int) {
		target, ok := pat.FieldMap[expected]
		if !ok {
			target = expected
		}
		headerMap[headers[idx]] = target
	}

	for _, exp := range pat.Required {
		idx, sim := bestMatch(exp)
		if idx < 0 || sim < simThreshold {
			continue
		}
		if usedIndices[idx] {
			score -= requiredAmbiguityPen
		} else {
			usedIndices[idx] = true
			score += requiredMatchScore
			mapField(exp, idx)
		}
	}

	for _, exp := range pat.Optional {
		idx, sim := bestMatch(exp)
		if idx < 0 || sim < simThreshold {
			continue
		}
		if usedIndices[idx] {
			score -= optionalAmbiguityPen
		} else {
			usedIndices[idx] = true
			score += optionalMatchScore
			mapField(exp, idx)
		}
	}

	if pat.AssetClass == "options" && occInDescriptions(sampleRows) {
		score += occContentCueScore
	}

	if hint.BrokerID != "" && hint.BrokerID == pat.BrokerID {
		score += hintBonus
	}
	if hint.AssetClass != "" && hint.AssetClass == pat.AssetClass {
		score += hintBonus
	}

	confidence := score / math.Max(1.0, total)
	confidence = math.Max(0.0, math.Min(1.0, confidence))

	return confidence, headerMap, detectDecimalWarnings(sampleRows)
}

// occInDescriptions reports whether any description-like cell in the first
// 50 sample rows ends with an OCC option code.
func occInDescriptions(sampleRows []models.RawRow) bool {
	limit := min(len(sampleRows), decimalWarningSample)
	for _, row := range sampleRows[:limit] {
		for key, val := range row {
			switch NormalizeHeader(key) {
			case "description", "description1", "desc":
				if occInDescSuffixRe.MatchString(val) || occInDescFullRe.MatchString(val) {
					return true
				}
			}
		}
	}
	return false
}

// detectDecimalWarnings flags European comma-decimal notation in sample
// cells. One warning is enough; the normalizer handles the conversion.
func detectDecimalWarnings(sampleRows []models.RawRow) []string {
	limit := min(len(sampleRows), decimalWarningSample)
	for _, row := range sampleRows[:limit] {
		for _, v := range row {
			if commaDecimalRe.MatchString(strings.TrimSpace(v)) {
				return []string{decimalWarningMessage}
			}
		}
	}
	return nil
}

func hasHeaderFold(headers []string, want string) bool {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return true
		}
	}
	return false
}
