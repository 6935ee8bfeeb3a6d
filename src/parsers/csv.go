// backend/src/parsers/csv.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// Sample holds the headers and leading rows of an uploaded delimited file,
// enough for schema detection without parsing the whole upload.
type Sample struct {
	Headers []string
	Rows    []models.RawRow
}

// ReadSample reads the header row plus up to maxRows records. It strips a
// UTF-8 BOM and retries with a semicolon delimiter when comma parsing
// yields a single wide column, which covers most European exports.
func ReadSample(content []byte, maxRows int) (Sample, error) {
	content = bytes.TrimPrefix(content, utf8Bom)

	sample, err := readDelimited(content, ',', maxRows)
	if err == nil && len(sample.Headers) > 1 {
		return sample, nil
	}
	if semi, semiErr := readDelimited(content, ';', maxRows); semiErr == nil && len(semi.Headers) > 1 {
		return semi, nil
	}
	if err != nil {
		return Sample{}, fmt.Errorf("reading sample rows: %w", err)
	}
	return sample, nil
}

// ReadAll parses the entire file into raw rows keyed by original header.
func ReadAll(content []byte) ([]string, []models.RawRow, error) {
	content = bytes.TrimPrefix(content, utf8Bom)

	headers, rows, err := readAllDelimited(content, ',')
	if err == nil && len(headers) > 1 {
		return headers, rows, nil
	}
	if h, r, semiErr := readAllDelimited(content, ';'); semiErr == nil && len(h) > 1 {
		return h, r, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading file rows: %w", err)
	}
	return headers, rows, nil
}

func newReader(content []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

func readDelimited(content []byte, delim rune, maxRows int) (Sample, error) {
	r := newReader(content, delim)
	headers, err := r.Read()
	if err != nil {
		return Sample{}, err
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []models.RawRow
	for len(rows) < maxRows {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, recordToRow(headers, record))
	}
	return Sample{Headers: headers, Rows: rows}, nil
}

func readAllDelimited(content []byte, delim rune) ([]string, []models.RawRow, error) {
	r := newReader(content, delim)
	headers, err := r.Read()
	if err != nil {
		return nil, nil, err
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []models.RawRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, recordToRow(headers, record))
	}
	return headers, rows, nil
}

func recordToRow(headers, record []string) models.RawRow {
	row := make(models.RawRow, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		}
	}
	return row
}
