package parsers

import "testing"

func TestReadSample(t *testing.T) {
	content := []byte("Symbol,Side,Quantity\nAAPL,buy,5\nMSFT,sell,2\nTSLA,buy,1\n")

	sample, err := ReadSample(content, 2)
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}
	if len(sample.Headers) != 3 {
		t.Fatalf("Expected 3 headers, got %v", sample.Headers)
	}
	if len(sample.Rows) != 2 {
		t.Errorf("Expected sampling capped at 2 rows, got %d", len(sample.Rows))
	}
	if sample.Rows[0]["Symbol"] != "AAPL" {
		t.Errorf("Expected rows keyed by original header, got %+v", sample.Rows[0])
	}
}

func TestReadSampleStripsBom(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Symbol,Side\nAAPL,buy\n")...)

	sample, err := ReadSample(content, 10)
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}
	if sample.Headers[0] != "Symbol" {
		t.Errorf("Expected BOM stripped from first header, got %q", sample.Headers[0])
	}
}

func TestReadSampleSemicolonFallback(t *testing.T) {
	content := []byte("Symbol;Side;Quantity\nSAP;buy;10\n")

	sample, err := ReadSample(content, 10)
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}
	if len(sample.Headers) != 3 {
		t.Fatalf("Expected semicolon retry to split headers, got %v", sample.Headers)
	}
	if sample.Rows[0]["Side"] != "buy" {
		t.Errorf("Unexpected row %+v", sample.Rows[0])
	}
}

func TestReadAll(t *testing.T) {
	content := []byte("Symbol,Side\nAAPL,buy\nMSFT,sell\n")

	headers, rows, err := ReadAll(content)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(headers) != 2 || len(rows) != 2 {
		t.Errorf("Expected 2 headers and 2 rows, got %d/%d", len(headers), len(rows))
	}
}
