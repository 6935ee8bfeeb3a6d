package parsers

import "testing"

func TestParseOptionSymbol(t *testing.T) {
	c, ok := ParseOptionSymbol("SPXW250702P06185000")
	if !ok {
		t.Fatal("Expected SPXW250702P06185000 to decode")
	}
	if c.Underlying != "SPXW" {
		t.Errorf("Expected underlying SPXW, got %s", c.Underlying)
	}
	if c.Expiry != "2025-07-02" {
		t.Errorf("Expected expiry 2025-07-02, got %s", c.Expiry)
	}
	if c.Strike != 6185 {
		t.Errorf("Expected strike 6185, got %f", c.Strike)
	}
	if c.Right != "put" {
		t.Errorf("Expected put, got %s", c.Right)
	}
}

func TestParseOptionSymbolCall(t *testing.T) {
	c, ok := ParseOptionSymbol("AAPL250117C00150000")
	if !ok {
		t.Fatal("Expected AAPL250117C00150000 to decode")
	}
	if c.Underlying != "AAPL" || c.Right != "call" {
		t.Errorf("Expected AAPL call, got %s %s", c.Underlying, c.Right)
	}
	if c.Strike != 150 {
		t.Errorf("Expected strike 150, got %f", c.Strike)
	}
}

func TestParseOptionSymbolRejectsNonOcc(t *testing.T) {
	for _, s := range []string{"AAPL", "ES", "", "AAPL250117X00150000", "AAPL2501C00150000", "AAPL251345C00150000"} {
		if _, ok := ParseOptionSymbol(s); ok {
			t.Errorf("Expected %q to be rejected", s)
		}
	}
}
