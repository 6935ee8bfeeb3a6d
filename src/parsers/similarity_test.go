package parsers

import "testing"

func TestJaroWinklerIdentical(t *testing.T) {
	if got := JaroWinkler("symbol", "symbol"); got != 1.0 {
		t.Errorf("Expected identical strings to score 1.0, got %f", got)
	}
}

func TestJaroWinklerEmpty(t *testing.T) {
	cases := []struct {
		s1, s2 string
	}{
		{"", "symbol"},
		{"symbol", ""},
	}
	for _, c := range cases {
		if got := JaroWinkler(c.s1, c.s2); got != 0.0 {
			t.Errorf("JaroWinkler(%q, %q) = %f, expected 0.0", c.s1, c.s2, got)
		}
	}
	// Two empty strings are identical, not dissimilar.
	if got := JaroWinkler("", ""); got != 1.0 {
		t.Errorf("JaroWinkler(\"\", \"\") = %f, expected 1.0", got)
	}
}

func TestJaroWinklerCloseHeaders(t *testing.T) {
	// Typical header drift should stay above the detection threshold.
	cases := []struct {
		s1, s2 string
		min    float64
	}{
		{"quantity", "quantitiy", 0.86},
		{"tradedate", "tradedates", 0.86},
		{"execution", "executiondate", 0.86},
	}
	for _, c := range cases {
		if got := JaroWinkler(c.s1, c.s2); got < c.min {
			t.Errorf("JaroWinkler(%q, %q) = %f, expected >= %f", c.s1, c.s2, got, c.min)
		}
	}
}

func TestJaroWinklerUnrelated(t *testing.T) {
	if got := JaroWinkler("symbol", "fees"); got >= 0.86 {
		t.Errorf("Expected unrelated headers below threshold, got %f", got)
	}
}

func TestJaroWinklerPrefixBonus(t *testing.T) {
	plain := jaro("symbols", "symbolx")
	boosted := JaroWinkler("symbols", "symbolx")
	if boosted <= plain {
		t.Errorf("Expected prefix bonus to raise score: jaro=%f winkler=%f", plain, boosted)
	}
	if boosted > 1.0 {
		t.Errorf("Score must not exceed 1.0, got %f", boosted)
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Comm/Fee", "commfee"},
		{" Trade Date ", "tradedate"},
		{"T. Price", "tprice"},
		{"REGULATORY-FEES", "regulatoryfees"},
		{"Größe", "gre"},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Errorf("NormalizeHeader(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}
