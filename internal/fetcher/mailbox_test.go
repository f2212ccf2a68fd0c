package fetcher

import "testing"

func TestParseHoldings(t *testing.T) {
	const statement = `ticker,units,value
aapl,10,"$1,234.56"
MSFT,2.5,402.10
,99,ignored
JUNK,not-a-number,1
NVDA,4
VTI,"1,250",250000
`
	holdings := parseHoldings([]byte(statement))

	if len(holdings) != 4 {
		t.Fatalf("parseHoldings() returned %d positions, want 4", len(holdings))
	}

	aapl, ok := holdings["AAPL"]
	if !ok {
		t.Fatal("parseHoldings() missing AAPL, ticker not upper-cased?")
	}
	if aapl.Units.String() != "10" {
		t.Errorf("AAPL units = %s, want 10", aapl.Units.String())
	}
	if aapl.Value.String() != "1234.56" {
		t.Errorf("AAPL value = %s, want 1234.56 after money cleanup", aapl.Value.String())
	}

	if msft := holdings["MSFT"]; msft.Units.String() != "2.5" {
		t.Errorf("MSFT units = %s, want 2.5", msft.Units.String())
	}

	// Value column is optional.
	nvda, ok := holdings["NVDA"]
	if !ok {
		t.Fatal("parseHoldings() dropped the row without a value column")
	}
	if !nvda.Value.IsZero() {
		t.Errorf("NVDA value = %s, want zero", nvda.Value.String())
	}

	// Comma-grouped unit counts parse too.
	if vti := holdings["VTI"]; vti.Units.String() != "1250" {
		t.Errorf("VTI units = %s, want 1250", vti.Units.String())
	}
}

func TestParseHoldingsLastRowWins(t *testing.T) {
	const statement = `AAPL,10,100
AAPL,12,120
`
	holdings := parseHoldings([]byte(statement))
	if len(holdings) != 1 {
		t.Fatalf("parseHoldings() returned %d positions, want 1", len(holdings))
	}
	if holdings["AAPL"].Units.String() != "12" {
		t.Errorf("AAPL units = %s, want 12 from the later row", holdings["AAPL"].Units.String())
	}
}

func TestParseHoldingsGarbage(t *testing.T) {
	if holdings := parseHoldings([]byte("not,a\"csv{{{")); len(holdings) != 0 {
		t.Fatalf("parseHoldings() returned %d positions from garbage, want 0", len(holdings))
	}
}
