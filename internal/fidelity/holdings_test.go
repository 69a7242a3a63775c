package fidelity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fidelity_bot/internal/browser"
	"fidelity_bot/internal/ledger"
	"fidelity_bot/internal/models"
)

const exportHeader = "Account Number,Account Name,Symbol,Description,Quantity,Last Price,Current Value\n"

func TestParsePositions(t *testing.T) {
	csv := exportHeader +
		"Z12345678,Individual,NVDA,NVIDIA CORP,10,$240.00,$2400.00\n" +
		"Z12345678,Individual,SPAXX,MONEY MARKET,,,\n" + // empty value, skipped
		"231234567,ROTH IRA,AAPL,APPLE INC,2,$150.00,$300.00\n" +
		"\"Brokerage services are provided by Fidelity and affiliates\",,,,,,\n"

	rows, ferr := parsePositions(strings.NewReader(csv))
	if ferr != nil {
		t.Fatalf("parsePositions: %v", ferr)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	want := models.Position{Ticker: "NVDA", Quantity: 10, LastPrice: 240, Value: 2400}
	if rows[0].Number != "Z12345678" || rows[0].Nickname != "Individual" || rows[0].Pos != want {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Pos.Ticker != "AAPL" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestParsePositionsRowRules(t *testing.T) {
	tests := []struct {
		name string
		row  string
		keep bool
	}{
		{"custodial account skipped", "Y1234567,Custodial,NVDA,NVIDIA,1,$10,$10", false},
		{"pending activity skipped", "Z12345678,Individual,Pending Activity,,,,$52.10", false},
		{"dash value skipped", "Z12345678,Individual,FCASH,CORE,-,-,-", false},
		{"kept", "Z12345678,Individual,NVDA,NVIDIA,1,$10,$10", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, ferr := parsePositions(strings.NewReader(exportHeader + tt.row + "\n"))
			if ferr != nil {
				t.Fatalf("parsePositions: %v", ferr)
			}
			if kept := len(rows) == 1; kept != tt.keep {
				t.Errorf("row kept = %v, want %v", kept, tt.keep)
			}
		})
	}
}

// "n/a" is a real zero-value holding and stays; an empty or dashed value
// is an unpriceable row and goes. The asymmetry is deliberate.
func TestParsePositionsNAVersusEmpty(t *testing.T) {
	csv := exportHeader +
		"Z12345678,Individual,WORTHLESS,DELISTED,5,,n/a\n" +
		"Z12345678,Individual,EMPTY,NO VALUE,5,$1.00,\n"

	rows, ferr := parsePositions(strings.NewReader(csv))
	if ferr != nil {
		t.Fatalf("parsePositions: %v", ferr)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Pos.Ticker != "WORTHLESS" || rows[0].Pos.Value != 0 || rows[0].Pos.LastPrice != 0 {
		t.Errorf("n/a row = %+v", rows[0].Pos)
	}
}

func TestParsePositionsDefaults(t *testing.T) {
	// blank last price falls back to the value, blank quantity to 1
	csv := exportHeader + "Z12345678,Individual,FCASH,CORE,,,$52.10\n"

	rows, ferr := parsePositions(strings.NewReader(csv))
	if ferr != nil {
		t.Fatalf("parsePositions: %v", ferr)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	p := rows[0].Pos
	if p.Quantity != 1 || p.LastPrice != 52.10 || p.Value != 52.10 {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestParsePositionsStopsAtDisclaimer(t *testing.T) {
	csv := exportHeader +
		"Z12345678,Individual,NVDA,NVIDIA,1,$10,$10\n" +
		"\"Date downloaded and provided by Fidelity\",,,,,,\n" +
		"Z99999999,Never,AAPL,APPLE,1,$10,$10\n"

	rows, ferr := parsePositions(strings.NewReader(csv))
	if ferr != nil {
		t.Fatalf("parsePositions: %v", ferr)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1 (trailer must stop the parse)", len(rows))
	}
}

func TestParsePositionsMissingColumn(t *testing.T) {
	csv := "Account Number,Account Name,Symbol,Description,Quantity,Last Price\n"
	_, ferr := parsePositions(strings.NewReader(csv))
	if ferr == nil || ferr.Kind != models.FailData {
		t.Fatalf("want FailData for missing column, got %v", ferr)
	}
}

func TestParsePositionsBOMHeader(t *testing.T) {
	csv := "\ufeff" + exportHeader + "Z12345678,Individual,NVDA,NVIDIA,1,$10,$10\n"
	rows, ferr := parsePositions(strings.NewReader(csv))
	if ferr != nil {
		t.Fatalf("parsePositions: %v", ferr)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestRetrieveHoldingsMergesLedger(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "Portfolio_Positions.csv")
	csv := exportHeader +
		"Z12345678,Individual,NVDA,NVIDIA,10,$240.00,$2400.00\n" +
		"Z12345678,Individual,AAPL,APPLE,2,$150.00,$300.00\n"
	if err := os.WriteFile(export, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	p := newFakePage()
	p.downloads = []string{export}
	led := ledger.New()
	c := New(p, browser.DefaultSelectors(), led, Options{})

	if ferr := c.RetrieveHoldings(dir); ferr != nil {
		t.Fatalf("RetrieveHoldings: %v", ferr)
	}

	acc, ok := led.Get("Z12345678")
	if !ok {
		t.Fatal("account not in ledger")
	}
	if len(acc.Positions) != 2 || acc.Balance != 2700 {
		t.Errorf("account = %+v", acc)
	}
	if _, err := os.Stat(export); !os.IsNotExist(err) {
		t.Error("export file was not removed")
	}
}
