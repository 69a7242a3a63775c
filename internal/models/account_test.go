package models

import "testing"

func TestPositionValidate(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		wantErr bool
	}{
		{"valid", Position{Ticker: "NVDA", Quantity: 10, LastPrice: 240, Value: 2400}, false},
		{"zero values are fine", Position{Ticker: "WORTHLESS"}, false},
		{"empty ticker", Position{Quantity: 1, LastPrice: 1, Value: 1}, true},
		{"negative quantity", Position{Ticker: "NVDA", Quantity: -1}, true},
		{"negative price", Position{Ticker: "NVDA", LastPrice: -1}, true},
		{"negative value", Position{Ticker: "NVDA", Value: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.pos.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlowErrorFormat(t *testing.T) {
	e := Timeoutf("quote panel for %s", "NVDA")
	if e.Kind != FailTimeout {
		t.Errorf("kind = %v", e.Kind)
	}
	if got := e.Error(); got != "timeout: quote panel for NVDA" {
		t.Errorf("Error() = %q", got)
	}
}
