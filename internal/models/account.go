package models

import "fmt"

// Position is a single holding inside one account.
type Position struct {
	Ticker    string
	Quantity  float64
	LastPrice float64
	Value     float64
}

// Validate rejects positions with an empty ticker or negative numbers.
// Rows failing this are logged and skipped, never merged into the ledger.
func (p Position) Validate() error {
	if p.Ticker == "" {
		return fmt.Errorf("position has empty ticker")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("position %s has negative quantity %v", p.Ticker, p.Quantity)
	}
	if p.LastPrice < 0 {
		return fmt.Errorf("position %s has negative last price %v", p.Ticker, p.LastPrice)
	}
	if p.Value < 0 {
		return fmt.Errorf("position %s has negative value %v", p.Ticker, p.Value)
	}
	return nil
}

// Account is one brokerage account as seen by the ledger.
type Account struct {
	Number    string
	Nickname  string
	Balance   float64
	Positions []Position
}
