// Package ledger holds the in-memory account map built from scraped and
// downloaded data. One ledger is owned by exactly one browser session;
// there are no concurrent writers.
package ledger

import (
	"fidelity_bot/internal/models"
	"fidelity_bot/pkg/logger"
)

type Ledger struct {
	accounts map[string]*models.Account
	order    []string // account numbers in first-seen order
}

func New() *Ledger {
	return &Ledger{accounts: make(map[string]*models.Account)}
}

// Set creates an entry for acc.Number, or rewrites it when overwrite is
// true. With overwrite=false an existing account is left untouched and
// false is returned. Positions are validated first; an invalid position
// rejects the whole call.
func (l *Ledger) Set(acc models.Account, overwrite bool) bool {
	if !overwrite {
		if _, exists := l.accounts[acc.Number]; exists {
			return false
		}
	}

	for _, p := range acc.Positions {
		if err := p.Validate(); err != nil {
			logger.Error("ledger: rejecting account %s: %v", acc.Number, err)
			return false
		}
	}

	if _, exists := l.accounts[acc.Number]; !exists {
		l.order = append(l.order, acc.Number)
	}
	cp := acc
	cp.Positions = append([]models.Position(nil), acc.Positions...)
	l.accounts[acc.Number] = &cp
	return true
}

// AddPosition appends a position to an existing account and bumps its
// balance by the position's value. Returns false when the account is
// unknown or the position fails validation.
func (l *Ledger) AddPosition(number string, p models.Position) bool {
	acc, ok := l.accounts[number]
	if !ok {
		return false
	}
	if err := p.Validate(); err != nil {
		logger.Error("ledger: rejecting position for %s: %v", number, err)
		return false
	}
	acc.Positions = append(acc.Positions, p)
	acc.Balance += p.Value
	return true
}

func (l *Ledger) Get(number string) (models.Account, bool) {
	acc, ok := l.accounts[number]
	if !ok {
		return models.Account{}, false
	}
	return *acc, true
}

// Numbers returns account numbers in the order they were first observed.
func (l *Ledger) Numbers() []string {
	return append([]string(nil), l.order...)
}

func (l *Ledger) Len() int { return len(l.accounts) }

// Stocks returns ticker -> quantity for one account. Used to skip sell
// orders on accounts that do not hold the stock.
func (l *Ledger) Stocks(number string) map[string]float64 {
	acc, ok := l.accounts[number]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(acc.Positions))
	for _, p := range acc.Positions {
		out[p.Ticker] += p.Quantity
	}
	return out
}

// Summary aggregates positions by ticker across all accounts: quantity
// and value are summed, the last observed price wins. Pure read.
func (l *Ledger) Summary() map[string]models.Position {
	out := make(map[string]models.Position)
	for _, number := range l.order {
		for _, p := range l.accounts[number].Positions {
			agg, ok := out[p.Ticker]
			if !ok {
				out[p.Ticker] = p
				continue
			}
			agg.Quantity += p.Quantity
			agg.Value += p.Value
			agg.LastPrice = p.LastPrice
			out[p.Ticker] = agg
		}
	}
	return out
}
