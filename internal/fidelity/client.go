// Package fidelity drives the brokerage's web UI: login with branching
// second-factor paths, holdings retrieval, account enumeration and the
// multi-step order ticket. All operations are written against the
// browser capability interface; selectors live in one overridable table.
package fidelity

import (
	"time"

	"fidelity_bot/internal/browser"
	"fidelity_bot/internal/ledger"
)

const (
	loginURL     = "https://digital.fidelity.com/prgw/digital/login/full-page"
	summaryURL   = "https://digital.fidelity.com/ftgw/digital/portfolio/summary"
	positionsURL = "https://digital.fidelity.com/ftgw/digital/portfolio/positions"
	transferURL  = "https://digital.fidelity.com/ftgw/digital/transfer/?quicktransfer=cash-shares"
	tradeURL     = "https://digital.fidelity.com/ftgw/digital/trade-equity/index/orderEntry"
)

// Timeouts bounds every wait in the flows.
type Timeouts struct {
	Nav          time.Duration // full page navigations
	Spinner      time.Duration // each loading sign to hidden
	Widget       time.Duration // 2FA widget appearance
	SecondFactor time.Duration // post-code navigation to summary
	QuotePanel   time.Duration // quote panel after symbol entry
	Ticket       time.Duration // expanded ticket / place button
	ErrorText    time.Duration // error message extraction
	Confirm      time.Duration // final order acknowledgment
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Nav:          60 * time.Second,
		Spinner:      30 * time.Second,
		Widget:       5 * time.Second,
		SecondFactor: 5 * time.Second,
		QuotePanel:   2 * time.Second,
		Ticket:       5 * time.Second,
		ErrorText:    2 * time.Second,
		Confirm:      5 * time.Second,
	}
}

type Options struct {
	Times Timeouts
	// DropdownRetries is how many times the account dropdown is reopened
	// after a page reload when the wanted option did not render.
	DropdownRetries int
}

// Client is one logged-in (or logging-in) automation session over a
// single page. It exclusively owns its ledger.
type Client struct {
	page   browser.Page
	sel    *browser.Selectors
	ledger *ledger.Ledger
	times  Timeouts

	dropdownRetries int
}

func New(page browser.Page, sel *browser.Selectors, led *ledger.Ledger, opts Options) *Client {
	if opts.Times == (Timeouts{}) {
		opts.Times = DefaultTimeouts()
	}
	if opts.DropdownRetries <= 0 {
		opts.DropdownRetries = 1
	}
	return &Client{
		page:            page,
		sel:             sel,
		ledger:          led,
		times:           opts.Times,
		dropdownRetries: opts.DropdownRetries,
	}
}

// Ledger exposes the account map for the reporting layer. Read-only by
// convention; the flows are the only writers.
func (c *Client) Ledger() *ledger.Ledger { return c.ledger }

// ResetTicket reloads the page. Call between tickers: the order ticket
// keeps stale quote state otherwise.
func (c *Client) ResetTicket() error { return c.page.Reload() }

// waitForLoadingSign waits each known loading-spinner variant to the
// hidden state, in order.
func (c *Client) waitForLoadingSign() error {
	signs := []string{c.sel.SpinnerMask, c.sel.SpinnerInner, c.sel.SpinnerTag}
	for _, sign := range signs {
		if err := c.page.BySelector(sign).WaitHidden(c.times.Spinner); err != nil {
			return err
		}
	}
	return nil
}
