package fidelity

import (
	"strconv"
	"strings"

	"fidelity_bot/internal/helper"
	"fidelity_bot/internal/models"
)

// SubmitOrder drives the order ticket end to end for one order: account
// selection, symbol lookup, order-type decision, preview validation and
// final placement. Dry orders stop after the preview checks.
//
// Every failure point produces a typed result; nothing propagates past
// this boundary.
func (c *Client) SubmitOrder(o models.Order) models.OrderResult {
	// 1. Get on the order-entry page if not already there.
	if err := c.page.WaitLoaded(); err != nil {
		return models.OrderFailed(models.Timeoutf("trade page load: %v", err), o.Dry)
	}
	if c.page.URL() != tradeURL {
		if err := c.page.Goto(tradeURL, c.times.Nav); err != nil {
			return models.OrderFailed(models.Timeoutf("trade page navigation: %v", err), o.Dry)
		}
	}

	// 2. Pick the target account. The dropdown occasionally renders
	// empty; reload and reopen up to the configured retry bound.
	if ferr := c.selectAccount(o.Account); ferr != nil {
		return models.OrderFailed(ferr, o.Dry)
	}

	// 3. Enter the symbol and read the last traded price off the quote
	// panel.
	lastPrice, ferr := c.lookupSymbol(o.Ticker)
	if ferr != nil {
		return models.OrderFailed(ferr, o.Dry)
	}

	// 4. Expand the ticket when the collapsed variant is shown.
	expand := c.page.ByRole("button", c.sel.ExpandTicket, false)
	if expand.IsVisible() {
		if err := expand.Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("expand ticket: %v", err), o.Dry)
		}
		if err := c.page.ByRole("button", c.sel.CalculateShares, false).WaitVisible(c.times.Ticket); err != nil {
			return models.OrderFailed(models.Timeoutf("expanded ticket never settled: %v", err), o.Dry)
		}
	}

	// 5. Extended hours: opt in when offered. Extended sessions round
	// limit prices to 2 decimals instead of 3.
	extended := false
	precision := 3
	if c.page.ByText(c.sel.ExtendedHours, false).IsVisible() {
		if off := c.page.ByText(c.sel.ExtendedHoursOff, false); off.IsVisible() {
			if err := off.Check(); err != nil {
				return models.OrderFailed(models.Timeoutf("enable extended hours: %v", err), o.Dry)
			}
		}
		extended = true
		precision = 2
	}

	// 6. Buy or sell. The ticket titles its options ("buy" -> "Buy").
	action := helper.Title(o.Action)
	if err := c.page.BySelector(c.sel.ActionLabel).Click(); err != nil {
		return models.OrderFailed(models.Timeoutf("open action list: %v", err), o.Dry)
	}
	actOpt := c.page.ByRole("option", action, true)
	if err := actOpt.WaitVisible(c.times.Ticket); err != nil {
		return models.OrderFailed(models.Timeoutf("action option %q: %v", action, err), o.Dry)
	}
	if err := actOpt.Click(); err != nil {
		return models.OrderFailed(models.Timeoutf("select action %q: %v", action, err), o.Dry)
	}

	// 7. Quantity.
	if err := c.page.FilterByText(c.sel.QuantityContainer, c.sel.QuantityText).Click(); err != nil {
		return models.OrderFailed(models.Timeoutf("focus quantity: %v", err), o.Dry)
	}
	if err := c.page.ByText(c.sel.QuantityText, true).Fill(helper.FormatQty(o.Quantity)); err != nil {
		return models.OrderFailed(models.Timeoutf("fill quantity: %v", err), o.Dry)
	}

	// 8. Order type: limit for sub-dollar prices or extended sessions,
	// market otherwise.
	if useLimit(lastPrice, extended) {
		wanted := limitPrice(o.Action, lastPrice, precision)
		if err := c.page.BySelector(c.sel.OrderTypeButton).Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("open order-type list: %v", err), o.Dry)
		}
		if err := c.page.ByRole("option", c.sel.LimitOption, true).Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("select limit: %v", err), o.Dry)
		}
		if err := c.page.ByText(c.sel.LimitPriceText, true).Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("focus limit price: %v", err), o.Dry)
		}
		if err := c.page.ByLabel(c.sel.LimitPriceText, false).Fill(helper.FormatPrice(wanted)); err != nil {
			return models.OrderFailed(models.Timeoutf("fill limit price: %v", err), o.Dry)
		}
	} else {
		if err := c.page.BySelector(c.sel.OrderTypeContainer).Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("open order-type list: %v", err), o.Dry)
		}
		if err := c.page.ByRole("option", c.sel.MarketOption, true).Click(); err != nil {
			return models.OrderFailed(models.Timeoutf("select market: %v", err), o.Dry)
		}
	}

	// 9. Preview. If the place-order control never shows up, the ticket
	// is displaying an error; scrape it.
	if err := c.page.ByRole("button", c.sel.PreviewButton, false).Click(); err != nil {
		return models.OrderFailed(models.Timeoutf("preview order: %v", err), o.Dry)
	}
	place := c.page.ByRole("button", c.sel.PlaceButton, false)
	if err := place.WaitVisible(c.times.Ticket); err != nil {
		return models.OrderFailed(models.Rejectedf("%s", c.extractOrderError()), o.Dry)
	}

	// 10. The preview must reflect exactly what was asked for. A
	// mismatch here means a silently wrong submission — refuse it.
	if !c.previewMatches(o, action) {
		return models.OrderFailed(models.UIContractf("Order preview is not what is expected"), o.Dry)
	}

	// 11. Dry run: validated, stop before placement.
	if o.Dry {
		return models.OrderOK(true)
	}

	// 12. Place for real and wait for the acknowledgment.
	if err := place.Click(); err != nil {
		return models.OrderFailed(models.Timeoutf("place order: %v", err), o.Dry)
	}
	if err := c.page.ByText(c.sel.OrderReceived, true).WaitVisible(c.times.Confirm); err != nil {
		return models.OrderFailed(models.Timeoutf("timed out waiting for %q: %v", c.sel.OrderReceived, err), o.Dry)
	}
	return models.OrderOK(false)
}

func (c *Client) selectAccount(account string) *models.FlowError {
	wanted := strings.ToUpper(account)

	if err := c.page.BySelector(c.sel.AcctDropdown).Click(); err != nil {
		return models.Timeoutf("open account dropdown: %v", err)
	}
	for attempt := 0; !c.page.Option(wanted).IsVisible() && attempt < c.dropdownRetries; attempt++ {
		if err := c.page.Reload(); err != nil {
			return models.Timeoutf("reload for empty dropdown: %v", err)
		}
		if err := c.page.BySelector(c.sel.AcctDropdown).Click(); err != nil {
			return models.Timeoutf("reopen account dropdown: %v", err)
		}
	}
	if err := c.page.Option(wanted).Click(); err != nil {
		return models.Timeoutf("select account %s: %v", helper.MaskString(account), err)
	}
	return nil
}

func (c *Client) lookupSymbol(ticker string) (float64, *models.FlowError) {
	symbol := c.page.ByLabel(c.sel.SymbolLabel, false)
	if err := symbol.Click(); err != nil {
		return 0, models.Timeoutf("focus symbol: %v", err)
	}
	if err := symbol.Fill(ticker); err != nil {
		return 0, models.Timeoutf("fill symbol: %v", err)
	}
	if err := symbol.Press("Enter"); err != nil {
		return 0, models.Timeoutf("confirm symbol: %v", err)
	}

	if err := c.page.BySelector(c.sel.QuotePanel).WaitVisible(c.times.QuotePanel); err != nil {
		return 0, models.Timeoutf("quote panel for %s: %v", ticker, err)
	}
	raw, err := c.page.BySelector(c.sel.LastPrice).Text(c.times.QuotePanel)
	if err != nil {
		return 0, models.Timeoutf("read last price: %v", err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, "$", "")), 64)
	if err != nil {
		return 0, models.Dataf("last price %q is not numeric: %v", raw, err)
	}
	return price, nil
}

func (c *Client) previewMatches(o models.Order, action string) bool {
	return c.page.FilterByText(c.sel.PreviewRegion, strings.ToUpper(o.Account)).IsVisible() &&
		c.page.ByText("Symbol"+strings.ToUpper(o.Ticker), true).IsVisible() &&
		c.page.ByText("Action"+action, false).IsVisible() &&
		c.page.ByText("Quantity"+helper.FormatQty(o.Quantity), false).IsVisible()
}

// extractOrderError tries the two known error surfaces in order: the
// labeled error dialog's "critical" row, then the red inline alert. Any
// extracted text has its whitespace collapsed and the "critical" marker
// removed. Falls back to a generic message.
func (c *Client) extractOrderError() string {
	message := ""

	if text, err := c.page.Within(c.sel.ErrorLabel, "div", c.sel.ErrorFilter, 2).Text(c.times.ErrorText); err == nil {
		message = text
		_ = c.page.ByRole("button", c.sel.CloseDialog, false).Click()
	}
	if message == "" {
		if text, err := c.page.BySelector(c.sel.InlineAlert).Text(c.times.ErrorText); err == nil {
			message = text
			_ = c.page.ByRole("button", c.sel.CloseDialog, false).Click()
		}
	}

	if message == "" {
		return "Could not retrieve error message from popup"
	}
	return normalizeErrorText(message, c.sel.ErrorFilter)
}

// normalizeErrorText collapses runs of spaces, drops newlines and tabs
// (the scraped text is full of them) and strips the severity marker.
func normalizeErrorText(s, marker string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		switch r {
		case '\n', '\t':
			continue
		case ' ':
			if prevSpace {
				continue
			}
			prevSpace = true
		default:
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), marker, ""))
}

// useLimit: sub-dollar securities and extended sessions both require a
// limit order; everything else goes to market.
func useLimit(lastPrice float64, extended bool) bool {
	return lastPrice < 1 || extended
}

// limitOffset picks the price cushion: a cent normally, a hundredth of a
// cent for sub-dime securities.
func limitOffset(lastPrice float64) float64 {
	if lastPrice > 0.1 {
		return 0.01
	}
	return 0.0001
}

// limitPrice buys above and sells below the last price, rounded to the
// session's precision.
func limitPrice(action string, lastPrice float64, precision int) float64 {
	off := limitOffset(lastPrice)
	if strings.EqualFold(action, "buy") {
		return helper.RoundTo(lastPrice+off, precision)
	}
	return helper.RoundTo(lastPrice-off, precision)
}
