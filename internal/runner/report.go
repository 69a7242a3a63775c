package runner

import (
	"fmt"
	"sort"
	"strings"

	"fidelity_bot/internal/helper"
	"fidelity_bot/internal/ledger"
	"fidelity_bot/internal/models"
)

// reportHoldings sends one message per account plus a portfolio summary.
// Account numbers are masked; the chat is not a secure channel.
func (r *Runner) reportHoldings(name string, led *ledger.Ledger) {
	for _, number := range led.Numbers() {
		acc, ok := led.Get(number)
		if !ok {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s — %s (%s), balance $%.2f\n",
			name, acc.Nickname, helper.MaskString(number), acc.Balance)
		for _, p := range acc.Positions {
			fmt.Fprintf(&b, "%s: %s @ $%s = $%.2f\n",
				p.Ticker, helper.FormatQty(p.Quantity), helper.FormatPrice(p.LastPrice), p.Value)
		}
		if len(acc.Positions) == 0 {
			b.WriteString("no holdings\n")
		}
		r.n.Send(strings.TrimRight(b.String(), "\n"))
	}

	summary := led.Summary()
	if len(summary) == 0 {
		return
	}
	tickers := make([]string, 0, len(summary))
	for t := range summary {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var b strings.Builder
	fmt.Fprintf(&b, "%s — totals across %d accounts\n", name, led.Len())
	for _, t := range tickers {
		p := summary[t]
		fmt.Fprintf(&b, "%s: %s = $%.2f\n", t, helper.FormatQty(p.Quantity), p.Value)
	}
	r.n.Send(strings.TrimRight(b.String(), "\n"))
}

func (r *Runner) reportOrder(name, ticker, acct string, res models.OrderResult) {
	masked := helper.MaskString(acct)
	switch {
	case res.OK && res.Dry:
		r.n.Sendf("✅ %s: DRY %s in %s validated, not placed", name, ticker, masked)
	case res.OK:
		r.n.Sendf("✅ %s: %s order in %s placed", name, ticker, masked)
	default:
		r.n.Sendf("❌ %s: %s in %s: %s", name, ticker, masked, res.Err.Msg)
	}
}
