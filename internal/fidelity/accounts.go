package fidelity

import (
	"regexp"
	"strings"

	"fidelity_bot/internal/models"
	"fidelity_bot/pkg/logger"
)

// accountOptionRe pulls the account number out of a transfer-dropdown
// option. The number is parenthesized, starts with the custodian prefix
// Z or a digit, and carries at least six more digits:
// "Individual (Z12345678)" -> Z12345678.
var accountOptionRe = regexp.MustCompile(`\(([Z0-9]\d{6,})\)`)

// parseAccountOption splits one dropdown option into account number and
// nickname (the text before the parenthesis). ok is false when either
// part is missing.
func parseAccountOption(option string) (number, nickname string, ok bool) {
	m := accountOptionRe.FindStringSubmatch(option)
	if m == nil {
		return "", "", false
	}
	i := strings.Index(option, "(")
	if i <= 0 {
		return "", "", false
	}
	return m[1], option[:i], true
}

// EnumerateAccounts reads the transfer page's source-account dropdown and
// registers every account found, with zero balance and no holdings, when
// not already present. This recovers accounts the positions export never
// shows. With mutate=false the ledger is left untouched and a fresh map
// is returned instead.
func (c *Client) EnumerateAccounts(mutate bool) (map[string]models.Account, *models.FlowError) {
	if err := c.page.WaitLoaded(); err != nil {
		return nil, models.Timeoutf("transfer page load: %v", err)
	}
	if err := c.page.Goto(transferURL, c.times.Nav); err != nil {
		return nil, models.Timeoutf("transfer page navigation: %v", err)
	}
	if err := c.waitForLoadingSign(); err != nil {
		return nil, models.Timeoutf("transfer loading sign: %v", err)
	}

	options, err := c.page.OptionTexts(c.sel.FromLabel)
	if err != nil {
		return nil, models.Timeoutf("read source-account options: %v", err)
	}

	local := make(map[string]models.Account)
	for _, option := range options {
		number, nickname, ok := parseAccountOption(option)
		if !ok {
			continue
		}
		if mutate {
			c.ledger.Set(models.Account{Number: number, Nickname: nickname}, false)
		} else {
			local[number] = models.Account{Number: number, Nickname: nickname}
		}
	}

	if mutate {
		logger.Info("accounts: dropdown enumeration done, ledger has %d accounts", c.ledger.Len())
		return nil, nil
	}
	return local, nil
}
