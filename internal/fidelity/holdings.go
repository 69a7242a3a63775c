package fidelity

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"fidelity_bot/internal/helper"
	"fidelity_bot/internal/models"
	"fidelity_bot/pkg/logger"
)

// requiredColumns must all be present in the positions export header.
// A subset is a fatal parse error; a superset is fine.
var requiredColumns = []string{
	"Account Number",
	"Account Name",
	"Symbol",
	"Description",
	"Quantity",
	"Last Price",
	"Current Value",
}

type positionRow struct {
	Number   string
	Nickname string
	Pos      models.Position
}

// RetrieveHoldings downloads the positions export, parses it and merges
// every accepted row into the ledger. The downloaded file is deleted
// afterwards; nothing persists.
//
// Accounts with no holdings (or pending-only activity) are invisible to
// the export — EnumerateAccounts fills that gap.
func (c *Client) RetrieveHoldings(workDir string) *models.FlowError {
	if err := c.page.WaitLoaded(); err != nil {
		return models.Timeoutf("positions page load: %v", err)
	}
	if err := c.page.Goto(positionsURL, c.times.Nav); err != nil {
		return models.Timeoutf("positions page navigation: %v", err)
	}
	if err := c.waitForLoadingSign(); err != nil {
		return models.Timeoutf("positions loading sign: %v", err)
	}

	path, err := c.page.Download(workDir, func() error {
		return c.page.ByLabel(c.sel.DownloadPositions, false).Click()
	})
	if err != nil {
		return models.Timeoutf("positions export download: %v", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return models.Dataf("open positions export: %v", err)
	}
	defer f.Close()

	rows, ferr := parsePositions(f)
	if ferr != nil {
		return ferr
	}

	for _, row := range rows {
		acc := models.Account{
			Number:    row.Number,
			Nickname:  row.Nickname,
			Balance:   row.Pos.Value,
			Positions: []models.Position{row.Pos},
		}
		// Create without overwrite; on an existing account merge instead.
		if !c.ledger.Set(acc, false) {
			c.ledger.AddPosition(row.Number, row.Pos)
		}
	}

	logger.Info("holdings: merged %d rows into %d accounts", len(rows), c.ledger.Len())
	return nil
}

// parsePositions applies the export row rules in order:
// empty account number -> skip; "and" in the account column marks the
// disclaimer trailer -> stop; custodian-managed accounts (Y prefix) ->
// skip; pending-activity rows and rows with an empty value -> skip;
// "n/a" value -> zero; blank last price falls back to the value; blank
// quantity defaults to 1 (single cash-equivalent positions).
//
// A row that still fails numeric parsing is logged and skipped; it never
// aborts the file.
func parsePositions(r io.Reader) ([]positionRow, *models.FlowError) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, models.Dataf("read export header: %v", err)
	}
	if len(header) > 0 {
		// The export is written with a BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, models.Dataf("positions export is missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i := col[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []positionRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("holdings: unreadable row skipped: %v", err)
			continue
		}

		number := field(record, "Account Number")
		if number == "" {
			continue
		}
		// The last rows are disclaimers.
		if strings.Contains(number, "and") {
			break
		}
		if number[0] == 'Y' {
			continue
		}

		val := helper.StripCurrency(field(record, "Current Value"))
		lastPrice := helper.StripCurrency(field(record, "Last Price"))
		quantity := strings.ReplaceAll(field(record, "Quantity"), "-", "")
		ticker := field(record, "Symbol")

		if strings.Contains(ticker, "Pending") {
			continue
		}
		if len(val) == 0 {
			continue
		}
		if strings.EqualFold(val, "n/a") {
			val = "0"
		}
		if len(lastPrice) == 0 {
			lastPrice = val
		}
		if len(quantity) == 0 {
			quantity = "1"
		}

		pos, err := buildPosition(ticker, quantity, lastPrice, val)
		if err != nil {
			logger.Error("holdings: row for %s skipped: %v", number, err)
			continue
		}
		rows = append(rows, positionRow{
			Number:   number,
			Nickname: field(record, "Account Name"),
			Pos:      pos,
		})
	}
	return rows, nil
}

func buildPosition(ticker, quantity, lastPrice, value string) (models.Position, error) {
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return models.Position{}, err
	}
	lp, err := strconv.ParseFloat(lastPrice, 64)
	if err != nil {
		return models.Position{}, err
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return models.Position{}, err
	}
	p := models.Position{Ticker: ticker, Quantity: q, LastPrice: lp, Value: v}
	return p, p.Validate()
}
