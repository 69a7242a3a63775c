package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"

	"fidelity_bot/internal/browser"
	"fidelity_bot/internal/fidelity"
	"fidelity_bot/internal/ledger"
	"fidelity_bot/internal/models"
	"fidelity_bot/internal/modules/config"
	"fidelity_bot/internal/modules/health/service"
	"fidelity_bot/internal/notify"
	"fidelity_bot/pkg/logger"
)

const smsCodeLen = 6

// Runner walks every configured credential set through one full session:
// login (with the out-of-band code relay when needed), holdings
// retrieval, account enumeration, then either a holdings report or order
// submission depending on the mode. Sets run sequentially; a failed set
// never blocks the next one.
type Runner struct {
	cfg    *config.Config
	n      notify.Notifier
	health *service.State
}

func New(cfg *config.Config, n notify.Notifier, health *service.State) *Runner {
	return &Runner{cfg: cfg, n: n, health: health}
}

func (r *Runner) Run(ctx context.Context) error {
	sets, err := r.cfg.CredentialSets()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return fmt.Errorf("no credential sets configured, set FIDELITY")
	}

	sel, err := browser.LoadSelectors(r.cfg.SelectorsFile)
	if err != nil {
		return err
	}

	done := 0
	for i, creds := range sets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := fmt.Sprintf("Fidelity %d", i+1)
		if err := r.runSession(ctx, name, creds, sel); err != nil {
			logger.Error("%s: session failed: %v", name, err)
			r.n.Sendf("❌ %s: %v", name, err)
			continue
		}
		done++
	}

	logger.Info("runner: %d/%d sessions completed", done, len(sets))
	return nil
}

func (r *Runner) runSession(ctx context.Context, name string, creds models.Credentials, sel *browser.Selectors) error {
	sess, err := browser.Start(browser.Options{
		Headless:   r.cfg.Headless,
		Title:      name,
		ProfileDir: r.cfg.ProfileDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Stop(); err != nil {
			logger.Error("%s: session stop: %v", name, err)
		}
	}()

	cli := fidelity.New(sess.Page(), sel, ledger.New(), fidelity.Options{
		Times:           r.timeouts(),
		DropdownRetries: r.cfg.DropdownRetries,
	})

	if ferr := r.login(ctx, name, cli, creds); ferr != nil {
		return ferr
	}
	r.health.SetReady(true)
	r.health.TouchLogin(time.Now())
	r.health.SetSessions(r.health.Sessions() + 1)
	defer r.health.SetSessions(r.health.Sessions() - 1)

	span := opentracing.GlobalTracer().StartSpan("holdings")
	ferr := cli.RetrieveHoldings(r.cfg.DownloadDir)
	span.Finish()
	if ferr != nil {
		return ferr
	}
	if _, ferr := cli.EnumerateAccounts(true); ferr != nil {
		return ferr
	}

	switch strings.ToLower(r.cfg.Mode) {
	case "transaction":
		return r.transact(name, cli)
	default:
		r.reportHoldings(name, cli.Ledger())
		return nil
	}
}

// login authenticates one set, relaying an SMS code through the notifier
// when the flow stops at the text-me branch.
func (r *Runner) login(ctx context.Context, name string, cli *fidelity.Client, creds models.Credentials) error {
	span := opentracing.GlobalTracer().StartSpan("login")
	defer span.Finish()

	status, ferr := cli.Login(creds)
	if ferr != nil {
		return ferr
	}
	if status.Completed {
		logger.Info("%s: logged in", name)
		return nil
	}

	code, err := r.n.AwaitCode(ctx, name, smsCodeLen, r.cfg.Timeouts.OTPWait)
	if err != nil {
		return fmt.Errorf("await SMS code: %w", err)
	}
	if ferr := cli.CompleteSecondFactor(code); ferr != nil {
		return ferr
	}
	logger.Info("%s: logged in after SMS code", name)
	return nil
}

// transact submits the configured order for every ticker in every
// account. Sell orders skip accounts that do not hold the ticker.
func (r *Runner) transact(name string, cli *fidelity.Client) error {
	o := r.cfg.Order
	action := strings.ToLower(o.Action)

	for ti, ticker := range o.Tickers {
		if ti > 0 {
			// the ticket keeps stale quote state between symbols
			if err := cli.ResetTicket(); err != nil {
				return err
			}
		}
		r.n.Sendf("%s: %sing %v of %s", name, action, o.Quantity, ticker)

		for _, acct := range cli.Ledger().Numbers() {
			if action == "sell" {
				if _, held := cli.Ledger().Stocks(acct)[ticker]; !held {
					continue
				}
			}

			span := opentracing.GlobalTracer().StartSpan("order")
			res := cli.SubmitOrder(models.Order{
				Ticker:   ticker,
				Quantity: o.Quantity,
				Action:   action,
				Account:  acct,
				Dry:      o.Dry,
			})
			span.Finish()
			r.reportOrder(name, ticker, acct, res)
		}
	}
	return nil
}

func (r *Runner) timeouts() fidelity.Timeouts {
	t := r.cfg.Timeouts
	out := fidelity.Timeouts{
		Nav:          t.Nav,
		Spinner:      t.Spinner,
		Widget:       t.Widget,
		SecondFactor: t.SecondFactor,
		QuotePanel:   t.QuotePanel,
		Ticket:       t.Ticket,
		ErrorText:    t.ErrorText,
		Confirm:      t.Confirm,
	}
	if out == (fidelity.Timeouts{}) {
		return fidelity.DefaultTimeouts()
	}
	return out
}
