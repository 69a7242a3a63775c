package browser

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// pwPage adapts a playwright page to the Page capability interface.
// This is the only file that knows about the driver API.
type pwPage struct {
	p playwright.Page
}

func newPwPage(p playwright.Page) *pwPage { return &pwPage{p: p} }

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (w *pwPage) Goto(url string, timeout time.Duration) error {
	_, err := w.p.Goto(url, playwright.PageGotoOptions{Timeout: ms(timeout)})
	return errors.Wrapf(err, "goto %s", url)
}

func (w *pwPage) Reload() error {
	_, err := w.p.Reload()
	return errors.Wrap(err, "reload")
}

func (w *pwPage) URL() string { return w.p.URL() }

func (w *pwPage) WaitForURL(url string, timeout time.Duration) error {
	return w.p.WaitForURL(url, playwright.PageWaitForURLOptions{Timeout: ms(timeout)})
}

func (w *pwPage) WaitLoaded() error {
	return w.p.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	})
}

func (w *pwPage) Pause(d time.Duration) {
	w.p.WaitForTimeout(float64(d.Milliseconds()))
}

func (w *pwPage) ByLabel(label string, exact bool) Control {
	return &pwControl{loc: w.p.GetByLabel(label, playwright.PageGetByLabelOptions{
		Exact: playwright.Bool(exact),
	})}
}

func (w *pwPage) ByRole(role, name string, exact bool) Control {
	return &pwControl{loc: w.p.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	})}
}

func (w *pwPage) ByText(text string, exact bool) Control {
	return &pwControl{loc: w.p.GetByText(text, playwright.PageGetByTextOptions{
		Exact: playwright.Bool(exact),
	})}
}

func (w *pwPage) ByPlaceholder(placeholder string) Control {
	return &pwControl{loc: w.p.GetByPlaceholder(placeholder)}
}

func (w *pwPage) BySelector(selector string) Control {
	return &pwControl{loc: w.p.Locator(selector).First()}
}

func (w *pwPage) FilterByText(selector, text string) Control {
	return &pwControl{loc: w.p.Locator(selector).Filter(playwright.LocatorFilterOptions{
		HasText: text,
	})}
}

func (w *pwPage) Option(hasText string) Control {
	return &pwControl{loc: w.p.GetByRole("option").Filter(playwright.LocatorFilterOptions{
		HasText: hasText,
	})}
}

func (w *pwPage) Within(label, selector, hasText string, nth int) Control {
	loc := w.p.GetByLabel(label).
		Locator(selector).
		Filter(playwright.LocatorFilterOptions{HasText: hasText}).
		Nth(nth)
	return &pwControl{loc: loc}
}

func (w *pwPage) OptionTexts(label string) ([]string, error) {
	texts, err := w.p.GetByLabel(label).Locator("option").AllInnerTexts()
	return texts, errors.Wrapf(err, "options of %q", label)
}

func (w *pwPage) Download(dir string, trigger func() error) (string, error) {
	dl, err := w.p.ExpectDownload(trigger)
	if err != nil {
		return "", errors.Wrap(err, "waiting for download")
	}
	path := filepath.Join(dir, dl.SuggestedFilename())
	if err := dl.SaveAs(path); err != nil {
		return "", errors.Wrapf(err, "save download to %s", path)
	}
	return path, nil
}

type pwControl struct {
	loc playwright.Locator
}

func (c *pwControl) Click() error            { return c.loc.Click() }
func (c *pwControl) Fill(value string) error { return c.loc.Fill(value) }
func (c *pwControl) Press(key string) error  { return c.loc.Press(key) }
func (c *pwControl) Check() error            { return c.loc.Check() }

func (c *pwControl) IsChecked() (bool, error) { return c.loc.IsChecked() }

func (c *pwControl) IsVisible() bool {
	visible, err := c.loc.IsVisible()
	return err == nil && visible
}

func (c *pwControl) Text(timeout time.Duration) (string, error) {
	return c.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
}

func (c *pwControl) WaitVisible(timeout time.Duration) error {
	return c.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (c *pwControl) WaitHidden(timeout time.Duration) error {
	return c.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
}
