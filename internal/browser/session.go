package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"fidelity_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// Session owns one authenticated browser context end to end: engine,
// browser, context, page. Resources are released in strict reverse order
// of acquisition; Stop persists the storage state first.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	profilePath string
}

type Options struct {
	Headless bool
	// Title distinguishes storage blobs between credential sets
	// ("Fidelity 1" -> Fidelity_Fidelity 1.json). Empty means the
	// shared profile with no state reuse.
	Title      string
	ProfileDir string
}

// Start launches the engine and a stealth-configured Firefox, restoring
// the storage blob for this profile identity when one exists. The blob
// file is created empty when absent.
func Start(opts Options) (*Session, error) {
	s := &Session{}

	dir, err := filepath.Abs(opts.ProfileDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve profile dir")
	}
	if opts.Title != "" {
		s.profilePath = filepath.Join(dir, fmt.Sprintf("Fidelity_%s.json", opts.Title))
	} else {
		s.profilePath = filepath.Join(dir, "Fidelity.json")
	}

	if _, err := os.Stat(s.profilePath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(s.profilePath), 0o755); err != nil {
			return nil, errors.Wrap(err, "create profile dir")
		}
		empty, _ := sonic.Marshal(map[string]any{})
		if err := os.WriteFile(s.profilePath, empty, 0o600); err != nil {
			return nil, errors.Wrap(err, "write empty storage blob")
		}
	}

	s.pw, err = playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "start driver")
	}

	s.browser, err = s.pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-webgl", "--disable-software-rasterizer"},
	})
	if err != nil {
		s.cleanup()
		return nil, errors.Wrap(err, "launch browser")
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.Title != "" {
		ctxOpts.StorageStatePath = playwright.String(s.profilePath)
	}
	s.context, err = s.browser.NewContext(ctxOpts)
	if err != nil {
		s.cleanup()
		return nil, errors.Wrap(err, "new context")
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		s.cleanup()
		return nil, errors.Wrap(err, "new page")
	}

	if err := s.page.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		s.cleanup()
		return nil, errors.Wrap(err, "apply stealth script")
	}

	return s, nil
}

// Page exposes the session's single page through the capability interface.
func (s *Session) Page() Page { return newPwPage(s.page) }

// Persist serializes the current storage state over the profile blob.
// Idempotent; safe to call any number of times.
func (s *Session) Persist() error {
	state, err := s.context.StorageState()
	if err != nil {
		return errors.Wrap(err, "read storage state")
	}
	blob, err := sonic.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encode storage state")
	}
	if err := os.WriteFile(s.profilePath, blob, 0o600); err != nil {
		return errors.Wrap(err, "write storage blob")
	}
	return nil
}

// Stop persists the storage state, then releases everything innermost
// first: context, browser, engine. Runs all releases even when one fails.
func (s *Session) Stop() error {
	if err := s.Persist(); err != nil {
		logger.Error("session: persist on stop: %v", err)
	}
	return s.cleanup()
}

func (s *Session) cleanup() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.context != nil {
		keep(errors.Wrap(s.context.Close(), "close context"))
		s.context = nil
	}
	if s.browser != nil {
		keep(errors.Wrap(s.browser.Close(), "close browser"))
		s.browser = nil
	}
	if s.pw != nil {
		keep(errors.Wrap(s.pw.Stop(), "stop driver"))
		s.pw = nil
	}
	return firstErr
}
