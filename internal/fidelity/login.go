package fidelity

import (
	"strings"
	"time"

	"fidelity_bot/internal/models"
	"fidelity_bot/pkg/logger"

	"github.com/pquerna/otp/totp"
)

// Login runs the credential submission and second-factor branching.
//
// Terminal states:
//   - {LoggedIn: true, Completed: true}  — on the summary page.
//   - {LoggedIn: true, Completed: false} — an SMS code was requested;
//     call CompleteSecondFactor once the caller has it.
//   - zero status + FlowError            — the attempt failed.
//
// Nothing propagates past this boundary; every failure is typed.
func (c *Client) Login(creds models.Credentials) (models.LoginStatus, *models.FlowError) {
	status, ferr := c.login(creds)
	if ferr != nil {
		logger.Error("login for %s failed: %v", creds.Username, ferr)
		return models.LoginStatus{}, ferr
	}
	return status, nil
}

func (c *Client) login(creds models.Credentials) (models.LoginStatus, *models.FlowError) {
	if err := c.page.Goto(loginURL, c.times.Nav); err != nil {
		return models.LoginStatus{}, models.Timeoutf("login page navigation: %v", err)
	}

	// 1. Credentials
	user := c.page.ByLabel(c.sel.UsernameLabel, true)
	pass := c.page.ByLabel(c.sel.PasswordLabel, true)
	for _, step := range []func() error{
		user.Click,
		func() error { return user.Fill(creds.Username) },
		pass.Click,
		func() error { return pass.Fill(creds.Password) },
		c.page.ByRole("button", c.sel.LoginButton, false).Click,
	} {
		if err := step(); err != nil {
			return models.LoginStatus{}, models.Timeoutf("submit credentials: %v", err)
		}
	}

	// 2. Two spinners back to back; both must clear before the URL is
	// trustworthy. Observed consistently, do not remove the second wait.
	if err := c.waitForLoadingSign(); err != nil {
		return models.LoginStatus{}, models.Timeoutf("first loading sign: %v", err)
	}
	c.page.Pause(time.Second)
	if err := c.waitForLoadingSign(); err != nil {
		return models.LoginStatus{}, models.Timeoutf("second loading sign: %v", err)
	}

	// 3. Straight to summary: done.
	if strings.Contains(c.page.URL(), "summary") {
		return models.LoginStatus{LoggedIn: true, Completed: true}, nil
	}

	// 4. Still on the login page: second factor required.
	if strings.Contains(c.page.URL(), "login") {
		return c.secondFactor(creds)
	}

	return models.LoginStatus{}, models.UIContractf(
		"neither summary nor login page after submit, at %s", c.page.URL())
}

// secondFactor branches across the 2FA variants in priority order:
// TOTP, authenticator-only dead end, push-notification fallback, SMS.
func (c *Client) secondFactor(creds models.Credentials) (models.LoginStatus, *models.FlowError) {
	if err := c.waitForLoadingSign(); err != nil {
		return models.LoginStatus{}, models.Timeoutf("2fa loading sign: %v", err)
	}
	if err := c.page.BySelector(c.sel.TwoFAWidget).WaitVisible(c.times.Widget); err != nil {
		return models.LoginStatus{}, models.Timeoutf("2fa widget never appeared: %v", err)
	}

	// 4a. Authenticator code prompt and we hold the secret.
	if creds.TOTPSecret != "" && c.page.ByRole("heading", c.sel.CodeHeading, false).IsVisible() {
		code, err := totp.GenerateCode(creds.TOTPSecret, time.Now())
		if err != nil {
			return models.LoginStatus{}, models.Configf("TOTP secret rejected: %v", err)
		}

		field := c.page.ByPlaceholder(c.sel.CodePlaceholder)
		if err := field.Click(); err != nil {
			return models.LoginStatus{}, models.Timeoutf("focus code field: %v", err)
		}
		if err := field.Fill(code); err != nil {
			return models.LoginStatus{}, models.Timeoutf("fill code: %v", err)
		}
		if ferr := c.optOutOfFuturePrompts(); ferr != nil {
			return models.LoginStatus{}, ferr
		}
		if err := c.page.ByRole("button", c.sel.ContinueButton, false).Click(); err != nil {
			return models.LoginStatus{}, models.Timeoutf("submit code: %v", err)
		}

		if err := c.page.WaitForURL(summaryURL, c.times.SecondFactor); err != nil {
			return models.LoginStatus{}, models.Timeoutf("summary page after TOTP: %v", err)
		}
		return models.LoginStatus{LoggedIn: true, Completed: true}, nil
	}

	// 4b. Authenticator code is the only path but no secret configured.
	if c.page.ByText(c.sel.AuthAppOnlyText, false).IsVisible() {
		return models.LoginStatus{}, models.Configf(
			"authenticator app code required but no TOTP secret configured")
	}

	// 4c. Push-notification page: opt out first, then switch to SMS.
	if c.page.ByRole("link", c.sel.TryAnotherWay, false).IsVisible() {
		if ferr := c.optOutOfFuturePrompts(); ferr != nil {
			return models.LoginStatus{}, ferr
		}
		if err := c.page.ByRole("link", c.sel.TryAnotherWay, false).Click(); err != nil {
			return models.LoginStatus{}, models.Timeoutf("switch verification method: %v", err)
		}
	}

	// 4d. Request the SMS code and hand control back to the caller.
	if err := c.page.ByRole("button", c.sel.TextMeButton, false).Click(); err != nil {
		return models.LoginStatus{}, models.Timeoutf("request SMS code: %v", err)
	}
	if err := c.page.ByPlaceholder(c.sel.CodePlaceholder).Click(); err != nil {
		return models.LoginStatus{}, models.Timeoutf("focus SMS code field: %v", err)
	}
	return models.LoginStatus{LoggedIn: true, Completed: false}, nil
}

// CompleteSecondFactor finishes login with an SMS code obtained out of
// band. Bounded; returns a typed failure instead of raising.
func (c *Client) CompleteSecondFactor(code string) *models.FlowError {
	if err := c.page.ByPlaceholder(c.sel.CodePlaceholder).Fill(code); err != nil {
		return models.Timeoutf("fill SMS code: %v", err)
	}
	if ferr := c.optOutOfFuturePrompts(); ferr != nil {
		return ferr
	}
	if err := c.page.ByRole("button", c.sel.SubmitButton, false).Click(); err != nil {
		return models.Timeoutf("submit SMS code: %v", err)
	}
	if err := c.page.WaitForURL(summaryURL, c.times.SecondFactor); err != nil {
		return models.Timeoutf("summary page after SMS code: %v", err)
	}
	return nil
}

// optOutOfFuturePrompts checks the "don't ask me again" box and verifies
// it actually became checked. Continuing with it unchecked would silently
// misrepresent user intent, so an unchecked box is fatal.
func (c *Client) optOutOfFuturePrompts() *models.FlowError {
	box := c.page.FilterByText("label", c.sel.OptOutLabel)
	if err := box.Check(); err != nil {
		return models.UIContractf("check %q box: %v", c.sel.OptOutLabel, err)
	}
	checked, err := box.IsChecked()
	if err != nil || !checked {
		return models.UIContractf("cannot check %q box", c.sel.OptOutLabel)
	}
	return nil
}
