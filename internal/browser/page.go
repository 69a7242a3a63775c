// Package browser owns the scripted browser: the capability interface the
// flow state machines are written against, its playwright adapter, and the
// session lifecycle (launch, stealth, storage state, teardown).
//
// The flows never touch concrete selectors or the driver directly; they
// see only Page/Control. That keeps the UI brittleness in one place and
// lets tests drive the state machines with a scripted fake.
package browser

import "time"

// Control is one semantic UI control (a locator, resolved lazily).
type Control interface {
	Click() error
	Fill(value string) error
	Press(key string) error
	Check() error
	IsChecked() (bool, error)
	// IsVisible never blocks; lookup errors read as "not visible".
	IsVisible() bool
	Text(timeout time.Duration) (string, error)
	WaitVisible(timeout time.Duration) error
	WaitHidden(timeout time.Duration) error
}

// Page is the capability surface of a single browser page. Every wait
// takes an explicit bound; an unbounded wait is a defect.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Reload() error
	URL() string
	WaitForURL(url string, timeout time.Duration) error
	// WaitLoaded blocks until the document load event.
	WaitLoaded() error
	Pause(d time.Duration)

	ByLabel(label string, exact bool) Control
	ByRole(role, name string, exact bool) Control
	ByText(text string, exact bool) Control
	ByPlaceholder(placeholder string) Control
	// BySelector resolves a CSS selector to its first match.
	BySelector(selector string) Control
	// FilterByText narrows selector matches to those containing text.
	FilterByText(selector, text string) Control
	// Option is a listbox option containing the given text.
	Option(hasText string) Control
	// Within descends from a labeled region through selector, filters by
	// text and takes the nth match. Used for dialog error extraction.
	Within(label, selector, hasText string, nth int) Control
	// OptionTexts lists the <option> texts of a labeled select.
	OptionTexts(label string) ([]string, error)
	// Download runs trigger, waits for the resulting download and saves
	// it under dir with its suggested name. Returns the saved path.
	Download(dir string, trigger func() error) (string, error)
}
