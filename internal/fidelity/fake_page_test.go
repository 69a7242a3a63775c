package fidelity

import (
	"fmt"
	"time"

	"fidelity_bot/internal/browser"
)

// fakeControl is one scripted control. Zero value: visible, checkable,
// every action succeeds.
type fakeControl struct {
	visible bool
	checked bool
	text    string

	failClick bool
	failCheck bool
	failWait  bool

	clicks  int
	filled  []string
	pressed []string

	// onClick runs after a successful click; used to mutate page state
	// (URL changes, controls appearing).
	onClick func()
}

func (c *fakeControl) Click() error {
	if c.failClick {
		return fmt.Errorf("click refused")
	}
	c.clicks++
	if c.onClick != nil {
		c.onClick()
	}
	return nil
}

func (c *fakeControl) Fill(value string) error {
	c.filled = append(c.filled, value)
	return nil
}

func (c *fakeControl) Press(key string) error {
	c.pressed = append(c.pressed, key)
	return nil
}

func (c *fakeControl) Check() error {
	if c.failCheck {
		return fmt.Errorf("check refused")
	}
	c.checked = true
	return nil
}

func (c *fakeControl) IsChecked() (bool, error) { return c.checked, nil }

func (c *fakeControl) IsVisible() bool { return c.visible }

func (c *fakeControl) Text(time.Duration) (string, error) {
	if c.text == "" {
		return "", fmt.Errorf("no text")
	}
	return c.text, nil
}

func (c *fakeControl) WaitVisible(time.Duration) error {
	if c.failWait || !c.visible {
		return fmt.Errorf("never became visible")
	}
	return nil
}

func (c *fakeControl) WaitHidden(time.Duration) error {
	if c.failWait {
		return fmt.Errorf("never hid")
	}
	return nil
}

// fakePage maps lookup keys to scripted controls. Keys follow the lookup
// path: "label:Username", "role:button:Log in", "text:...", "css:...",
// "placeholder:XXXXXX", "filter:label:Don't ask...", "option:Z12345678",
// "within:Error".
type fakePage struct {
	url      string
	controls map[string]*fakeControl

	options   []string
	gotos     []string
	reloads   int
	downloads []string

	failGoto    bool
	waitURLFail bool
}

func newFakePage() *fakePage {
	return &fakePage{controls: map[string]*fakeControl{}}
}

// ctl returns the scripted control for key, creating an inert invisible
// one on first use so lookups never explode.
func (p *fakePage) ctl(key string) *fakeControl {
	c, ok := p.controls[key]
	if !ok {
		c = &fakeControl{}
		p.controls[key] = c
	}
	return c
}

// visible registers a visible control under key.
func (p *fakePage) visible(key string) *fakeControl {
	c := p.ctl(key)
	c.visible = true
	return c
}

func (p *fakePage) Goto(url string, _ time.Duration) error {
	if p.failGoto {
		return fmt.Errorf("navigation refused")
	}
	p.gotos = append(p.gotos, url)
	p.url = url
	return nil
}

func (p *fakePage) Reload() error {
	p.reloads++
	return nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) WaitForURL(url string, _ time.Duration) error {
	if p.waitURLFail {
		return fmt.Errorf("url never reached")
	}
	p.url = url
	return nil
}

func (p *fakePage) WaitLoaded() error { return nil }

func (p *fakePage) Pause(time.Duration) {}

func (p *fakePage) ByLabel(label string, _ bool) browser.Control {
	return p.ctl("label:" + label)
}

func (p *fakePage) ByRole(role, name string, _ bool) browser.Control {
	return p.ctl("role:" + role + ":" + name)
}

func (p *fakePage) ByText(text string, _ bool) browser.Control {
	return p.ctl("text:" + text)
}

func (p *fakePage) ByPlaceholder(placeholder string) browser.Control {
	return p.ctl("placeholder:" + placeholder)
}

func (p *fakePage) BySelector(selector string) browser.Control {
	return p.ctl("css:" + selector)
}

func (p *fakePage) FilterByText(selector, text string) browser.Control {
	return p.ctl("filter:" + selector + ":" + text)
}

func (p *fakePage) Option(hasText string) browser.Control {
	return p.ctl("option:" + hasText)
}

func (p *fakePage) Within(label, _, _ string, _ int) browser.Control {
	return p.ctl("within:" + label)
}

func (p *fakePage) OptionTexts(string) ([]string, error) {
	return p.options, nil
}

func (p *fakePage) Download(dir string, trigger func() error) (string, error) {
	if err := trigger(); err != nil {
		return "", err
	}
	if len(p.downloads) == 0 {
		return "", fmt.Errorf("no download scripted")
	}
	path := p.downloads[0]
	p.downloads = p.downloads[1:]
	return path, nil
}
