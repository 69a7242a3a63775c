package fidelity

import (
	"testing"

	"fidelity_bot/internal/models"
)

// orderPage scripts the happy-path ticket for NVDA at $240 in Z12345678.
func orderPage() *fakePage {
	p := newFakePage()
	p.visible("option:Z12345678")
	p.visible("css:#quote-panel")
	p.ctl("css:#eq-ticket__last-price > span.last-price").text = "$240.00"
	p.visible("role:option:Buy")
	p.visible("role:option:Sell")
	p.visible("role:button:Place order")
	p.visible("filter:preview:Z12345678")
	p.visible("text:SymbolNVDA")
	p.visible("text:ActionBuy")
	p.visible("text:Quantity5")
	p.visible("text:Order received")
	return p
}

func testOrder(dry bool) models.Order {
	return models.Order{
		Ticker:   "NVDA",
		Quantity: 5,
		Action:   "buy",
		Account:  "Z12345678",
		Dry:      dry,
	}
}

func TestSubmitOrderDryRun(t *testing.T) {
	p := orderPage()
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(true))
	if !res.OK || !res.Dry || res.Err != nil {
		t.Fatalf("res = %+v", res)
	}
	if p.ctl("role:button:Place order").clicks != 0 {
		t.Error("dry run clicked Place order")
	}
	if got := p.ctl("label:Symbol").filled; len(got) != 1 || got[0] != "NVDA" {
		t.Errorf("symbol filled = %v", got)
	}
	if got := p.ctl("text:Quantity").filled; len(got) != 1 || got[0] != "5" {
		t.Errorf("quantity filled = %v", got)
	}
	// $240 in regular hours is a market order
	if p.ctl("role:option:Market").clicks != 1 {
		t.Error("market order type was not selected")
	}
}

func TestSubmitOrderPlacesForReal(t *testing.T) {
	p := orderPage()
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(false))
	if !res.OK || res.Dry {
		t.Fatalf("res = %+v", res)
	}
	if p.ctl("role:button:Place order").clicks != 1 {
		t.Error("Place order was not clicked exactly once")
	}
}

func TestSubmitOrderPreviewMismatch(t *testing.T) {
	p := orderPage()
	p.ctl("text:Quantity5").visible = false
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(false))
	if res.OK || res.Err == nil {
		t.Fatalf("res = %+v", res)
	}
	if res.Err.Kind != models.FailUIContract {
		t.Errorf("kind = %v, want %v", res.Err.Kind, models.FailUIContract)
	}
	if res.Err.Msg != "Order preview is not what is expected" {
		t.Errorf("msg = %q", res.Err.Msg)
	}
	if p.ctl("role:button:Place order").clicks != 0 {
		t.Error("mismatched preview still clicked Place order")
	}
}

func TestSubmitOrderRejectedWithDialogError(t *testing.T) {
	p := orderPage()
	p.ctl("role:button:Place order").visible = false
	p.ctl("within:Error").text = "critical   Insufficient shares\n  available"
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(false))
	if res.OK || res.Err == nil || res.Err.Kind != models.FailRejected {
		t.Fatalf("res = %+v", res)
	}
	if res.Err.Msg != "Insufficient shares available" {
		t.Errorf("msg = %q", res.Err.Msg)
	}
	if p.ctl("role:button:Close dialog").clicks == 0 {
		t.Error("error dialog was not closed")
	}
}

func TestSubmitOrderRejectedWithoutMessage(t *testing.T) {
	p := orderPage()
	p.ctl("role:button:Place order").visible = false
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(false))
	if res.Err == nil || res.Err.Msg != "Could not retrieve error message from popup" {
		t.Fatalf("res = %+v", res)
	}
}

func TestSubmitOrderSubDollarUsesLimit(t *testing.T) {
	p := orderPage()
	p.ctl("css:#eq-ticket__last-price > span.last-price").text = "$0.50"
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(true))
	if !res.OK {
		t.Fatalf("res = %+v", res)
	}
	if p.ctl("role:option:Limit").clicks != 1 {
		t.Error("limit order type was not selected")
	}
	if got := p.ctl("label:Limit price").filled; len(got) != 1 || got[0] != "0.51" {
		t.Errorf("limit price filled = %v, want [0.51]", got)
	}
}

func TestSubmitOrderExtendedHours(t *testing.T) {
	p := orderPage()
	p.visible("text:Extended hours trading")
	toggle := p.visible("text:Extended hours trading: OffUntil 8:00 PM ET")
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(true))
	if !res.OK {
		t.Fatalf("res = %+v", res)
	}
	if !toggle.checked {
		t.Error("extended hours toggle was not enabled")
	}
	// extended sessions always go limit, rounded to cents
	if got := p.ctl("label:Limit price").filled; len(got) != 1 || got[0] != "240.01" {
		t.Errorf("limit price filled = %v, want [240.01]", got)
	}
}

func TestSubmitOrderDropdownRetry(t *testing.T) {
	p := orderPage()
	p.ctl("option:Z12345678").visible = false
	p.ctl("css:#quote-panel").visible = false // stop the flow after selection
	c := newTestClient(p)

	res := c.SubmitOrder(testOrder(true))
	if res.OK || res.Err == nil || res.Err.Kind != models.FailTimeout {
		t.Fatalf("res = %+v", res)
	}
	if p.reloads != 1 {
		t.Errorf("reloads = %d, want 1", p.reloads)
	}
}

func TestSubmitOrderNavigatesToTicket(t *testing.T) {
	p := orderPage()
	c := newTestClient(p)

	if res := c.SubmitOrder(testOrder(true)); !res.OK {
		t.Fatalf("res = %+v", res)
	}
	if len(p.gotos) != 1 || p.gotos[0] != tradeURL {
		t.Errorf("gotos = %v", p.gotos)
	}

	// already on the ticket: no second navigation
	if res := c.SubmitOrder(testOrder(true)); !res.OK {
		t.Fatalf("second res not OK")
	}
	if len(p.gotos) != 1 {
		t.Errorf("gotos after second order = %v", p.gotos)
	}
}
