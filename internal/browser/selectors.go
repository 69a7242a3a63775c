package browser

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Selectors is the single table of labels, roles and CSS selectors the
// flows go through. Defaults match the current Fidelity web UI; any field
// can be overridden from a yaml file so a selector change is a config
// edit, not a code change.
type Selectors struct {
	// Login page
	UsernameLabel string `yaml:"username_label"`
	PasswordLabel string `yaml:"password_label"`
	LoginButton   string `yaml:"login_button"`

	// Loading signs, waited to hidden in order
	SpinnerMask  string `yaml:"spinner_mask"`
	SpinnerInner string `yaml:"spinner_inner"`
	SpinnerTag   string `yaml:"spinner_tag"`

	// Second factor
	TwoFAWidget     string `yaml:"twofa_widget"`
	CodeHeading     string `yaml:"code_heading"`
	AuthAppOnlyText string `yaml:"auth_app_only_text"`
	CodePlaceholder string `yaml:"code_placeholder"`
	OptOutLabel     string `yaml:"opt_out_label"`
	ContinueButton  string `yaml:"continue_button"`
	TryAnotherWay   string `yaml:"try_another_way"`
	TextMeButton    string `yaml:"text_me_button"`
	SubmitButton    string `yaml:"submit_button"`

	// Positions / transfers
	DownloadPositions string `yaml:"download_positions"`
	FromLabel         string `yaml:"from_label"`

	// Order ticket
	AcctDropdown       string `yaml:"acct_dropdown"`
	SymbolLabel        string `yaml:"symbol_label"`
	QuotePanel         string `yaml:"quote_panel"`
	LastPrice          string `yaml:"last_price"`
	ExpandTicket       string `yaml:"expand_ticket"`
	CalculateShares    string `yaml:"calculate_shares"`
	ExtendedHours      string `yaml:"extended_hours"`
	ExtendedHoursOff   string `yaml:"extended_hours_off"`
	ActionLabel        string `yaml:"action_label"`
	QuantityContainer  string `yaml:"quantity_container"`
	QuantityText       string `yaml:"quantity_text"`
	OrderTypeButton    string `yaml:"order_type_button"`
	OrderTypeContainer string `yaml:"order_type_container"`
	LimitOption        string `yaml:"limit_option"`
	MarketOption       string `yaml:"market_option"`
	LimitPriceText     string `yaml:"limit_price_text"`
	PreviewButton      string `yaml:"preview_button"`
	PlaceButton        string `yaml:"place_button"`
	PreviewRegion      string `yaml:"preview_region"`
	OrderReceived      string `yaml:"order_received"`

	// Error extraction
	ErrorLabel  string `yaml:"error_label"`
	ErrorFilter string `yaml:"error_filter"`
	InlineAlert string `yaml:"inline_alert"`
	CloseDialog string `yaml:"close_dialog"`
}

func DefaultSelectors() *Selectors {
	return &Selectors{
		UsernameLabel: "Username",
		PasswordLabel: "Password",
		LoginButton:   "Log in",

		SpinnerMask:  "div:nth-child(2) > .loading-spinner-mask-after",
		SpinnerInner: ".pvd-spinner__mask-inner",
		SpinnerTag:   "pvd-loading-spinner",

		TwoFAWidget:     "#dom-widget div",
		CodeHeading:     "Enter the code from your",
		AuthAppOnlyText: "Enter the code from your authenticator app This security code will confirm the",
		CodePlaceholder: "XXXXXX",
		OptOutLabel:     "Don't ask me again on this",
		ContinueButton:  "Continue",
		TryAnotherWay:   "Try another way",
		TextMeButton:    "Text me the code",
		SubmitButton:    "Submit",

		DownloadPositions: "Download Positions",
		FromLabel:         "From",

		AcctDropdown:       "#dest-acct-dropdown",
		SymbolLabel:        "Symbol",
		QuotePanel:         "#quote-panel",
		LastPrice:          "#eq-ticket__last-price > span.last-price",
		ExpandTicket:       "View expanded ticket",
		CalculateShares:    "Calculate shares",
		ExtendedHours:      "Extended hours trading",
		ExtendedHoursOff:   "Extended hours trading: OffUntil 8:00 PM ET",
		ActionLabel:        ".eq-ticket-action-label",
		QuantityContainer:  "#eqt-mts-stock-quatity div",
		QuantityText:       "Quantity",
		OrderTypeButton:    "#dest-dropdownlist-button-ordertype > span:nth-child(1)",
		OrderTypeContainer: "#order-type-container-id",
		LimitOption:        "Limit",
		MarketOption:       "Market",
		LimitPriceText:     "Limit price",
		PreviewButton:      "Preview order",
		PlaceButton:        "Place order",
		PreviewRegion:      "preview",
		OrderReceived:      "Order received",

		ErrorLabel:  "Error",
		ErrorFilter: "critical",
		InlineAlert: `.pvd-inline-alert__content font[color="red"]`,
		CloseDialog: "Close dialog",
	}
}

// LoadSelectors returns the defaults with the yaml file at path applied
// on top. An empty path means defaults only.
func LoadSelectors(path string) (*Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read selectors override")
	}
	if err := yaml.Unmarshal(raw, sel); err != nil {
		return nil, errors.Wrap(err, "decode selectors override")
	}
	return sel, nil
}
