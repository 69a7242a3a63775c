package models

// Order describes one order-entry attempt. Built per trade, never stored.
type Order struct {
	Ticker   string
	Quantity float64
	Action   string // "buy" or "sell", any case
	Account  string
	Dry      bool // preview only, do not place
}

// OrderResult is consumed by the reporting layer right after the attempt.
// Dry and real runs share this shape; only the report text differs.
type OrderResult struct {
	OK  bool
	Dry bool
	Err *FlowError // nil when OK
}

func OrderOK(dry bool) OrderResult {
	return OrderResult{OK: true, Dry: dry}
}

func OrderFailed(err *FlowError, dry bool) OrderResult {
	return OrderResult{Dry: dry, Err: err}
}
