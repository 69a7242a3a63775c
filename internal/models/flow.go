package models

import "fmt"

// FailKind classifies a flow failure so callers can branch exhaustively
// instead of parsing message text.
type FailKind string

const (
	// FailTimeout — a bounded wait on navigation or element state expired.
	FailTimeout FailKind = "timeout"
	// FailConfig — a required credential/secret is missing for the only
	// available path (e.g. authenticator code needed but no TOTP secret).
	FailConfig FailKind = "config"
	// FailData — malformed downloaded data (missing columns, bad fields).
	FailData FailKind = "data"
	// FailUIContract — a control did not reach the state we asserted
	// (e.g. the opt-out checkbox refused to check).
	FailUIContract FailKind = "ui-contract"
	// FailRejected — the broker rejected the order; message holds the
	// scraped error text.
	FailRejected FailKind = "rejected"
)

// FlowError is the failure half of every flow result. It never crosses a
// public boundary as a panic.
type FlowError struct {
	Kind FailKind
	Msg  string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func Timeoutf(format string, args ...any) *FlowError {
	return &FlowError{Kind: FailTimeout, Msg: fmt.Sprintf(format, args...)}
}

func Configf(format string, args ...any) *FlowError {
	return &FlowError{Kind: FailConfig, Msg: fmt.Sprintf(format, args...)}
}

func Dataf(format string, args ...any) *FlowError {
	return &FlowError{Kind: FailData, Msg: fmt.Sprintf(format, args...)}
}

func UIContractf(format string, args ...any) *FlowError {
	return &FlowError{Kind: FailUIContract, Msg: fmt.Sprintf(format, args...)}
}

func Rejectedf(format string, args ...any) *FlowError {
	return &FlowError{Kind: FailRejected, Msg: fmt.Sprintf(format, args...)}
}

// LoginStatus is the terminal state of a login attempt.
//   - LoggedIn && Completed: on the summary page, nothing else to do.
//   - LoggedIn && !Completed: credentials accepted, an SMS code is now
//     required out of band (CompleteSecondFactor finishes the job).
//   - !LoggedIn: the attempt failed; the FlowError says why.
type LoginStatus struct {
	LoggedIn  bool
	Completed bool
}
