package authflow

// Code enumerates the closed set of user-facing failure categories for the
// login flow. Internal error detail is logged, never shown; the UI only
// ever sees the message for one of these codes.
type Code int

const (
	CodeServerError Code = iota
	CodeInvalidCode
	CodeStateMismatch
	CodeTokenExchangeFailed
	CodeProfileFetchFailed
	CodeEmailUnverified
	CodeDuplicateAccount
	CodeAccountCreationFailed
	CodeMissingParams
	CodeConsentDenied
	CodePopupBlocked
	CodeNetworkError
	CodeTimeout
)

var messages = map[Code]string{
	CodeServerError:           "Something went wrong on our side. Please try again.",
	CodeInvalidCode:           "Your sign-in code is invalid or has expired. Please try again.",
	CodeStateMismatch:         "We could not verify your sign-in attempt. Please try again.",
	CodeTokenExchangeFailed:   "Sign-in could not be completed with Google. Please try again.",
	CodeProfileFetchFailed:    "We could not load your Google profile. Please try again.",
	CodeEmailUnverified:       "Your Google email address is not verified.",
	CodeDuplicateAccount:      "This Google account is already linked to another user.",
	CodeAccountCreationFailed: "We could not create your account. Please try again.",
	CodeMissingParams:         "The sign-in response was missing required parameters.",
	CodeConsentDenied:         "Sign-in was cancelled.",
	CodePopupBlocked:          "The sign-in window was blocked. Please allow popups and try again.",
	CodeNetworkError:          "A network error interrupted sign-in. Check your connection and try again.",
	CodeTimeout:               "Sign-in took too long. Please try again.",
}

// Message returns the display string for a code. Unknown codes fall
// through to the generic server-error entry.
func (c Code) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[CodeServerError]
}

// FlowError carries a taxonomy code for the UI and the underlying cause
// for diagnostics.
type FlowError struct {
	Code Code
	Err  error
}

// Error returns only the user-facing message, never internal detail
func (e *FlowError) Error() string {
	return e.Code.Message()
}

// Unwrap exposes the internal cause for errors.Is/As inspection
func (e *FlowError) Unwrap() error {
	return e.Err
}

func flowErr(code Code, err error) *FlowError {
	return &FlowError{Code: code, Err: err}
}
