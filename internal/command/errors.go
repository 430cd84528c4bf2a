package command

import "fmt"

// Machine-readable reply codes. Clients branch on these, so they are part of
// the wire contract and never change casing.
const (
	CodeMalformed         = "malformed"
	CodeMissingCommand    = "missing_command"
	CodeUnknownCommand    = "unknown_command"
	CodeMissingState      = "missing_state"
	CodeUnknownState      = "unknown_state"
	CodeMissingName       = "missing_name"
	CodeMissingValue      = "missing_value"
	CodeInvalidValue      = "invalid_value"
	CodeInvalidParameters = "invalid_parameters"
)

// Error is a protocol-level failure. It is reported back to the originating
// connection only and never mutates face state.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func errf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
