package serrors

import "fmt"

// Error is a coded sentinel error used by infrastructure packages.
type Error struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func (e *Error) WithDetails(details string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}
