// Package apperr defines the error values that cross the service boundary.
// Every use-case failure is an *Error carrying a stable code and a
// human-readable message; handlers serialize it as {code, message}.
package apperr

const (
	CodeValidation   = "Error.Validation"
	CodeNotFound     = "Error.NotFound"
	CodeThirdParty   = "Error.ThirdPartyRequest"
	CodeUnauthorized = "Error.Unauthorized"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func Validation(details string) *Error {
	return &Error{Code: CodeValidation, Message: details}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func ThirdParty(message string) *Error {
	return &Error{Code: CodeThirdParty, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}
