// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (HTTPError for API responses) so clients always receive
// consistent, actionable error messages.
//
//   - Return one error shape to API clients: {"message": "..."}.
//   - Keep a machine-friendly code and the HTTP status for logs.
//   - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// Only Message is serialized; Code and Status drive logging and the
// response status line.
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Message: human-friendly message, sent to the client verbatim.
//   - Status: HTTP status code.
//   - Override: marks messages that are safe to show end users as-is.
type HTTPError struct {
	Code     string `json:"-"`
	Message  string `json:"message"`
	Status   int    `json:"-"`
	Override bool   `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// It matches any *HTTPError target; Code/Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
