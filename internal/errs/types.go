package errs

import (
	"fmt"
	"net/http"
)

// Messages fixed by the posts API contract.
const (
	MessageNotAcceptable        = "Request must accept application/json data"
	MessageUnsupportedMediaType = "Request must contain application/json data"
	MessageRouteNotFound        = "Route not found"
	MessageTooManyRequests      = "Too many requests"
)

// newError builds an HTTPError whose code is derived from the status text,
// e.g. 406 -> "NOT_ACCEPTABLE".
func newError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code optionally replaces the default "BAD_REQUEST" code; the caller
// is expected to have formatted it already.
func NewBadRequestError(message string, override bool, code *string) *HTTPError {
	err := newError(http.StatusBadRequest, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports an optional custom code similar to NewBadRequestError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	err := newError(http.StatusNotFound, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewPostNotFoundError is the 404 returned whenever a post id has no row.
func NewPostNotFoundError(id int64) *HTTPError {
	code := "POST_NOT_FOUND"
	return NewNotFoundError(fmt.Sprintf("Could not find post with id %d", id), true, &code)
}

// NewNotAcceptableError creates the 406 returned when a client does not
// accept JSON responses.
func NewNotAcceptableError() *HTTPError {
	return newError(http.StatusNotAcceptable, MessageNotAcceptable, true)
}

// NewUnsupportedMediaTypeError creates the 415 returned when a request
// body is not declared as JSON.
func NewUnsupportedMediaTypeError() *HTTPError {
	return newError(http.StatusUnsupportedMediaType, MessageUnsupportedMediaType, true)
}

// NewUnprocessableEntityError creates a 422 carrying the schema validator's message.
func NewUnprocessableEntityError(message string) *HTTPError {
	return newError(http.StatusUnprocessableEntity, message, true)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return newError(http.StatusTooManyRequests, MessageTooManyRequests, true)
}

// NewServiceUnavailableError creates a 503 Service Unavailable HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return newError(http.StatusServiceUnavailable, message, false)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the real internal error:
// that one only goes to the logs.
func NewInternalServerError() *HTTPError {
	return newError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}

// ValidationError converts a generic validation error into a 422 HTTPError.
//
// This is a helper so you can do:
//
//	return errs.ValidationError(err)
func ValidationError(err error) *HTTPError {
	return NewUnprocessableEntityError(err.Error())
}
