// Package validation contains the logic for validating
// request data.
//
// Path and query parameters are bound by Echo and checked with
// `validator` struct tags. JSON bodies are checked against a JSON Schema
// before they are decoded, so clients get the schema validator's own
// wording back.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with `param`/`query` binding tags and validator tags
// - Implement Validate() error, usually `return validation.Struct(r)`
type Validatable interface {
	Validate() error
}

// SchemaValidatable is implemented by payloads whose JSON body is
// checked against a JSON Schema before being decoded into the struct.
type SchemaValidatable interface {
	Validatable
	Schema() *Schema
}

var validate = validator.New()

// Struct runs the validator struct tags of v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. Path parameters are bound first. A segment that does not parse
//     (e.g. /api/posts/abc, or /api/posts/+1 for an integer field) means
//     the route does not exist: 404.
//  2. Schema payloads: the raw body must be JSON (400) and satisfy the
//     schema (422) before it is decoded into payload.
//     Other payloads: query parameters for reads, the body otherwise (400).
//  3. payload.Validate() applies the struct rules.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	binder := &echo.DefaultBinder{}

	if !integerParamsAreDigits(c, payload) {
		return errs.NewNotFoundError(errs.MessageRouteNotFound, false, nil)
	}

	if err := binder.BindPathParams(c, payload); err != nil {
		return errs.NewNotFoundError(errs.MessageRouteNotFound, false, nil)
	}

	if schemaPayload, ok := payload.(SchemaValidatable); ok {
		if err := bindSchemaBody(c, schemaPayload); err != nil {
			return err
		}
	} else if err := bindPlain(c, binder, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return extractValidationError(payload, err)
	}

	return nil
}

func bindPlain(c echo.Context, binder *echo.DefaultBinder, payload Validatable) error {
	switch c.Request().Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		if err := binder.BindQueryParams(c, payload); err != nil {
			return errs.NewBadRequestError(MessageInvalidQuery, true, nil)
		}
	default:
		if err := binder.BindBody(c, payload); err != nil {
			return errs.NewBadRequestError(MessageMalformedJSON, true, nil)
		}
	}
	return nil
}

func bindSchemaBody(c echo.Context, payload SchemaValidatable) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errs.NewBadRequestError("Could not read request body", false, nil)
	}
	// Leave the body readable for anything running after us.
	c.Request().Body = io.NopCloser(bytes.NewReader(body))

	if err := payload.Schema().Validate(body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, payload); err != nil {
		return errs.NewBadRequestError(MessageMalformedJSON, true, nil)
	}

	return nil
}

// extractValidationError converts the error returned by Validate into an
// *errs.HTTPError.
//
// A path parameter failing its rules is reported as an unknown route,
// any other field as a 422 naming the first failing field.
func extractValidationError(payload any, err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errs.ValidationError(err)
	}

	first := validationErrors[0]
	if isPathParam(payload, first.StructField()) {
		return errs.NewNotFoundError(errs.MessageRouteNotFound, false, nil)
	}

	return errs.NewUnprocessableEntityError(fieldMessage(first))
}

func isPathParam(payload any, structField string) bool {
	t := structType(payload)
	if t == nil {
		return false
	}

	field, ok := t.FieldByName(structField)
	return ok && field.Tag.Get("param") != ""
}

// integerParamsAreDigits rejects integer path parameters written with a
// sign or anything else strconv would accept besides plain digits.
func integerParamsAreDigits(c echo.Context, payload any) bool {
	t := structType(payload)
	if t == nil {
		return true
	}

	values := c.ParamValues()
	for i, name := range c.ParamNames() {
		if i >= len(values) {
			break
		}
		field, ok := paramField(t, name)
		if !ok || !isInteger(field.Type.Kind()) {
			continue
		}
		if !isDigits(values[i]) {
			return false
		}
	}
	return true
}

func structType(payload any) reflect.Type {
	t := reflect.TypeOf(payload)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func paramField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		if field := t.Field(i); field.Tag.Get("param") == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func isInteger(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func fieldMessage(err validator.FieldError) string {
	field := strings.ToLower(err.Field())

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max", "lte":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", field, err.Tag())
	}
}
