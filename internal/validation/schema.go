package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const (
	// MessageMalformedJSON is returned when a request body is not JSON at all.
	MessageMalformedJSON = "Request body must be valid JSON"
	// MessageInvalidQuery is returned when query parameters cannot be bound.
	MessageInvalidQuery = "Invalid query parameters"
)

const (
	errorTypeInvalidType = "invalid_type"
	errorTypeRequired    = "required"
	rootField            = "(root)"
)

// Schema is a compiled JSON Schema whose failures are reported the way
// the Python jsonschema package words them, e.g.
// "32 is not of type 'string'" or "'body' is a required property".
type Schema struct {
	schema *gojsonschema.Schema
	// order ranks properties when several of them fail at once.
	order map[string]int
}

type schemaOutline struct {
	Required []string `json:"required"`
}

// CompileSchema compiles a JSON Schema document.
func CompileSchema(document string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile JSON schema")
	}

	var outline schemaOutline
	if err := json.Unmarshal([]byte(document), &outline); err != nil {
		return nil, errors.Wrap(err, "failed to read JSON schema")
	}

	order := make(map[string]int, len(outline.Required))
	for i, name := range outline.Required {
		order[name] = i
	}

	return &Schema{schema: compiled, order: order}, nil
}

// MustCompileSchema is CompileSchema for package-level schema variables.
func MustCompileSchema(document string) *Schema {
	s, err := CompileSchema(document)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a raw JSON body. It returns a 400 *errs.HTTPError when
// body is not JSON, a 422 carrying a single message when it violates the
// schema, and nil otherwise.
func (s *Schema) Validate(body []byte) error {
	if !json.Valid(body) {
		return errs.NewBadRequestError(MessageMalformedJSON, true, nil)
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errs.NewBadRequestError(MessageMalformedJSON, true, nil)
	}
	if result.Valid() {
		return nil
	}

	return errs.NewUnprocessableEntityError(s.describe(s.first(result.Errors())))
}

// first picks the error to report: a type error on the document itself,
// then type errors on properties, then missing properties, each group in
// the order the schema lists its required properties.
func (s *Schema) first(resultErrors []gojsonschema.ResultError) gojsonschema.ResultError {
	ranked := make([]gojsonschema.ResultError, len(resultErrors))
	copy(ranked, resultErrors)

	sort.SliceStable(ranked, func(i, j int) bool {
		return s.rank(ranked[i]) < s.rank(ranked[j])
	})

	return ranked[0]
}

func (s *Schema) rank(e gojsonschema.ResultError) int {
	const group = 1 << 16

	switch e.Type() {
	case errorTypeInvalidType:
		if e.Field() == rootField {
			return 0
		}
		return group + s.position(e.Field())
	case errorTypeRequired:
		return 2*group + s.position(fmt.Sprint(e.Details()["property"]))
	default:
		return 3 * group
	}
}

func (s *Schema) position(property string) int {
	if i, ok := s.order[property]; ok {
		return i
	}
	return len(s.order)
}

func (s *Schema) describe(e gojsonschema.ResultError) string {
	switch e.Type() {
	case errorTypeInvalidType:
		return fmt.Sprintf("%s is not of type '%s'", pyRepr(e.Value()), e.Details()["expected"])
	case errorTypeRequired:
		return fmt.Sprintf("%s is a required property", pyRepr(fmt.Sprint(e.Details()["property"])))
	default:
		return e.Description()
	}
}
