package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"body": {"type": "string"}
	},
	"required": ["title", "body"]
}`

var noteSchema = MustCompileSchema(testSchema)

type noteRequest struct {
	ID    int64  `param:"id" json:"-" validate:"gte=0"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *noteRequest) Validate() error { return Struct(r) }
func (r *noteRequest) Schema() *Schema { return noteSchema }

type searchRequest struct {
	Term  string `query:"term"`
	Limit int    `query:"limit" validate:"gte=0"`
}

func (r *searchRequest) Validate() error { return Struct(r) }

func httpStatus(t *testing.T, err error) (int, string) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr.Status, httpErr.Message
}

func TestSchemaMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"valid", `{"title":"Example Post","body":"Just a test"}`, 0, ""},
		{"extra fields ignored", `{"title":"a","body":"b","tags":["x"]}`, 0, ""},
		{"empty strings allowed", `{"title":"","body":""}`, 0, ""},
		{"integer body", `{"title":"Example Post","body":32}`, http.StatusUnprocessableEntity, "32 is not of type 'string'"},
		{"missing body", `{"title":"Example Post"}`, http.StatusUnprocessableEntity, "'body' is a required property"},
		{"missing both", `{}`, http.StatusUnprocessableEntity, "'title' is a required property"},
		{"type error wins over required", `{"body":false}`, http.StatusUnprocessableEntity, "False is not of type 'string'"},
		{"title checked before body", `{"title":null,"body":1.5}`, http.StatusUnprocessableEntity, "None is not of type 'string'"},
		{"array title", `{"title":[1,"a"],"body":"b"}`, http.StatusUnprocessableEntity, "[1, 'a'] is not of type 'string'"},
		{"object title", `{"title":{"k":1},"body":"b"}`, http.StatusUnprocessableEntity, "{'k': 1} is not of type 'string'"},
		{"non object root", `[1, 2]`, http.StatusUnprocessableEntity, "[1, 2] is not of type 'object'"},
		{"string root", `"hello"`, http.StatusUnprocessableEntity, "'hello' is not of type 'object'"},
		{"malformed", `{"title":`, http.StatusBadRequest, MessageMalformedJSON},
		{"empty", ``, http.StatusBadRequest, MessageMalformedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := noteSchema.Validate([]byte(tt.body))
			if tt.status == 0 {
				assert.NoError(t, err)
				return
			}

			status, message := httpStatus(t, err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestCompileSchemaRejectsInvalidDocument(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}

func TestPyRepr(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{json.Number("32"), "32"},
		{json.Number("1.5"), "1.5"},
		{"text", "'text'"},
		{"it's", `"it's"`},
		{`it's "quoted"`, `'it\'s "quoted"'`},
		{"line\nbreak", `'line\nbreak'`},
		{[]any{json.Number("1"), "a"}, "[1, 'a']"},
		{map[string]any{"b": nil, "a": true}, "{'a': True, 'b': None}"},
		{[]any{}, "[]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pyRepr(tt.in))
	}
}

func newContext(method, target, body string, names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestBindAndValidateSchemaPayload(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/notes/4", `{"id":99,"title":"t","body":"b"}`, []string{"id"}, []string{"4"})

	req := &noteRequest{}
	require.NoError(t, BindAndValidate(c, req))

	assert.Equal(t, int64(4), req.ID)
	assert.Equal(t, "t", req.Title)
	assert.Equal(t, "b", req.Body)
}

func TestBindAndValidateSchemaFailure(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/notes/4", `{"title":"t","body":32}`, []string{"id"}, []string{"4"})

	status, message := httpStatus(t, BindAndValidate(c, &noteRequest{}))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "32 is not of type 'string'", message)
}

func TestBindAndValidateBadPathParam(t *testing.T) {
	for _, id := range []string{"abc", "-1", "+1", "1.5", ""} {
		c, _ := newContext(http.MethodPut, "/notes/"+id, `{"title":"t","body":"b"}`, []string{"id"}, []string{id})

		status, message := httpStatus(t, BindAndValidate(c, &noteRequest{}))
		assert.Equal(t, http.StatusNotFound, status, id)
		assert.Equal(t, errs.MessageRouteNotFound, message, id)
	}
}

func TestBindAndValidateQuery(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/notes?term=bells&limit=3", "", nil, nil)

	req := &searchRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "bells", req.Term)
	assert.Equal(t, 3, req.Limit)
}

func TestBindAndValidateQueryRules(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/notes?limit=-3", "", nil, nil)

	status, message := httpStatus(t, BindAndValidate(c, &searchRequest{}))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "limit must be at least 0", message)
}

func TestBindAndValidateQueryBindError(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/notes?limit=many", "", nil, nil)

	status, message := httpStatus(t, BindAndValidate(c, &searchRequest{}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, MessageInvalidQuery, message)
}
