package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/posts-api/internal/config"
	"github.com/deppfellow/posts-api/internal/handler"
	"github.com/deppfellow/posts-api/internal/middleware"
	"github.com/deppfellow/posts-api/internal/model"
	"github.com/deppfellow/posts-api/internal/repository"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/deppfellow/posts-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonType = echo.MIMEApplicationJSON

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = config.DriverMemory
	require.NoError(t, cfg.Validate())

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	repos := repository.NewRepositories(s)
	services := service.NewServices(s, repos)
	handlers := handler.NewHandlers(s, services)

	return NewRouter(s, handlers)
}

type request struct {
	method      string
	target      string
	body        string
	accept      string
	contentType string
}

func send(t *testing.T, e *echo.Echo, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}

	req := httptest.NewRequest(r.method, r.target, body)
	if r.accept != "" {
		req.Header.Set(echo.HeaderAccept, r.accept)
	}
	if r.contentType != "" {
		req.Header.Set(echo.HeaderContentType, r.contentType)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createPost(t *testing.T, e *echo.Echo, title, body string) model.Post {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	require.NoError(t, err)

	rec := send(t, e, request{
		method:      http.MethodPost,
		target:      "/api/posts",
		body:        string(payload),
		accept:      jsonType,
		contentType: jsonType,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var post model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	return post
}

func listPosts(t *testing.T, e *echo.Echo, target string) []model.Post {
	t.Helper()

	rec := send(t, e, request{method: http.MethodGet, target: target, accept: jsonType})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var posts []model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	return posts
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	assert.Equal(t, status, rec.Code)
	assert.JSONEq(t, `{"message":`+quote(message)+`}`, rec.Body.String())
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestListEmpty(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, request{method: http.MethodGet, target: "/api/posts", accept: jsonType})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), jsonType)
}

func TestCreateThenGet(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, request{
		method:      http.MethodPost,
		target:      "/api/posts",
		body:        `{"title": "Example Post", "body": "Just a test"}`,
		accept:      jsonType,
		contentType: jsonType,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/posts/1", rec.Header().Get(echo.HeaderLocation))
	assert.JSONEq(t, `{"id":1,"title":"Example Post","body":"Just a test"}`, rec.Body.String())

	rec = send(t, e, request{method: http.MethodGet, target: "/api/posts/1", accept: jsonType})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Example Post","body":"Just a test"}`, rec.Body.String())

	posts := listPosts(t, e, "/api/posts")
	assert.Equal(t, []model.Post{{ID: 1, Title: "Example Post", Body: "Just a test"}}, posts)
}

func TestListFilter(t *testing.T) {
	e := newTestRouter(t)

	createPost(t, e, "Post with bells", "Post body")
	createPost(t, e, "Post with whistles", "Post body")
	createPost(t, e, "Post with bells and whistles", "Post body")
	createPost(t, e, "Another post with bells", "bells and whistles")
	createPost(t, e, "Post with bells", "Just bells here")

	posts := listPosts(t, e, "/api/posts?title_like=bells&body_like=whistles")
	require.Len(t, posts, 1)
	assert.Equal(t, "Another post with bells", posts[0].Title)
	assert.Equal(t, "bells and whistles", posts[0].Body)

	// One parameter alone does not filter.
	assert.Len(t, listPosts(t, e, "/api/posts?title_like=whistles"), 5)
	assert.Len(t, listPosts(t, e, "/api/posts?body_like=whistles"), 5)

	// Matching is case-sensitive.
	assert.Empty(t, listPosts(t, e, "/api/posts?title_like=Bells&body_like=whistles"))
}

func TestListFilterTitleAndBody(t *testing.T) {
	e := newTestRouter(t)

	createPost(t, e, "Post with bells", "Just a test with bells")
	createPost(t, e, "Post with whistles", "Still a test with whistles")
	createPost(t, e, "Post with bells and whistles", "Another test with bells and whistles")

	posts := listPosts(t, e, "/api/posts?title_like=whistles&body_like=bells")
	require.Len(t, posts, 1)
	assert.Equal(t, model.Post{ID: 3, Title: "Post with bells and whistles", Body: "Another test with bells and whistles"}, posts[0])
}

func TestListRequiresAcceptJSON(t *testing.T) {
	e := newTestRouter(t)

	for _, accept := range []string{"", "application/xml", "text/html", "application/json;q=0, */*;q=0.1"} {
		rec := send(t, e, request{method: http.MethodGet, target: "/api/posts", accept: accept})
		assertMessage(t, rec, http.StatusNotAcceptable, "Request must accept application/json data")
	}
}

func TestCreateNegotiation(t *testing.T) {
	e := newTestRouter(t)
	body := `{"title": "Example Post", "body": "Just a test"}`

	rec := send(t, e, request{method: http.MethodPost, target: "/api/posts", body: body, accept: "application/xml", contentType: jsonType})
	assertMessage(t, rec, http.StatusNotAcceptable, "Request must accept application/json data")

	rec = send(t, e, request{method: http.MethodPost, target: "/api/posts", body: body, accept: jsonType})
	assertMessage(t, rec, http.StatusUnsupportedMediaType, "Request must contain application/json data")

	rec = send(t, e, request{method: http.MethodPost, target: "/api/posts", body: body, accept: jsonType, contentType: "text/plain"})
	assertMessage(t, rec, http.StatusUnsupportedMediaType, "Request must contain application/json data")

	// Nothing was stored.
	assert.Empty(t, listPosts(t, e, "/api/posts"))
}

func TestCreateInvalidBody(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		body    string
		status  int
		message string
	}{
		{`{"title": "Example Post", "body": 32}`, http.StatusUnprocessableEntity, "32 is not of type 'string'"},
		{`{"title": "Example Post"}`, http.StatusUnprocessableEntity, "'body' is a required property"},
		{`{"body": "Just a test"}`, http.StatusUnprocessableEntity, "'title' is a required property"},
		{`["Example Post"]`, http.StatusUnprocessableEntity, "['Example Post'] is not of type 'object'"},
		{`{"title": `, http.StatusBadRequest, "Request body must be valid JSON"},
	}

	for _, tt := range tests {
		rec := send(t, e, request{method: http.MethodPost, target: "/api/posts", body: tt.body, accept: jsonType, contentType: jsonType})
		assertMessage(t, rec, tt.status, tt.message)
	}

	assert.Empty(t, listPosts(t, e, "/api/posts"))
}

func TestGetMissing(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, request{method: http.MethodGet, target: "/api/posts/1", accept: jsonType})
	assertMessage(t, rec, http.StatusNotFound, "Could not find post with id 1")

	// Repeating the request gives the same answer.
	rec = send(t, e, request{method: http.MethodGet, target: "/api/posts/1", accept: jsonType})
	assertMessage(t, rec, http.StatusNotFound, "Could not find post with id 1")
}

func TestDelete(t *testing.T) {
	e := newTestRouter(t)
	post := createPost(t, e, "Example Post", "Just a test")

	rec := send(t, e, request{method: http.MethodDelete, target: "/api/posts/1"})
	assertMessage(t, rec, http.StatusOK, "Deleted post with id 1")

	rec = send(t, e, request{method: http.MethodGet, target: "/api/posts/1", accept: jsonType})
	assertMessage(t, rec, http.StatusNotFound, "Could not find post with id 1")

	rec = send(t, e, request{method: http.MethodDelete, target: "/api/posts/1"})
	assertMessage(t, rec, http.StatusNotFound, "Could not find post with id 1")

	assert.Empty(t, listPosts(t, e, "/api/posts"))

	// Ids are never handed out twice.
	next := createPost(t, e, "Second", "post")
	assert.Greater(t, next.ID, post.ID)
}

func TestUpdate(t *testing.T) {
	e := newTestRouter(t)
	createPost(t, e, "Example Post", "Just a test")

	rec := send(t, e, request{
		method:      http.MethodPut,
		target:      "/api/posts/1",
		body:        `{"id": 7, "title": "Edited", "body": "New body"}`,
		contentType: jsonType,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Edited","body":"New body"}`, rec.Body.String())

	rec = send(t, e, request{method: http.MethodGet, target: "/api/posts/1", accept: jsonType})
	assert.JSONEq(t, `{"id":1,"title":"Edited","body":"New body"}`, rec.Body.String())

	rec = send(t, e, request{method: http.MethodPut, target: "/api/posts/1", body: `{"title": "Edited", "body": 32}`, contentType: jsonType})
	assertMessage(t, rec, http.StatusUnprocessableEntity, "32 is not of type 'string'")

	rec = send(t, e, request{method: http.MethodPut, target: "/api/posts/9", body: `{"title": "a", "body": "b"}`, contentType: jsonType})
	assertMessage(t, rec, http.StatusNotFound, "Could not find post with id 9")

	// The schema is checked before the post is looked up.
	rec = send(t, e, request{method: http.MethodPut, target: "/api/posts/9", body: `{"title": "a"}`, contentType: jsonType})
	assertMessage(t, rec, http.StatusUnprocessableEntity, "'body' is a required property")
}

func TestUnknownRoutes(t *testing.T) {
	e := newTestRouter(t)

	createPost(t, e, "Example Post", "Just a test")

	for _, target := range []string{"/api/posts/abc", "/api/posts/-1", "/api/posts/+1", "/api/posts/1.5", "/api/nothing"} {
		rec := send(t, e, request{method: http.MethodGet, target: target, accept: jsonType})
		assertMessage(t, rec, http.StatusNotFound, "Route not found")
	}

	rec := send(t, e, request{method: http.MethodPatch, target: "/api/posts/1", accept: jsonType})
	assertMessage(t, rec, http.StatusMethodNotAllowed, "Method not allowed")
}

func TestRequestIDEchoed(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set(echo.HeaderAccept, jsonType)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, request{method: http.MethodGet, target: "/status"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"].Status)
	assert.Equal(t, config.DriverMemory, health.Checks["database"].Storage)
	assert.NotContains(t, health.Checks, "redis")

	rec = send(t, e, request{method: http.MethodGet, target: "/docs"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = send(t, e, request{method: http.MethodGet, target: "/static/openapi.json"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	createPost(t, e, "Example Post", "Just a test")
	rec = send(t, e, request{method: http.MethodGet, target: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `posts_http_requests_total{method="POST",route="/api/posts",status="201"}`)
}

func TestRecoveredPanicIsCounted(t *testing.T) {
	e := newTestRouter(t)
	e.GET("/explode", func(c echo.Context) error {
		panic("boom")
	})

	counter := middleware.HTTPRequests.WithLabelValues(http.MethodGet, "/explode", "500")
	before := testutil.ToFloat64(counter)

	rec := send(t, e, request{method: http.MethodGet, target: "/explode", accept: jsonType})

	assertMessage(t, rec, http.StatusInternalServerError, "Internal Server Error")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
