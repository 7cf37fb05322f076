package handler

import (
	"fmt"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/deppfellow/posts-api/internal/service"
	"github.com/deppfellow/posts-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// PostsPath is the collection route. Single posts live at PostsPath/{id}.
const PostsPath = "/api/posts"

// postSchema is what create and update bodies must satisfy. Unknown
// properties are allowed and ignored.
var postSchema = validation.MustCompileSchema(`{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"body": {"type": "string"}
	},
	"required": ["title", "body"]
}`)

type ListPostsRequest struct {
	TitleLike string `query:"title_like"`
	BodyLike  string `query:"body_like"`
}

func (r *ListPostsRequest) Validate() error { return nil }

type PostIDRequest struct {
	ID int64 `param:"id" validate:"gte=0"`
}

func (r *PostIDRequest) Validate() error { return validation.Struct(r) }

type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *CreatePostRequest) Validate() error            { return nil }
func (r *CreatePostRequest) Schema() *validation.Schema { return postSchema }

type UpdatePostRequest struct {
	ID    int64  `param:"id" json:"-" validate:"gte=0"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *UpdatePostRequest) Validate() error            { return validation.Struct(r) }
func (r *UpdatePostRequest) Schema() *validation.Schema { return postSchema }

// MessageResponse is the body of responses that only carry a message.
type MessageResponse struct {
	Message string `json:"message"`
}

type PostHandler struct {
	Handler
	posts *service.PostService
}

func NewPostHandler(s *server.Server, posts *service.PostService) *PostHandler {
	return &PostHandler{
		Handler: NewHandler(s),
		posts:   posts,
	}
}

// PostLocation is the URL of a single post.
func PostLocation(post *model.Post) string {
	return fmt.Sprintf("%s/%d", PostsPath, post.ID)
}

func (h *PostHandler) ListPosts(c echo.Context, req *ListPostsRequest) ([]model.Post, error) {
	return h.posts.List(c.Request().Context(), model.PostFilter{
		TitleLike: req.TitleLike,
		BodyLike:  req.BodyLike,
	})
}

func (h *PostHandler) GetPost(c echo.Context, req *PostIDRequest) (*model.Post, error) {
	return h.posts.Get(c.Request().Context(), req.ID)
}

func (h *PostHandler) CreatePost(c echo.Context, req *CreatePostRequest) (*model.Post, error) {
	return h.posts.Create(c.Request().Context(), req.Title, req.Body)
}

func (h *PostHandler) UpdatePost(c echo.Context, req *UpdatePostRequest) (*model.Post, error) {
	return h.posts.Update(c.Request().Context(), req.ID, req.Title, req.Body)
}

func (h *PostHandler) DeletePost(c echo.Context, req *PostIDRequest) (*MessageResponse, error) {
	if err := h.posts.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: fmt.Sprintf("Deleted post with id %d", req.ID)}, nil
}
