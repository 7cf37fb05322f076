package router

import (
	"net/http"

	"github.com/deppfellow/posts-api/internal/handler"
	"github.com/deppfellow/posts-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerPostRoutes(r *echo.Echo, h *handler.PostHandler) {
	posts := r.Group(handler.PostsPath)

	posts.GET("", handler.Handle(
		h.Handler,
		h.ListPosts,
		http.StatusOK,
		&handler.ListPostsRequest{},
	), middleware.RequireAcceptJSON())

	posts.POST("", handler.HandleCreated(
		h.Handler,
		h.CreatePost,
		handler.PostLocation,
		&handler.CreatePostRequest{},
	), middleware.RequireAcceptJSON(), middleware.RequireContentTypeJSON())

	posts.GET("/:id", handler.Handle(
		h.Handler,
		h.GetPost,
		http.StatusOK,
		&handler.PostIDRequest{},
	))

	posts.PUT("/:id", handler.Handle(
		h.Handler,
		h.UpdatePost,
		http.StatusOK,
		&handler.UpdatePostRequest{},
	))

	posts.DELETE("/:id", handler.Handle(
		h.Handler,
		h.DeletePost,
		http.StatusOK,
		&handler.PostIDRequest{},
	))
}
