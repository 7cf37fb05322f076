package email

import (
	"fmt"
	"strconv"

	"github.com/deppfellow/posts-api/internal/model"
)

// SendPostCreatedEmail tells to that post was just published.
func (c *Client) SendPostCreatedEmail(to string, post model.Post) error {
	data := map[string]string{
		"PostID": strconv.FormatInt(post.ID, 10),
		"Title":  post.Title,
		"Body":   post.Body,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("New post: %s", post.Title),
		TemplatePostCreated,
		data,
	)
}
