package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	body, err := json.Marshal(Post{ID: 1, Title: "Example Post", Body: "Just a test"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"title":"Example Post","body":"Just a test"}`, string(body))
}

func TestPostFilterActive(t *testing.T) {
	assert.False(t, PostFilter{}.Active())
	assert.False(t, PostFilter{TitleLike: "bells"}.Active())
	assert.False(t, PostFilter{BodyLike: "bells"}.Active())
	assert.True(t, PostFilter{TitleLike: "whistles", BodyLike: "bells"}.Active())
}
