// Package model holds the domain entities shared by the repository,
// service and handler layers.
package model

// Post is the single resource served by the API.
type Post struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Body  string `json:"body" db:"body"`
}

// PostFilter narrows List results. Filtering only applies when both
// fields are non-empty.
type PostFilter struct {
	TitleLike string
	BodyLike  string
}

// Active reports whether the filter restricts the result at all.
func (f PostFilter) Active() bool {
	return f.TitleLike != "" && f.BodyLike != ""
}
