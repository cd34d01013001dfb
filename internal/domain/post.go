package domain

import "time"

// Post is a user-authored entry. Content is optional and Published
// defaults to false.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content,omitempty"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
