// Package models defines the domain types for Raido.
package models

import "time"

// Post represents one published article, addressed by its slug.
// The slug doubles as the primary key and the public URL segment;
// editors may change it, which re-addresses the post.
type Post struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Markdown  string    `json:"markdown"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSummary is a lightweight projection returned by list operations
// that only need navigation data.
type PostSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
