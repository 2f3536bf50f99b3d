package domain

import "time"

// Post is a piece of content authored by exactly one profile.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostPatch carries the mutable post fields. Nil means "leave as is".
type PostPatch struct {
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool { return p.Content == nil }

// FeedItem is a post annotated with its author's public summary.
type FeedItem struct {
	Post   Post
	Author ProfileSummary
}
