package domain

import "time"

// Blog is a post written by a single author.
type Blog struct {
	ID             string
	Title          string
	Content        string
	AuthorID       string
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether userID is the author of the post.
func (b *Blog) OwnedBy(userID string) bool {
	return b.AuthorID != "" && b.AuthorID == userID
}
