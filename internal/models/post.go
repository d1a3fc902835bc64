package models

import "time"

// Post is a feed entry. A post carries text, an image URL, or both.
// Likes holds the ids of users who liked the post; Comments is ordered
// oldest first by (created_at, id).
type Post struct {
	ID        int       `json:"id"`
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	Likes     []int     `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int       `json:"id"`
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
