package models

import "time"

const (
	NotificationLike   = "like"
	NotificationFollow = "follow"
)

// Notification records a like or follow aimed at a recipient. Rows are
// immutable; recipients delete them individually or the retention job does.
type Notification struct {
	ID        int       `json:"id"`
	From      UserRef   `json:"from"`
	To        int       `json:"to"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
