package models

import "time"

// MinPasswordLength applies to signup and password change.
const MinPasswordLength = 6

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Link         string    `json:"link"`
	ProfileImage string    `json:"profileImage"`
	CoverImage   string    `json:"coverImage"`
	Followers    []int     `json:"followers"`
	Following    []int     `json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRef is the author identity embedded in posts, comments, and notifications.
type UserRef struct {
	ID           int    `json:"id"`
	FullName     string `json:"fullName"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// Ref returns the embeddable identity of u.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:           u.ID,
		FullName:     u.FullName,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}
