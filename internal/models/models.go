package models

import "time"

// User represents a user in the system. Password holds the bcrypt hash and
// is never serialized.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// PublicUser is the outward projection of a User, built explicitly so the
// password hash can never cross the service boundary.
type PublicUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}

// Follow represents a directed follow edge between two users
type Follow struct {
	ID              int64 `json:"id"`
	FollowingUserID int64 `json:"following_user_id"`
	FollowedUserID  int64 `json:"followed_user_id"`
}

// Tweet represents a tweet authored by a user
type Tweet struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment represents a media URL belonging to a tweet
type Attachment struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	URL    string `json:"url"`
}

// FeedTweet is a Tweet enriched with its attachment URLs for feed responses.
// FilesURLs is always non-nil so tweets without attachments serialize as [].
type FeedTweet struct {
	Tweet
	FilesURLs []string `json:"files_urls"`
}
