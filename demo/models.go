// Package demo is a small users and posts API documented with swagdeco.
// The users controller is registered with the Go annotation API, the posts
// controller with directive text. Both share one in-memory Repository.
package demo

import "time"

// User is a registered account.
type User struct {
	ID           int       `json:"id" column:"type=int4"`
	Name         string    `json:"name" column:"type=varchar"`
	Email        string    `json:"email" column:""`
	Role         string    `json:"role" column:"type=enum,enum=admin|member"`
	CreatedAt    time.Time `json:"createdAt" column:"type=timestamp"`
	PasswordHash string    `json:"-" column:"type=varchar"`
}

// NewUser is the body accepted when creating a user.
type NewUser struct {
	Name     string `json:"name" column:"type=varchar"`
	Email    string `json:"email" column:"type=varchar"`
	Role     string `json:"role" column:"type=enum,enum=admin|member"`
	Password string `json:"password" column:"type=varchar"`
}

// Post is a piece of content written by a user.
type Post struct {
	ID          string         `json:"id" column:"type=varchar"`
	AuthorID    int            `json:"authorId" column:"type=int4"`
	Title       string         `json:"title" column:"type=varchar"`
	Body        string         `json:"body" column:""`
	Tags        []string       `json:"tags" column:"type=jsonb,array"`
	Meta        map[string]any `json:"meta,omitempty" column:"type=jsonb"`
	PublishedOn time.Time      `json:"publishedOn" column:"type=datetime"`
}

// NewPost is the body accepted when creating a post.
type NewPost struct {
	AuthorID int            `json:"authorId" column:"type=int4"`
	Title    string         `json:"title" column:"type=varchar"`
	Body     string         `json:"body" column:"type=varchar"`
	Tags     []string       `json:"tags" column:"type=jsonb,array"`
	Meta     map[string]any `json:"meta,omitempty" column:"type=json"`
}

// UserPage is a page of users in classic pagination.
type UserPage struct {
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Items []User `json:"items"`
}

// PostPage is a page of posts in cursor pagination. Cursor is the value to
// pass to fetch the next page; it is nil on the last page.
type PostPage struct {
	Total  int     `json:"total"`
	Cursor *string `json:"cursor"`
	Items  []Post  `json:"items"`
}
