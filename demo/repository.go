package demo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a user or post does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCursor is returned for cursors that name no post.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// Repository is an in-memory store of users and posts, safe for
// concurrent use.
type Repository struct {
	mu     sync.RWMutex
	nextID int
	users  []User
	posts  []Post
	now    func() time.Time
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser stores a new user and returns it.
func (r *Repository) CreateUser(in NewUser) User {
	r.mu.Lock()
	defer r.mu.Unlock()

	role := in.Role
	if role == "" {
		role = "member"
	}

	sum := sha256.Sum256([]byte(in.Password))
	u := User{
		ID:           r.nextID,
		Name:         in.Name,
		Email:        in.Email,
		Role:         role,
		CreatedAt:    r.now(),
		PasswordHash: hex.EncodeToString(sum[:]),
	}
	r.nextID++
	r.users = append(r.users, u)
	return u
}

// User returns the user with the given id.
func (r *Repository) User(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, ErrNotFound
	}
	return r.users[i], nil
}

// DeleteUser removes the user with the given id and returns it.
func (r *Repository) DeleteUser(id int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, ErrNotFound
	}
	u := r.users[i]
	r.users = slices.Delete(r.users, i, i+1)
	return u, nil
}

// Users returns the users whose name contains query (case-insensitive),
// skipping offset and returning at most limit, plus the number of matches.
func (r *Repository) Users(query string, offset, limit int) ([]User, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var matched []User
	for _, u := range r.users {
		if query == "" || strings.Contains(strings.ToLower(u.Name), query) {
			matched = append(matched, u)
		}
	}
	return window(matched, offset, limit), len(matched)
}

// CreatePost stores a new post. The author must exist.
func (r *Repository) CreatePost(in NewPost) (Post, error) {
	if _, err := r.User(in.AuthorID); err != nil {
		return Post{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	p := Post{
		ID:          uuid.Must(uuid.NewV7()).String(),
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Body:        in.Body,
		Tags:        tags,
		Meta:        in.Meta,
		PublishedOn: r.now().Truncate(24 * time.Hour),
	}
	r.posts = append(r.posts, p)
	return p, nil
}

// Post returns the post with the given id.
func (r *Repository) Post(id string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.posts, func(p Post) bool { return p.ID == id })
	if i < 0 {
		return Post{}, ErrNotFound
	}
	return r.posts[i], nil
}

// Posts returns up to limit posts following the post named by cursor (from
// the start when cursor is nil), optionally restricted to one author. It
// also returns the cursor of the next page (nil on the last page) and the
// number of matching posts.
func (r *Repository) Posts(authorID int, cursor *string, limit int) ([]Post, *string, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Post
	for _, p := range r.posts {
		if authorID == 0 || p.AuthorID == authorID {
			matched = append(matched, p)
		}
	}

	start := 0
	if cursor != nil {
		i := slices.IndexFunc(matched, func(p Post) bool { return p.ID == *cursor })
		if i < 0 {
			return nil, nil, 0, ErrInvalidCursor
		}
		start = i + 1
	}

	page := window(matched, start, limit)

	var next *string
	if start+len(page) < len(matched) && len(page) > 0 {
		id := page[len(page)-1].ID
		next = &id
	}
	return page, next, len(matched), nil
}

// window returns a copy of items[offset:offset+limit], clamped.
func window[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit < 0 || offset >= len(items) {
		return []T{}
	}
	end := offset + min(limit, len(items)-offset)
	return slices.Clone(items[offset:end])
}
