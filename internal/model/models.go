package model

import "time"

// User identifies an account on the remote blog server.
// Replaced wholesale on re-login, never mutated in place.
type User struct {
	ID       int64  // Server-assigned numeric ID
	Username string // Login name
}

// Session is the authenticated credential pair plus the identity it
// belongs to. It exists only while the client is logged in.
type Session struct {
	AccessToken  string // Opaque bearer token sent with mutating requests
	RefreshToken string // Opaque token for future session renewal
	User         User
}

// Post is one entry in the remote content collection.
type Post struct {
	ID         int64     // Unique within the collection
	Title      string
	Content    string
	AuthorID   int64     // Owning user; gates delete permission
	AuthorName string    // Denormalized author username from the server
	CreatedAt  time.Time // Server-assigned
	UpdatedAt  time.Time // Server-assigned
}

// Credentials is the login/signup form buffer.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// PostInput is the create-post form buffer.
type PostInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}
