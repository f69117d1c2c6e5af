package blog

import (
	"context"

	"blogctl/internal/model"
)

// API provides an interface for the remote content server.
// Every call is stateless: operations that require authentication take the
// session explicitly and attach its access token as a bearer credential.
// Failures are reported as *Error with a Kind from the taxonomy in
// errors.go; implementations never return raw transport errors.
type API interface {
	// ListPosts returns the full post collection in server order.
	// The client never re-sorts it.
	ListPosts(ctx context.Context) ([]model.Post, error)

	// GetPost returns a single post by ID.
	// Returns KindNotFound if the post does not exist.
	GetPost(ctx context.Context, id int64) (*model.Post, error)

	// Login exchanges credentials for a session.
	// Invalid credentials yield KindUnauthorized.
	Login(ctx context.Context, creds model.Credentials) (*model.Session, error)

	// Signup registers a new account and returns its session.
	// A taken username yields KindValidation.
	Signup(ctx context.Context, creds model.Credentials) (*model.Session, error)

	// CurrentUser returns the identity the server associates with the
	// session. Used to verify a restored credential is still accepted.
	CurrentUser(ctx context.Context, session *model.Session) (*model.User, error)

	// CreatePost creates a post owned by the session's user and returns
	// the created post as the server serialized it.
	CreatePost(ctx context.Context, input model.PostInput, session *model.Session) (*model.Post, error)

	// DeletePost deletes a post by ID. Deleting a post owned by another
	// user yields KindUnauthorized.
	DeletePost(ctx context.Context, id int64, session *model.Session) error
}
