package api

import (
	"context"
	"fmt"
	"sync"

	"blogctl/internal/blog"
	"blogctl/internal/model"
)

// Memory is an in-memory implementation of the blog.API interface. It
// behaves like a tiny content server: accounts, token issuance, and
// author-only deletes all follow the remote contract, which makes it
// useful for tests and offline experimentation.
// This implementation is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	users     map[string]memoryUser // username -> account
	tokens    map[string]int64      // access token -> user id
	posts     map[int64]model.Post
	order     []int64
	nextUser  int64
	nextPost  int64
	nextToken int64
	clock     blog.Clock
}

type memoryUser struct {
	id       int64
	password string
}

// NewMemory creates an empty in-memory API.
func NewMemory(clock blog.Clock) *Memory {
	return &Memory{
		users:  make(map[string]memoryUser),
		tokens: make(map[string]int64),
		posts:  make(map[int64]model.Post),
		clock:  clock,
	}
}

// ListPosts returns all posts, newest first, matching the server's order.
func (m *Memory) ListPosts(_ context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]model.Post, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		posts = append(posts, m.posts[m.order[i]])
	}
	return posts, nil
}

// GetPost returns a single post by ID.
func (m *Memory) GetPost(_ context.Context, id int64) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, blog.NewError(blog.KindNotFound, "post not found")
	}
	return &post, nil
}

// Signup registers a new account and returns its session.
func (m *Memory) Signup(_ context.Context, creds model.Credentials) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if creds.Username == "" || creds.Password == "" {
		return nil, blog.NewError(blog.KindValidation, "Username and password are required")
	}
	if _, exists := m.users[creds.Username]; exists {
		return nil, blog.NewError(blog.KindValidation, "Username already exists")
	}

	m.nextUser++
	m.users[creds.Username] = memoryUser{id: m.nextUser, password: creds.Password}
	return m.issueSession(creds.Username, m.nextUser), nil
}

// Login exchanges credentials for a session.
func (m *Memory) Login(_ context.Context, creds model.Credentials) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.users[creds.Username]
	if !ok || account.password != creds.Password {
		return nil, blog.NewError(blog.KindUnauthorized, "Invalid credentials")
	}
	return m.issueSession(creds.Username, account.id), nil
}

// CurrentUser returns the identity behind the session's access token.
func (m *Memory) CurrentUser(_ context.Context, session *model.Session) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username, userID, err := m.authenticate(session)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: userID, Username: username}, nil
}

// CreatePost creates a post owned by the session's user.
func (m *Memory) CreatePost(_ context.Context, input model.PostInput, session *model.Session) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username, userID, err := m.authenticate(session)
	if err != nil {
		return nil, err
	}
	if input.Title == "" || input.Content == "" {
		return nil, blog.NewError(blog.KindValidation, "title and content are required")
	}

	m.nextPost++
	now := m.clock.Now()
	post := model.Post{
		ID:         m.nextPost,
		Title:      input.Title,
		Content:    input.Content,
		AuthorID:   userID,
		AuthorName: username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return &post, nil
}

// DeletePost deletes a post; only its author may do so.
func (m *Memory) DeletePost(_ context.Context, id int64, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, userID, err := m.authenticate(session)
	if err != nil {
		return err
	}
	post, ok := m.posts[id]
	if !ok {
		return blog.NewError(blog.KindNotFound, "post not found")
	}
	if post.AuthorID != userID {
		return blog.NewError(blog.KindUnauthorized, "you do not have permission to delete this post")
	}

	delete(m.posts, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// RevokeToken invalidates an issued access token, simulating expiry.
func (m *Memory) RevokeToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

// issueSession mints a token pair for a user. Caller holds the lock.
func (m *Memory) issueSession(username string, userID int64) *model.Session {
	m.nextToken++
	access := fmt.Sprintf("access-%d", m.nextToken)
	refresh := fmt.Sprintf("refresh-%d", m.nextToken)
	m.tokens[access] = userID
	return &model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         model.User{ID: userID, Username: username},
	}
}

// authenticate resolves a session's access token. Caller holds the lock.
func (m *Memory) authenticate(session *model.Session) (string, int64, error) {
	if session == nil {
		return "", 0, blog.NewError(blog.KindUnauthorized, "authentication required")
	}
	userID, ok := m.tokens[session.AccessToken]
	if !ok {
		return "", 0, blog.NewError(blog.KindUnauthorized, "token is invalid or expired")
	}
	for username, account := range m.users {
		if account.id == userID {
			return username, userID, nil
		}
	}
	return "", 0, blog.NewError(blog.KindUnauthorized, "token is invalid or expired")
}

// Compile-time check that Memory implements blog.API
var _ blog.API = (*Memory)(nil)
