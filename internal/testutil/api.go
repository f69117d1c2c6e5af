package testutil

import (
	"context"
	"sync"

	"blogctl/internal/blog"
	"blogctl/internal/model"
)

// FakeAPI is a scripted implementation of blog.API for controller tests.
// Every method records its call so tests can assert that an operation did
// (or did not) reach the network. Default behavior serves the Posts slice
// and the scripted session; individual methods can be overridden with the
// corresponding Func field or forced to fail with the Err fields.
// Safe for concurrent use.
type FakeAPI struct {
	mu    sync.Mutex
	calls []string

	Posts   []model.Post
	Session *model.Session // returned by Login and Signup
	User    *model.User    // returned by CurrentUser; defaults to Session.User

	ListErr    error
	LoginErr   error
	SignupErr  error
	CreateErr  error
	DeleteErr  error
	CurrentErr error

	// ListPostsFunc, when set, replaces the default ListPosts behavior.
	// Used by tests that need to control response ordering.
	ListPostsFunc func(ctx context.Context) ([]model.Post, error)

	// CreatePostFunc, when set, replaces the default CreatePost behavior.
	// Used by tests that need a call to block mid-flight.
	CreatePostFunc func(ctx context.Context, input model.PostInput, session *model.Session) (*model.Post, error)

	// Created collects inputs passed to CreatePost.
	Created []model.PostInput
	// Deleted collects ids passed to DeletePost.
	Deleted []int64
}

// NewFakeAPI creates a FakeAPI serving the given posts.
func NewFakeAPI(posts ...model.Post) *FakeAPI {
	return &FakeAPI{Posts: posts}
}

// Calls returns the method names invoked so far, in order.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// CallCount returns how many times the named method was invoked.
func (f *FakeAPI) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *FakeAPI) ListPosts(ctx context.Context) ([]model.Post, error) {
	f.record("ListPosts")
	if f.ListPostsFunc != nil {
		return f.ListPostsFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]model.Post{}, f.Posts...), nil
}

func (f *FakeAPI) GetPost(_ context.Context, id int64) (*model.Post, error) {
	f.record("GetPost")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Posts {
		if f.Posts[i].ID == id {
			post := f.Posts[i]
			return &post, nil
		}
	}
	return nil, blog.NewError(blog.KindNotFound, "post not found")
}

func (f *FakeAPI) Login(_ context.Context, _ model.Credentials) (*model.Session, error) {
	f.record("Login")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.Session, nil
}

func (f *FakeAPI) Signup(_ context.Context, _ model.Credentials) (*model.Session, error) {
	f.record("Signup")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SignupErr != nil {
		return nil, f.SignupErr
	}
	return f.Session, nil
}

func (f *FakeAPI) CurrentUser(_ context.Context, _ *model.Session) (*model.User, error) {
	f.record("CurrentUser")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CurrentErr != nil {
		return nil, f.CurrentErr
	}
	if f.User != nil {
		return f.User, nil
	}
	if f.Session != nil {
		user := f.Session.User
		return &user, nil
	}
	return nil, blog.NewError(blog.KindUnauthorized, "authentication required")
}

func (f *FakeAPI) CreatePost(ctx context.Context, input model.PostInput, session *model.Session) (*model.Post, error) {
	f.record("CreatePost")
	if f.CreatePostFunc != nil {
		return f.CreatePostFunc(ctx, input, session)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.Created = append(f.Created, input)
	post := model.Post{
		ID:       int64(1000 + len(f.Created)),
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: session.User.ID,
	}
	f.Posts = append(f.Posts, post)
	return &post, nil
}

func (f *FakeAPI) DeletePost(_ context.Context, id int64, _ *model.Session) error {
	f.record("DeletePost")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, id)
	for i := range f.Posts {
		if f.Posts[i].ID == id {
			f.Posts = append(f.Posts[:i], f.Posts[i+1:]...)
			break
		}
	}
	return nil
}

// Compile-time check that FakeAPI implements blog.API
var _ blog.API = (*FakeAPI)(nil)
