package api

import (
	"context"
	"testing"

	"blogctl/internal/blog"
	"blogctl/internal/model"
	"blogctl/internal/testutil"
)

func TestMemory_AccountLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("signup then login", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())

		signup, err := m.Signup(ctx, model.Credentials{Username: "alice", Password: "secret"})
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if signup.User.Username != "alice" || signup.AccessToken == "" {
			t.Errorf("signup session = %+v", signup)
		}

		login, err := m.Login(ctx, model.Credentials{Username: "alice", Password: "secret"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if login.User.ID != signup.User.ID {
			t.Errorf("login user id = %d, want %d", login.User.ID, signup.User.ID)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		if _, err := m.Signup(ctx, model.Credentials{Username: "alice", Password: "a"}); err != nil {
			t.Fatalf("first Signup() error = %v", err)
		}
		_, err := m.Signup(ctx, model.Credentials{Username: "alice", Password: "b"})
		if blog.KindOf(err) != blog.KindValidation {
			t.Errorf("KindOf(err) = %v, want KindValidation", blog.KindOf(err))
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		m.Signup(ctx, model.Credentials{Username: "alice", Password: "secret"})

		_, err := m.Login(ctx, model.Credentials{Username: "alice", Password: "nope"})
		if blog.KindOf(err) != blog.KindUnauthorized {
			t.Errorf("KindOf(err) = %v, want KindUnauthorized", blog.KindOf(err))
		}
	})
}

func TestMemory_Posts(t *testing.T) {
	ctx := context.Background()

	t.Run("create appears newest first", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		session, _ := m.Signup(ctx, model.Credentials{Username: "alice", Password: "secret"})

		first, err := m.CreatePost(ctx, model.PostInput{Title: "first", Content: "a"}, session)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		second, err := m.CreatePost(ctx, model.PostInput{Title: "second", Content: "b"}, session)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}

		posts, err := m.ListPosts(ctx)
		if err != nil {
			t.Fatalf("ListPosts() error = %v", err)
		}
		if len(posts) != 2 || posts[0].ID != second.ID || posts[1].ID != first.ID {
			t.Errorf("posts = %+v, want newest first", posts)
		}
	})

	t.Run("create requires a valid token", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		stale := &model.Session{AccessToken: "access-999", User: model.User{ID: 1, Username: "alice"}}

		_, err := m.CreatePost(ctx, model.PostInput{Title: "t", Content: "c"}, stale)
		if blog.KindOf(err) != blog.KindUnauthorized {
			t.Errorf("KindOf(err) = %v, want KindUnauthorized", blog.KindOf(err))
		}
	})

	t.Run("only the author may delete", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		alice, _ := m.Signup(ctx, model.Credentials{Username: "alice", Password: "a"})
		bob, _ := m.Signup(ctx, model.Credentials{Username: "bob", Password: "b"})
		post, _ := m.CreatePost(ctx, model.PostInput{Title: "t", Content: "c"}, alice)

		err := m.DeletePost(ctx, post.ID, bob)
		if blog.KindOf(err) != blog.KindUnauthorized {
			t.Fatalf("KindOf(err) = %v, want KindUnauthorized", blog.KindOf(err))
		}

		if err := m.DeletePost(ctx, post.ID, alice); err != nil {
			t.Fatalf("author DeletePost() error = %v", err)
		}
		posts, _ := m.ListPosts(ctx)
		if len(posts) != 0 {
			t.Errorf("len(posts) = %d after delete, want 0", len(posts))
		}
	})

	t.Run("get post by id", func(t *testing.T) {
		m := NewMemory(testutil.FixedClock())
		session, _ := m.Signup(ctx, model.Credentials{Username: "alice", Password: "a"})
		created, _ := m.CreatePost(ctx, model.PostInput{Title: "t", Content: "c"}, session)

		got, err := m.GetPost(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetPost() error = %v", err)
		}
		if got.Title != "t" || got.AuthorName != "alice" {
			t.Errorf("post = %+v", got)
		}

		_, err = m.GetPost(ctx, 999)
		if blog.KindOf(err) != blog.KindNotFound {
			t.Errorf("KindOf(err) = %v, want KindNotFound", blog.KindOf(err))
		}
	})
}

func TestMemory_RevokeToken(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testutil.FixedClock())
	session, _ := m.Signup(ctx, model.Credentials{Username: "alice", Password: "a"})

	if _, err := m.CurrentUser(ctx, session); err != nil {
		t.Fatalf("CurrentUser() before revoke error = %v", err)
	}

	m.RevokeToken(session.AccessToken)

	_, err := m.CurrentUser(ctx, session)
	if blog.KindOf(err) != blog.KindUnauthorized {
		t.Errorf("KindOf(err) = %v, want KindUnauthorized after revoke", blog.KindOf(err))
	}
}
