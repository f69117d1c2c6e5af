package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogctl/internal/blog"
	"blogctl/internal/model"
)

// Client is the HTTP implementation of blog.API. It is a stateless
// request/response wrapper: it attaches the supplied session's access
// token as a bearer credential and translates non-2xx responses into
// classified *blog.Error values at this boundary, so nothing deeper in
// the client ever branches on status codes or response shapes.
type Client struct {
	baseURL string
	http    *http.Client
	logger  blog.Logger
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger blog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Wire shapes, as the server serializes them.

type wireUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type wirePost struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     int64     `json:"author"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p wirePost) toModel() model.Post {
	return model.Post{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.Author,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type wireAuthResponse struct {
	Message string   `json:"message"`
	User    wireUser `json:"user"`
	Tokens  struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
}

func (a wireAuthResponse) toSession() *model.Session {
	return &model.Session{
		AccessToken:  a.Tokens.Access,
		RefreshToken: a.Tokens.Refresh,
		User:         model.User{ID: a.User.ID, Username: a.User.Username},
	}
}

// ListPosts returns the post collection in server order. The server may
// respond with either a bare array or a {results: [...]} envelope; both
// are normalized here and only here.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/posts/", nil, nil, &raw); err != nil {
		return nil, err
	}
	return normalizePostList(raw)
}

// GetPost returns a single post by ID.
func (c *Client) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var wp wirePost
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/", id), nil, nil, &wp); err != nil {
		return nil, err
	}
	post := wp.toModel()
	return &post, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	return c.auth(ctx, "/auth/login/", creds)
}

// Signup registers a new account and returns its session.
func (c *Client) Signup(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	return c.auth(ctx, "/auth/signup/", creds)
}

func (c *Client) auth(ctx context.Context, path string, creds model.Credentials) (*model.Session, error) {
	body := map[string]string{"username": creds.Username, "password": creds.Password}
	var resp wireAuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

// CurrentUser returns the identity the server associates with the session.
func (c *Client) CurrentUser(ctx context.Context, session *model.Session) (*model.User, error) {
	var wu wireUser
	if err := c.do(ctx, http.MethodGet, "/auth/current-user/", nil, session, &wu); err != nil {
		return nil, err
	}
	return &model.User{ID: wu.ID, Username: wu.Username}, nil
}

// CreatePost creates a post owned by the session's user.
func (c *Client) CreatePost(ctx context.Context, input model.PostInput, session *model.Session) (*model.Post, error) {
	body := map[string]string{"title": input.Title, "content": input.Content}
	var wp wirePost
	if err := c.do(ctx, http.MethodPost, "/posts/", body, session, &wp); err != nil {
		return nil, err
	}
	post := wp.toModel()
	return &post, nil
}

// DeletePost deletes a post by ID.
func (c *Client) DeletePost(ctx context.Context, id int64, session *model.Session) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/", id), nil, session, nil)
}

// do performs one request. body (when non-nil) is JSON-encoded; session
// (when non-nil) supplies the bearer credential; out (when non-nil)
// receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, body any, session *model.Session, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return blog.WrapError(blog.KindNetwork, "cannot reach the server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := translate(resp)
		c.logger.Debug("request rejected", "method", method, "path", path,
			"status", resp.StatusCode, "kind", apiErr.Kind.String())
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return blog.WrapError(blog.KindUnknown, "unexpected response from the server", err)
		}
	}
	return nil
}

// translate maps a non-2xx response to a classified error, extracting the
// server's message from either of its error body shapes.
func translate(resp *http.Response) *blog.Error {
	var kind blog.Kind
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = blog.KindUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		kind = blog.KindNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = blog.KindValidation
	default:
		kind = blog.KindUnknown
	}

	message := resp.Status
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		// Auth endpoints use {"error": ...}; post endpoints use {"detail": ...}.
		var body struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Error != "" {
				message = body.Error
			} else if body.Detail != "" {
				message = body.Detail
			}
		}
	}

	return blog.NewError(kind, message)
}

// normalizePostList accepts either a bare JSON array of posts or a
// {results: [...]} envelope and produces the one canonical sequence.
func normalizePostList(raw json.RawMessage) ([]model.Post, error) {
	var wire []wirePost
	if err := json.Unmarshal(raw, &wire); err != nil {
		var envelope struct {
			Results []wirePost `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, blog.WrapError(blog.KindUnknown, "unexpected post list shape", err)
		}
		wire = envelope.Results
	}

	posts := make([]model.Post, 0, len(wire))
	for _, wp := range wire {
		posts = append(posts, wp.toModel())
	}
	return posts, nil
}

// Compile-time check that Client implements blog.API
var _ blog.API = (*Client)(nil)
