package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"blogctl/internal/model"

	"github.com/go-playground/validator/v10"
)

// Controller is the session and content-mutation state machine. It owns
// the in-memory session, the post cache, the navigational view state, and
// the form buffers; the presentation layer renders its snapshots and calls
// its intent methods.
//
// All snapshot accessors and all intent methods are safe for concurrent
// use. Network calls run outside the controller lock, so the presentation
// may read state while a call is in flight. Re-entrant invocations of the
// same action category return ErrBusy.
type Controller struct {
	api      API
	store    SessionStore
	logger   Logger
	idgen    IDGenerator
	validate *validator.Validate
	flights  *inflight

	mu         sync.Mutex
	session    *model.Session
	cache      *PostCache
	view       ViewState
	authForm   model.Credentials
	createForm model.PostInput
	listSeq    uint64 // sequence number of the most recently issued refetch
}

// NewController creates a Controller with the provided dependencies.
func NewController(api API, store SessionStore, logger Logger, idgen IDGenerator) *Controller {
	return &Controller{
		api:      api,
		store:    store,
		logger:   logger,
		idgen:    idgen,
		validate: validator.New(),
		flights:  newInflight(),
		cache:    NewPostCache(),
	}
}

// Start restores the persisted session (no network round trip) and then
// performs the initial post fetch. A fetch failure leaves the cache empty
// and is returned for reporting, but the controller is usable regardless.
func (c *Controller) Start(ctx context.Context) error {
	c.RestoreSession()
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("initial post fetch failed", "error", err)
		return err
	}
	return nil
}

// RestoreSession loads the persisted session into memory, if one exists.
// Corrupt or absent persisted data leaves the controller anonymous.
func (c *Controller) RestoreSession() {
	session, err := c.store.Load()
	if err != nil {
		// The store contract says this should not happen; stay anonymous.
		c.logger.Warn("loading persisted session", "error", err)
		return
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if session != nil {
		c.logger.Info("session restored", "user", session.User.Username)
	}
}

// Refresh refetches the post collection and replaces the cache wholesale.
// Responses to superseded refetches are discarded: a stale list can never
// overwrite the result of a refetch issued later.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	c.mu.Unlock()

	reqID := c.idgen.New()
	c.logger.Debug("fetching posts", "req", reqID, "seq", seq)

	posts, err := c.api.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("fetching posts: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.listSeq {
		c.logger.Debug("discarding stale post list", "req", reqID, "seq", seq, "latest", c.listSeq)
		return nil
	}
	if err := c.cache.ReplaceAll(posts); err != nil {
		return fmt.Errorf("replacing post cache: %w", err)
	}
	// If the refetch dropped the post the detail view was showing,
	// navigation falls back to the list.
	if c.view.View == ViewDetail && c.cache.Selected() == nil {
		c.view.View = ViewList
		c.view.SelectedID = 0
	}
	c.logger.Debug("post cache replaced", "req", reqID, "count", len(posts))
	return nil
}

// OpenAuthModal opens the login or signup modal. Any previous transient
// error is cleared; the form buffer is kept so a reopened modal retains
// what the user typed.
func (c *Controller) OpenAuthModal(mode AuthMode) error {
	if mode != AuthLogin && mode != AuthSignup {
		return fmt.Errorf("invalid auth modal mode: %v", mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.AuthModal = mode
	c.view.ErrorMessage = ""
	return nil
}

// CloseAuthModal closes the auth modal and discards the form buffer.
func (c *Controller) CloseAuthModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.AuthModal = AuthNone
	c.view.ErrorMessage = ""
	c.authForm = model.Credentials{}
}

// SetAuthForm writes the auth form buffer.
func (c *Controller) SetAuthForm(creds model.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authForm = creds
}

// SubmitAuth submits the auth form for whichever modal is open. On success
// the session is persisted, the modal closes, and the buffer is cleared.
// On failure the modal stays open and the buffer is kept so the user can
// retry; the error message is surfaced on the view state.
//
// A rejected login never touches an existing session: by construction
// there is none while the auth modal is in use.
func (c *Controller) SubmitAuth(ctx context.Context) error {
	c.mu.Lock()
	mode := c.view.AuthModal
	creds := c.authForm
	c.mu.Unlock()

	if mode == AuthNone {
		return c.fail(NewError(KindValidation, "no login or signup form is open"))
	}
	if err := c.validate.Struct(creds); err != nil {
		return c.fail(WrapError(KindValidation, "username and password are required", err))
	}

	if !c.flights.begin(slotLogin) {
		return ErrBusy
	}
	defer c.flights.end(slotLogin)

	var (
		session *model.Session
		err     error
	)
	switch mode {
	case AuthLogin:
		session, err = c.api.Login(ctx, creds)
	case AuthSignup:
		session, err = c.api.Signup(ctx, creds)
	}
	if err != nil {
		return c.fail(err)
	}

	if err := c.store.Save(session); err != nil {
		return c.fail(fmt.Errorf("persisting session: %w", err))
	}

	c.mu.Lock()
	c.session = session
	c.view.AuthModal = AuthNone
	c.view.ErrorMessage = ""
	c.authForm = model.Credentials{}
	c.mu.Unlock()

	c.logger.Info("authenticated", "user", session.User.Username, "mode", mode.String())
	return nil
}

// OpenCreateModal opens the create-post modal. Requires a session; the
// check never reaches the network.
func (c *Controller) OpenCreateModal() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		err := NewError(KindUnauthorized, "please log in to create a post")
		c.view.ErrorMessage = err.Message
		return err
	}
	c.view.CreateModalOpen = true
	c.view.ErrorMessage = ""
	return nil
}

// CloseCreateModal closes the create modal and discards the form buffer.
func (c *Controller) CloseCreateModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.CreateModalOpen = false
	c.view.ErrorMessage = ""
	c.createForm = model.PostInput{}
}

// SetCreateForm writes the create form buffer.
func (c *Controller) SetCreateForm(input model.PostInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createForm = input
}

// SubmitCreate submits the create form. Without a session it fails locally
// with KindUnauthorized before any network call. On success the modal
// closes, the buffer clears, and the collection is refetched so the cache
// resynchronizes with server-assigned fields; the response post is never
// inserted locally. On failure the modal stays open with the error surfaced.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	input := c.createForm
	open := c.view.CreateModalOpen
	c.mu.Unlock()

	if !open {
		return c.fail(NewError(KindValidation, "no create form is open"))
	}
	if session == nil {
		return c.fail(NewError(KindUnauthorized, "please log in to create a post"))
	}
	if err := c.validate.Struct(input); err != nil {
		return c.fail(WrapError(KindValidation, "title and content are required", err))
	}

	if !c.flights.begin(slotCreate) {
		return ErrBusy
	}
	defer c.flights.end(slotCreate)

	post, err := c.api.CreatePost(ctx, input, session)
	if err != nil {
		return c.fail(c.expireSession(err))
	}
	c.logger.Info("post created", "id", post.ID, "title", post.Title)

	c.mu.Lock()
	c.view.CreateModalOpen = false
	c.view.ErrorMessage = ""
	c.createForm = model.PostInput{}
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		// The post exists server-side; only the resync failed.
		return c.fail(err)
	}
	return nil
}

// DeletePost deletes a post after an explicit confirmation. The controller
// re-checks ownership even when the presentation already hid the control:
// this is the authorization boundary the rest of the system relies on.
// A nil or declining confirm aborts with no network call and no state
// change. On success the collection is refetched; if the deleted post was
// selected, the selection clears and navigation returns to the list.
func (c *Controller) DeletePost(ctx context.Context, id int64, confirm func() bool) error {
	c.mu.Lock()
	session := c.session
	post := c.cache.Get(id)
	c.mu.Unlock()

	if session == nil {
		return c.fail(NewError(KindUnauthorized, "please log in to delete posts"))
	}
	if post == nil {
		return c.fail(NewError(KindNotFound, fmt.Sprintf("post %d not found", id)))
	}
	if post.AuthorID != session.User.ID {
		return c.fail(NewError(KindUnauthorized, "you can only delete your own posts"))
	}
	if confirm == nil || !confirm() {
		c.logger.Debug("delete not confirmed", "id", id)
		return nil
	}

	slot := slotDelete(id)
	if !c.flights.begin(slot) {
		return ErrBusy
	}
	defer c.flights.end(slot)

	if err := c.api.DeletePost(ctx, id, session); err != nil {
		return c.fail(c.expireSession(err))
	}
	c.logger.Info("post deleted", "id", id)

	return c.Refresh(ctx)
}

// SelectPost switches to the detail view for a cached post.
func (c *Controller) SelectPost(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cache.Select(id); err != nil {
		c.view.ErrorMessage = errMessage(err)
		return err
	}
	c.view.View = ViewDetail
	c.view.SelectedID = id
	c.view.ErrorMessage = ""
	return nil
}

// ClearSelection drops the selection and returns to the list view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.ClearSelection()
	c.view.View = ViewList
	c.view.SelectedID = 0
}

// ShowPost returns the post with the given ID for detail rendering,
// selecting it when cached. A cache miss falls back to fetching the single
// post from the server (a detail view may be reached before any list
// fetch) and then refetches the collection so the cache catches up; the
// fetched post is never inserted into the cache directly.
func (c *Controller) ShowPost(ctx context.Context, id int64) (*model.Post, error) {
	if err := c.SelectPost(id); err == nil {
		return c.Selected(), nil
	}

	post, err := c.api.GetPost(ctx, id)
	if err != nil {
		return nil, c.fail(err)
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("post cache resync failed", "error", err)
	}
	if err := c.SelectPost(id); err == nil {
		return c.Selected(), nil
	}
	return post, nil
}

// Logout clears the session unconditionally, both persisted and in memory.
// The post collection stays: the list remains visible to anonymous visitors.
func (c *Controller) Logout() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clearing persisted session: %w", err)
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.logger.Info("logged out")
	return nil
}

// VerifySession asks the server which identity it associates with the
// current session. Returns KindUnauthorized (and expires the local
// session) when the server no longer accepts the credential.
func (c *Controller) VerifySession(ctx context.Context) (*model.User, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, NewError(KindUnauthorized, "not logged in")
	}
	user, err := c.api.CurrentUser(ctx, session)
	if err != nil {
		return nil, c.expireSession(err)
	}
	return user, nil
}

// CurrentUser returns the authenticated user, or nil when anonymous.
func (c *Controller) CurrentUser() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	user := c.session.User
	return &user
}

// Session returns a copy of the current session, or nil when anonymous.
// Read-only: replacing or clearing the session goes through the intent
// methods.
func (c *Controller) Session() *model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	session := *c.session
	return &session
}

// Posts returns the cached collection in original fetch order.
func (c *Controller) Posts() []model.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.All()
}

// Selected returns a copy of the selected post, or nil.
func (c *Controller) Selected() *model.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	selected := c.cache.Selected()
	if selected == nil {
		return nil
	}
	post := *selected
	return &post
}

// LastError returns the message of the most recent surfaced failure, or ""
// when the last intent succeeded or cleared it.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.ErrorMessage
}

// ViewState returns the current navigational state snapshot.
func (c *Controller) ViewState() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// expireSession handles an authentication rejection on a protected call:
// the session is invalid, so it is cleared (persisted and in memory) and
// the caller gets an error telling the user to log in again. Errors of
// any other kind pass through untouched.
func (c *Controller) expireSession(err error) error {
	if KindOf(err) != KindUnauthorized {
		return err
	}
	if clearErr := c.store.Clear(); clearErr != nil {
		c.logger.Warn("clearing rejected session", "error", clearErr)
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.logger.Info("session rejected by server")
	return WrapError(KindUnauthorized, "please log in again", err)
}

// fail records err as the view's transient error message and returns it.
func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.view.ErrorMessage = errMessage(err)
	c.mu.Unlock()
	return err
}

func errMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
