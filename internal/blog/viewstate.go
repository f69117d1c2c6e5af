package blog

// View identifies which primary view is active. At most one of List and
// Detail is active at a time; modals overlay either.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// AuthMode identifies which variant of the auth modal is open, if any.
type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthLogin
	AuthSignup
)

func (m AuthMode) String() string {
	switch m {
	case AuthLogin:
		return "login"
	case AuthSignup:
		return "signup"
	default:
		return "none"
	}
}

// ViewState is the navigational state the controller exposes to the
// presentation layer. It is handed out by value; the presentation renders
// it and never mutates controller state through it.
type ViewState struct {
	View            View
	SelectedID      int64 // 0 when no post is selected
	AuthModal       AuthMode
	CreateModalOpen bool
	ErrorMessage    string // transient message for the active modal or view
}
