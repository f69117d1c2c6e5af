package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"blogctl/internal/app"
	"blogctl/internal/blog"
	"blogctl/internal/config"
	"blogctl/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Login", "ListPosts").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'blogctl config init' first): %w", err)
	}

	a, err := app.New(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Command line client for the blog API",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")

		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Create config with defaults
		cfg := config.NewConfig(apiURL, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("API URL:  %s\n", cfg.API.BaseURL)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("API URL:      %s\n", cfg.API.BaseURL)
		fmt.Printf("Base Dir:     %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Session File: %s\n", cfg.Session.Path)
		return nil
	},
}

// login / signup commands
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the blog",
	RunE:  func(cmd *cobra.Command, args []string) error { return runAuth(cmd, blog.AuthLogin) },
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  func(cmd *cobra.Command, args []string) error { return runAuth(cmd, blog.AuthSignup) },
}

func runAuth(cmd *cobra.Command, mode blog.AuthMode) error {
	operation := "Login"
	if mode == blog.AuthSignup {
		operation = "Signup"
	}

	a, err := newApp(operation)
	if err != nil {
		return err
	}
	defer a.Close()

	creds, err := promptCredentials()
	if err != nil {
		return err
	}

	ctrl := a.Controller
	if err := ctrl.OpenAuthModal(mode); err != nil {
		return err
	}
	ctrl.SetAuthForm(creds)

	if err := ctrl.SubmitAuth(cmd.Context()); err != nil {
		return uiError(ctrl, err)
	}

	user := ctrl.CurrentUser()
	fmt.Printf("Logged in as %s\n", user.Username)
	return nil
}

// promptCredentials reads the username from stdin and the password without
// echo from the terminal.
func promptCredentials() (model.Credentials, error) {
	fmt.Print("Username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading username: %w", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading password: %w", err)
	}

	return model.Credentials{
		Username: strings.TrimSpace(username),
		Password: string(password),
	}, nil
}

// logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Controller.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Whoami")
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.Controller
		ctrl.RestoreSession()

		session := ctrl.Session()
		if session == nil {
			fmt.Println("Not logged in.")
			return nil
		}

		fmt.Printf("Logged in as %s (id %d)\n", session.User.Username, session.User.ID)
		if expiry, ok := tokenExpiry(session.AccessToken); ok {
			fmt.Printf("Access token expires %s\n", expiry.Format("2006-01-02 15:04:05 MST"))
		}

		user, err := ctrl.VerifySession(cmd.Context())
		if err != nil {
			if blog.KindOf(err) == blog.KindNetwork {
				fmt.Println("Server check skipped: cannot reach the server.")
				return nil
			}
			return err
		}
		fmt.Printf("Server confirms: %s\n", user.Username)
		return nil
	},
}

// tokenExpiry decodes the access token's expiry claim. Display only: the
// signature is not verified, and no auth decision is made here.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListPosts")
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.Controller
		if err := ctrl.Start(cmd.Context()); err != nil {
			return err
		}

		posts := ctrl.Posts()
		if len(posts) == 0 {
			fmt.Println("No posts available yet.")
			return nil
		}

		current := ctrl.CurrentUser()
		for _, p := range posts {
			marker := " "
			if current != nil && current.ID == p.AuthorID {
				marker = "*"
			}
			fmt.Printf("%s #%-5d %-40s by %-15s %s\n",
				marker, p.ID, truncate(p.Title, 40), p.AuthorName,
				p.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("ShowPost")
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.Controller
		if err := ctrl.Start(cmd.Context()); err != nil {
			return err
		}

		post, err := ctrl.ShowPost(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", post.Title)
		fmt.Printf("by %s on %s\n\n", post.AuthorName, post.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Println(post.Content)
		return nil
	},
}

// create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")

		a, err := newApp("CreatePost")
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.Controller
		ctrl.RestoreSession()

		if err := ctrl.OpenCreateModal(); err != nil {
			return uiError(ctrl, err)
		}

		reader := bufio.NewReader(os.Stdin)
		if title == "" {
			fmt.Print("Title: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading title: %w", err)
			}
			title = strings.TrimSpace(line)
		}
		if content == "" {
			fmt.Println("Content (end with a blank line):")
			content, err = readUntilBlankLine(reader)
			if err != nil {
				return fmt.Errorf("reading content: %w", err)
			}
		}

		ctrl.SetCreateForm(model.PostInput{Title: title, Content: content})
		if err := ctrl.SubmitCreate(cmd.Context()); err != nil {
			return uiError(ctrl, err)
		}

		fmt.Println("Post created.")
		return nil
	},
}

// readUntilBlankLine collects stdin lines until an empty line or EOF.
func readUntilBlankLine(reader *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\n")
		if trimmed == "" || err != nil {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, trimmed)
	}
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipConfirm, _ := cmd.Flags().GetBool("yes")

		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeletePost")
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := a.Controller
		if err := ctrl.Start(cmd.Context()); err != nil {
			return err
		}

		confirmed := false
		confirm := func() bool {
			if skipConfirm {
				confirmed = true
				return true
			}
			fmt.Printf("Delete post #%d? [y/N] ", id)
			reader := bufio.NewReader(os.Stdin)
			answer, err := reader.ReadString('\n')
			if err != nil {
				return false
			}
			answer = strings.ToLower(strings.TrimSpace(answer))
			confirmed = answer == "y" || answer == "yes"
			return confirmed
		}

		if err := ctrl.DeletePost(cmd.Context(), id, confirm); err != nil {
			return uiError(ctrl, err)
		}

		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
		fmt.Println("Post deleted.")
		return nil
	},
}

// uiError prefers the controller's user-facing message over the raw error.
func uiError(ctrl *blog.Controller, err error) error {
	if msg := ctrl.LastError(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}

func parsePostID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id: %s", arg)
	}
	return id, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("api-url", "http://127.0.0.1:8000/api", "Remote API base URL")
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("title", "", "Post title")
	createCmd.Flags().String("content", "", "Post content")
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
