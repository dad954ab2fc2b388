// Package workflow runs the multi-step registration pipeline: hash the
// password, create the account, create the welcome post, then attempt a
// welcome notification. The first three steps are fatal on failure and
// short-circuit the pipeline; the notification step is best-effort and its
// failure is captured into the result instead of failing the registration.
package workflow

import (
	"context"
	"fmt"
	"log"

	dom "Pulse/internal/domain"
	"Pulse/internal/notify"
)

// Step identifies a pipeline step in failure results and logs.
type Step string

const (
	StepHashPassword      Step = "hash_password"
	StepCreateAccount     Step = "create_account"
	StepCreateWelcomePost Step = "create_welcome_post"
	StepNotify            Step = "notify"
)

// Stable error kinds, safe to show to callers.
const (
	KindPasswordProcessing = "password_processing_error"
	KindAccountCreation    = "account_creation_error"
	KindWelcomePost        = "welcome_post_error"
)

// Error is a fatal step failure. Kind is a stable identifier for callers;
// Err holds the collaborator's error and is never sent to the client.
type Error struct {
	Step Step
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("registration %s failed at %s: %v", e.Kind, e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the success envelope: the new account, its welcome post, and
// the notification outcome (which may record a non-fatal failure).
type Result struct {
	User         dom.User
	WelcomePost  dom.Post
	Notification dom.NotificationResult
}

// UserCreator persists a new account.
type UserCreator interface {
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
}

// PostCreator persists a new post.
type PostCreator interface {
	Create(ctx context.Context, p dom.Post) (dom.Post, error)
}

const (
	welcomeTitleFmt   = "Welcome %s!"
	welcomeContentFmt = "Welcome to our platform, %s! We're excited to have you here."
)

// Engine sequences the registration steps against its collaborators.
type Engine struct {
	hasher   PasswordHasher
	users    UserCreator
	posts    PostCreator
	notifier notify.Notifier
}

// NewEngine returns a registration Engine.
func NewEngine(hasher PasswordHasher, users UserCreator, posts PostCreator, notifier notify.Notifier) *Engine {
	return &Engine{hasher: hasher, users: users, posts: posts, notifier: notifier}
}

type step struct {
	name  Step
	kind  string
	fatal bool
	run   func(ctx context.Context) error
}

// Register runs the pipeline for a pre-validated username/password pair.
// Steps run strictly in order and each completes before the next starts.
// There is no compensation: if the welcome post fails, the account row
// stays committed and the caller gets the welcome_post_error.
func (e *Engine) Register(ctx context.Context, username, password string) (Result, error) {
	var res Result
	var passwordHash string

	steps := []step{
		{name: StepHashPassword, kind: KindPasswordProcessing, fatal: true, run: func(ctx context.Context) error {
			h, err := e.hasher.Hash(password)
			passwordHash = h
			return err
		}},
		{name: StepCreateAccount, kind: KindAccountCreation, fatal: true, run: func(ctx context.Context) error {
			u, err := e.users.Create(ctx, username, passwordHash)
			res.User = u
			return err
		}},
		{name: StepCreateWelcomePost, kind: KindWelcomePost, fatal: true, run: func(ctx context.Context) error {
			p, err := e.posts.Create(ctx, dom.Post{
				Title:    fmt.Sprintf(welcomeTitleFmt, username),
				Content:  fmt.Sprintf(welcomeContentFmt, username),
				AuthorID: res.User.ID,
			})
			res.WelcomePost = p
			return err
		}},
		{name: StepNotify, fatal: false, run: func(ctx context.Context) error {
			n, err := e.notifier.Notify(ctx, username, res.User.ID)
			if err == nil {
				res.Notification = n
			}
			return err
		}},
	}

	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			log.Printf("registration: step %s failed: %v", st.name, err)
			if st.fatal {
				return Result{}, &Error{Step: st.name, Kind: st.kind, Err: err}
			}
			res.Notification = dom.NotificationResult{Sent: false, Error: err.Error()}
		}
	}
	return res, nil
}
