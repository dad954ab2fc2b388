package service

import (
	"context"
	"errors"
	"strings"

	dom "Pulse/internal/domain"
	"Pulse/internal/repo"
	"Pulse/internal/utils"
	"Pulse/internal/workflow"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 3-20 characters")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
)

// UserService handles user auth logic and drives the registration workflow.
type UserService struct {
	repo   repo.UserRepo
	posts  repo.PostRepo
	engine *workflow.Engine
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, posts repo.PostRepo, engine *workflow.Engine) *UserService {
	return &UserService{repo: r, posts: posts, engine: engine}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register validates the credentials' shape and runs the registration
// workflow. The existence pre-check is advisory only; the UNIQUE constraint
// on users.username is the authority, and a conflicting concurrent insert
// comes back as ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, username, password string) (workflow.Result, error) {
	username = strings.TrimSpace(username)
	if n := len(username); n < 3 || n > 20 {
		return workflow.Result{}, ErrInvalidUsername
	}
	if len(password) < 6 {
		return workflow.Result{}, ErrInvalidPassword
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return workflow.Result{}, ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return workflow.Result{}, err
	}

	res, err := s.engine.Register(ctx, username, password)
	if err != nil {
		var wfErr *workflow.Error
		if errors.As(err, &wfErr) && wfErr.Step == workflow.StepCreateAccount && utils.IsPGUniqueViolation(wfErr.Err) {
			return workflow.Result{}, ErrUsernameTaken
		}
		return workflow.Result{}, err
	}
	return res, nil
}

// Profile returns the user with all their posts.
func (s *UserService) Profile(ctx context.Context, userID int64) (dom.User, []dom.Post, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, nil, ErrNotFound
		}
		return dom.User{}, nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return dom.User{}, nil, err
	}
	return u, posts, nil
}
